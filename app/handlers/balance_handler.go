package handlers

import (
	"github.com/anatolia-telecom/backoffice/app/dto"
	businessflow "github.com/anatolia-telecom/backoffice/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// BalanceHandlerInterface defines the contract for balance handlers
type BalanceHandlerInterface interface {
	ListByUser(c fiber.Ctx) error
	ListByPhone(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Decrease(c fiber.Ctx) error
	Increase(c fiber.Ctx) error
}

// BalanceHandler handles prepaid balance HTTP requests
type BalanceHandler struct {
	flow      businessflow.BalanceFlow
	validator *validator.Validate
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler(flow businessflow.BalanceFlow) *BalanceHandler {
	return &BalanceHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// List Balances By User
// @Description List every prepaid balance of a subscriber.
// @Tags Balances
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.RemainingUsesDTO} "Balances listed"
// @Router /api/v1/users/{id}/balances [get]
func (h *BalanceHandler) ListByUser(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.ListBalancesByUser(createRequestContext(c, "/api/v1/users/:id/balances"), id)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to list balances", "BALANCE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Balances listed", result)
}

// List Balances By Phone
// @Description List the prepaid balances of the subscriber with the given
// phone number.
// @Tags Balances
// @Produce json
// @Param phone path string true "Phone number"
// @Success 200 {object} dto.APIResponse{data=[]dto.RemainingUsesDTO} "Balances listed"
// @Router /api/v1/balances/phone/{phone} [get]
func (h *BalanceHandler) ListByPhone(c fiber.Ctx) error {
	phone := c.Params("phone")
	if phone == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Phone number is required", "INVALID_REQUEST", nil)
	}

	result, err := h.flow.ListBalancesByPhone(createRequestContext(c, "/api/v1/balances/phone/:phone"), phone)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to list balances", "BALANCE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Balances listed", result)
}

// Get Balance
// @Description Fetch a subscriber's balance for one service type.
// @Tags Balances
// @Produce json
// @Param id path int true "User ID"
// @Param type path string true "Service type (SMS/Email/Call)"
// @Success 200 {object} dto.APIResponse{data=dto.RemainingUsesDTO} "Balance found"
// @Failure 404 {object} dto.APIResponse "Balance not found"
// @Router /api/v1/users/{id}/balances/{type} [get]
func (h *BalanceHandler) Get(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.GetBalance(createRequestContext(c, "/api/v1/users/:id/balances/:type"), id, c.Params("type"))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsBalanceNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Balance not found", "BALANCE_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to fetch balance", "BALANCE_FETCH_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Balance found", result)
}

// Decrease Balance
// @Description Consume units from a prepaid balance. The balance never goes
// below zero; an insufficient balance is rejected.
// @Tags Balances
// @Accept json
// @Produce json
// @Param request body dto.AdjustBalanceRequest true "Adjustment data"
// @Success 200 {object} dto.APIResponse{data=dto.RemainingUsesDTO} "Balance decreased"
// @Failure 400 {object} dto.APIResponse "Insufficient balance"
// @Failure 404 {object} dto.APIResponse "Balance not found"
// @Router /api/v1/balances/decrease [post]
func (h *BalanceHandler) Decrease(c fiber.Ctx) error {
	var req dto.AdjustBalanceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if details, ok := validationDetails(h.validator, &req); !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", details)
	}

	result, err := h.flow.DecreaseBalance(createRequestContext(c, "/api/v1/balances/decrease"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsBalanceNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Balance not found", "BALANCE_NOT_FOUND", nil)
		}
		if businessflow.IsInsufficientBalance(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Insufficient balance", "INSUFFICIENT_BALANCE", nil)
		}
		if businessflow.IsInvalidAmount(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Amount must be positive", "INVALID_AMOUNT", nil)
		}
		return handleBusinessError(c, err, "Failed to decrease balance", "BALANCE_DECREASE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Balance decreased", result)
}

// Increase Balance
// @Description Add units to a prepaid balance, creating the balance row if the
// subscriber has none for that service type.
// @Tags Balances
// @Accept json
// @Produce json
// @Param request body dto.AdjustBalanceRequest true "Adjustment data"
// @Success 200 {object} dto.APIResponse{data=dto.RemainingUsesDTO} "Balance increased"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /api/v1/balances/increase [post]
func (h *BalanceHandler) Increase(c fiber.Ctx) error {
	var req dto.AdjustBalanceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if details, ok := validationDetails(h.validator, &req); !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", details)
	}

	result, err := h.flow.IncreaseBalance(createRequestContext(c, "/api/v1/balances/increase"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidAmount(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Amount must be positive", "INVALID_AMOUNT", nil)
		}
		return handleBusinessError(c, err, "Failed to increase balance", "BALANCE_INCREASE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Balance increased", result)
}

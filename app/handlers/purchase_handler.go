package handlers

import (
	"github.com/anatolia-telecom/backoffice/app/dto"
	businessflow "github.com/anatolia-telecom/backoffice/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// PurchaseHandlerInterface defines the contract for purchase handlers
type PurchaseHandlerInterface interface {
	Create(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	ListByUser(c fiber.Ctx) error
	ListByPhone(c fiber.Ctx) error
	ListByDateRange(c fiber.Ctx) error
	ListByMonth(c fiber.Ctx) error
	TotalSpent(c fiber.Ctx) error
}

// PurchaseHandler handles one-off service purchase HTTP requests
type PurchaseHandler struct {
	flow      businessflow.PurchaseFlow
	validator *validator.Validate
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(flow businessflow.PurchaseFlow) *PurchaseHandler {
	return &PurchaseHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Create Purchase
// @Description Record a one-off service purchase. The total price is derived
// from count and unit price.
// @Tags Purchases
// @Accept json
// @Produce json
// @Param request body dto.CreateServicePurchaseRequest true "Purchase data"
// @Success 201 {object} dto.APIResponse{data=dto.ServicePurchaseDTO} "Purchase recorded"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /api/v1/purchases [post]
func (h *PurchaseHandler) Create(c fiber.Ctx) error {
	var req dto.CreateServicePurchaseRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if details, ok := validationDetails(h.validator, &req); !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", details)
	}

	result, err := h.flow.CreatePurchase(createRequestContext(c, "/api/v1/purchases"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to record purchase", "CREATE_PURCHASE_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Purchase recorded", result)
}

// Get Purchase
// @Description Fetch a purchase by ID.
// @Tags Purchases
// @Produce json
// @Param id path int true "Purchase ID"
// @Success 200 {object} dto.APIResponse{data=dto.ServicePurchaseDTO} "Purchase found"
// @Failure 404 {object} dto.APIResponse "Purchase not found"
// @Router /api/v1/purchases/{id} [get]
func (h *PurchaseHandler) Get(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid purchase ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.GetPurchase(createRequestContext(c, "/api/v1/purchases/:id"), id)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "PURCHASE_NOT_FOUND" {
			return errorResponse(c, fiber.StatusNotFound, "Purchase not found", be.Code, nil)
		}
		return handleBusinessError(c, err, "Failed to fetch purchase", "PURCHASE_FETCH_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Purchase found", result)
}

// List Purchases By User
// @Description List a subscriber's purchases, newest first. Pass type to
// restrict to one service type.
// @Tags Purchases
// @Produce json
// @Param id path int true "User ID"
// @Param type query string false "Service type filter (SMS/Email/Call)"
// @Success 200 {object} dto.APIResponse{data=[]dto.ServicePurchaseDTO} "Purchases listed"
// @Router /api/v1/users/{id}/purchases [get]
func (h *PurchaseHandler) ListByUser(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", err.Error())
	}

	ctx := createRequestContext(c, "/api/v1/users/:id/purchases")

	var result []dto.ServicePurchaseDTO
	if serviceType := c.Query("type"); serviceType != "" {
		result, err = h.flow.ListPurchasesByUserAndType(ctx, id, serviceType)
	} else {
		result, err = h.flow.ListPurchasesByUser(ctx, id)
	}
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to list purchases", "PURCHASE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Purchases listed", result)
}

// List Purchases By Phone
// @Description List the purchases of the subscriber with the given phone number.
// @Tags Purchases
// @Produce json
// @Param phone path string true "Phone number"
// @Success 200 {object} dto.APIResponse{data=[]dto.ServicePurchaseDTO} "Purchases listed"
// @Router /api/v1/purchases/phone/{phone} [get]
func (h *PurchaseHandler) ListByPhone(c fiber.Ctx) error {
	phone := c.Params("phone")
	if phone == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Phone number is required", "INVALID_REQUEST", nil)
	}

	result, err := h.flow.ListPurchasesByPhone(createRequestContext(c, "/api/v1/purchases/phone/:phone"), phone)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to list purchases", "PURCHASE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Purchases listed", result)
}

// List Purchases By Date Range
// @Description List purchases made inside a date range, across all subscribers.
// @Tags Purchases
// @Produce json
// @Param start query string true "Range start (RFC 3339 or YYYY-MM-DD)"
// @Param end query string true "Range end (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]dto.ServicePurchaseDTO} "Purchases listed"
// @Router /api/v1/purchases/range [get]
func (h *PurchaseHandler) ListByDateRange(c fiber.Ctx) error {
	start, end, err := parseDateRangeQuery(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid date range", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.ListPurchasesByDateRange(createRequestContext(c, "/api/v1/purchases/range"), start, end)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Start date is after end date", "INVALID_DATE_RANGE", nil)
		}
		return handleBusinessError(c, err, "Failed to list purchases", "PURCHASE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Purchases listed", result)
}

// List Purchases By Month
// @Description List purchases made inside a calendar month.
// @Tags Purchases
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} dto.APIResponse{data=[]dto.ServicePurchaseDTO} "Purchases listed"
// @Router /api/v1/purchases/month [get]
func (h *PurchaseHandler) ListByMonth(c fiber.Ctx) error {
	year := fiber.Query(c, "year", 0)
	month := fiber.Query(c, "month", 0)

	result, err := h.flow.ListPurchasesByMonth(createRequestContext(c, "/api/v1/purchases/month"), year, month)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "INVALID_MONTH" {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid year or month", be.Code, nil)
		}
		return handleBusinessError(c, err, "Failed to list purchases", "PURCHASE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Purchases listed", result)
}

// Total Spent
// @Description Report the total amount a subscriber has spent on purchases.
// @Tags Purchases
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.TotalSpentResponse} "Total reported"
// @Router /api/v1/users/{id}/total-spent [get]
func (h *PurchaseHandler) TotalSpent(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.TotalSpent(createRequestContext(c, "/api/v1/users/:id/total-spent"), id)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to compute total", "TOTAL_SPENT_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Total reported", result)
}

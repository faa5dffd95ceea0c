package handlers

import (
	"time"

	"github.com/anatolia-telecom/backoffice/app/dto"
	businessflow "github.com/anatolia-telecom/backoffice/business_flow"
	"github.com/anatolia-telecom/backoffice/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// CustomerServiceHandlerInterface defines the contract for call center handlers
type CustomerServiceHandlerInterface interface {
	CustomerInfo(c fiber.Ctx) error
	QuickSearch(c fiber.Ctx) error
	RegisterComplaint(c fiber.Ctx) error
	LogInteraction(c fiber.Ctx) error
	InteractionHistory(c fiber.Ctx) error
	ListInteractions(c fiber.Ctx) error
}

// CustomerServiceHandler handles call center agent HTTP requests
type CustomerServiceHandler struct {
	flow      businessflow.CustomerServiceFlow
	validator *validator.Validate
}

// NewCustomerServiceHandler creates a new customer service handler
func NewCustomerServiceHandler(flow businessflow.CustomerServiceFlow) *CustomerServiceHandler {
	return &CustomerServiceHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Customer Info
// @Description Fetch the full service picture of a subscriber by phone number:
// profile, active subscription, balances and unpaid invoices.
// @Tags CustomerService
// @Produce json
// @Param phone path string true "Phone number"
// @Success 200 {object} dto.APIResponse{data=dto.CustomerInfoResponse} "Customer info"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /api/v1/customer-service/info/{phone} [get]
func (h *CustomerServiceHandler) CustomerInfo(c fiber.Ctx) error {
	phone := c.Params("phone")
	if phone == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Phone number is required", "INVALID_REQUEST", nil)
	}

	result, err := h.flow.CustomerInfoByPhone(createRequestContext(c, "/api/v1/customer-service/info/:phone"), phone)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to fetch customer info", "CUSTOMER_INFO_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Customer info", result)
}

// Quick Search
// @Description Search subscribers by name or phone fragment.
// @Tags CustomerService
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} dto.APIResponse{data=dto.QuickSearchResponse} "Search results"
// @Router /api/v1/customer-service/search [get]
func (h *CustomerServiceHandler) QuickSearch(c fiber.Ctx) error {
	term := c.Query("q")
	if term == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Search term is required", "INVALID_REQUEST", nil)
	}

	result, err := h.flow.QuickSearch(createRequestContext(c, "/api/v1/customer-service/search"), term)
	if err != nil {
		return handleBusinessError(c, err, "Failed to search customers", "CUSTOMER_SEARCH_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Search results", result)
}

// Register Complaint
// @Description Register a customer complaint as a problem record and log the
// interaction.
// @Tags CustomerService
// @Accept json
// @Produce json
// @Param request body dto.ComplaintRequest true "Complaint data"
// @Success 201 {object} dto.APIResponse{data=dto.ComplaintResponse} "Complaint registered"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /api/v1/customer-service/complaints [post]
func (h *CustomerServiceHandler) RegisterComplaint(c fiber.Ctx) error {
	var req dto.ComplaintRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if details, ok := validationDetails(h.validator, &req); !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", details)
	}

	result, err := h.flow.RegisterComplaint(createRequestContext(c, "/api/v1/customer-service/complaints"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to register complaint", "REGISTER_COMPLAINT_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Complaint registered", result)
}

// Log Interaction
// @Description Record an agent interaction with its detected intent.
// @Tags CustomerService
// @Accept json
// @Produce json
// @Param request body dto.LogInteractionRequest true "Interaction data"
// @Success 201 {object} dto.APIResponse{data=dto.InteractionDTO} "Interaction logged"
// @Router /api/v1/customer-service/interactions [post]
func (h *CustomerServiceHandler) LogInteraction(c fiber.Ctx) error {
	var req dto.LogInteractionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if details, ok := validationDetails(h.validator, &req); !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", details)
	}

	result, err := h.flow.LogInteraction(createRequestContext(c, "/api/v1/customer-service/interactions"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to log interaction", "LOG_INTERACTION_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Interaction logged", result)
}

// Interaction History
// @Description List the most recent interactions of a subscriber.
// @Tags CustomerService
// @Produce json
// @Param id path int true "User ID"
// @Param limit query int false "Maximum entries (default 20)"
// @Success 200 {object} dto.APIResponse{data=[]dto.InteractionDTO} "Interactions listed"
// @Router /api/v1/users/{id}/interactions [get]
func (h *CustomerServiceHandler) InteractionHistory(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", err.Error())
	}

	limit := fiber.Query(c, "limit", 20)

	result, err := h.flow.InteractionHistory(createRequestContext(c, "/api/v1/users/:id/interactions"), id, limit)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to list interactions", "INTERACTION_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Interactions listed", result)
}

// List Interactions
// @Description List logged interactions filtered by intent or date range; without filters the most recent entries are returned.
// @Tags CustomerService
// @Produce json
// @Param intent query string false "Intent filter"
// @Param start query string false "Range start (RFC3339 or YYYY-MM-DD)"
// @Param end query string false "Range end (RFC3339 or YYYY-MM-DD)"
// @Param limit query int false "Maximum entries when unfiltered (default 50)"
// @Success 200 {object} dto.APIResponse{data=[]dto.InteractionDTO} "Interactions listed"
// @Router /api/v1/customer-service/interactions [get]
func (h *CustomerServiceHandler) ListInteractions(c fiber.Ctx) error {
	intent := fiber.Query[string](c, "intent")
	limit := fiber.Query(c, "limit", utils.DefaultPageSize)

	var start, end *time.Time
	if c.Query("start") != "" || c.Query("end") != "" {
		s, e, err := parseDateRangeQuery(c)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid date range", "INVALID_REQUEST", err.Error())
		}
		start, end = &s, &e
	}

	result, err := h.flow.ListInteractions(createRequestContext(c, "/api/v1/customer-service/interactions"), intent, start, end, limit)
	if err != nil {
		return handleBusinessError(c, err, "Failed to list interactions", "INTERACTION_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Interactions listed", result)
}

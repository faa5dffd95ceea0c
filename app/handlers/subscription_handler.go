package handlers

import (
	"github.com/anatolia-telecom/backoffice/app/dto"
	businessflow "github.com/anatolia-telecom/backoffice/business_flow"
	"github.com/anatolia-telecom/backoffice/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// SubscriptionHandlerInterface defines the contract for subscription handlers
type SubscriptionHandlerInterface interface {
	CreateChangeRequest(c fiber.Ctx) error
	ApproveChangeRequest(c fiber.Ctx) error
	RejectChangeRequest(c fiber.Ctx) error
	ListChangeRequestsByUser(c fiber.Ctx) error
	ListChangeRequests(c fiber.Ctx) error
	GetActiveSubscription(c fiber.Ctx) error
	DeactivateSubscription(c fiber.Ctx) error
	CommitmentTime(c fiber.Ctx) error
	ListExpiring(c fiber.Ctx) error
}

// SubscriptionHandler handles subscription lifecycle HTTP requests
type SubscriptionHandler struct {
	flow      businessflow.SubscriptionFlow
	validator *validator.Validate
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(flow businessflow.SubscriptionFlow) *SubscriptionHandler {
	return &SubscriptionHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Create Change Request
// @Description File a pending request to move a subscriber onto another package.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body dto.CreateChangeRequestRequest true "Change request data"
// @Success 201 {object} dto.APIResponse{data=dto.ChangeRequestDTO} "Change request created"
// @Failure 404 {object} dto.APIResponse "User or package not found"
// @Router /api/v1/change-requests [post]
func (h *SubscriptionHandler) CreateChangeRequest(c fiber.Ctx) error {
	var req dto.CreateChangeRequestRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if details, ok := validationDetails(h.validator, &req); !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", details)
	}

	result, err := h.flow.CreateChangeRequest(createRequestContext(c, "/api/v1/change-requests"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsPackageNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Package not found", "PACKAGE_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to create change request", "CREATE_CHANGE_REQUEST_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Change request created", result)
}

// Approve Change Request
// @Description Approve a pending change request. Deactivates the current
// subscription and activates one on the requested package in a single
// transaction.
// @Tags Subscriptions
// @Produce json
// @Param id path int true "Change request ID"
// @Success 200 {object} dto.APIResponse{data=dto.ApproveChangeRequestResponse} "Change request approved"
// @Failure 404 {object} dto.APIResponse "Change request not found"
// @Failure 409 {object} dto.APIResponse "Change request already processed"
// @Router /api/v1/change-requests/{id}/approve [post]
func (h *SubscriptionHandler) ApproveChangeRequest(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid change request ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.ApproveChangeRequest(createRequestContext(c, "/api/v1/change-requests/:id/approve"), id, clientMetadata(c))
	if err != nil {
		if businessflow.IsChangeRequestNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Change request not found", "CHANGE_REQUEST_NOT_FOUND", nil)
		}
		if businessflow.IsChangeRequestAlreadyProcessed(err) {
			return errorResponse(c, fiber.StatusConflict, "Change request already processed", "CHANGE_REQUEST_ALREADY_PROCESSED", nil)
		}
		return handleBusinessError(c, err, "Failed to approve change request", "APPROVE_CHANGE_REQUEST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Change request approved", result)
}

// Reject Change Request
// @Description Reject a pending change request. The subscription is untouched.
// @Tags Subscriptions
// @Produce json
// @Param id path int true "Change request ID"
// @Success 200 {object} dto.APIResponse{data=dto.ChangeRequestDTO} "Change request rejected"
// @Failure 404 {object} dto.APIResponse "Change request not found"
// @Failure 409 {object} dto.APIResponse "Change request already processed"
// @Router /api/v1/change-requests/{id}/reject [post]
func (h *SubscriptionHandler) RejectChangeRequest(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid change request ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.RejectChangeRequest(createRequestContext(c, "/api/v1/change-requests/:id/reject"), id, clientMetadata(c))
	if err != nil {
		if businessflow.IsChangeRequestNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Change request not found", "CHANGE_REQUEST_NOT_FOUND", nil)
		}
		if businessflow.IsChangeRequestAlreadyProcessed(err) {
			return errorResponse(c, fiber.StatusConflict, "Change request already processed", "CHANGE_REQUEST_ALREADY_PROCESSED", nil)
		}
		return handleBusinessError(c, err, "Failed to reject change request", "REJECT_CHANGE_REQUEST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Change request rejected", result)
}

// List Change Requests By User
// @Description List every change request a subscriber has filed.
// @Tags Subscriptions
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ChangeRequestDTO} "Change requests listed"
// @Router /api/v1/users/{id}/change-requests [get]
func (h *SubscriptionHandler) ListChangeRequestsByUser(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.ListChangeRequestsByUser(createRequestContext(c, "/api/v1/users/:id/change-requests"), id)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to list change requests", "CHANGE_REQUEST_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Change requests listed", result)
}

// List Change Requests
// @Description List change requests, pending ones by default. Pass status to
// filter by another state.
// @Tags Subscriptions
// @Produce json
// @Param status query string false "Status filter (pending/approved/rejected)"
// @Success 200 {object} dto.APIResponse{data=[]dto.ChangeRequestDTO} "Change requests listed"
// @Router /api/v1/change-requests [get]
func (h *SubscriptionHandler) ListChangeRequests(c fiber.Ctx) error {
	ctx := createRequestContext(c, "/api/v1/change-requests")

	status := c.Query("status")
	if status == "" || status == models.ChangeRequestStatusPending.String() {
		result, err := h.flow.ListPendingChangeRequests(ctx)
		if err != nil {
			return handleBusinessError(c, err, "Failed to list change requests", "CHANGE_REQUEST_LIST_FAILED")
		}
		return successResponse(c, fiber.StatusOK, "Change requests listed", result)
	}

	result, err := h.flow.ListChangeRequestsByStatus(ctx, status)
	if err != nil {
		return handleBusinessError(c, err, "Failed to list change requests", "CHANGE_REQUEST_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Change requests listed", result)
}

// Get Active Subscription
// @Description Fetch the subscriber's single active subscription.
// @Tags Subscriptions
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SubscriptionDTO} "Subscription found"
// @Failure 404 {object} dto.APIResponse "No active subscription"
// @Router /api/v1/users/{id}/subscription [get]
func (h *SubscriptionHandler) GetActiveSubscription(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.GetActiveSubscription(createRequestContext(c, "/api/v1/users/:id/subscription"), id)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsNoActiveSubscription(err) {
			return errorResponse(c, fiber.StatusNotFound, "User has no active subscription", "NO_ACTIVE_SUBSCRIPTION", nil)
		}
		return handleBusinessError(c, err, "Failed to fetch subscription", "SUBSCRIPTION_FETCH_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Subscription found", result)
}

// Deactivate Subscription
// @Description End an active subscription without a replacement.
// @Tags Subscriptions
// @Produce json
// @Param id path int true "Subscription ID"
// @Success 200 {object} dto.APIResponse{data=dto.SubscriptionDTO} "Subscription deactivated"
// @Failure 404 {object} dto.APIResponse "Subscription not found"
// @Failure 409 {object} dto.APIResponse "Subscription is not active"
// @Router /api/v1/subscriptions/{id}/deactivate [post]
func (h *SubscriptionHandler) DeactivateSubscription(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid subscription ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.DeactivateSubscription(createRequestContext(c, "/api/v1/subscriptions/:id/deactivate"), id)
	if err != nil {
		if businessflow.IsSubscriptionNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Subscription not found", "SUBSCRIPTION_NOT_FOUND", nil)
		}
		if businessflow.IsSubscriptionNotActive(err) {
			return errorResponse(c, fiber.StatusConflict, "Subscription is not active", "SUBSCRIPTION_NOT_ACTIVE", nil)
		}
		return handleBusinessError(c, err, "Failed to deactivate subscription", "DEACTIVATE_SUBSCRIPTION_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Subscription deactivated", result)
}

// Commitment Time
// @Description Report the remaining commitment of a subscriber's active
// subscription.
// @Tags Subscriptions
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.CommitmentTimeResponse} "Commitment reported"
// @Failure 404 {object} dto.APIResponse "No active subscription"
// @Router /api/v1/users/{id}/commitment [get]
func (h *SubscriptionHandler) CommitmentTime(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.CommitmentTime(createRequestContext(c, "/api/v1/users/:id/commitment"), id)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsNoActiveSubscription(err) {
			return errorResponse(c, fiber.StatusNotFound, "User has no active subscription", "NO_ACTIVE_SUBSCRIPTION", nil)
		}
		return handleBusinessError(c, err, "Failed to compute commitment", "COMMITMENT_FETCH_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Commitment reported", result)
}

// List Expiring Subscriptions
// @Description List active subscriptions whose commitment ends within the
// given number of days.
// @Tags Subscriptions
// @Produce json
// @Param days query int false "Window in days (default 30)"
// @Success 200 {object} dto.APIResponse{data=[]dto.SubscriptionDTO} "Subscriptions listed"
// @Router /api/v1/subscriptions/expiring [get]
func (h *SubscriptionHandler) ListExpiring(c fiber.Ctx) error {
	days := fiber.Query(c, "days", 30)
	if days <= 0 {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid days parameter", "INVALID_REQUEST", nil)
	}

	result, err := h.flow.ListExpiringSubscriptions(createRequestContext(c, "/api/v1/subscriptions/expiring"), days)
	if err != nil {
		return handleBusinessError(c, err, "Failed to list expiring subscriptions", "SUBSCRIPTION_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Subscriptions listed", result)
}

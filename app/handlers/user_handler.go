package handlers

import (
	"github.com/anatolia-telecom/backoffice/app/dto"
	businessflow "github.com/anatolia-telecom/backoffice/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// UserHandlerInterface defines the contract for user handlers
type UserHandlerInterface interface {
	Create(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	GetByPhone(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	List(c fiber.Ctx) error
	GetPackage(c fiber.Ctx) error
}

// UserHandler handles subscriber-related HTTP requests
type UserHandler struct {
	flow      businessflow.UserFlow
	validator *validator.Validate
}

// NewUserHandler creates a new user handler
func NewUserHandler(flow businessflow.UserFlow) *UserHandler {
	return &UserHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Create User
// @Description Register a new subscriber. The phone number must be unique.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "User data"
// @Success 201 {object} dto.APIResponse{data=dto.UserDTO} "User created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Phone number already registered"
// @Router /api/v1/users [post]
func (h *UserHandler) Create(c fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if details, ok := validationDetails(h.validator, &req); !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", details)
	}

	result, err := h.flow.CreateUser(createRequestContext(c, "/api/v1/users"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsPhoneAlreadyUsed(err) {
			return errorResponse(c, fiber.StatusConflict, "Phone number already registered", "PHONE_ALREADY_USED", nil)
		}
		return handleBusinessError(c, err, "Failed to create user", "CREATE_USER_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "User created successfully", result)
}

// Get User
// @Description Fetch a subscriber by ID.
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserDTO} "User found"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) Get(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.GetUser(createRequestContext(c, "/api/v1/users/:id"), id)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to fetch user", "USER_FETCH_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "User found", result)
}

// Get User By Phone
// @Description Fetch a subscriber by phone number.
// @Tags Users
// @Produce json
// @Param phone path string true "Phone number"
// @Success 200 {object} dto.APIResponse{data=dto.UserDTO} "User found"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /api/v1/users/phone/{phone} [get]
func (h *UserHandler) GetByPhone(c fiber.Ctx) error {
	phone := c.Params("phone")
	if phone == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Phone number is required", "INVALID_REQUEST", nil)
	}

	result, err := h.flow.GetUserByPhone(createRequestContext(c, "/api/v1/users/phone/:phone"), phone)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to fetch user", "USER_FETCH_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "User found", result)
}

// Update User
// @Description Update subscriber fields. Only the provided fields change.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.UserDTO} "User updated successfully"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 409 {object} dto.APIResponse "Phone number already registered"
// @Router /api/v1/users/{id} [put]
func (h *UserHandler) Update(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", err.Error())
	}

	var req dto.UpdateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if details, ok := validationDetails(h.validator, &req); !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", details)
	}

	result, err := h.flow.UpdateUser(createRequestContext(c, "/api/v1/users/:id"), id, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsPhoneAlreadyUsed(err) {
			return errorResponse(c, fiber.StatusConflict, "Phone number already registered", "PHONE_ALREADY_USED", nil)
		}
		return handleBusinessError(c, err, "Failed to update user", "UPDATE_USER_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "User updated successfully", result)
}

// Delete User
// @Description Remove a subscriber.
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse "User deleted successfully"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /api/v1/users/{id} [delete]
func (h *UserHandler) Delete(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", err.Error())
	}

	if err := h.flow.DeleteUser(createRequestContext(c, "/api/v1/users/:id"), id); err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to delete user", "DELETE_USER_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "User deleted successfully", nil)
}

// List Users
// @Description List subscribers, newest first. Supports limit/offset paging.
// @Tags Users
// @Produce json
// @Param limit query int false "Page size (default 50, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse} "Users listed"
// @Router /api/v1/users [get]
func (h *UserHandler) List(c fiber.Ctx) error {
	limit := fiber.Query(c, "limit", 0)
	offset := fiber.Query(c, "offset", 0)
	if limit < 0 || offset < 0 {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid paging parameters", "INVALID_REQUEST", nil)
	}

	result, err := h.flow.ListUsers(createRequestContext(c, "/api/v1/users"), limit, offset)
	if err != nil {
		return handleBusinessError(c, err, "Failed to list users", "USER_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Users listed", result)
}

// Get User Package
// @Description Fetch the package the subscriber is currently subscribed to.
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.PackageDTO} "Package found"
// @Failure 404 {object} dto.APIResponse "User has no active subscription"
// @Router /api/v1/users/{id}/package [get]
func (h *UserHandler) GetPackage(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.GetUserPackage(createRequestContext(c, "/api/v1/users/:id/package"), id)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsNoActiveSubscription(err) {
			return errorResponse(c, fiber.StatusNotFound, "User has no active subscription", "NO_ACTIVE_SUBSCRIPTION", nil)
		}
		return handleBusinessError(c, err, "Failed to fetch user package", "USER_PACKAGE_FETCH_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Package found", result)
}

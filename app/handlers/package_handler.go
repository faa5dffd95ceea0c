package handlers

import (
	"github.com/anatolia-telecom/backoffice/app/dto"
	businessflow "github.com/anatolia-telecom/backoffice/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// PackageHandlerInterface defines the contract for package handlers
type PackageHandlerInterface interface {
	Create(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	List(c fiber.Ctx) error
	ListActive(c fiber.Ctx) error
	ListUsers(c fiber.Ctx) error
}

// PackageHandler handles tariff package HTTP requests
type PackageHandler struct {
	flow      businessflow.PackageFlow
	validator *validator.Validate
}

// NewPackageHandler creates a new package handler
func NewPackageHandler(flow businessflow.PackageFlow) *PackageHandler {
	return &PackageHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Create Package
// @Description Define a new tariff package.
// @Tags Packages
// @Accept json
// @Produce json
// @Param request body dto.CreatePackageRequest true "Package data"
// @Success 201 {object} dto.APIResponse{data=dto.PackageDTO} "Package created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/packages [post]
func (h *PackageHandler) Create(c fiber.Ctx) error {
	var req dto.CreatePackageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if details, ok := validationDetails(h.validator, &req); !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", details)
	}

	result, err := h.flow.CreatePackage(createRequestContext(c, "/api/v1/packages"), &req, clientMetadata(c))
	if err != nil {
		return handleBusinessError(c, err, "Failed to create package", "CREATE_PACKAGE_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Package created successfully", result)
}

// Get Package
// @Description Fetch a tariff package by ID.
// @Tags Packages
// @Produce json
// @Param id path int true "Package ID"
// @Success 200 {object} dto.APIResponse{data=dto.PackageDTO} "Package found"
// @Failure 404 {object} dto.APIResponse "Package not found"
// @Router /api/v1/packages/{id} [get]
func (h *PackageHandler) Get(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid package ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.GetPackage(createRequestContext(c, "/api/v1/packages/:id"), id)
	if err != nil {
		if businessflow.IsPackageNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Package not found", "PACKAGE_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to fetch package", "PACKAGE_FETCH_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Package found", result)
}

// Update Package
// @Description Update tariff package fields. Only the provided fields change.
// @Tags Packages
// @Accept json
// @Produce json
// @Param id path int true "Package ID"
// @Param request body dto.UpdatePackageRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.PackageDTO} "Package updated successfully"
// @Failure 404 {object} dto.APIResponse "Package not found"
// @Router /api/v1/packages/{id} [put]
func (h *PackageHandler) Update(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid package ID", "INVALID_REQUEST", err.Error())
	}

	var req dto.UpdatePackageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if details, ok := validationDetails(h.validator, &req); !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", details)
	}

	result, err := h.flow.UpdatePackage(createRequestContext(c, "/api/v1/packages/:id"), id, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsPackageNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Package not found", "PACKAGE_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to update package", "UPDATE_PACKAGE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Package updated successfully", result)
}

// Delete Package
// @Description Remove a tariff package.
// @Tags Packages
// @Produce json
// @Param id path int true "Package ID"
// @Success 200 {object} dto.APIResponse "Package deleted successfully"
// @Failure 404 {object} dto.APIResponse "Package not found"
// @Router /api/v1/packages/{id} [delete]
func (h *PackageHandler) Delete(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid package ID", "INVALID_REQUEST", err.Error())
	}

	if err := h.flow.DeletePackage(createRequestContext(c, "/api/v1/packages/:id"), id); err != nil {
		if businessflow.IsPackageNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Package not found", "PACKAGE_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to delete package", "DELETE_PACKAGE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Package deleted successfully", nil)
}

// List Packages
// @Description List every tariff package.
// @Tags Packages
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.PackageDTO} "Packages listed"
// @Router /api/v1/packages [get]
func (h *PackageHandler) List(c fiber.Ctx) error {
	result, err := h.flow.ListPackages(createRequestContext(c, "/api/v1/packages"))
	if err != nil {
		return handleBusinessError(c, err, "Failed to list packages", "PACKAGE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Packages listed", result)
}

// List Active Packages
// @Description List only the packages currently offered for sale.
// @Tags Packages
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.PackageDTO} "Packages listed"
// @Router /api/v1/packages/active [get]
func (h *PackageHandler) ListActive(c fiber.Ctx) error {
	result, err := h.flow.ListActivePackages(createRequestContext(c, "/api/v1/packages/active"))
	if err != nil {
		return handleBusinessError(c, err, "Failed to list packages", "PACKAGE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Packages listed", result)
}

// List Package Users
// @Description List subscribers currently on a package.
// @Tags Packages
// @Produce json
// @Param id path int true "Package ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.UserDTO} "Users listed"
// @Failure 404 {object} dto.APIResponse "Package not found"
// @Router /api/v1/packages/{id}/users [get]
func (h *PackageHandler) ListUsers(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid package ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.ListPackageUsers(createRequestContext(c, "/api/v1/packages/:id/users"), id)
	if err != nil {
		if businessflow.IsPackageNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Package not found", "PACKAGE_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to list package users", "PACKAGE_USERS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Users listed", result)
}

package handlers

import (
	"github.com/anatolia-telecom/backoffice/app/dto"
	businessflow "github.com/anatolia-telecom/backoffice/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ProblemHandlerInterface defines the contract for problem handlers
type ProblemHandlerInterface interface {
	Create(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	List(c fiber.Ctx) error
	ListOverdue(c fiber.Ctx) error
	ListByDateRange(c fiber.Ctx) error
	Search(c fiber.Ctx) error
}

// ProblemHandler handles network problem HTTP requests
type ProblemHandler struct {
	flow      businessflow.ProblemFlow
	validator *validator.Validate
}

// NewProblemHandler creates a new problem handler
func NewProblemHandler(flow businessflow.ProblemFlow) *ProblemHandler {
	return &ProblemHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Create Problem
// @Description Open a network problem record.
// @Tags Problems
// @Accept json
// @Produce json
// @Param request body dto.CreateProblemRequest true "Problem data"
// @Success 201 {object} dto.APIResponse{data=dto.ProblemDTO} "Problem created"
// @Router /api/v1/problems [post]
func (h *ProblemHandler) Create(c fiber.Ctx) error {
	var req dto.CreateProblemRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if details, ok := validationDetails(h.validator, &req); !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", details)
	}

	result, err := h.flow.CreateProblem(createRequestContext(c, "/api/v1/problems"), &req, clientMetadata(c))
	if err != nil {
		return handleBusinessError(c, err, "Failed to create problem", "CREATE_PROBLEM_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Problem created", result)
}

// Get Problem
// @Description Fetch a problem record by ID.
// @Tags Problems
// @Produce json
// @Param id path int true "Problem ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProblemDTO} "Problem found"
// @Failure 404 {object} dto.APIResponse "Problem not found"
// @Router /api/v1/problems/{id} [get]
func (h *ProblemHandler) Get(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid problem ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.GetProblem(createRequestContext(c, "/api/v1/problems/:id"), id)
	if err != nil {
		if businessflow.IsProblemNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Problem not found", "PROBLEM_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to fetch problem", "PROBLEM_FETCH_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Problem found", result)
}

// Update Problem
// @Description Update a problem record. Only the provided fields change.
// @Tags Problems
// @Accept json
// @Produce json
// @Param id path int true "Problem ID"
// @Param request body dto.UpdateProblemRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ProblemDTO} "Problem updated"
// @Failure 404 {object} dto.APIResponse "Problem not found"
// @Router /api/v1/problems/{id} [put]
func (h *ProblemHandler) Update(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid problem ID", "INVALID_REQUEST", err.Error())
	}

	var req dto.UpdateProblemRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if details, ok := validationDetails(h.validator, &req); !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", details)
	}

	result, err := h.flow.UpdateProblem(createRequestContext(c, "/api/v1/problems/:id"), id, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsProblemNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Problem not found", "PROBLEM_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to update problem", "UPDATE_PROBLEM_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Problem updated", result)
}

// Delete Problem
// @Description Remove a problem record.
// @Tags Problems
// @Produce json
// @Param id path int true "Problem ID"
// @Success 200 {object} dto.APIResponse "Problem deleted"
// @Failure 404 {object} dto.APIResponse "Problem not found"
// @Router /api/v1/problems/{id} [delete]
func (h *ProblemHandler) Delete(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid problem ID", "INVALID_REQUEST", err.Error())
	}

	if err := h.flow.DeleteProblem(createRequestContext(c, "/api/v1/problems/:id"), id); err != nil {
		if businessflow.IsProblemNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Problem not found", "PROBLEM_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to delete problem", "DELETE_PROBLEM_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Problem deleted", nil)
}

// List Problems
// @Description List problem records. Pass location to restrict to one
// location.
// @Tags Problems
// @Produce json
// @Param location query string false "Location filter"
// @Success 200 {object} dto.APIResponse{data=[]dto.ProblemDTO} "Problems listed"
// @Router /api/v1/problems [get]
func (h *ProblemHandler) List(c fiber.Ctx) error {
	ctx := createRequestContext(c, "/api/v1/problems")

	if location := c.Query("location"); location != "" {
		result, err := h.flow.ListProblemsByLocation(ctx, location)
		if err != nil {
			return handleBusinessError(c, err, "Failed to list problems", "PROBLEM_LIST_FAILED")
		}
		return successResponse(c, fiber.StatusOK, "Problems listed", result)
	}

	result, err := h.flow.ListProblems(ctx)
	if err != nil {
		return handleBusinessError(c, err, "Failed to list problems", "PROBLEM_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Problems listed", result)
}

// List Overdue Problems
// @Description List unresolved problems past their estimated completion time.
// @Tags Problems
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.ProblemDTO} "Problems listed"
// @Router /api/v1/problems/overdue [get]
func (h *ProblemHandler) ListOverdue(c fiber.Ctx) error {
	result, err := h.flow.ListOverdueProblems(createRequestContext(c, "/api/v1/problems/overdue"))
	if err != nil {
		return handleBusinessError(c, err, "Failed to list problems", "PROBLEM_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Problems listed", result)
}

// List Problems By Date Range
// @Description List problems reported inside a date range.
// @Tags Problems
// @Produce json
// @Param start query string true "Range start (RFC 3339 or YYYY-MM-DD)"
// @Param end query string true "Range end (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]dto.ProblemDTO} "Problems listed"
// @Router /api/v1/problems/range [get]
func (h *ProblemHandler) ListByDateRange(c fiber.Ctx) error {
	start, end, err := parseDateRangeQuery(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid date range", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.ListProblemsByDateRange(createRequestContext(c, "/api/v1/problems/range"), start, end)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Start date is after end date", "INVALID_DATE_RANGE", nil)
		}
		return handleBusinessError(c, err, "Failed to list problems", "PROBLEM_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Problems listed", result)
}

// Search Problems
// @Description Search problems by location or description, case insensitive.
// @Tags Problems
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} dto.APIResponse{data=[]dto.ProblemDTO} "Problems listed"
// @Router /api/v1/problems/search [get]
func (h *ProblemHandler) Search(c fiber.Ctx) error {
	term := c.Query("q")
	if term == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Search term is required", "INVALID_REQUEST", nil)
	}

	result, err := h.flow.SearchProblems(createRequestContext(c, "/api/v1/problems/search"), term)
	if err != nil {
		return handleBusinessError(c, err, "Failed to search problems", "PROBLEM_SEARCH_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Problems listed", result)
}

package handlers

import (
	businessflow "github.com/anatolia-telecom/backoffice/business_flow"
	"github.com/gofiber/fiber/v3"
)

// DashboardHandlerInterface defines the contract for dashboard handlers
type DashboardHandlerInterface interface {
	Stats(c fiber.Ctx) error
	RecentActivities(c fiber.Ctx) error
	UserSummary(c fiber.Ctx) error
	UrgentProblems(c fiber.Ctx) error
	MonthlyRevenue(c fiber.Ctx) error
}

// DashboardHandler handles back-office dashboard HTTP requests
type DashboardHandler struct {
	flow businessflow.DashboardFlow
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(flow businessflow.DashboardFlow) *DashboardHandler {
	return &DashboardHandler{flow: flow}
}

// Dashboard Stats
// @Description Report aggregate counters: users, active subscriptions, pending
// change requests, open problems and unpaid invoice total. Served from cache
// for up to a minute.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStatsResponse} "Stats reported"
// @Router /api/v1/dashboard/stats [get]
func (h *DashboardHandler) Stats(c fiber.Ctx) error {
	result, err := h.flow.Stats(createRequestContext(c, "/api/v1/dashboard/stats"))
	if err != nil {
		return handleBusinessError(c, err, "Failed to compute stats", "STATS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Stats reported", result)
}

// Recent Activities
// @Description List the most recent purchases, change requests and agent
// interactions in one feed, newest first.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.RecentActivitiesResponse} "Activities listed"
// @Router /api/v1/dashboard/activities [get]
func (h *DashboardHandler) RecentActivities(c fiber.Ctx) error {
	result, err := h.flow.RecentActivities(createRequestContext(c, "/api/v1/dashboard/activities"))
	if err != nil {
		return handleBusinessError(c, err, "Failed to list activities", "ACTIVITY_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Activities listed", result)
}

// User Summary
// @Description Report a per-subscriber summary: active package, total spent
// and unpaid invoice count.
// @Tags Dashboard
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserSummaryResponse} "Summary reported"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /api/v1/dashboard/users/{id} [get]
func (h *DashboardHandler) UserSummary(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.UserSummary(createRequestContext(c, "/api/v1/dashboard/users/:id"), id)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to compute summary", "USER_SUMMARY_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Summary reported", result)
}

// Urgent Problems
// @Description List unresolved problems with urgent priority.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.ProblemDTO} "Problems listed"
// @Router /api/v1/dashboard/problems/urgent [get]
func (h *DashboardHandler) UrgentProblems(c fiber.Ctx) error {
	result, err := h.flow.UrgentProblems(createRequestContext(c, "/api/v1/dashboard/problems/urgent"))
	if err != nil {
		return handleBusinessError(c, err, "Failed to list urgent problems", "PROBLEM_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Problems listed", result)
}

// Monthly Revenue
// @Description Report revenue from invoices paid inside a calendar month.
// @Tags Dashboard
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} dto.APIResponse{data=dto.MonthlyRevenueResponse} "Revenue reported"
// @Router /api/v1/dashboard/revenue [get]
func (h *DashboardHandler) MonthlyRevenue(c fiber.Ctx) error {
	year := fiber.Query(c, "year", 0)
	month := fiber.Query(c, "month", 0)

	result, err := h.flow.MonthlyRevenue(createRequestContext(c, "/api/v1/dashboard/revenue"), year, month)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && (be.Code == "INVALID_MONTH" || be.Code == "INVALID_YEAR") {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid year or month", be.Code, nil)
		}
		return handleBusinessError(c, err, "Failed to compute revenue", "REVENUE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Revenue reported", result)
}

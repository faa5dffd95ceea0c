package handlers

import (
	"fmt"

	"github.com/anatolia-telecom/backoffice/app/dto"
	businessflow "github.com/anatolia-telecom/backoffice/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// BillingHandlerInterface defines the contract for billing handlers
type BillingHandlerInterface interface {
	Generate(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	ListByUser(c fiber.Ctx) error
	ListByPhone(c fiber.Ctx) error
	List(c fiber.Ctx) error
	ListByPeriod(c fiber.Ctx) error
	MarkPaid(c fiber.Ctx) error
	ListItems(c fiber.Ctx) error
	ListItemsByType(c fiber.Ctx) error
	ExportExcel(c fiber.Ctx) error
}

// BillingHandler handles invoice HTTP requests
type BillingHandler struct {
	flow      businessflow.BillingFlow
	validator *validator.Validate
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(flow businessflow.BillingFlow) *BillingHandler {
	return &BillingHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Generate Invoice
// @Description Generate an invoice for a subscriber covering the package fee
// and unbilled purchases of the last charge window. Purchases already billed
// are never charged twice.
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.GenerateInvoiceRequest true "Invoice parameters"
// @Success 201 {object} dto.APIResponse{data=dto.InvoiceDTO} "Invoice generated"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /api/v1/invoices/generate [post]
func (h *BillingHandler) Generate(c fiber.Ctx) error {
	var req dto.GenerateInvoiceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if details, ok := validationDetails(h.validator, &req); !ok {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", details)
	}

	result, err := h.flow.GenerateInvoice(createRequestContext(c, "/api/v1/invoices/generate"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to generate invoice", "GENERATE_INVOICE_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Invoice generated", result)
}

// Get Invoice
// @Description Fetch an invoice with its line items.
// @Tags Billing
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} dto.APIResponse{data=dto.InvoiceDTO} "Invoice found"
// @Failure 404 {object} dto.APIResponse "Invoice not found"
// @Router /api/v1/invoices/{id} [get]
func (h *BillingHandler) Get(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid invoice ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.GetInvoice(createRequestContext(c, "/api/v1/invoices/:id"), id)
	if err != nil {
		if businessflow.IsInvoiceNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Invoice not found", "INVOICE_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to fetch invoice", "INVOICE_FETCH_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Invoice found", result)
}

// List Invoices By User
// @Description List a subscriber's invoices, newest first.
// @Tags Billing
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.InvoiceDTO} "Invoices listed"
// @Router /api/v1/users/{id}/invoices [get]
func (h *BillingHandler) ListByUser(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.ListInvoicesByUser(createRequestContext(c, "/api/v1/users/:id/invoices"), id)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to list invoices", "INVOICE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Invoices listed", result)
}

// List Invoices By Phone
// @Description List the invoices of the subscriber with the given phone number.
// @Tags Billing
// @Produce json
// @Param phone path string true "Phone number"
// @Success 200 {object} dto.APIResponse{data=[]dto.InvoiceDTO} "Invoices listed"
// @Router /api/v1/invoices/phone/{phone} [get]
func (h *BillingHandler) ListByPhone(c fiber.Ctx) error {
	phone := c.Params("phone")
	if phone == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Phone number is required", "INVALID_REQUEST", nil)
	}

	result, err := h.flow.ListInvoicesByPhone(createRequestContext(c, "/api/v1/invoices/phone/:phone"), phone)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to list invoices", "INVOICE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Invoices listed", result)
}

// List Invoices
// @Description List invoices. Without a status filter only unpaid
// invoices are returned.
// @Tags Billing
// @Produce json
// @Param status query string false "Status filter (pending/paid/canceled)"
// @Success 200 {object} dto.APIResponse{data=[]dto.InvoiceDTO} "Invoices listed"
// @Router /api/v1/invoices [get]
func (h *BillingHandler) List(c fiber.Ctx) error {
	ctx := createRequestContext(c, "/api/v1/invoices")

	if status := c.Query("status"); status != "" {
		result, err := h.flow.ListInvoicesByStatus(ctx, status)
		if err != nil {
			return handleBusinessError(c, err, "Failed to list invoices", "INVOICE_LIST_FAILED")
		}
		return successResponse(c, fiber.StatusOK, "Invoices listed", result)
	}

	result, err := h.flow.ListUnpaidInvoices(ctx)
	if err != nil {
		return handleBusinessError(c, err, "Failed to list invoices", "INVOICE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Invoices listed", result)
}

// List Invoices By Period
// @Description List invoices created inside a date range.
// @Tags Billing
// @Produce json
// @Param start query string true "Range start (RFC 3339 or YYYY-MM-DD)"
// @Param end query string true "Range end (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]dto.InvoiceDTO} "Invoices listed"
// @Router /api/v1/invoices/period [get]
func (h *BillingHandler) ListByPeriod(c fiber.Ctx) error {
	start, end, err := parseDateRangeQuery(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid date range", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.ListInvoicesByPeriod(createRequestContext(c, "/api/v1/invoices/period"), start, end)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Start date is after end date", "INVALID_DATE_RANGE", nil)
		}
		return handleBusinessError(c, err, "Failed to list invoices", "INVOICE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Invoices listed", result)
}

// Mark Invoice Paid
// @Description Settle an invoice. Paying an already paid invoice is rejected.
// @Tags Billing
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} dto.APIResponse{data=dto.InvoiceDTO} "Invoice paid"
// @Failure 404 {object} dto.APIResponse "Invoice not found"
// @Failure 409 {object} dto.APIResponse "Invoice already paid"
// @Router /api/v1/invoices/{id}/pay [post]
func (h *BillingHandler) MarkPaid(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid invoice ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.MarkInvoicePaid(createRequestContext(c, "/api/v1/invoices/:id/pay"), id)
	if err != nil {
		if businessflow.IsInvoiceNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Invoice not found", "INVOICE_NOT_FOUND", nil)
		}
		if businessflow.IsInvoiceAlreadyPaid(err) {
			return errorResponse(c, fiber.StatusConflict, "Invoice already paid", "INVOICE_ALREADY_PAID", nil)
		}
		return handleBusinessError(c, err, "Failed to mark invoice paid", "MARK_PAID_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Invoice paid", result)
}

// List Invoice Items
// @Description List the line items of an invoice.
// @Tags Billing
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.InvoiceItemDTO} "Items listed"
// @Failure 404 {object} dto.APIResponse "Invoice not found"
// @Router /api/v1/invoices/{id}/items [get]
func (h *BillingHandler) ListItems(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid invoice ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.ListInvoiceItems(createRequestContext(c, "/api/v1/invoices/:id/items"), id)
	if err != nil {
		if businessflow.IsInvoiceNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Invoice not found", "INVOICE_NOT_FOUND", nil)
		}
		return handleBusinessError(c, err, "Failed to list invoice items", "INVOICE_ITEMS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Items listed", result)
}

// List Invoice Items By Service Type
// @Description List billed line items across all invoices for one service type.
// @Tags Billing
// @Produce json
// @Param service_type query string true "Service type" Enums(SMS, Email, Call, Package)
// @Success 200 {object} dto.APIResponse{data=[]dto.InvoiceItemDTO} "Items listed"
// @Failure 400 {object} dto.APIResponse "Missing service type"
// @Router /api/v1/invoice-items [get]
func (h *BillingHandler) ListItemsByType(c fiber.Ctx) error {
	serviceType := fiber.Query[string](c, "service_type")
	result, err := h.flow.ListInvoiceItemsByServiceType(createRequestContext(c, "/api/v1/invoice-items"), serviceType)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "INVALID_SERVICE_TYPE" {
			return errorResponse(c, fiber.StatusBadRequest, "Service type is required", "INVALID_SERVICE_TYPE", nil)
		}
		return handleBusinessError(c, err, "Failed to list invoice items", "INVOICE_ITEMS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Items listed", result)
}

// Export Invoices Excel
// @Description Download every invoice as an Excel workbook.
// @Tags Billing
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "Excel workbook"
// @Router /api/v1/invoices/export [get]
func (h *BillingHandler) ExportExcel(c fiber.Ctx) error {
	filename, content, err := h.flow.ExportInvoicesExcel(createRequestContext(c, "/api/v1/invoices/export"))
	if err != nil {
		return handleBusinessError(c, err, "Failed to export invoices", "INVOICE_EXPORT_FAILED")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(content)
}

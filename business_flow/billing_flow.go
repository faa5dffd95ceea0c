package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/anatolia-telecom/backoffice/app/dto"
	"github.com/anatolia-telecom/backoffice/config"
	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/repository"
	"github.com/anatolia-telecom/backoffice/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// BillingFlow defines invoice generation and settlement operations
type BillingFlow interface {
	GenerateInvoice(ctx context.Context, req *dto.GenerateInvoiceRequest, metadata *ClientMetadata) (*dto.InvoiceDTO, error)
	GetInvoice(ctx context.Context, id uint) (*dto.InvoiceDTO, error)
	ListInvoicesByUser(ctx context.Context, userID uint) ([]dto.InvoiceDTO, error)
	ListInvoicesByPhone(ctx context.Context, phone string) ([]dto.InvoiceDTO, error)
	ListInvoicesByStatus(ctx context.Context, status string) ([]dto.InvoiceDTO, error)
	ListUnpaidInvoices(ctx context.Context) ([]dto.InvoiceDTO, error)
	ListInvoicesByPeriod(ctx context.Context, start, end time.Time) ([]dto.InvoiceDTO, error)
	MarkInvoicePaid(ctx context.Context, id uint) (*dto.InvoiceDTO, error)
	ListInvoiceItems(ctx context.Context, invoiceID uint) ([]dto.InvoiceItemDTO, error)
	ListInvoiceItemsByServiceType(ctx context.Context, serviceType string) ([]dto.InvoiceItemDTO, error)
	ExportInvoicesExcel(ctx context.Context) (string, []byte, error)
}

// BillingFlowImpl implements BillingFlow
type BillingFlowImpl struct {
	db               *gorm.DB
	userRepo         repository.UserRepository
	subscriptionRepo repository.SubscriptionRepository
	purchaseRepo     repository.ServicePurchaseRepository
	invoiceRepo      repository.InvoiceRepository
	itemRepo         repository.InvoiceItemRepository
	billingCfg       config.BillingConfig
}

func NewBillingFlow(
	db *gorm.DB,
	userRepo repository.UserRepository,
	subscriptionRepo repository.SubscriptionRepository,
	purchaseRepo repository.ServicePurchaseRepository,
	invoiceRepo repository.InvoiceRepository,
	itemRepo repository.InvoiceItemRepository,
	billingCfg config.BillingConfig,
) BillingFlow {
	return &BillingFlowImpl{
		db:               db,
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		purchaseRepo:     purchaseRepo,
		invoiceRepo:      invoiceRepo,
		itemRepo:         itemRepo,
		billingCfg:       billingCfg,
	}
}

// GenerateInvoice produces one invoice for the user covering the package fee
// of the active subscription plus every unbilled service purchase inside the
// charge window ending at the invoice creation time. The whole sequence runs
// in a single transaction: a purchase is never left marked used without its
// committed invoice item, and the invoice total always equals the item sum.
func (f *BillingFlowImpl) GenerateInvoice(ctx context.Context, req *dto.GenerateInvoiceRequest, metadata *ClientMetadata) (*dto.InvoiceDTO, error) {
	user, err := getUser(ctx, f.userRepo, req.UserID)
	if err != nil {
		return nil, err
	}

	createdAt := utils.UTCNow()
	if req.CreatedAt != nil {
		createdAt = utils.TimeToUTC(*req.CreatedAt)
	}

	window := time.Duration(f.billingCfg.ChargeWindowDays) * 24 * time.Hour
	periodStart := createdAt.Add(-window)

	var invoice models.Invoice
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		invoice = models.Invoice{
			UserID:             user.ID,
			BillingPeriodStart: periodStart,
			BillingPeriodEnd:   createdAt,
			TotalAmount:        0,
			Status:             models.InvoiceStatusPending,
			CreatedAt:          createdAt,
			UpdatedAt:          createdAt,
		}
		if err := f.invoiceRepo.Save(txCtx, &invoice); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		var items []*models.InvoiceItem

		// Package fee from the active subscription, if any
		sub, err := f.subscriptionRepo.ActiveByUser(txCtx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to look up active subscription: %w", err)
		}
		if sub != nil && sub.Package != nil && sub.Package.MonthlyFee > 0 {
			items = append(items, &models.InvoiceItem{
				InvoiceID:   invoice.ID,
				ServiceType: models.ServiceTypePackage,
				Description: fmt.Sprintf("%s monthly fee", sub.Package.Name),
				Quantity:    1,
				UnitPrice:   sub.Package.MonthlyFee,
				TotalPrice:  sub.Package.MonthlyFee,
				TaxRate:     f.billingCfg.TaxRate,
			})
		}

		// Unbilled purchases inside the charge window
		purchases, err := f.purchaseRepo.ListUnbilled(txCtx, user.ID, periodStart, createdAt)
		if err != nil {
			return fmt.Errorf("failed to list unbilled purchases: %w", err)
		}
		purchaseIDs := make([]uint, 0, len(purchases))
		for _, p := range purchases {
			items = append(items, &models.InvoiceItem{
				InvoiceID:   invoice.ID,
				ServiceType: p.ServiceType,
				Description: fmt.Sprintf("%s purchase on %s", p.ServiceType, p.PurchaseDate.Format("2006-01-02")),
				Quantity:    p.Count,
				UnitPrice:   p.UnitPrice,
				TotalPrice:  p.PurchasePrice,
				TaxRate:     f.billingCfg.TaxRate,
			})
			purchaseIDs = append(purchaseIDs, p.ID)
		}

		if len(items) > 0 {
			if err := f.itemRepo.SaveBatch(txCtx, items); err != nil {
				return fmt.Errorf("failed to save invoice items: %w", err)
			}
		}
		if len(purchaseIDs) > 0 {
			if err := f.purchaseRepo.MarkUsed(txCtx, purchaseIDs); err != nil {
				return fmt.Errorf("failed to mark purchases used: %w", err)
			}
		}

		// Total comes from the committed rows so it always equals the item sum
		total, err := f.itemRepo.TotalForInvoice(txCtx, invoice.ID)
		if err != nil {
			return fmt.Errorf("failed to sum invoice items: %w", err)
		}
		if err := f.invoiceRepo.UpdateTotal(txCtx, invoice.ID, total); err != nil {
			return fmt.Errorf("failed to update invoice total: %w", err)
		}
		invoice.TotalAmount = total
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("INVOICE_GENERATION_FAILED", "failed to generate invoice", err)
	}

	return f.loadInvoiceDTO(ctx, invoice.ID)
}

// GetInvoice returns one invoice with its items
func (f *BillingFlowImpl) GetInvoice(ctx context.Context, id uint) (*dto.InvoiceDTO, error) {
	return f.loadInvoiceDTO(ctx, id)
}

func (f *BillingFlowImpl) loadInvoiceDTO(ctx context.Context, id uint) (*dto.InvoiceDTO, error) {
	invoice, err := f.invoiceRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("INVOICE_FETCH_FAILED", "failed to fetch invoice", err)
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}

	items, err := f.itemRepo.ListByInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, NewBusinessError("INVOICE_ITEMS_FETCH_FAILED", "failed to fetch invoice items", err)
	}

	d := ToInvoiceDTO(*invoice)
	d.Items = nil
	for _, item := range items {
		d.Items = append(d.Items, ToInvoiceItemDTO(*item))
	}
	return &d, nil
}

// ListInvoicesByUser lists all invoices belonging to a user
func (f *BillingFlowImpl) ListInvoicesByUser(ctx context.Context, userID uint) ([]dto.InvoiceDTO, error) {
	if _, err := getUser(ctx, f.userRepo, userID); err != nil {
		return nil, err
	}
	invoices, err := f.invoiceRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("INVOICE_LIST_FAILED", "failed to list invoices", err)
	}
	return toInvoiceDTOs(invoices), nil
}

// ListInvoicesByPhone lists invoices for the user owning the phone number
func (f *BillingFlowImpl) ListInvoicesByPhone(ctx context.Context, phone string) ([]dto.InvoiceDTO, error) {
	user, err := getUserByPhone(ctx, f.userRepo, phone)
	if err != nil {
		return nil, err
	}
	return f.ListInvoicesByUser(ctx, user.ID)
}

// ListInvoicesByStatus lists invoices in the given payment status
func (f *BillingFlowImpl) ListInvoicesByStatus(ctx context.Context, status string) ([]dto.InvoiceDTO, error) {
	s := models.InvoiceStatus(status)
	if !s.Valid() {
		return nil, NewBusinessError("INVALID_STATUS", fmt.Sprintf("unknown invoice status %q", status), nil)
	}
	invoices, err := f.invoiceRepo.ListByStatus(ctx, s)
	if err != nil {
		return nil, NewBusinessError("INVOICE_LIST_FAILED", "failed to list invoices", err)
	}
	return toInvoiceDTOs(invoices), nil
}

// ListUnpaidInvoices lists pending and overdue invoices
func (f *BillingFlowImpl) ListUnpaidInvoices(ctx context.Context) ([]dto.InvoiceDTO, error) {
	invoices, err := f.invoiceRepo.ListUnpaid(ctx)
	if err != nil {
		return nil, NewBusinessError("INVOICE_LIST_FAILED", "failed to list unpaid invoices", err)
	}
	return toInvoiceDTOs(invoices), nil
}

// ListInvoicesByPeriod lists invoices whose billing period overlaps [start, end]
func (f *BillingFlowImpl) ListInvoicesByPeriod(ctx context.Context, start, end time.Time) ([]dto.InvoiceDTO, error) {
	if start.After(end) {
		return nil, ErrStartDateAfterEndDate
	}
	invoices, err := f.invoiceRepo.ListByPeriod(ctx, start, end)
	if err != nil {
		return nil, NewBusinessError("INVOICE_LIST_FAILED", "failed to list invoices", err)
	}
	return toInvoiceDTOs(invoices), nil
}

// MarkInvoicePaid settles a pending invoice
func (f *BillingFlowImpl) MarkInvoicePaid(ctx context.Context, id uint) (*dto.InvoiceDTO, error) {
	invoice, err := f.invoiceRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("INVOICE_FETCH_FAILED", "failed to fetch invoice", err)
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	if invoice.IsPaid() {
		return nil, ErrInvoiceAlreadyPaid
	}

	updated, err := f.invoiceRepo.MarkPaid(ctx, id, utils.UTCNow())
	if err != nil {
		return nil, NewBusinessError("INVOICE_UPDATE_FAILED", "failed to mark invoice paid", err)
	}
	if updated == nil {
		return nil, ErrInvoiceNotFound
	}
	return f.loadInvoiceDTO(ctx, updated.ID)
}

// ListInvoiceItems returns the line items of one invoice
func (f *BillingFlowImpl) ListInvoiceItems(ctx context.Context, invoiceID uint) ([]dto.InvoiceItemDTO, error) {
	invoice, err := f.invoiceRepo.ByID(ctx, invoiceID)
	if err != nil {
		return nil, NewBusinessError("INVOICE_FETCH_FAILED", "failed to fetch invoice", err)
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}

	items, err := f.itemRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, NewBusinessError("INVOICE_ITEMS_FETCH_FAILED", "failed to fetch invoice items", err)
	}
	out := make([]dto.InvoiceItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, ToInvoiceItemDTO(*item))
	}
	return out, nil
}

// ListInvoiceItemsByServiceType lists billed line items across all invoices
// for one service type
func (f *BillingFlowImpl) ListInvoiceItemsByServiceType(ctx context.Context, serviceType string) ([]dto.InvoiceItemDTO, error) {
	serviceType = strings.TrimSpace(serviceType)
	if serviceType == "" {
		return nil, NewBusinessError("INVALID_SERVICE_TYPE", "service type is required", nil)
	}
	items, err := f.itemRepo.ListByServiceType(ctx, serviceType)
	if err != nil {
		return nil, NewBusinessError("INVOICE_ITEMS_FETCH_FAILED", "failed to fetch invoice items", err)
	}
	out := make([]dto.InvoiceItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, ToInvoiceItemDTO(*item))
	}
	return out, nil
}

// ExportInvoicesExcel writes every invoice to a one-sheet workbook and
// returns the suggested filename with the file contents
func (f *BillingFlowImpl) ExportInvoicesExcel(ctx context.Context) (string, []byte, error) {
	invoices, err := f.invoiceRepo.ByFilter(ctx, models.InvoiceFilter{}, "id ASC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("INVOICE_LIST_FAILED", "failed to list invoices", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Invoices"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"id", "uuid", "user_id", "period_start", "period_end", "total_amount", "status", "paid_at", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, inv := range invoices {
		paidAt := ""
		if inv.PaidAt != nil {
			paidAt = inv.PaidAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			strconv.FormatUint(uint64(inv.ID), 10),
			inv.UUID.String(),
			strconv.FormatUint(uint64(inv.UserID), 10),
			inv.BillingPeriodStart.UTC().Format(time.RFC3339),
			inv.BillingPeriodEnd.UTC().Format(time.RFC3339),
			strconv.FormatFloat(inv.TotalAmount, 'f', 2, 64),
			string(inv.Status),
			paidAt,
			inv.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "failed to write Excel file", err)
	}
	return "invoices.xlsx", buf.Bytes(), nil
}

func toInvoiceDTOs(invoices []*models.Invoice) []dto.InvoiceDTO {
	out := make([]dto.InvoiceDTO, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, ToInvoiceDTO(*inv))
	}
	return out
}

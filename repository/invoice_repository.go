package repository

import (
	"context"
	"time"

	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/utils"
	"gorm.io/gorm"
)

// InvoiceRepositoryImpl implements InvoiceRepository interface
type InvoiceRepositoryImpl struct {
	*BaseRepository[models.Invoice, models.InvoiceFilter]
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &InvoiceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Invoice, models.InvoiceFilter](db),
	}
}

// ListByUser lists invoices of a user, newest first
func (r *InvoiceRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*models.Invoice, error) {
	return r.ByFilter(ctx, models.InvoiceFilter{UserID: &userID}, "id DESC", 0, 0)
}

// ListByStatus lists invoices with the given status
func (r *InvoiceRepositoryImpl) ListByStatus(ctx context.Context, status models.InvoiceStatus) ([]*models.Invoice, error) {
	return r.ByFilter(ctx, models.InvoiceFilter{Status: &status}, "id DESC", 0, 0)
}

// ListUnpaid lists invoices that still await payment (pending or overdue)
func (r *InvoiceRepositoryImpl) ListUnpaid(ctx context.Context) ([]*models.Invoice, error) {
	unpaid := true
	return r.ByFilter(ctx, models.InvoiceFilter{Unpaid: &unpaid}, "id DESC", 0, 0)
}

// ListByPeriod lists invoices whose billing period falls inside [start, end]
func (r *InvoiceRepositoryImpl) ListByPeriod(ctx context.Context, start, end time.Time) ([]*models.Invoice, error) {
	return r.ByFilter(ctx, models.InvoiceFilter{PeriodStart: &start, PeriodEnd: &end}, "id ASC", 0, 0)
}

// MarkPaid settles the invoice and stamps the payment time
func (r *InvoiceRepositoryImpl) MarkPaid(ctx context.Context, id uint, paidAt time.Time) (*models.Invoice, error) {
	paid := models.InvoiceStatusPaid
	return r.Update(ctx, id, models.InvoicePatch{Status: &paid, PaidAt: &paidAt})
}

// UpdateTotal sets the invoice total; the billing flow calls this after items are written
func (r *InvoiceRepositoryImpl) UpdateTotal(ctx context.Context, id uint, total float64) error {
	_, err := r.Update(ctx, id, models.InvoicePatch{TotalAmount: &total})
	return err
}

// SumPaidBetween sums paid invoice totals with paid_at inside [start, end]
func (r *InvoiceRepositoryImpl) SumPaidBetween(ctx context.Context, start, end time.Time) (float64, error) {
	db := r.getDB(ctx)
	var total float64
	err := db.Model(&models.Invoice{}).
		Where("status = ? AND paid_at >= ? AND paid_at <= ?", models.InvoiceStatusPaid, start, end).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Update applies a patch to the invoice and returns the refreshed row
func (r *InvoiceRepositoryImpl) Update(ctx context.Context, id uint, patch models.InvoicePatch) (*models.Invoice, error) {
	cols := patch.Columns()
	if len(cols) > 0 {
		cols["updated_at"] = utils.UTCNow()
	}
	return r.updateColumns(ctx, id, cols)
}

func (r *InvoiceRepositoryImpl) applyFilter(query *gorm.DB, filter models.InvoiceFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Unpaid != nil && *filter.Unpaid {
		query = query.Where("status IN ?", []models.InvoiceStatus{models.InvoiceStatusPending, models.InvoiceStatusOverdue})
	}
	if filter.PeriodStart != nil {
		query = query.Where("billing_period_start >= ?", *filter.PeriodStart)
	}
	if filter.PeriodEnd != nil {
		query = query.Where("billing_period_end <= ?", *filter.PeriodEnd)
	}
	return query
}

// ByFilter retrieves invoices based on filter criteria
func (r *InvoiceRepositoryImpl) ByFilter(ctx context.Context, filter models.InvoiceFilter, orderBy string, limit, offset int) ([]*models.Invoice, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Invoice{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Invoice
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of invoices matching filter
func (r *InvoiceRepositoryImpl) Count(ctx context.Context, filter models.InvoiceFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Invoice{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

package repository

import (
	"context"

	"github.com/anatolia-telecom/backoffice/models"
	"gorm.io/gorm"
)

// InvoiceItemRepositoryImpl implements InvoiceItemRepository interface
type InvoiceItemRepositoryImpl struct {
	*BaseRepository[models.InvoiceItem, models.InvoiceItemFilter]
}

// NewInvoiceItemRepository creates a new invoice item repository
func NewInvoiceItemRepository(db *gorm.DB) InvoiceItemRepository {
	return &InvoiceItemRepositoryImpl{
		BaseRepository: NewBaseRepository[models.InvoiceItem, models.InvoiceItemFilter](db),
	}
}

// ListByInvoice lists the line items of an invoice in insertion order
func (r *InvoiceItemRepositoryImpl) ListByInvoice(ctx context.Context, invoiceID uint) ([]*models.InvoiceItem, error) {
	return r.ByFilter(ctx, models.InvoiceItemFilter{InvoiceID: &invoiceID}, "id ASC", 0, 0)
}

// ListByServiceType lists items across invoices for one service type
func (r *InvoiceItemRepositoryImpl) ListByServiceType(ctx context.Context, serviceType string) ([]*models.InvoiceItem, error) {
	return r.ByFilter(ctx, models.InvoiceItemFilter{ServiceType: &serviceType}, "id ASC", 0, 0)
}

// TotalForInvoice sums the item totals of an invoice
func (r *InvoiceItemRepositoryImpl) TotalForInvoice(ctx context.Context, invoiceID uint) (float64, error) {
	db := r.getDB(ctx)
	var total float64
	err := db.Model(&models.InvoiceItem{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Update applies a patch to the invoice item and returns the refreshed row
func (r *InvoiceItemRepositoryImpl) Update(ctx context.Context, id uint, patch models.InvoiceItemPatch) (*models.InvoiceItem, error) {
	return r.updateColumns(ctx, id, patch.Columns())
}

func (r *InvoiceItemRepositoryImpl) applyFilter(query *gorm.DB, filter models.InvoiceItemFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.InvoiceID != nil {
		query = query.Where("invoice_id = ?", *filter.InvoiceID)
	}
	if filter.ServiceType != nil {
		query = query.Where("service_type = ?", *filter.ServiceType)
	}
	return query
}

// ByFilter retrieves invoice items based on filter criteria
func (r *InvoiceItemRepositoryImpl) ByFilter(ctx context.Context, filter models.InvoiceItemFilter, orderBy string, limit, offset int) ([]*models.InvoiceItem, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.InvoiceItem{}), filter)

	if orderBy == "" {
		orderBy = "id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.InvoiceItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of invoice items matching filter
func (r *InvoiceItemRepositoryImpl) Count(ctx context.Context, filter models.InvoiceItemFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.InvoiceItem{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

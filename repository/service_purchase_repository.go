package repository

import (
	"context"
	"time"

	"github.com/anatolia-telecom/backoffice/models"
	"gorm.io/gorm"
)

// ServicePurchaseRepositoryImpl implements ServicePurchaseRepository interface
type ServicePurchaseRepositoryImpl struct {
	*BaseRepository[models.ServicePurchase, models.ServicePurchaseFilter]
}

// NewServicePurchaseRepository creates a new service purchase repository
func NewServicePurchaseRepository(db *gorm.DB) ServicePurchaseRepository {
	return &ServicePurchaseRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ServicePurchase, models.ServicePurchaseFilter](db),
	}
}

// ListByUser lists purchases of a user, newest first
func (r *ServicePurchaseRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*models.ServicePurchase, error) {
	return r.ByFilter(ctx, models.ServicePurchaseFilter{UserID: &userID}, "purchase_date DESC, id DESC", 0, 0)
}

// ListByUserAndType lists purchases of a user for one service type
func (r *ServicePurchaseRepositoryImpl) ListByUserAndType(ctx context.Context, userID uint, serviceType string) ([]*models.ServicePurchase, error) {
	return r.ByFilter(ctx, models.ServicePurchaseFilter{UserID: &userID, ServiceType: &serviceType}, "purchase_date DESC, id DESC", 0, 0)
}

// ListByDateRange lists purchases inside [start, end]
func (r *ServicePurchaseRepositoryImpl) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.ServicePurchase, error) {
	return r.ByFilter(ctx, models.ServicePurchaseFilter{PurchasedAfter: &start, PurchasedBefore: &end}, "purchase_date ASC, id ASC", 0, 0)
}

// ListByMonth lists purchases made in one calendar month. The upper bound is
// exclusive so a purchase stamped exactly at midnight on the 1st belongs to
// the following month only.
func (r *ServicePurchaseRepositoryImpl) ListByMonth(ctx context.Context, year int, month time.Month) ([]*models.ServicePurchase, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	db := r.getDB(ctx)
	var rows []*models.ServicePurchase
	err := db.Model(&models.ServicePurchase{}).
		Where("purchase_date >= ? AND purchase_date < ?", start, end).
		Order("purchase_date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListUnbilled lists the user's not-yet-invoiced purchases inside [from, to].
// Ordering is purchase_date ASC, id ASC so invoice line items are reproducible.
func (r *ServicePurchaseRepositoryImpl) ListUnbilled(ctx context.Context, userID uint, from, to time.Time) ([]*models.ServicePurchase, error) {
	db := r.getDB(ctx)
	var rows []*models.ServicePurchase
	err := db.Model(&models.ServicePurchase{}).
		Where("user_id = ? AND is_used = ? AND purchase_date >= ? AND purchase_date <= ?", userID, false, from, to).
		Order("purchase_date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkUsed flips is_used to true for the given purchases. Once set the flag
// is never cleared; a used purchase is permanently ineligible for billing.
func (r *ServicePurchaseRepositoryImpl) MarkUsed(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.ServicePurchase{}).
		Where("id IN ?", ids).
		Update("is_used", true).Error
	return err
}

// TotalSpentByUser sums the user's purchase prices
func (r *ServicePurchaseRepositoryImpl) TotalSpentByUser(ctx context.Context, userID uint) (float64, error) {
	db := r.getDB(ctx)
	var total float64
	err := db.Model(&models.ServicePurchase{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(purchase_price), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Update applies a patch to the purchase and returns the refreshed row
func (r *ServicePurchaseRepositoryImpl) Update(ctx context.Context, id uint, patch models.ServicePurchasePatch) (*models.ServicePurchase, error) {
	return r.updateColumns(ctx, id, patch.Columns())
}

func (r *ServicePurchaseRepositoryImpl) applyFilter(query *gorm.DB, filter models.ServicePurchaseFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ServiceType != nil {
		query = query.Where("service_type = ?", *filter.ServiceType)
	}
	if filter.IsUsed != nil {
		query = query.Where("is_used = ?", *filter.IsUsed)
	}
	if filter.PurchasedAfter != nil {
		query = query.Where("purchase_date >= ?", *filter.PurchasedAfter)
	}
	if filter.PurchasedBefore != nil {
		query = query.Where("purchase_date <= ?", *filter.PurchasedBefore)
	}
	return query
}

// ByFilter retrieves purchases based on filter criteria
func (r *ServicePurchaseRepositoryImpl) ByFilter(ctx context.Context, filter models.ServicePurchaseFilter, orderBy string, limit, offset int) ([]*models.ServicePurchase, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ServicePurchase{}), filter)

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

	var rows []*models.ServicePurchase
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of purchases matching filter
func (r *ServicePurchaseRepositoryImpl) Count(ctx context.Context, filter models.ServicePurchaseFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ServicePurchase{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

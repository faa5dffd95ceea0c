package repository

import (
	"context"
	"errors"
	"time"

	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/utils"
	"gorm.io/gorm"
)

// SubscriptionRepositoryImpl implements SubscriptionRepository interface
type SubscriptionRepositoryImpl struct {
	*BaseRepository[models.Subscription, models.SubscriptionFilter]
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Subscription, models.SubscriptionFilter](db),
	}
}

// ActiveByUser retrieves the user's single active subscription with its
// package joined. The billing flow depends on the package being present, so
// the fetch is explicit rather than lazy.
func (r *SubscriptionRepositoryImpl) ActiveByUser(ctx context.Context, userID uint) (*models.Subscription, error) {
	db := r.getDB(ctx)
	var row models.Subscription
	err := db.Preload("Package").
		Where("user_id = ? AND is_active = ?", userID, true).
		Last(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByUser lists all subscriptions of a user, newest first
func (r *SubscriptionRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*models.Subscription, error) {
	return r.ByFilter(ctx, models.SubscriptionFilter{UserID: &userID}, "id DESC", 0, 0)
}

// ListByPackage lists subscriptions of a package
func (r *SubscriptionRepositoryImpl) ListByPackage(ctx context.Context, packageID uint) ([]*models.Subscription, error) {
	return r.ByFilter(ctx, models.SubscriptionFilter{PackageID: &packageID}, "id DESC", 0, 0)
}

// ListExpiring lists active subscriptions whose commitment ends within the
// given duration. Expiry is discovered by this query; nothing self-expires.
func (r *SubscriptionRepositoryImpl) ListExpiring(ctx context.Context, within time.Duration) ([]*models.Subscription, error) {
	db := r.getDB(ctx)
	target := utils.UTCNowAdd(within)
	var rows []*models.Subscription
	err := db.Model(&models.Subscription{}).
		Where("is_active = ? AND end_date IS NOT NULL AND end_date <= ?", true, target).
		Order("end_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update applies a patch to the subscription and returns the refreshed row
func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, id uint, patch models.SubscriptionPatch) (*models.Subscription, error) {
	cols := patch.Columns()
	if len(cols) > 0 {
		cols["updated_at"] = utils.UTCNow()
	}
	return r.updateColumns(ctx, id, cols)
}

func (r *SubscriptionRepositoryImpl) applyFilter(query *gorm.DB, filter models.SubscriptionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.PackageID != nil {
		query = query.Where("package_id = ?", *filter.PackageID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.EndsBefore != nil {
		query = query.Where("end_date IS NOT NULL AND end_date <= ?", *filter.EndsBefore)
	}
	if filter.StartsAfter != nil {
		query = query.Where("start_date >= ?", *filter.StartsAfter)
	}
	return query
}

// ByFilter retrieves subscriptions based on filter criteria
func (r *SubscriptionRepositoryImpl) ByFilter(ctx context.Context, filter models.SubscriptionFilter, orderBy string, limit, offset int) ([]*models.Subscription, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Subscription{}), filter)

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

	var rows []*models.Subscription
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of subscriptions matching filter
func (r *SubscriptionRepositoryImpl) Count(ctx context.Context, filter models.SubscriptionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Subscription{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

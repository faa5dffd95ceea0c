package repository

import (
	"context"
	"errors"

	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/utils"
	"gorm.io/gorm"
)

// RemainingUsesRepositoryImpl implements RemainingUsesRepository interface
type RemainingUsesRepositoryImpl struct {
	*BaseRepository[models.RemainingUses, models.RemainingUsesFilter]
}

// NewRemainingUsesRepository creates a new remaining uses repository
func NewRemainingUsesRepository(db *gorm.DB) RemainingUsesRepository {
	return &RemainingUsesRepositoryImpl{
		BaseRepository: NewBaseRepository[models.RemainingUses, models.RemainingUsesFilter](db),
	}
}

// ListByUser lists all usage balances of a user
func (r *RemainingUsesRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*models.RemainingUses, error) {
	return r.ByFilter(ctx, models.RemainingUsesFilter{UserID: &userID}, "service_type ASC", 0, 0)
}

// ByUserAndService retrieves the balance row for one user/service pair
func (r *RemainingUsesRepositoryImpl) ByUserAndService(ctx context.Context, userID uint, serviceType string) (*models.RemainingUses, error) {
	db := r.getDB(ctx)
	var row models.RemainingUses
	err := db.Where("user_id = ? AND service_type = ?", userID, serviceType).Last(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Decrease consumes count units from the balance. The UPDATE is guarded by
// remaining_count >= count so the balance can never go below zero, even under
// concurrent calls. Missing row: (nil, nil). Insufficient balance:
// ErrInsufficientBalance with the balance unchanged.
func (r *RemainingUsesRepositoryImpl) Decrease(ctx context.Context, userID uint, serviceType string, count int) (*models.RemainingUses, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return nil, err
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

	res := db.Model(&models.RemainingUses{}).
		Where("user_id = ? AND service_type = ? AND remaining_count >= ?", userID, serviceType, count).
		Updates(map[string]any{
			"remaining_count": gorm.Expr("remaining_count - ?", count),
			"updated_at":      utils.UTCNow(),
		})
	if res.Error != nil {
		err = res.Error
		return nil, err
	}

	if res.RowsAffected == 0 {
		// Distinguish a missing pair from a too-low balance
		var existing models.RemainingUses
		err = db.Where("user_id = ? AND service_type = ?", userID, serviceType).Last(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = nil
				return nil, nil
			}
			return nil, err
		}
		err = ErrInsufficientBalance
		return nil, err
	}

	var row models.RemainingUses
	if err = db.Where("user_id = ? AND service_type = ?", userID, serviceType).Last(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Increase grants count units; total_allocated grows by the same amount so
// remaining_count <= total_allocated keeps holding
func (r *RemainingUsesRepositoryImpl) Increase(ctx context.Context, userID uint, serviceType string, count int) (*models.RemainingUses, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return nil, err
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

	res := db.Model(&models.RemainingUses{}).
		Where("user_id = ? AND service_type = ?", userID, serviceType).
		Updates(map[string]any{
			"remaining_count": gorm.Expr("remaining_count + ?", count),
			"total_allocated": gorm.Expr("total_allocated + ?", count),
			"updated_at":      utils.UTCNow(),
		})
	if res.Error != nil {
		err = res.Error
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	var row models.RemainingUses
	if err = db.Where("user_id = ? AND service_type = ?", userID, serviceType).Last(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update applies a patch to the balance row and returns the refreshed row
func (r *RemainingUsesRepositoryImpl) Update(ctx context.Context, id uint, patch models.RemainingUsesPatch) (*models.RemainingUses, error) {
	cols := patch.Columns()
	if len(cols) > 0 {
		cols["updated_at"] = utils.UTCNow()
	}
	return r.updateColumns(ctx, id, cols)
}

func (r *RemainingUsesRepositoryImpl) applyFilter(query *gorm.DB, filter models.RemainingUsesFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ServiceType != nil {
		query = query.Where("service_type = ?", *filter.ServiceType)
	}
	return query
}

// ByFilter retrieves usage balances based on filter criteria
func (r *RemainingUsesRepositoryImpl) ByFilter(ctx context.Context, filter models.RemainingUsesFilter, orderBy string, limit, offset int) ([]*models.RemainingUses, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.RemainingUses{}), filter)

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

	var rows []*models.RemainingUses
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of usage balances matching filter
func (r *RemainingUsesRepositoryImpl) Count(ctx context.Context, filter models.RemainingUsesFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.RemainingUses{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

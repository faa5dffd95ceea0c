package repository

import (
	"context"
	"errors"

	"github.com/anatolia-telecom/backoffice/models"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements UserRepository interface
type UserRepositoryImpl struct {
	*BaseRepository[models.User, models.UserFilter]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{
		BaseRepository: NewBaseRepository[models.User, models.UserFilter](db),
	}
}

// ByPhone retrieves a user by the unique phone number
func (r *UserRepositoryImpl) ByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	db := r.getDB(ctx)
	var row models.User
	if err := db.Where("phone_number = ?", phoneNumber).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByPackage lists users still on the legacy single-package reference
func (r *UserRepositoryImpl) ListByPackage(ctx context.Context, packageID uint) ([]*models.User, error) {
	return r.ByFilter(ctx, models.UserFilter{PackageID: &packageID}, "id ASC", 0, 0)
}

// Search finds users by phone fragment or by name/surname match
func (r *UserRepositoryImpl) Search(ctx context.Context, term string, limit int) ([]*models.User, error) {
	db := r.getDB(ctx)
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + term + "%"
	var rows []*models.User
	err := db.Model(&models.User{}).
		Where("phone_number LIKE ? OR name ILIKE ? OR surname ILIKE ?", pattern, pattern, pattern).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update applies a patch to the user and returns the refreshed row
func (r *UserRepositoryImpl) Update(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error) {
	return r.updateColumns(ctx, id, patch.Columns())
}

// applyFilter applies filter criteria to a GORM query
func (r *UserRepositoryImpl) applyFilter(query *gorm.DB, filter models.UserFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.Surname != nil {
		query = query.Where("surname = ?", *filter.Surname)
	}
	if filter.PhoneNumber != nil {
		query = query.Where("phone_number = ?", *filter.PhoneNumber)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.PackageID != nil {
		query = query.Where("package_id = ?", *filter.PackageID)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves users based on filter criteria
func (r *UserRepositoryImpl) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.User{}), filter)

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

	var rows []*models.User
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of users matching filter
func (r *UserRepositoryImpl) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.User{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

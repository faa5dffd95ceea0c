package repository

import (
	"context"

	"github.com/anatolia-telecom/backoffice/models"
	"gorm.io/gorm"
)

// PackageChangeRequestRepositoryImpl implements PackageChangeRequestRepository interface
type PackageChangeRequestRepositoryImpl struct {
	*BaseRepository[models.PackageChangeRequest, models.PackageChangeRequestFilter]
}

// NewPackageChangeRequestRepository creates a new package change request repository
func NewPackageChangeRequestRepository(db *gorm.DB) PackageChangeRequestRepository {
	return &PackageChangeRequestRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PackageChangeRequest, models.PackageChangeRequestFilter](db),
	}
}

// ListByUser lists change requests of a user, newest first
func (r *PackageChangeRequestRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*models.PackageChangeRequest, error) {
	return r.ByFilter(ctx, models.PackageChangeRequestFilter{UserID: &userID}, "id DESC", 0, 0)
}

// ListByStatus lists change requests with the given status
func (r *PackageChangeRequestRepositoryImpl) ListByStatus(ctx context.Context, status models.ChangeRequestStatus) ([]*models.PackageChangeRequest, error) {
	return r.ByFilter(ctx, models.PackageChangeRequestFilter{Status: &status}, "id DESC", 0, 0)
}

// ListPending lists change requests awaiting a decision, oldest first
func (r *PackageChangeRequestRepositoryImpl) ListPending(ctx context.Context) ([]*models.PackageChangeRequest, error) {
	pending := models.ChangeRequestStatusPending
	return r.ByFilter(ctx, models.PackageChangeRequestFilter{Status: &pending}, "requested_at ASC", 0, 0)
}

// Update applies a patch to the change request and returns the refreshed row
func (r *PackageChangeRequestRepositoryImpl) Update(ctx context.Context, id uint, patch models.PackageChangeRequestPatch) (*models.PackageChangeRequest, error) {
	return r.updateColumns(ctx, id, patch.Columns())
}

func (r *PackageChangeRequestRepositoryImpl) applyFilter(query *gorm.DB, filter models.PackageChangeRequestFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.RequestedPackageID != nil {
		query = query.Where("requested_package_id = ?", *filter.RequestedPackageID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// ByFilter retrieves change requests based on filter criteria
func (r *PackageChangeRequestRepositoryImpl) ByFilter(ctx context.Context, filter models.PackageChangeRequestFilter, orderBy string, limit, offset int) ([]*models.PackageChangeRequest, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.PackageChangeRequest{}), filter)

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

	var rows []*models.PackageChangeRequest
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of change requests matching filter
func (r *PackageChangeRequestRepositoryImpl) Count(ctx context.Context, filter models.PackageChangeRequestFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.PackageChangeRequest{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

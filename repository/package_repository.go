package repository

import (
	"context"

	"github.com/anatolia-telecom/backoffice/models"
	"gorm.io/gorm"
)

// PackageRepositoryImpl implements PackageRepository interface
type PackageRepositoryImpl struct {
	*BaseRepository[models.Package, models.PackageFilter]
}

// NewPackageRepository creates a new package repository
func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &PackageRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Package, models.PackageFilter](db),
	}
}

// ListActive lists packages currently offered
func (r *PackageRepositoryImpl) ListActive(ctx context.Context) ([]*models.Package, error) {
	active := true
	return r.ByFilter(ctx, models.PackageFilter{IsActive: &active}, "id ASC", 0, 0)
}

// Update applies a patch to the package and returns the refreshed row
func (r *PackageRepositoryImpl) Update(ctx context.Context, id uint, patch models.PackagePatch) (*models.Package, error) {
	return r.updateColumns(ctx, id, patch.Columns())
}

func (r *PackageRepositoryImpl) applyFilter(query *gorm.DB, filter models.PackageFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves packages based on filter criteria
func (r *PackageRepositoryImpl) ByFilter(ctx context.Context, filter models.PackageFilter, orderBy string, limit, offset int) ([]*models.Package, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Package{}), filter)

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

	var rows []*models.Package
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of packages matching filter
func (r *PackageRepositoryImpl) Count(ctx context.Context, filter models.PackageFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Package{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

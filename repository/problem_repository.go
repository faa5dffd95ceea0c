package repository

import (
	"context"
	"time"

	"github.com/anatolia-telecom/backoffice/models"
	"gorm.io/gorm"
)

// ProblemRepositoryImpl implements ProblemRepository interface
type ProblemRepositoryImpl struct {
	*BaseRepository[models.Problem, models.ProblemFilter]
}

// NewProblemRepository creates a new problem repository
func NewProblemRepository(db *gorm.DB) ProblemRepository {
	return &ProblemRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Problem, models.ProblemFilter](db),
	}
}

// ListByLocation lists problems reported at a location, newest first
func (r *ProblemRepositoryImpl) ListByLocation(ctx context.Context, location string) ([]*models.Problem, error) {
	return r.ByFilter(ctx, models.ProblemFilter{Location: &location}, "created_at DESC", 0, 0)
}

// ListOverdue lists unresolved problems whose estimated completion time has passed
func (r *ProblemRepositoryImpl) ListOverdue(ctx context.Context, now time.Time) ([]*models.Problem, error) {
	db := r.getDB(ctx)
	var rows []*models.Problem
	err := db.Where("status <> ? AND estimated_completion_time < ?", models.ProblemStatusResolved, now).
		Order("estimated_completion_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByDateRange lists problems created within [from, to], newest first
func (r *ProblemRepositoryImpl) ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.Problem, error) {
	return r.ByFilter(ctx, models.ProblemFilter{CreatedAfter: &from, CreatedBefore: &to}, "created_at DESC", 0, 0)
}

// Search finds problems whose location or description matches the term
func (r *ProblemRepositoryImpl) Search(ctx context.Context, term string) ([]*models.Problem, error) {
	db := r.getDB(ctx)
	pattern := "%" + term + "%"
	query := db.Where("location ILIKE ? OR description ILIKE ?", pattern, pattern).
		Order("created_at DESC")
	var rows []*models.Problem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update applies a patch to the problem and returns the refreshed row
func (r *ProblemRepositoryImpl) Update(ctx context.Context, id uint, patch models.ProblemPatch) (*models.Problem, error) {
	return r.updateColumns(ctx, id, patch.Columns())
}

func (r *ProblemRepositoryImpl) applyFilter(query *gorm.DB, filter models.ProblemFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Location != nil {
		query = query.Where("location = ?", *filter.Location)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves problems based on filter criteria
func (r *ProblemRepositoryImpl) ByFilter(ctx context.Context, filter models.ProblemFilter, orderBy string, limit, offset int) ([]*models.Problem, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Problem{}), filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Problem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of problems matching filter
func (r *ProblemRepositoryImpl) Count(ctx context.Context, filter models.ProblemFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Problem{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

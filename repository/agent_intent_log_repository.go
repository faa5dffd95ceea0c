package repository

import (
	"context"
	"time"

	"github.com/anatolia-telecom/backoffice/models"
	"gorm.io/gorm"
)

// AgentIntentLogRepositoryImpl implements AgentIntentLogRepository interface.
// Intent logs are append-only so there is no patch method.
type AgentIntentLogRepositoryImpl struct {
	*BaseRepository[models.AgentIntentLog, models.AgentIntentLogFilter]
}

// NewAgentIntentLogRepository creates a new agent intent log repository
func NewAgentIntentLogRepository(db *gorm.DB) AgentIntentLogRepository {
	return &AgentIntentLogRepositoryImpl{
		BaseRepository: NewBaseRepository[models.AgentIntentLog, models.AgentIntentLogFilter](db),
	}
}

// ListByUser lists intent logs of a user, newest first
func (r *AgentIntentLogRepositoryImpl) ListByUser(ctx context.Context, userID uint, limit int) ([]*models.AgentIntentLog, error) {
	return r.ByFilter(ctx, models.AgentIntentLogFilter{UserID: &userID}, "created_at DESC", limit, 0)
}

// ListByIntent lists logs classified with the given intent, newest first
func (r *AgentIntentLogRepositoryImpl) ListByIntent(ctx context.Context, intent string) ([]*models.AgentIntentLog, error) {
	return r.ByFilter(ctx, models.AgentIntentLogFilter{Intent: &intent}, "created_at DESC", 0, 0)
}

// ListRecent lists the most recent intent logs across all users
func (r *AgentIntentLogRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*models.AgentIntentLog, error) {
	return r.ByFilter(ctx, models.AgentIntentLogFilter{}, "created_at DESC", limit, 0)
}

// ListByDateRange lists logs created within [from, to], newest first
func (r *AgentIntentLogRepositoryImpl) ListByDateRange(ctx context.Context, from, to time.Time) ([]*models.AgentIntentLog, error) {
	return r.ByFilter(ctx, models.AgentIntentLogFilter{CreatedAfter: &from, CreatedBefore: &to}, "created_at DESC", 0, 0)
}

func (r *AgentIntentLogRepositoryImpl) applyFilter(query *gorm.DB, filter models.AgentIntentLogFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Intent != nil {
		query = query.Where("intent = ?", *filter.Intent)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves intent logs based on filter criteria
func (r *AgentIntentLogRepositoryImpl) ByFilter(ctx context.Context, filter models.AgentIntentLogFilter, orderBy string, limit, offset int) ([]*models.AgentIntentLog, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.AgentIntentLog{}), filter)

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

	var rows []*models.AgentIntentLog
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of intent logs matching filter
func (r *AgentIntentLogRepositoryImpl) Count(ctx context.Context, filter models.AgentIntentLogFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.AgentIntentLog{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

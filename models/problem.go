package models

import (
	"time"

	"github.com/anatolia-telecom/backoffice/utils"
	"gorm.io/gorm"
)

// Problem status constants
const (
	ProblemStatusOpen       = "open"
	ProblemStatusInProgress = "in_progress"
	ProblemStatusResolved   = "resolved"
)

// Problem priority constants
const (
	ProblemPriorityLow    = "low"
	ProblemPriorityMedium = "medium"
	ProblemPriorityHigh   = "high"
	ProblemPriorityUrgent = "urgent"
)

// Problem is a support ticket about a service issue at a location
// Table: problems
type Problem struct {
	ID                      uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Location                string    `gorm:"type:varchar(255);not null;index" json:"location"`
	Description             string    `gorm:"type:text;not null" json:"description"`
	EstimatedCompletionTime time.Time `gorm:"not null" json:"estimated_completion_time"`
	Status                  string    `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Priority                string    `gorm:"type:varchar(20);not null;default:'medium';index" json:"priority"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Problem) TableName() string { return "problems" }

func (p *Problem) BeforeCreate(tx *gorm.DB) error {
	if p.Status == "" {
		p.Status = ProblemStatusOpen
	}
	if p.Priority == "" {
		p.Priority = ProblemPriorityMedium
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// ProblemFilter represents filter criteria for problem queries
type ProblemFilter struct {
	ID            *uint      `json:"id,omitempty"`
	Location      *string    `json:"location,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Priority      *string    `json:"priority,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}

// ProblemPatch lists the mutable fields of a problem
type ProblemPatch struct {
	Location                *string    `json:"location,omitempty"`
	Description             *string    `json:"description,omitempty"`
	EstimatedCompletionTime *time.Time `json:"estimated_completion_time,omitempty"`
	Status                  *string    `json:"status,omitempty"`
	Priority                *string    `json:"priority,omitempty"`
}

func (p ProblemPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.EstimatedCompletionTime != nil {
		cols["estimated_completion_time"] = *p.EstimatedCompletionTime
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.Priority != nil {
		cols["priority"] = *p.Priority
	}
	return cols
}

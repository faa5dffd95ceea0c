package models

import (
	"time"

	"github.com/anatolia-telecom/backoffice/utils"
	"gorm.io/gorm"
)

// RemainingUses is a prepaid, decrementing usage balance per user and
// service type, independent of invoicing
// Table: remaining_uses
// Invariant remaining_count <= total_allocated is maintained by the
// increase/decrease operations; remaining_count never goes below zero
type RemainingUses struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint       `gorm:"not null;uniqueIndex:idx_remaining_uses_user_service" json:"user_id"`
	ServiceType    string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_remaining_uses_user_service" json:"service_type"`
	RemainingCount int        `gorm:"not null;default:0" json:"remaining_count"`
	TotalAllocated int        `gorm:"not null;default:0" json:"total_allocated"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (RemainingUses) TableName() string { return "remaining_uses" }

func (r *RemainingUses) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// RemainingUsesFilter represents filter criteria for usage balance queries
type RemainingUsesFilter struct {
	ID          *uint   `json:"id,omitempty"`
	UserID      *uint   `json:"user_id,omitempty"`
	ServiceType *string `json:"service_type,omitempty"`
}

// RemainingUsesPatch lists the mutable fields of a usage balance
type RemainingUsesPatch struct {
	RemainingCount *int       `json:"remaining_count,omitempty"`
	TotalAllocated *int       `json:"total_allocated,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

func (p RemainingUsesPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.RemainingCount != nil {
		cols["remaining_count"] = *p.RemainingCount
	}
	if p.TotalAllocated != nil {
		cols["total_allocated"] = *p.TotalAllocated
	}
	if p.ExpiresAt != nil {
		cols["expires_at"] = *p.ExpiresAt
	}
	return cols
}

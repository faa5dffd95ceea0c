package models

import (
	"time"

	"github.com/anatolia-telecom/backoffice/utils"
	"gorm.io/gorm"
)

// Subscription links a user to a package for a period of time
// Table: subscriptions
// At most one subscription per user has is_active=true; this is enforced by
// the subscription flow, not by the schema
// EndDate is the contractual commitment end when ContractMonths > 0, or the
// deactivation time once the subscription is closed
type Subscription struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	PackageID      uint       `gorm:"not null;index" json:"package_id"`
	StartDate      time.Time  `gorm:"not null" json:"start_date"`
	EndDate        *time.Time `gorm:"index" json:"end_date,omitempty"`
	ContractMonths *int       `json:"contract_months,omitempty"`
	IsActive       *bool      `gorm:"default:true;index" json:"is_active,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	User    *User    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Package *Package `gorm:"foreignKey:PackageID;references:ID" json:"package,omitempty"`
}

func (Subscription) TableName() string { return "subscriptions" }

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.StartDate.IsZero() {
		s.StartDate = utils.UTCNow()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// SubscriptionFilter represents filter criteria for subscription queries
type SubscriptionFilter struct {
	ID          *uint      `json:"id,omitempty"`
	UserID      *uint      `json:"user_id,omitempty"`
	PackageID   *uint      `json:"package_id,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
	EndsBefore  *time.Time `json:"ends_before,omitempty"`
	StartsAfter *time.Time `json:"starts_after,omitempty"`
}

// SubscriptionPatch lists the mutable fields of a subscription
type SubscriptionPatch struct {
	EndDate        *time.Time `json:"end_date,omitempty"`
	ContractMonths *int       `json:"contract_months,omitempty"`
	IsActive       *bool      `json:"is_active,omitempty"`
}

func (p SubscriptionPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.EndDate != nil {
		cols["end_date"] = *p.EndDate
	}
	if p.ContractMonths != nil {
		cols["contract_months"] = *p.ContractMonths
	}
	if p.IsActive != nil {
		cols["is_active"] = *p.IsActive
	}
	return cols
}

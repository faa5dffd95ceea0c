// Package models contains the persisted entities of the back-office system
package models

import (
	"time"

	"github.com/anatolia-telecom/backoffice/utils"
	"gorm.io/gorm"
)

// User represents a customer of the operator
// Table: users
// PhoneNumber is the natural lookup key used by the call-center agents
// PackageID is the legacy single-package reference kept for old rows;
// current ownership is modeled through subscriptions
type User struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"type:varchar(100);not null" json:"name"`
	Surname     string  `gorm:"type:varchar(100);not null" json:"surname"`
	PhoneNumber string  `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone_number"`
	Email       *string `gorm:"type:varchar(255)" json:"email,omitempty"`
	IsActive    *bool   `gorm:"default:true;index" json:"is_active,omitempty"`
	PackageID   *uint   `gorm:"index" json:"package_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Package       *Package        `gorm:"foreignKey:PackageID;references:ID" json:"package,omitempty"`
	Subscriptions []Subscription  `gorm:"foreignKey:UserID" json:"subscriptions,omitempty"`
	RemainingUses []RemainingUses `gorm:"foreignKey:UserID" json:"remaining_uses,omitempty"`
}

func (User) TableName() string { return "users" }

// BeforeCreate normalizes timestamps if zero
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = utils.UTCNow()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID            *uint      `json:"id,omitempty"`
	Name          *string    `json:"name,omitempty"`
	Surname       *string    `json:"surname,omitempty"`
	PhoneNumber   *string    `json:"phone_number,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
	PackageID     *uint      `json:"package_id,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}

// UserPatch lists the mutable fields of a user; nil fields are left untouched
type UserPatch struct {
	Name        *string `json:"name,omitempty"`
	Surname     *string `json:"surname,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Email       *string `json:"email,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	PackageID   *uint   `json:"package_id,omitempty"`
}

// Columns returns the patch as column/value pairs for an UPDATE
func (p UserPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Surname != nil {
		cols["surname"] = *p.Surname
	}
	if p.PhoneNumber != nil {
		cols["phone_number"] = *p.PhoneNumber
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.IsActive != nil {
		cols["is_active"] = *p.IsActive
	}
	if p.PackageID != nil {
		cols["package_id"] = *p.PackageID
	}
	return cols
}

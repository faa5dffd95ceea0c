package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/anatolia-telecom/backoffice/utils"
	"gorm.io/gorm"
)

// ChangeRequestStatus represents the state of a package change request
type ChangeRequestStatus string

const (
	ChangeRequestStatusPending  ChangeRequestStatus = "pending"
	ChangeRequestStatusApproved ChangeRequestStatus = "approved"
	ChangeRequestStatusRejected ChangeRequestStatus = "rejected"
)

func (s ChangeRequestStatus) String() string { return string(s) }

// Valid checks if the status is valid
func (s ChangeRequestStatus) Valid() bool {
	switch s {
	case ChangeRequestStatusPending, ChangeRequestStatusApproved, ChangeRequestStatusRejected:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for ChangeRequestStatus
func (s *ChangeRequestStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = ChangeRequestStatus(v)
	case []byte:
		*s = ChangeRequestStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ChangeRequestStatus", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for ChangeRequestStatus
func (s ChangeRequestStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// PackageChangeRequest is a user's request to switch to another package;
// approval is what creates subscriptions
// Table: package_change_requests
type PackageChangeRequest struct {
	ID                 uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             uint                `gorm:"not null;index" json:"user_id"`
	RequestedPackageID uint                `gorm:"not null;index" json:"requested_package_id"`
	Status             ChangeRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RequestedAt        time.Time           `gorm:"not null" json:"requested_at"`
	ProcessedAt        *time.Time          `json:"processed_at,omitempty"`

	// Relations
	User             *User    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	RequestedPackage *Package `gorm:"foreignKey:RequestedPackageID;references:ID" json:"requested_package,omitempty"`
}

func (PackageChangeRequest) TableName() string { return "package_change_requests" }

func (r *PackageChangeRequest) BeforeCreate(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = ChangeRequestStatusPending
	}
	if r.RequestedAt.IsZero() {
		r.RequestedAt = utils.UTCNow()
	}
	return nil
}

// PackageChangeRequestFilter represents filter criteria for request queries
type PackageChangeRequestFilter struct {
	ID                 *uint                `json:"id,omitempty"`
	UserID             *uint                `json:"user_id,omitempty"`
	RequestedPackageID *uint                `json:"requested_package_id,omitempty"`
	Status             *ChangeRequestStatus `json:"status,omitempty"`
}

// PackageChangeRequestPatch lists the mutable fields of a request
type PackageChangeRequestPatch struct {
	RequestedPackageID *uint                `json:"requested_package_id,omitempty"`
	Status             *ChangeRequestStatus `json:"status,omitempty"`
	ProcessedAt        *time.Time           `json:"processed_at,omitempty"`
}

func (p PackageChangeRequestPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.RequestedPackageID != nil {
		cols["requested_package_id"] = *p.RequestedPackageID
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.ProcessedAt != nil {
		cols["processed_at"] = *p.ProcessedAt
	}
	return cols
}

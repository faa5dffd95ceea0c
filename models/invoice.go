package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/anatolia-telecom/backoffice/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusPaid     InvoiceStatus = "paid"
	InvoiceStatusCanceled InvoiceStatus = "canceled"
	InvoiceStatusOverdue  InvoiceStatus = "overdue"
)

// String returns the string representation of the status
func (s InvoiceStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCanceled, InvoiceStatusOverdue:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for InvoiceStatus
func (s *InvoiceStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = InvoiceStatus(v)
	case []byte:
		*s = InvoiceStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into InvoiceStatus", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for InvoiceStatus
func (s InvoiceStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Invoice represents a bill issued to a user for a billing period
// Table: invoices
// TotalAmount always equals the sum of the invoice's items' total_price;
// the billing flow maintains this inside one transaction
type Invoice struct {
	ID                 uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID               uuid.UUID     `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	UserID             uint          `gorm:"not null;index" json:"user_id"`
	BillingPeriodStart time.Time     `gorm:"not null;index" json:"billing_period_start"`
	BillingPeriodEnd   time.Time     `gorm:"not null;index" json:"billing_period_end"`
	TotalAmount        float64       `gorm:"type:numeric(12,2);not null;default:0" json:"total_amount"`
	Status             InvoiceStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaidAt             *time.Time    `json:"paid_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	User  *User         `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

func (Invoice) TableName() string { return "invoices" }

// BeforeCreate ensures UUID is set and normalizes timestamps
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.UUID == uuid.Nil {
		i.UUID = uuid.New()
	}
	if i.Status == "" {
		i.Status = InvoiceStatusPending
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = utils.UTCNow()
	}
	if i.UpdatedAt.IsZero() {
		i.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// IsPaid reports whether the invoice has been settled
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// InvoiceFilter represents filter criteria for invoice queries
type InvoiceFilter struct {
	ID          *uint          `json:"id,omitempty"`
	UUID        *uuid.UUID     `json:"uuid,omitempty"`
	UserID      *uint          `json:"user_id,omitempty"`
	Status      *InvoiceStatus `json:"status,omitempty"`
	Unpaid      *bool          `json:"unpaid,omitempty"`
	PeriodStart *time.Time     `json:"period_start,omitempty"`
	PeriodEnd   *time.Time     `json:"period_end,omitempty"`
}

// InvoicePatch lists the mutable fields of an invoice
type InvoicePatch struct {
	TotalAmount *float64       `json:"total_amount,omitempty"`
	Status      *InvoiceStatus `json:"status,omitempty"`
	PaidAt      *time.Time     `json:"paid_at,omitempty"`
}

func (p InvoicePatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.TotalAmount != nil {
		cols["total_amount"] = *p.TotalAmount
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.PaidAt != nil {
		cols["paid_at"] = *p.PaidAt
	}
	return cols
}

package models

import (
	"time"

	"github.com/anatolia-telecom/backoffice/utils"
	"gorm.io/gorm"
)

// Service type constants shared by purchases, invoice items, and usage balances
const (
	ServiceTypeSMS     = "SMS"
	ServiceTypeEmail   = "Email"
	ServiceTypeCall    = "Call"
	ServiceTypePackage = "Package"
)

// ServicePurchase is a one-off purchase of service units outside the base
// subscription (e.g. an extra SMS bundle)
// Table: service_purchases
// IsUsed flips to true exactly once, when the purchase is folded into an
// invoice; it is never billed again afterwards
type ServicePurchase struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	ServiceType   string    `gorm:"type:varchar(100);not null;index" json:"service_type"`
	Count         int       `gorm:"not null;default:0" json:"count"`
	UnitPrice     float64   `gorm:"type:numeric(12,2);not null;default:0" json:"unit_price"`
	PurchasePrice float64   `gorm:"type:numeric(12,2);not null" json:"purchase_price"`
	PurchaseDate  time.Time `gorm:"not null;index" json:"purchase_date"`
	IsUsed        *bool     `gorm:"default:false;index" json:"is_used,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (ServicePurchase) TableName() string { return "service_purchases" }

func (sp *ServicePurchase) BeforeCreate(tx *gorm.DB) error {
	if sp.PurchaseDate.IsZero() {
		sp.PurchaseDate = utils.UTCNow()
	}
	if sp.CreatedAt.IsZero() {
		sp.CreatedAt = utils.UTCNow()
	}
	return nil
}

// ServicePurchaseFilter represents filter criteria for purchase queries
type ServicePurchaseFilter struct {
	ID              *uint      `json:"id,omitempty"`
	UserID          *uint      `json:"user_id,omitempty"`
	ServiceType     *string    `json:"service_type,omitempty"`
	IsUsed          *bool      `json:"is_used,omitempty"`
	PurchasedAfter  *time.Time `json:"purchased_after,omitempty"`
	PurchasedBefore *time.Time `json:"purchased_before,omitempty"`
}

// ServicePurchasePatch lists the mutable fields of a service purchase
type ServicePurchasePatch struct {
	ServiceType   *string    `json:"service_type,omitempty"`
	Count         *int       `json:"count,omitempty"`
	UnitPrice     *float64   `json:"unit_price,omitempty"`
	PurchasePrice *float64   `json:"purchase_price,omitempty"`
	PurchaseDate  *time.Time `json:"purchase_date,omitempty"`
	IsUsed        *bool      `json:"is_used,omitempty"`
}

func (p ServicePurchasePatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.ServiceType != nil {
		cols["service_type"] = *p.ServiceType
	}
	if p.Count != nil {
		cols["count"] = *p.Count
	}
	if p.UnitPrice != nil {
		cols["unit_price"] = *p.UnitPrice
	}
	if p.PurchasePrice != nil {
		cols["purchase_price"] = *p.PurchasePrice
	}
	if p.PurchaseDate != nil {
		cols["purchase_date"] = *p.PurchaseDate
	}
	if p.IsUsed != nil {
		cols["is_used"] = *p.IsUsed
	}
	return cols
}

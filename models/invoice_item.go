package models

import (
	"time"

	"github.com/anatolia-telecom/backoffice/utils"
	"gorm.io/gorm"
)

// DefaultTaxRate is the VAT rate applied to invoice items unless configured otherwise
const DefaultTaxRate = 0.18

// InvoiceItem is a single line of an invoice
// Table: invoice_items
type InvoiceItem struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceID   uint    `gorm:"not null;index" json:"invoice_id"`
	ServiceType string  `gorm:"type:varchar(100);not null;index" json:"service_type"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   float64 `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice  float64 `gorm:"type:numeric(12,2);not null" json:"total_price"`
	TaxRate     float64 `gorm:"type:numeric(4,2);not null;default:0.18" json:"tax_rate"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relations
	Invoice *Invoice `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE" json:"invoice,omitempty"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }

func (ii *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if ii.TaxRate == 0 {
		ii.TaxRate = DefaultTaxRate
	}
	if ii.CreatedAt.IsZero() {
		ii.CreatedAt = utils.UTCNow()
	}
	return nil
}

// InvoiceItemFilter represents filter criteria for invoice item queries
type InvoiceItemFilter struct {
	ID          *uint   `json:"id,omitempty"`
	InvoiceID   *uint   `json:"invoice_id,omitempty"`
	ServiceType *string `json:"service_type,omitempty"`
}

// InvoiceItemPatch lists the mutable fields of an invoice item
type InvoiceItemPatch struct {
	Description *string  `json:"description,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	TotalPrice  *float64 `json:"total_price,omitempty"`
	TaxRate     *float64 `json:"tax_rate,omitempty"`
}

func (p InvoiceItemPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Quantity != nil {
		cols["quantity"] = *p.Quantity
	}
	if p.UnitPrice != nil {
		cols["unit_price"] = *p.UnitPrice
	}
	if p.TotalPrice != nil {
		cols["total_price"] = *p.TotalPrice
	}
	if p.TaxRate != nil {
		cols["tax_rate"] = *p.TaxRate
	}
	return cols
}

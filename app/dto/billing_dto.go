package dto

import "time"

// GenerateInvoiceRequest triggers a billing run for a user
type GenerateInvoiceRequest struct {
	UserID    uint       `json:"user_id" validate:"required,gt=0"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// InvoiceDTO represents an invoice in API responses
type InvoiceDTO struct {
	ID                 uint             `json:"id"`
	UUID               string           `json:"uuid"`
	UserID             uint             `json:"user_id"`
	BillingPeriodStart time.Time        `json:"billing_period_start"`
	BillingPeriodEnd   time.Time        `json:"billing_period_end"`
	TotalAmount        float64          `json:"total_amount"`
	Status             string           `json:"status"`
	PaidAt             *time.Time       `json:"paid_at,omitempty"`
	Items              []InvoiceItemDTO `json:"items,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

// InvoiceItemDTO represents a single invoice line
type InvoiceItemDTO struct {
	ID          uint    `json:"id"`
	InvoiceID   uint    `json:"invoice_id"`
	ServiceType string  `json:"service_type"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
	TaxRate     float64 `json:"tax_rate"`
}

// CreateServicePurchaseRequest records a pay-per-use purchase
type CreateServicePurchaseRequest struct {
	UserID       uint       `json:"user_id" validate:"required,gt=0"`
	ServiceType  string     `json:"service_type" validate:"required,oneof=SMS Email Call"`
	Count        int        `json:"count" validate:"required,gt=0"`
	UnitPrice    float64    `json:"unit_price" validate:"required,gt=0"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
}

// ServicePurchaseDTO represents a service purchase in API responses
type ServicePurchaseDTO struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user_id"`
	ServiceType   string    `json:"service_type"`
	Count         int       `json:"count"`
	UnitPrice     float64   `json:"unit_price"`
	PurchasePrice float64   `json:"purchase_price"`
	PurchaseDate  time.Time `json:"purchase_date"`
	IsUsed        *bool     `json:"is_used"`
}

// TotalSpentResponse reports a user's lifetime purchase total
type TotalSpentResponse struct {
	UserID     uint    `json:"user_id"`
	TotalSpent float64 `json:"total_spent"`
}

// RemainingUsesDTO represents a prepaid usage balance
type RemainingUsesDTO struct {
	ID             uint       `json:"id"`
	UserID         uint       `json:"user_id"`
	ServiceType    string     `json:"service_type"`
	RemainingCount int        `json:"remaining_count"`
	TotalAllocated int        `json:"total_allocated"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// AdjustBalanceRequest decreases or increases a prepaid balance
type AdjustBalanceRequest struct {
	UserID      uint   `json:"user_id" validate:"required,gt=0"`
	ServiceType string `json:"service_type" validate:"required,oneof=SMS Email Call"`
	Count       int    `json:"count" validate:"required,gt=0"`
}

package dto

import "time"

// CustomerInfoResponse aggregates everything an agent needs on one screen
type CustomerInfoResponse struct {
	User               UserDTO            `json:"user"`
	ActiveSubscription *SubscriptionDTO   `json:"active_subscription,omitempty"`
	RemainingUses      []RemainingUsesDTO `json:"remaining_uses"`
	UnpaidInvoices     []InvoiceDTO       `json:"unpaid_invoices"`
	UnpaidTotal        float64            `json:"unpaid_total"`
}

// QuickSearchResponse lists users matching a phone fragment or name
type QuickSearchResponse struct {
	Message string    `json:"message"`
	Items   []UserDTO `json:"items"`
}

// ComplaintRequest opens a problem record from a customer complaint
type ComplaintRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,min=7,max=20"`
	Location    string `json:"location" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"required,min=1"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
}

// ComplaintResponse reports the opened problem and the logged interaction
type ComplaintResponse struct {
	Message string     `json:"message"`
	Problem ProblemDTO `json:"problem"`
}

// LogInteractionRequest records a classified agent interaction
type LogInteractionRequest struct {
	UserID     *uint    `json:"user_id,omitempty" validate:"omitempty,gt=0"`
	Intent     string   `json:"intent" validate:"required,min=1,max=100"`
	Message    string   `json:"message" validate:"required,min=1"`
	Confidence *float64 `json:"confidence,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// InteractionDTO represents a logged interaction in API responses
type InteractionDTO struct {
	ID         uint      `json:"id"`
	UserID     *uint     `json:"user_id,omitempty"`
	Intent     string    `json:"intent"`
	Message    string    `json:"message"`
	Confidence *float64  `json:"confidence,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

package dto

import "time"

// CreatePackageRequest holds the fields for defining a tariff package
type CreatePackageRequest struct {
	Name       string            `json:"name" validate:"required,min=1,max=255" example:"Fiber 100"`
	Type       string            `json:"type" validate:"required,oneof=mobile internet modem" example:"internet"`
	Details    map[string]string `json:"details,omitempty"`
	Commitment string            `json:"commitment,omitempty" example:"12 ay"`
	MonthlyFee float64           `json:"monthly_fee" validate:"required,gt=0" example:"349.90"`
}

// UpdatePackageRequest holds the mutable package fields; nil means unchanged
type UpdatePackageRequest struct {
	Name       *string            `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Type       *string            `json:"type,omitempty" validate:"omitempty,oneof=mobile internet modem"`
	Details    *map[string]string `json:"details,omitempty"`
	Commitment *string            `json:"commitment,omitempty"`
	MonthlyFee *float64           `json:"monthly_fee,omitempty" validate:"omitempty,gt=0"`
	IsActive   *bool              `json:"is_active,omitempty"`
}

// PackageDTO represents a tariff package in API responses
type PackageDTO struct {
	ID         uint              `json:"id"`
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	Details    map[string]string `json:"details,omitempty"`
	Commitment string            `json:"commitment"`
	MonthlyFee float64           `json:"monthly_fee"`
	IsActive   *bool             `json:"is_active"`
	CreatedAt  time.Time         `json:"created_at"`
}

package dto

import "time"

// SubscriptionDTO represents a subscription in API responses
type SubscriptionDTO struct {
	ID             uint        `json:"id"`
	UserID         uint        `json:"user_id"`
	PackageID      uint        `json:"package_id"`
	StartDate      time.Time   `json:"start_date"`
	EndDate        *time.Time  `json:"end_date,omitempty"`
	ContractMonths *int        `json:"contract_months,omitempty"`
	IsActive       *bool       `json:"is_active"`
	Package        *PackageDTO `json:"package,omitempty"`
}

// CreateChangeRequestRequest asks for a package change on behalf of a user
type CreateChangeRequestRequest struct {
	UserID             uint `json:"user_id" validate:"required,gt=0"`
	RequestedPackageID uint `json:"requested_package_id" validate:"required,gt=0"`
}

// ChangeRequestDTO represents a package change request in API responses
type ChangeRequestDTO struct {
	ID                 uint       `json:"id"`
	UserID             uint       `json:"user_id"`
	RequestedPackageID uint       `json:"requested_package_id"`
	Status             string     `json:"status"`
	RequestedAt        time.Time  `json:"requested_at"`
	ProcessedAt        *time.Time `json:"processed_at,omitempty"`
}

// ApproveChangeRequestResponse reports the outcome of an approval
type ApproveChangeRequestResponse struct {
	Message      string           `json:"message"`
	Request      ChangeRequestDTO `json:"request"`
	Subscription SubscriptionDTO  `json:"subscription"`
}

// CommitmentTimeResponse reports how much of a commitment is left
type CommitmentTimeResponse struct {
	UserID        uint       `json:"user_id"`
	PackageName   string     `json:"package_name"`
	Commitment    string     `json:"commitment"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	RemainingDays int        `json:"remaining_days"`
	Expired       bool       `json:"expired"`
}

// Package businessflow contains the core business logic for billing and subscription workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound     = errors.New("user not found")
	ErrUserInactive     = errors.New("user is inactive")
	ErrPhoneAlreadyUsed = errors.New("phone number already registered")

	// Package-related errors
	ErrPackageNotFound = errors.New("package not found")
	ErrPackageInactive = errors.New("package is inactive")

	// Subscription-related errors
	ErrSubscriptionNotFound   = errors.New("subscription not found")
	ErrNoActiveSubscription   = errors.New("user has no active subscription")
	ErrSubscriptionNotActive  = errors.New("subscription is not active")
	ErrInvalidCommitmentValue = errors.New("commitment value is not recognized")

	// Change request errors
	ErrChangeRequestNotFound         = errors.New("package change request not found")
	ErrChangeRequestAlreadyProcessed = errors.New("package change request already processed")

	// Billing errors
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrInvoiceAlreadyPaid = errors.New("invoice already paid")
	ErrNothingToBill      = errors.New("nothing to bill for the user")

	// Balance errors
	ErrBalanceNotFound     = errors.New("remaining usage balance not found")
	ErrInsufficientBalance = errors.New("insufficient remaining balance")
	ErrInvalidAmount       = errors.New("amount must be positive")

	// Problem errors
	ErrProblemNotFound = errors.New("problem not found")

	// Query validation errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsUserInactive(err error) bool {
	return errors.Is(err, ErrUserInactive)
}

func IsPhoneAlreadyUsed(err error) bool {
	return errors.Is(err, ErrPhoneAlreadyUsed)
}

func IsPackageNotFound(err error) bool {
	return errors.Is(err, ErrPackageNotFound)
}

func IsPackageInactive(err error) bool {
	return errors.Is(err, ErrPackageInactive)
}

func IsSubscriptionNotFound(err error) bool {
	return errors.Is(err, ErrSubscriptionNotFound)
}

func IsNoActiveSubscription(err error) bool {
	return errors.Is(err, ErrNoActiveSubscription)
}

func IsSubscriptionNotActive(err error) bool {
	return errors.Is(err, ErrSubscriptionNotActive)
}

func IsInvalidCommitmentValue(err error) bool {
	return errors.Is(err, ErrInvalidCommitmentValue)
}

func IsChangeRequestNotFound(err error) bool {
	return errors.Is(err, ErrChangeRequestNotFound)
}

func IsChangeRequestAlreadyProcessed(err error) bool {
	return errors.Is(err, ErrChangeRequestAlreadyProcessed)
}

func IsInvoiceNotFound(err error) bool {
	return errors.Is(err, ErrInvoiceNotFound)
}

func IsInvoiceAlreadyPaid(err error) bool {
	return errors.Is(err, ErrInvoiceAlreadyPaid)
}

func IsNothingToBill(err error) bool {
	return errors.Is(err, ErrNothingToBill)
}

func IsBalanceNotFound(err error) bool {
	return errors.Is(err, ErrBalanceNotFound)
}

func IsInsufficientBalance(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

func IsInvalidAmount(err error) bool {
	return errors.Is(err, ErrInvalidAmount)
}

func IsProblemNotFound(err error) bool {
	return errors.Is(err, ErrProblemNotFound)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}

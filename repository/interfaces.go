// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/anatolia-telecom/backoffice/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

// ErrInsufficientBalance is returned by RemainingUsesRepository.Decrease when
// the balance row exists but holds fewer units than requested. A missing row
// is reported as (nil, nil) like every other absent entity.
var ErrInsufficientBalance = errors.New("insufficient remaining balance")

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Delete(ctx context.Context, id uint) (bool, error)
	Count(ctx context.Context, filter F) (int64, error)
}

// UserRepository defines operations for users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByPhone(ctx context.Context, phoneNumber string) (*models.User, error)
	ListByPackage(ctx context.Context, packageID uint) ([]*models.User, error)
	Search(ctx context.Context, term string, limit int) ([]*models.User, error)
	Update(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error)
}

// PackageRepository defines operations for packages
type PackageRepository interface {
	Repository[models.Package, models.PackageFilter]
	ListActive(ctx context.Context) ([]*models.Package, error)
	Update(ctx context.Context, id uint, patch models.PackagePatch) (*models.Package, error)
}

// SubscriptionRepository defines operations for subscriptions
type SubscriptionRepository interface {
	Repository[models.Subscription, models.SubscriptionFilter]
	ActiveByUser(ctx context.Context, userID uint) (*models.Subscription, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Subscription, error)
	ListByPackage(ctx context.Context, packageID uint) ([]*models.Subscription, error)
	ListExpiring(ctx context.Context, within time.Duration) ([]*models.Subscription, error)
	Update(ctx context.Context, id uint, patch models.SubscriptionPatch) (*models.Subscription, error)
}

// ServicePurchaseRepository defines operations for service purchases
type ServicePurchaseRepository interface {
	Repository[models.ServicePurchase, models.ServicePurchaseFilter]
	ListByUser(ctx context.Context, userID uint) ([]*models.ServicePurchase, error)
	ListByUserAndType(ctx context.Context, userID uint, serviceType string) ([]*models.ServicePurchase, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.ServicePurchase, error)
	ListByMonth(ctx context.Context, year int, month time.Month) ([]*models.ServicePurchase, error)
	ListUnbilled(ctx context.Context, userID uint, from, to time.Time) ([]*models.ServicePurchase, error)
	MarkUsed(ctx context.Context, ids []uint) error
	TotalSpentByUser(ctx context.Context, userID uint) (float64, error)
	Update(ctx context.Context, id uint, patch models.ServicePurchasePatch) (*models.ServicePurchase, error)
}

// InvoiceRepository defines operations for invoices
type InvoiceRepository interface {
	Repository[models.Invoice, models.InvoiceFilter]
	ListByUser(ctx context.Context, userID uint) ([]*models.Invoice, error)
	ListByStatus(ctx context.Context, status models.InvoiceStatus) ([]*models.Invoice, error)
	ListUnpaid(ctx context.Context) ([]*models.Invoice, error)
	ListByPeriod(ctx context.Context, start, end time.Time) ([]*models.Invoice, error)
	MarkPaid(ctx context.Context, id uint, paidAt time.Time) (*models.Invoice, error)
	UpdateTotal(ctx context.Context, id uint, total float64) error
	SumPaidBetween(ctx context.Context, start, end time.Time) (float64, error)
	Update(ctx context.Context, id uint, patch models.InvoicePatch) (*models.Invoice, error)
}

// InvoiceItemRepository defines operations for invoice items
type InvoiceItemRepository interface {
	Repository[models.InvoiceItem, models.InvoiceItemFilter]
	ListByInvoice(ctx context.Context, invoiceID uint) ([]*models.InvoiceItem, error)
	ListByServiceType(ctx context.Context, serviceType string) ([]*models.InvoiceItem, error)
	TotalForInvoice(ctx context.Context, invoiceID uint) (float64, error)
	Update(ctx context.Context, id uint, patch models.InvoiceItemPatch) (*models.InvoiceItem, error)
}

// RemainingUsesRepository defines operations for prepaid usage balances
type RemainingUsesRepository interface {
	Repository[models.RemainingUses, models.RemainingUsesFilter]
	ListByUser(ctx context.Context, userID uint) ([]*models.RemainingUses, error)
	ByUserAndService(ctx context.Context, userID uint, serviceType string) (*models.RemainingUses, error)
	Decrease(ctx context.Context, userID uint, serviceType string, count int) (*models.RemainingUses, error)
	Increase(ctx context.Context, userID uint, serviceType string, count int) (*models.RemainingUses, error)
	Update(ctx context.Context, id uint, patch models.RemainingUsesPatch) (*models.RemainingUses, error)
}

// PackageChangeRequestRepository defines operations for package change requests
type PackageChangeRequestRepository interface {
	Repository[models.PackageChangeRequest, models.PackageChangeRequestFilter]
	ListByUser(ctx context.Context, userID uint) ([]*models.PackageChangeRequest, error)
	ListByStatus(ctx context.Context, status models.ChangeRequestStatus) ([]*models.PackageChangeRequest, error)
	ListPending(ctx context.Context) ([]*models.PackageChangeRequest, error)
	Update(ctx context.Context, id uint, patch models.PackageChangeRequestPatch) (*models.PackageChangeRequest, error)
}

// ProblemRepository defines operations for problems
type ProblemRepository interface {
	Repository[models.Problem, models.ProblemFilter]
	ListByLocation(ctx context.Context, location string) ([]*models.Problem, error)
	ListOverdue(ctx context.Context, now time.Time) ([]*models.Problem, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.Problem, error)
	Search(ctx context.Context, term string) ([]*models.Problem, error)
	Update(ctx context.Context, id uint, patch models.ProblemPatch) (*models.Problem, error)
}

// AgentIntentLogRepository defines operations for agent intent logs.
// Logs are append-only: there is no update operation.
type AgentIntentLogRepository interface {
	Repository[models.AgentIntentLog, models.AgentIntentLogFilter]
	ListByUser(ctx context.Context, userID uint, limit int) ([]*models.AgentIntentLog, error)
	ListByIntent(ctx context.Context, intent string) ([]*models.AgentIntentLog, error)
	ListRecent(ctx context.Context, limit int) ([]*models.AgentIntentLog, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.AgentIntentLog, error)
}

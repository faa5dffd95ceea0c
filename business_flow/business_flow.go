// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"

	"github.com/anatolia-telecom/backoffice/app/dto"
	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/repository"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for audit logging
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	AgentName string `json:"agent_name,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

func getUser(ctx context.Context, repo repository.UserRepository, userID uint) (*models.User, error) {
	user, err := repo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("USER_FETCH_FAILED", "failed to fetch user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func getUserByPhone(ctx context.Context, repo repository.UserRepository, phone string) (*models.User, error) {
	user, err := repo.ByPhone(ctx, phone)
	if err != nil {
		return nil, NewBusinessError("USER_FETCH_FAILED", "failed to fetch user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func getPackage(ctx context.Context, repo repository.PackageRepository, packageID uint) (*models.Package, error) {
	pkg, err := repo.ByID(ctx, packageID)
	if err != nil {
		return nil, NewBusinessError("PACKAGE_FETCH_FAILED", "failed to fetch package", err)
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	return pkg, nil
}

// ToUserDTO converts a user model to its API representation
func ToUserDTO(user models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:          user.ID,
		Name:        user.Name,
		Surname:     user.Surname,
		PhoneNumber: user.PhoneNumber,
		Email:       user.Email,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
	}
}

func ToPackageDTO(pkg models.Package) dto.PackageDTO {
	return dto.PackageDTO{
		ID:         pkg.ID,
		Name:       pkg.Name,
		Type:       pkg.Type,
		Details:    pkg.Details,
		Commitment: pkg.Commitment,
		MonthlyFee: pkg.MonthlyFee,
		IsActive:   pkg.IsActive,
		CreatedAt:  pkg.CreatedAt,
	}
}

func ToSubscriptionDTO(sub models.Subscription) dto.SubscriptionDTO {
	d := dto.SubscriptionDTO{
		ID:             sub.ID,
		UserID:         sub.UserID,
		PackageID:      sub.PackageID,
		StartDate:      sub.StartDate,
		EndDate:        sub.EndDate,
		ContractMonths: sub.ContractMonths,
		IsActive:       sub.IsActive,
	}
	if sub.Package != nil {
		pkg := ToPackageDTO(*sub.Package)
		d.Package = &pkg
	}
	return d
}

func ToChangeRequestDTO(req models.PackageChangeRequest) dto.ChangeRequestDTO {
	return dto.ChangeRequestDTO{
		ID:                 req.ID,
		UserID:             req.UserID,
		RequestedPackageID: req.RequestedPackageID,
		Status:             string(req.Status),
		RequestedAt:        req.RequestedAt,
		ProcessedAt:        req.ProcessedAt,
	}
}

func ToInvoiceDTO(inv models.Invoice) dto.InvoiceDTO {
	d := dto.InvoiceDTO{
		ID:                 inv.ID,
		UUID:               inv.UUID.String(),
		UserID:             inv.UserID,
		BillingPeriodStart: inv.BillingPeriodStart,
		BillingPeriodEnd:   inv.BillingPeriodEnd,
		TotalAmount:        inv.TotalAmount,
		Status:             string(inv.Status),
		PaidAt:             inv.PaidAt,
		CreatedAt:          inv.CreatedAt,
	}
	for _, item := range inv.Items {
		d.Items = append(d.Items, ToInvoiceItemDTO(item))
	}
	return d
}

func ToInvoiceItemDTO(item models.InvoiceItem) dto.InvoiceItemDTO {
	return dto.InvoiceItemDTO{
		ID:          item.ID,
		InvoiceID:   item.InvoiceID,
		ServiceType: item.ServiceType,
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		TotalPrice:  item.TotalPrice,
		TaxRate:     item.TaxRate,
	}
}

func ToServicePurchaseDTO(p models.ServicePurchase) dto.ServicePurchaseDTO {
	return dto.ServicePurchaseDTO{
		ID:            p.ID,
		UserID:        p.UserID,
		ServiceType:   p.ServiceType,
		Count:         p.Count,
		UnitPrice:     p.UnitPrice,
		PurchasePrice: p.PurchasePrice,
		PurchaseDate:  p.PurchaseDate,
		IsUsed:        p.IsUsed,
	}
}

func ToRemainingUsesDTO(r models.RemainingUses) dto.RemainingUsesDTO {
	return dto.RemainingUsesDTO{
		ID:             r.ID,
		UserID:         r.UserID,
		ServiceType:    r.ServiceType,
		RemainingCount: r.RemainingCount,
		TotalAllocated: r.TotalAllocated,
		ExpiresAt:      r.ExpiresAt,
	}
}

func ToProblemDTO(p models.Problem) dto.ProblemDTO {
	return dto.ProblemDTO{
		ID:                      p.ID,
		Location:                p.Location,
		Description:             p.Description,
		EstimatedCompletionTime: p.EstimatedCompletionTime,
		Status:                  p.Status,
		Priority:                p.Priority,
		CreatedAt:               p.CreatedAt,
	}
}

func ToInteractionDTO(l models.AgentIntentLog) dto.InteractionDTO {
	return dto.InteractionDTO{
		ID:         l.ID,
		UserID:     l.UserID,
		Intent:     l.Intent,
		Message:    l.Message,
		Confidence: l.Confidence,
		CreatedAt:  l.CreatedAt,
	}
}

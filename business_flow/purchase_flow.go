package businessflow

import (
	"context"
	"time"

	"github.com/anatolia-telecom/backoffice/app/dto"
	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/repository"
	"github.com/anatolia-telecom/backoffice/utils"
)

// PurchaseFlow defines pay-per-use purchase operations
type PurchaseFlow interface {
	CreatePurchase(ctx context.Context, req *dto.CreateServicePurchaseRequest, metadata *ClientMetadata) (*dto.ServicePurchaseDTO, error)
	GetPurchase(ctx context.Context, id uint) (*dto.ServicePurchaseDTO, error)
	ListPurchasesByUser(ctx context.Context, userID uint) ([]dto.ServicePurchaseDTO, error)
	ListPurchasesByPhone(ctx context.Context, phone string) ([]dto.ServicePurchaseDTO, error)
	ListPurchasesByUserAndType(ctx context.Context, userID uint, serviceType string) ([]dto.ServicePurchaseDTO, error)
	ListPurchasesByDateRange(ctx context.Context, start, end time.Time) ([]dto.ServicePurchaseDTO, error)
	ListPurchasesByMonth(ctx context.Context, year, month int) ([]dto.ServicePurchaseDTO, error)
	TotalSpent(ctx context.Context, userID uint) (*dto.TotalSpentResponse, error)
}

// PurchaseFlowImpl implements PurchaseFlow
type PurchaseFlowImpl struct {
	userRepo     repository.UserRepository
	purchaseRepo repository.ServicePurchaseRepository
}

func NewPurchaseFlow(userRepo repository.UserRepository, purchaseRepo repository.ServicePurchaseRepository) PurchaseFlow {
	return &PurchaseFlowImpl{userRepo: userRepo, purchaseRepo: purchaseRepo}
}

// CreatePurchase records a one-off purchase; the total is derived from
// count and unit price, never taken from the client
func (f *PurchaseFlowImpl) CreatePurchase(ctx context.Context, req *dto.CreateServicePurchaseRequest, metadata *ClientMetadata) (*dto.ServicePurchaseDTO, error) {
	user, err := getUser(ctx, f.userRepo, req.UserID)
	if err != nil {
		return nil, err
	}

	purchaseDate := utils.UTCNow()
	if req.PurchaseDate != nil {
		purchaseDate = utils.TimeToUTC(*req.PurchaseDate)
	}

	purchase := models.ServicePurchase{
		UserID:        user.ID,
		ServiceType:   req.ServiceType,
		Count:         req.Count,
		UnitPrice:     req.UnitPrice,
		PurchasePrice: float64(req.Count) * req.UnitPrice,
		PurchaseDate:  purchaseDate,
		IsUsed:        utils.ToPtr(false),
	}
	if err := f.purchaseRepo.Save(ctx, &purchase); err != nil {
		return nil, NewBusinessError("PURCHASE_CREATE_FAILED", "failed to create purchase", err)
	}

	d := ToServicePurchaseDTO(purchase)
	return &d, nil
}

// GetPurchase returns one purchase by ID
func (f *PurchaseFlowImpl) GetPurchase(ctx context.Context, id uint) (*dto.ServicePurchaseDTO, error) {
	purchase, err := f.purchaseRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("PURCHASE_FETCH_FAILED", "failed to fetch purchase", err)
	}
	if purchase == nil {
		return nil, NewBusinessError("PURCHASE_NOT_FOUND", "purchase not found", nil)
	}
	d := ToServicePurchaseDTO(*purchase)
	return &d, nil
}

// ListPurchasesByUser lists a user's purchases
func (f *PurchaseFlowImpl) ListPurchasesByUser(ctx context.Context, userID uint) ([]dto.ServicePurchaseDTO, error) {
	if _, err := getUser(ctx, f.userRepo, userID); err != nil {
		return nil, err
	}
	purchases, err := f.purchaseRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("PURCHASE_LIST_FAILED", "failed to list purchases", err)
	}
	return toServicePurchaseDTOs(purchases), nil
}

// ListPurchasesByPhone lists purchases for the user owning the phone number
func (f *PurchaseFlowImpl) ListPurchasesByPhone(ctx context.Context, phone string) ([]dto.ServicePurchaseDTO, error) {
	user, err := getUserByPhone(ctx, f.userRepo, phone)
	if err != nil {
		return nil, err
	}
	return f.ListPurchasesByUser(ctx, user.ID)
}

// ListPurchasesByUserAndType lists a user's purchases of one service type
func (f *PurchaseFlowImpl) ListPurchasesByUserAndType(ctx context.Context, userID uint, serviceType string) ([]dto.ServicePurchaseDTO, error) {
	if _, err := getUser(ctx, f.userRepo, userID); err != nil {
		return nil, err
	}
	purchases, err := f.purchaseRepo.ListByUserAndType(ctx, userID, serviceType)
	if err != nil {
		return nil, NewBusinessError("PURCHASE_LIST_FAILED", "failed to list purchases", err)
	}
	return toServicePurchaseDTOs(purchases), nil
}

// ListPurchasesByDateRange lists purchases made within [start, end]
func (f *PurchaseFlowImpl) ListPurchasesByDateRange(ctx context.Context, start, end time.Time) ([]dto.ServicePurchaseDTO, error) {
	if start.After(end) {
		return nil, ErrStartDateAfterEndDate
	}
	purchases, err := f.purchaseRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, NewBusinessError("PURCHASE_LIST_FAILED", "failed to list purchases", err)
	}
	return toServicePurchaseDTOs(purchases), nil
}

// ListPurchasesByMonth lists purchases made in one calendar month
func (f *PurchaseFlowImpl) ListPurchasesByMonth(ctx context.Context, year, month int) ([]dto.ServicePurchaseDTO, error) {
	if month < 1 || month > 12 {
		return nil, NewBusinessError("INVALID_MONTH", "month must be between 1 and 12", nil)
	}
	purchases, err := f.purchaseRepo.ListByMonth(ctx, year, time.Month(month))
	if err != nil {
		return nil, NewBusinessError("PURCHASE_LIST_FAILED", "failed to list purchases", err)
	}
	return toServicePurchaseDTOs(purchases), nil
}

// TotalSpent reports the user's lifetime purchase total
func (f *PurchaseFlowImpl) TotalSpent(ctx context.Context, userID uint) (*dto.TotalSpentResponse, error) {
	if _, err := getUser(ctx, f.userRepo, userID); err != nil {
		return nil, err
	}
	total, err := f.purchaseRepo.TotalSpentByUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("PURCHASE_TOTAL_FAILED", "failed to total purchases", err)
	}
	return &dto.TotalSpentResponse{UserID: userID, TotalSpent: total}, nil
}

func toServicePurchaseDTOs(purchases []*models.ServicePurchase) []dto.ServicePurchaseDTO {
	out := make([]dto.ServicePurchaseDTO, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, ToServicePurchaseDTO(*p))
	}
	return out
}

package businessflow

import (
	"context"
	"errors"

	"github.com/anatolia-telecom/backoffice/app/dto"
	"github.com/anatolia-telecom/backoffice/repository"
)

// BalanceFlow defines prepaid usage balance operations
type BalanceFlow interface {
	ListBalancesByUser(ctx context.Context, userID uint) ([]dto.RemainingUsesDTO, error)
	ListBalancesByPhone(ctx context.Context, phone string) ([]dto.RemainingUsesDTO, error)
	GetBalance(ctx context.Context, userID uint, serviceType string) (*dto.RemainingUsesDTO, error)
	DecreaseBalance(ctx context.Context, req *dto.AdjustBalanceRequest, metadata *ClientMetadata) (*dto.RemainingUsesDTO, error)
	IncreaseBalance(ctx context.Context, req *dto.AdjustBalanceRequest, metadata *ClientMetadata) (*dto.RemainingUsesDTO, error)
}

// BalanceFlowImpl implements BalanceFlow
type BalanceFlowImpl struct {
	userRepo      repository.UserRepository
	remainingRepo repository.RemainingUsesRepository
}

func NewBalanceFlow(userRepo repository.UserRepository, remainingRepo repository.RemainingUsesRepository) BalanceFlow {
	return &BalanceFlowImpl{userRepo: userRepo, remainingRepo: remainingRepo}
}

// ListBalancesByUser lists all prepaid balances of a user
func (f *BalanceFlowImpl) ListBalancesByUser(ctx context.Context, userID uint) ([]dto.RemainingUsesDTO, error) {
	if _, err := getUser(ctx, f.userRepo, userID); err != nil {
		return nil, err
	}
	balances, err := f.remainingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("BALANCE_LIST_FAILED", "failed to list balances", err)
	}
	out := make([]dto.RemainingUsesDTO, 0, len(balances))
	for _, b := range balances {
		out = append(out, ToRemainingUsesDTO(*b))
	}
	return out, nil
}

// ListBalancesByPhone lists balances for the user owning the phone number
func (f *BalanceFlowImpl) ListBalancesByPhone(ctx context.Context, phone string) ([]dto.RemainingUsesDTO, error) {
	user, err := getUserByPhone(ctx, f.userRepo, phone)
	if err != nil {
		return nil, err
	}
	return f.ListBalancesByUser(ctx, user.ID)
}

// GetBalance returns one user's balance for a service type
func (f *BalanceFlowImpl) GetBalance(ctx context.Context, userID uint, serviceType string) (*dto.RemainingUsesDTO, error) {
	if _, err := getUser(ctx, f.userRepo, userID); err != nil {
		return nil, err
	}
	balance, err := f.remainingRepo.ByUserAndService(ctx, userID, serviceType)
	if err != nil {
		return nil, NewBusinessError("BALANCE_FETCH_FAILED", "failed to fetch balance", err)
	}
	if balance == nil {
		return nil, ErrBalanceNotFound
	}
	d := ToRemainingUsesDTO(*balance)
	return &d, nil
}

// DecreaseBalance consumes units from a prepaid balance. A missing balance
// row and an insufficient one are reported as distinct errors.
func (f *BalanceFlowImpl) DecreaseBalance(ctx context.Context, req *dto.AdjustBalanceRequest, metadata *ClientMetadata) (*dto.RemainingUsesDTO, error) {
	if req.Count <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := getUser(ctx, f.userRepo, req.UserID); err != nil {
		return nil, err
	}

	balance, err := f.remainingRepo.Decrease(ctx, req.UserID, req.ServiceType, req.Count)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return nil, ErrInsufficientBalance
		}
		return nil, NewBusinessError("BALANCE_UPDATE_FAILED", "failed to decrease balance", err)
	}
	if balance == nil {
		return nil, ErrBalanceNotFound
	}

	d := ToRemainingUsesDTO(*balance)
	return &d, nil
}

// IncreaseBalance adds units to a prepaid balance and raises total_allocated
// by the same amount
func (f *BalanceFlowImpl) IncreaseBalance(ctx context.Context, req *dto.AdjustBalanceRequest, metadata *ClientMetadata) (*dto.RemainingUsesDTO, error) {
	if req.Count <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := getUser(ctx, f.userRepo, req.UserID); err != nil {
		return nil, err
	}

	balance, err := f.remainingRepo.Increase(ctx, req.UserID, req.ServiceType, req.Count)
	if err != nil {
		return nil, NewBusinessError("BALANCE_UPDATE_FAILED", "failed to increase balance", err)
	}
	if balance == nil {
		return nil, ErrBalanceNotFound
	}

	d := ToRemainingUsesDTO(*balance)
	return &d, nil
}

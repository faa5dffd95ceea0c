package businessflow

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anatolia-telecom/backoffice/app/dto"
	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/repository"
	"github.com/anatolia-telecom/backoffice/utils"
	"gorm.io/gorm"
)

// DaysPerCommitmentMonth approximates a commitment month as a fixed 30-day block
const DaysPerCommitmentMonth = 30

// commitmentPattern matches a leading integer followed by the month token,
// e.g. "12 ay" or "24AY"
var commitmentPattern = regexp.MustCompile(`(?i)^\s*(\d+)\s*ay\b`)

// ParseCommitmentDuration extracts the month count from a package commitment
// string. "yok", an empty string, or anything unparseable yields 0 months.
func ParseCommitmentDuration(commitment string) int {
	trimmed := strings.TrimSpace(commitment)
	if trimmed == "" || strings.EqualFold(trimmed, models.CommitmentNone) {
		return 0
	}
	m := commitmentPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return 0
	}
	months, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return months
}

// SubscriptionFlow defines the package change and subscription lifecycle operations
type SubscriptionFlow interface {
	CreateChangeRequest(ctx context.Context, req *dto.CreateChangeRequestRequest, metadata *ClientMetadata) (*dto.ChangeRequestDTO, error)
	ApproveChangeRequest(ctx context.Context, requestID uint, metadata *ClientMetadata) (*dto.ApproveChangeRequestResponse, error)
	RejectChangeRequest(ctx context.Context, requestID uint, metadata *ClientMetadata) (*dto.ChangeRequestDTO, error)
	ListChangeRequestsByUser(ctx context.Context, userID uint) ([]dto.ChangeRequestDTO, error)
	ListChangeRequestsByStatus(ctx context.Context, status string) ([]dto.ChangeRequestDTO, error)
	ListPendingChangeRequests(ctx context.Context) ([]dto.ChangeRequestDTO, error)
	GetActiveSubscription(ctx context.Context, userID uint) (*dto.SubscriptionDTO, error)
	DeactivateSubscription(ctx context.Context, subscriptionID uint) (*dto.SubscriptionDTO, error)
	CommitmentTime(ctx context.Context, userID uint) (*dto.CommitmentTimeResponse, error)
	ListExpiringSubscriptions(ctx context.Context, withinDays int) ([]dto.SubscriptionDTO, error)
}

// SubscriptionFlowImpl implements SubscriptionFlow
type SubscriptionFlowImpl struct {
	db               *gorm.DB
	userRepo         repository.UserRepository
	packageRepo      repository.PackageRepository
	subscriptionRepo repository.SubscriptionRepository
	requestRepo      repository.PackageChangeRequestRepository
}

func NewSubscriptionFlow(
	db *gorm.DB,
	userRepo repository.UserRepository,
	packageRepo repository.PackageRepository,
	subscriptionRepo repository.SubscriptionRepository,
	requestRepo repository.PackageChangeRequestRepository,
) SubscriptionFlow {
	return &SubscriptionFlowImpl{
		db:               db,
		userRepo:         userRepo,
		packageRepo:      packageRepo,
		subscriptionRepo: subscriptionRepo,
		requestRepo:      requestRepo,
	}
}

// CreateChangeRequest records a pending request to switch the user's package
func (f *SubscriptionFlowImpl) CreateChangeRequest(ctx context.Context, req *dto.CreateChangeRequestRequest, metadata *ClientMetadata) (*dto.ChangeRequestDTO, error) {
	user, err := getUser(ctx, f.userRepo, req.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := getPackage(ctx, f.packageRepo, req.RequestedPackageID); err != nil {
		return nil, err
	}

	request := models.PackageChangeRequest{
		UserID:             user.ID,
		RequestedPackageID: req.RequestedPackageID,
		Status:             models.ChangeRequestStatusPending,
		RequestedAt:        utils.UTCNow(),
	}
	if err := f.requestRepo.Save(ctx, &request); err != nil {
		return nil, NewBusinessError("CHANGE_REQUEST_CREATE_FAILED", "failed to create change request", err)
	}

	d := ToChangeRequestDTO(request)
	return &d, nil
}

// ApproveChangeRequest marks the request approved and activates a new
// subscription for the requested package. The previously active subscription
// is closed in the same transaction so at most one stays active per user.
// A missing package does not block activation: the subscription is created
// with no contract months and no end date.
func (f *SubscriptionFlowImpl) ApproveChangeRequest(ctx context.Context, requestID uint, metadata *ClientMetadata) (*dto.ApproveChangeRequestResponse, error) {
	request, err := f.requestRepo.ByID(ctx, requestID)
	if err != nil {
		return nil, NewBusinessError("CHANGE_REQUEST_FETCH_FAILED", "failed to fetch change request", err)
	}
	if request == nil {
		return nil, ErrChangeRequestNotFound
	}
	if request.Status != models.ChangeRequestStatusPending {
		return nil, ErrChangeRequestAlreadyProcessed
	}

	var subscription models.Subscription
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		now := utils.UTCNow()

		approved := models.ChangeRequestStatusApproved
		updated, err := f.requestRepo.Update(txCtx, request.ID, models.PackageChangeRequestPatch{
			Status:      &approved,
			ProcessedAt: &now,
		})
		if err != nil {
			return fmt.Errorf("failed to update change request: %w", err)
		}
		if updated == nil {
			return ErrChangeRequestNotFound
		}
		*request = *updated

		// Close the prior active subscription, if any
		prior, err := f.subscriptionRepo.ActiveByUser(txCtx, request.UserID)
		if err != nil {
			return fmt.Errorf("failed to look up active subscription: %w", err)
		}
		if prior != nil {
			inactive := false
			if _, err := f.subscriptionRepo.Update(txCtx, prior.ID, models.SubscriptionPatch{
				IsActive: &inactive,
				EndDate:  &now,
			}); err != nil {
				return fmt.Errorf("failed to deactivate prior subscription: %w", err)
			}
		}

		subscription = models.Subscription{
			UserID:    request.UserID,
			PackageID: request.RequestedPackageID,
			StartDate: now,
			IsActive:  utils.ToPtr(true),
		}

		pkg, err := f.packageRepo.ByID(txCtx, request.RequestedPackageID)
		if err != nil {
			return fmt.Errorf("failed to fetch requested package: %w", err)
		}
		if pkg != nil {
			months := ParseCommitmentDuration(pkg.Commitment)
			subscription.ContractMonths = &months
			if months > 0 {
				end := now.Add(time.Duration(months) * DaysPerCommitmentMonth * 24 * time.Hour)
				subscription.EndDate = &end
			}
		}

		if err := f.subscriptionRepo.Save(txCtx, &subscription); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		if IsChangeRequestNotFound(err) {
			return nil, err
		}
		return nil, NewBusinessError("CHANGE_REQUEST_APPROVAL_FAILED", "failed to approve change request", err)
	}

	return &dto.ApproveChangeRequestResponse{
		Message:      "Change request approved",
		Request:      ToChangeRequestDTO(*request),
		Subscription: ToSubscriptionDTO(subscription),
	}, nil
}

// RejectChangeRequest marks a pending request rejected
func (f *SubscriptionFlowImpl) RejectChangeRequest(ctx context.Context, requestID uint, metadata *ClientMetadata) (*dto.ChangeRequestDTO, error) {
	request, err := f.requestRepo.ByID(ctx, requestID)
	if err != nil {
		return nil, NewBusinessError("CHANGE_REQUEST_FETCH_FAILED", "failed to fetch change request", err)
	}
	if request == nil {
		return nil, ErrChangeRequestNotFound
	}
	if request.Status != models.ChangeRequestStatusPending {
		return nil, ErrChangeRequestAlreadyProcessed
	}

	rejected := models.ChangeRequestStatusRejected
	updated, err := f.requestRepo.Update(ctx, request.ID, models.PackageChangeRequestPatch{
		Status:      &rejected,
		ProcessedAt: utils.UTCNowPtr(),
	})
	if err != nil {
		return nil, NewBusinessError("CHANGE_REQUEST_UPDATE_FAILED", "failed to reject change request", err)
	}
	if updated == nil {
		return nil, ErrChangeRequestNotFound
	}

	d := ToChangeRequestDTO(*updated)
	return &d, nil
}

// ListChangeRequestsByUser lists a user's change requests
func (f *SubscriptionFlowImpl) ListChangeRequestsByUser(ctx context.Context, userID uint) ([]dto.ChangeRequestDTO, error) {
	if _, err := getUser(ctx, f.userRepo, userID); err != nil {
		return nil, err
	}
	requests, err := f.requestRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("CHANGE_REQUEST_LIST_FAILED", "failed to list change requests", err)
	}
	return toChangeRequestDTOs(requests), nil
}

// ListChangeRequestsByStatus lists change requests in the given status
func (f *SubscriptionFlowImpl) ListChangeRequestsByStatus(ctx context.Context, status string) ([]dto.ChangeRequestDTO, error) {
	s := models.ChangeRequestStatus(status)
	if !s.Valid() {
		return nil, NewBusinessError("INVALID_STATUS", fmt.Sprintf("unknown change request status %q", status), nil)
	}
	requests, err := f.requestRepo.ListByStatus(ctx, s)
	if err != nil {
		return nil, NewBusinessError("CHANGE_REQUEST_LIST_FAILED", "failed to list change requests", err)
	}
	return toChangeRequestDTOs(requests), nil
}

// ListPendingChangeRequests lists requests awaiting a decision
func (f *SubscriptionFlowImpl) ListPendingChangeRequests(ctx context.Context) ([]dto.ChangeRequestDTO, error) {
	requests, err := f.requestRepo.ListPending(ctx)
	if err != nil {
		return nil, NewBusinessError("CHANGE_REQUEST_LIST_FAILED", "failed to list pending change requests", err)
	}
	return toChangeRequestDTOs(requests), nil
}

// GetActiveSubscription returns the user's active subscription with its package
func (f *SubscriptionFlowImpl) GetActiveSubscription(ctx context.Context, userID uint) (*dto.SubscriptionDTO, error) {
	if _, err := getUser(ctx, f.userRepo, userID); err != nil {
		return nil, err
	}
	sub, err := f.subscriptionRepo.ActiveByUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIPTION_FETCH_FAILED", "failed to fetch active subscription", err)
	}
	if sub == nil {
		return nil, ErrNoActiveSubscription
	}
	d := ToSubscriptionDTO(*sub)
	return &d, nil
}

// DeactivateSubscription closes a subscription: is_active=false, end_date=now
func (f *SubscriptionFlowImpl) DeactivateSubscription(ctx context.Context, subscriptionID uint) (*dto.SubscriptionDTO, error) {
	sub, err := f.subscriptionRepo.ByID(ctx, subscriptionID)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIPTION_FETCH_FAILED", "failed to fetch subscription", err)
	}
	if sub == nil {
		return nil, ErrSubscriptionNotFound
	}
	if !utils.IsTrue(sub.IsActive) {
		return nil, ErrSubscriptionNotActive
	}

	inactive := false
	updated, err := f.subscriptionRepo.Update(ctx, sub.ID, models.SubscriptionPatch{
		IsActive: &inactive,
		EndDate:  utils.UTCNowPtr(),
	})
	if err != nil {
		return nil, NewBusinessError("SUBSCRIPTION_UPDATE_FAILED", "failed to deactivate subscription", err)
	}
	if updated == nil {
		return nil, ErrSubscriptionNotFound
	}

	d := ToSubscriptionDTO(*updated)
	return &d, nil
}

// CommitmentTime reports the remaining commitment of the user's active subscription
func (f *SubscriptionFlowImpl) CommitmentTime(ctx context.Context, userID uint) (*dto.CommitmentTimeResponse, error) {
	if _, err := getUser(ctx, f.userRepo, userID); err != nil {
		return nil, err
	}
	sub, err := f.subscriptionRepo.ActiveByUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIPTION_FETCH_FAILED", "failed to fetch active subscription", err)
	}
	if sub == nil {
		return nil, ErrNoActiveSubscription
	}

	resp := &dto.CommitmentTimeResponse{
		UserID:     userID,
		Commitment: models.CommitmentNone,
		StartDate:  sub.StartDate,
		EndDate:    sub.EndDate,
	}
	if sub.Package != nil {
		resp.PackageName = sub.Package.Name
		resp.Commitment = sub.Package.Commitment
	}
	if sub.EndDate != nil {
		remaining := int(time.Until(*sub.EndDate).Hours() / 24)
		if remaining <= 0 {
			resp.Expired = true
		} else {
			resp.RemainingDays = remaining
		}
	}
	return resp, nil
}

// ListExpiringSubscriptions lists active subscriptions whose commitment ends
// within the given number of days; expiry handling is left to the caller
func (f *SubscriptionFlowImpl) ListExpiringSubscriptions(ctx context.Context, withinDays int) ([]dto.SubscriptionDTO, error) {
	if withinDays <= 0 {
		return nil, NewBusinessError("INVALID_RANGE", "withinDays must be positive", nil)
	}
	subs, err := f.subscriptionRepo.ListExpiring(ctx, time.Duration(withinDays)*24*time.Hour)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIPTION_LIST_FAILED", "failed to list expiring subscriptions", err)
	}
	out := make([]dto.SubscriptionDTO, 0, len(subs))
	for _, s := range subs {
		out = append(out, ToSubscriptionDTO(*s))
	}
	return out, nil
}

func toChangeRequestDTOs(requests []*models.PackageChangeRequest) []dto.ChangeRequestDTO {
	out := make([]dto.ChangeRequestDTO, 0, len(requests))
	for _, r := range requests {
		out = append(out, ToChangeRequestDTO(*r))
	}
	return out
}

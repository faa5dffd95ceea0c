package businessflow

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/anatolia-telecom/backoffice/app/dto"
	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/repository"
	"github.com/anatolia-telecom/backoffice/utils"
)

const quickSearchLimit = 20

// defaultComplaintETA is the provisional completion estimate stamped on a
// complaint before a field team triages it
const defaultComplaintETA = 48 * time.Hour

// CustomerServiceFlow defines the agent-facing operations
type CustomerServiceFlow interface {
	CustomerInfoByPhone(ctx context.Context, phone string) (*dto.CustomerInfoResponse, error)
	QuickSearch(ctx context.Context, term string) (*dto.QuickSearchResponse, error)
	RegisterComplaint(ctx context.Context, req *dto.ComplaintRequest, metadata *ClientMetadata) (*dto.ComplaintResponse, error)
	LogInteraction(ctx context.Context, req *dto.LogInteractionRequest, metadata *ClientMetadata) (*dto.InteractionDTO, error)
	InteractionHistory(ctx context.Context, userID uint, limit int) ([]dto.InteractionDTO, error)
	ListInteractions(ctx context.Context, intent string, start, end *time.Time, limit int) ([]dto.InteractionDTO, error)
}

// CustomerServiceFlowImpl implements CustomerServiceFlow
type CustomerServiceFlowImpl struct {
	userRepo         repository.UserRepository
	subscriptionRepo repository.SubscriptionRepository
	remainingRepo    repository.RemainingUsesRepository
	invoiceRepo      repository.InvoiceRepository
	problemRepo      repository.ProblemRepository
	intentLogRepo    repository.AgentIntentLogRepository
}

func NewCustomerServiceFlow(
	userRepo repository.UserRepository,
	subscriptionRepo repository.SubscriptionRepository,
	remainingRepo repository.RemainingUsesRepository,
	invoiceRepo repository.InvoiceRepository,
	problemRepo repository.ProblemRepository,
	intentLogRepo repository.AgentIntentLogRepository,
) CustomerServiceFlow {
	return &CustomerServiceFlowImpl{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		remainingRepo:    remainingRepo,
		invoiceRepo:      invoiceRepo,
		problemRepo:      problemRepo,
		intentLogRepo:    intentLogRepo,
	}
}

// CustomerInfoByPhone aggregates the user, active subscription, prepaid
// balances and unpaid invoices into the single view an agent works from
func (f *CustomerServiceFlowImpl) CustomerInfoByPhone(ctx context.Context, phone string) (*dto.CustomerInfoResponse, error) {
	user, err := getUserByPhone(ctx, f.userRepo, phone)
	if err != nil {
		return nil, err
	}

	resp := &dto.CustomerInfoResponse{
		User:           ToUserDTO(*user),
		RemainingUses:  []dto.RemainingUsesDTO{},
		UnpaidInvoices: []dto.InvoiceDTO{},
	}

	sub, err := f.subscriptionRepo.ActiveByUser(ctx, user.ID)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIPTION_FETCH_FAILED", "failed to fetch active subscription", err)
	}
	if sub != nil {
		d := ToSubscriptionDTO(*sub)
		resp.ActiveSubscription = &d
	}

	balances, err := f.remainingRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, NewBusinessError("BALANCE_FETCH_FAILED", "failed to fetch usage balances", err)
	}
	for _, b := range balances {
		resp.RemainingUses = append(resp.RemainingUses, ToRemainingUsesDTO(*b))
	}

	invoices, err := f.invoiceRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, NewBusinessError("INVOICE_LIST_FAILED", "failed to list invoices", err)
	}
	for _, inv := range invoices {
		if inv.IsPaid() || inv.Status == models.InvoiceStatusCanceled {
			continue
		}
		resp.UnpaidInvoices = append(resp.UnpaidInvoices, ToInvoiceDTO(*inv))
		resp.UnpaidTotal += inv.TotalAmount
	}

	return resp, nil
}

// QuickSearch finds users by a phone fragment or name part
func (f *CustomerServiceFlowImpl) QuickSearch(ctx context.Context, term string) (*dto.QuickSearchResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, NewBusinessError("INVALID_SEARCH_TERM", "search term is required", nil)
	}

	users, err := f.userRepo.Search(ctx, term, quickSearchLimit)
	if err != nil {
		return nil, NewBusinessError("USER_SEARCH_FAILED", "failed to search users", err)
	}

	resp := &dto.QuickSearchResponse{
		Message: "Search completed",
		Items:   []dto.UserDTO{},
	}
	for _, u := range users {
		resp.Items = append(resp.Items, ToUserDTO(*u))
	}
	return resp, nil
}

// RegisterComplaint opens a Problem from a customer complaint and logs the
// interaction against the calling user
func (f *CustomerServiceFlowImpl) RegisterComplaint(ctx context.Context, req *dto.ComplaintRequest, metadata *ClientMetadata) (*dto.ComplaintResponse, error) {
	user, err := getUserByPhone(ctx, f.userRepo, req.PhoneNumber)
	if err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = models.ProblemPriorityMedium
	}

	problem := models.Problem{
		Location:                req.Location,
		Description:             req.Description,
		EstimatedCompletionTime: utils.UTCNowAdd(defaultComplaintETA),
		Status:                  models.ProblemStatusOpen,
		Priority:                priority,
	}
	if err := f.problemRepo.Save(ctx, &problem); err != nil {
		return nil, NewBusinessError("PROBLEM_CREATE_FAILED", "failed to create problem", err)
	}

	// Best-effort interaction log; a lost entry must not fail the complaint
	logEntry := models.AgentIntentLog{
		UserID:  &user.ID,
		Intent:  models.IntentComplaint,
		Message: req.Description,
	}
	if err := f.intentLogRepo.Save(ctx, &logEntry); err != nil {
		log.Printf("Failed to log complaint interaction for user %d: %v", user.ID, err)
	}

	return &dto.ComplaintResponse{
		Message: "Complaint registered",
		Problem: ToProblemDTO(problem),
	}, nil
}

// LogInteraction records a classified interaction; the user reference is
// optional so anonymous calls can still be logged
func (f *CustomerServiceFlowImpl) LogInteraction(ctx context.Context, req *dto.LogInteractionRequest, metadata *ClientMetadata) (*dto.InteractionDTO, error) {
	if req.UserID != nil {
		if _, err := getUser(ctx, f.userRepo, *req.UserID); err != nil {
			return nil, err
		}
	}

	entry := models.AgentIntentLog{
		UserID:     req.UserID,
		Intent:     req.Intent,
		Message:    req.Message,
		Confidence: req.Confidence,
	}
	if err := f.intentLogRepo.Save(ctx, &entry); err != nil {
		return nil, NewBusinessError("INTERACTION_LOG_FAILED", "failed to log interaction", err)
	}

	d := ToInteractionDTO(entry)
	return &d, nil
}

// InteractionHistory lists a user's logged interactions, newest first
func (f *CustomerServiceFlowImpl) InteractionHistory(ctx context.Context, userID uint, limit int) ([]dto.InteractionDTO, error) {
	if _, err := getUser(ctx, f.userRepo, userID); err != nil {
		return nil, err
	}
	logs, err := f.intentLogRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, NewBusinessError("INTERACTION_LIST_FAILED", "failed to list interactions", err)
	}
	out := make([]dto.InteractionDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, ToInteractionDTO(*l))
	}
	return out, nil
}

// ListInteractions lists logged interactions filtered by intent, by a date
// range, or just the most recent ones when no filter is given
func (f *CustomerServiceFlowImpl) ListInteractions(ctx context.Context, intent string, start, end *time.Time, limit int) ([]dto.InteractionDTO, error) {
	var (
		logs []*models.AgentIntentLog
		err  error
	)
	switch {
	case strings.TrimSpace(intent) != "":
		logs, err = f.intentLogRepo.ListByIntent(ctx, strings.TrimSpace(intent))
	case start != nil && end != nil:
		logs, err = f.intentLogRepo.ListByDateRange(ctx, *start, *end)
	default:
		logs, err = f.intentLogRepo.ListRecent(ctx, limit)
	}
	if err != nil {
		return nil, NewBusinessError("INTERACTION_LIST_FAILED", "failed to list interactions", err)
	}
	out := make([]dto.InteractionDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, ToInteractionDTO(*l))
	}
	return out, nil
}

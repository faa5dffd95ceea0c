package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anatolia-telecom/backoffice/app/dto"
	"github.com/anatolia-telecom/backoffice/config"
	"github.com/anatolia-telecom/backoffice/models"
	"github.com/anatolia-telecom/backoffice/repository"
	"github.com/anatolia-telecom/backoffice/utils"
	"github.com/redis/go-redis/v9"
)

const (
	dashboardStatsCacheKey = "dashboard:stats"
	recentActivityLimit    = 20
)

// DashboardFlow defines the summary and reporting queries behind the agent dashboard
type DashboardFlow interface {
	Stats(ctx context.Context) (*dto.DashboardStatsResponse, error)
	RecentActivities(ctx context.Context) (*dto.RecentActivitiesResponse, error)
	UserSummary(ctx context.Context, userID uint) (*dto.UserSummaryResponse, error)
	UrgentProblems(ctx context.Context) ([]dto.ProblemDTO, error)
	MonthlyRevenue(ctx context.Context, year, month int) (*dto.MonthlyRevenueResponse, error)
}

// DashboardFlowImpl implements DashboardFlow. The Redis client is optional;
// without it every call goes straight to the store.
type DashboardFlowImpl struct {
	userRepo         repository.UserRepository
	subscriptionRepo repository.SubscriptionRepository
	purchaseRepo     repository.ServicePurchaseRepository
	invoiceRepo      repository.InvoiceRepository
	requestRepo      repository.PackageChangeRequestRepository
	problemRepo      repository.ProblemRepository
	intentLogRepo    repository.AgentIntentLogRepository
	rc               *redis.Client
	cacheCfg         config.CacheConfig
}

func NewDashboardFlow(
	userRepo repository.UserRepository,
	subscriptionRepo repository.SubscriptionRepository,
	purchaseRepo repository.ServicePurchaseRepository,
	invoiceRepo repository.InvoiceRepository,
	requestRepo repository.PackageChangeRequestRepository,
	problemRepo repository.ProblemRepository,
	intentLogRepo repository.AgentIntentLogRepository,
	rc *redis.Client,
	cacheCfg config.CacheConfig,
) DashboardFlow {
	return &DashboardFlowImpl{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		purchaseRepo:     purchaseRepo,
		invoiceRepo:      invoiceRepo,
		requestRepo:      requestRepo,
		problemRepo:      problemRepo,
		intentLogRepo:    intentLogRepo,
		rc:               rc,
		cacheCfg:         cacheCfg,
	}
}

// Stats returns the headline counters, served from cache when fresh
func (f *DashboardFlowImpl) Stats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	cacheKey := f.cacheCfg.RedisPrefix + dashboardStatsCacheKey

	// try redis first
	if f.rc != nil {
		if bs, err := f.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var out dto.DashboardStatsResponse
			if err := json.Unmarshal(bs, &out); err == nil {
				return &out, nil
			}
		}
	}

	stats, err := f.computeStats(ctx)
	if err != nil {
		return nil, err
	}

	if f.rc != nil {
		if bs, err := json.Marshal(stats); err == nil {
			_ = f.rc.Set(ctx, cacheKey, bs, f.cacheCfg.DefaultTTL).Err()
		}
	}

	return stats, nil
}

func (f *DashboardFlowImpl) computeStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	totalUsers, err := f.userRepo.Count(ctx, models.UserFilter{})
	if err != nil {
		return nil, NewBusinessError("STATS_COUNT_FAILED", "failed to count users", err)
	}

	active := true
	activeSubs, err := f.subscriptionRepo.Count(ctx, models.SubscriptionFilter{IsActive: &active})
	if err != nil {
		return nil, NewBusinessError("STATS_COUNT_FAILED", "failed to count subscriptions", err)
	}

	pending := models.ChangeRequestStatusPending
	pendingRequests, err := f.requestRepo.Count(ctx, models.PackageChangeRequestFilter{Status: &pending})
	if err != nil {
		return nil, NewBusinessError("STATS_COUNT_FAILED", "failed to count change requests", err)
	}

	open := models.ProblemStatusOpen
	openProblems, err := f.problemRepo.Count(ctx, models.ProblemFilter{Status: &open})
	if err != nil {
		return nil, NewBusinessError("STATS_COUNT_FAILED", "failed to count problems", err)
	}

	unpaid, err := f.invoiceRepo.ListUnpaid(ctx)
	if err != nil {
		return nil, NewBusinessError("STATS_COUNT_FAILED", "failed to list unpaid invoices", err)
	}
	var unpaidTotal float64
	for _, inv := range unpaid {
		unpaidTotal += inv.TotalAmount
	}

	return &dto.DashboardStatsResponse{
		TotalUsers:          totalUsers,
		ActiveSubscriptions: activeSubs,
		PendingRequests:     pendingRequests,
		OpenProblems:        openProblems,
		UnpaidInvoices:      int64(len(unpaid)),
		UnpaidTotal:         unpaidTotal,
	}, nil
}

// RecentActivities merges the newest purchases, change requests, and
// interaction logs into one feed, newest first
func (f *DashboardFlowImpl) RecentActivities(ctx context.Context) (*dto.RecentActivitiesResponse, error) {
	items := []dto.RecentActivityItem{}

	purchases, err := f.purchaseRepo.ByFilter(ctx, models.ServicePurchaseFilter{}, "created_at DESC", recentActivityLimit, 0)
	if err != nil {
		return nil, NewBusinessError("ACTIVITY_LIST_FAILED", "failed to list purchases", err)
	}
	for _, p := range purchases {
		uid := p.UserID
		items = append(items, dto.RecentActivityItem{
			Kind:      "service_purchase",
			UserID:    &uid,
			Summary:   fmt.Sprintf("%s x%d for %.2f", p.ServiceType, p.Count, p.PurchasePrice),
			CreatedAt: p.CreatedAt,
		})
	}

	requests, err := f.requestRepo.ByFilter(ctx, models.PackageChangeRequestFilter{}, "requested_at DESC", recentActivityLimit, 0)
	if err != nil {
		return nil, NewBusinessError("ACTIVITY_LIST_FAILED", "failed to list change requests", err)
	}
	for _, r := range requests {
		uid := r.UserID
		items = append(items, dto.RecentActivityItem{
			Kind:      "package_change_request",
			UserID:    &uid,
			Summary:   fmt.Sprintf("package %d requested (%s)", r.RequestedPackageID, r.Status),
			CreatedAt: r.RequestedAt,
		})
	}

	logs, err := f.intentLogRepo.ListRecent(ctx, recentActivityLimit)
	if err != nil {
		return nil, NewBusinessError("ACTIVITY_LIST_FAILED", "failed to list interactions", err)
	}
	for _, l := range logs {
		items = append(items, dto.RecentActivityItem{
			Kind:      "agent_interaction",
			UserID:    l.UserID,
			Summary:   l.Intent,
			CreatedAt: l.CreatedAt,
		})
	}

	// newest first across kinds
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].CreatedAt.After(items[j-1].CreatedAt); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
	if len(items) > recentActivityLimit {
		items = items[:recentActivityLimit]
	}

	return &dto.RecentActivitiesResponse{Items: items}, nil
}

// UserSummary condenses one user's standing: package, spend, unpaid count
func (f *DashboardFlowImpl) UserSummary(ctx context.Context, userID uint) (*dto.UserSummaryResponse, error) {
	user, err := getUser(ctx, f.userRepo, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.UserSummaryResponse{User: ToUserDTO(*user)}

	sub, err := f.subscriptionRepo.ActiveByUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIPTION_FETCH_FAILED", "failed to fetch active subscription", err)
	}
	if sub != nil {
		d := ToSubscriptionDTO(*sub)
		resp.Subscription = &d
		if sub.Package != nil {
			resp.PackageName = &sub.Package.Name
		}
	}

	spent, err := f.purchaseRepo.TotalSpentByUser(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("PURCHASE_TOTAL_FAILED", "failed to total purchases", err)
	}
	resp.TotalSpent = spent

	unpaidFlag := true
	unpaidCount, err := f.invoiceRepo.Count(ctx, models.InvoiceFilter{UserID: &userID, Unpaid: &unpaidFlag})
	if err != nil {
		return nil, NewBusinessError("INVOICE_COUNT_FAILED", "failed to count unpaid invoices", err)
	}
	resp.UnpaidInvoices = unpaidCount

	return resp, nil
}

// UrgentProblems lists unresolved urgent-priority problems
func (f *DashboardFlowImpl) UrgentProblems(ctx context.Context) ([]dto.ProblemDTO, error) {
	urgent := models.ProblemPriorityUrgent
	problems, err := f.problemRepo.ByFilter(ctx, models.ProblemFilter{Priority: &urgent}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("PROBLEM_LIST_FAILED", "failed to list urgent problems", err)
	}
	out := make([]dto.ProblemDTO, 0, len(problems))
	for _, p := range problems {
		if p.Status == models.ProblemStatusResolved {
			continue
		}
		out = append(out, ToProblemDTO(*p))
	}
	return out, nil
}

// MonthlyRevenue sums paid invoices settled within the given calendar month
func (f *DashboardFlowImpl) MonthlyRevenue(ctx context.Context, year, month int) (*dto.MonthlyRevenueResponse, error) {
	if month < 1 || month > 12 {
		return nil, NewBusinessError("INVALID_MONTH", "month must be between 1 and 12", nil)
	}
	if year < 2000 || year > utils.UTCNow().Year()+1 {
		return nil, NewBusinessError("INVALID_YEAR", "year is out of range", nil)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	revenue, err := f.invoiceRepo.SumPaidBetween(ctx, start, end)
	if err != nil {
		return nil, NewBusinessError("REVENUE_SUM_FAILED", "failed to sum paid invoices", err)
	}

	return &dto.MonthlyRevenueResponse{
		Year:    year,
		Month:   month,
		Revenue: revenue,
	}, nil
}

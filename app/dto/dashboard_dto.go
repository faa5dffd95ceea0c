package dto

import "time"

// DashboardStatsResponse holds the headline counters
type DashboardStatsResponse struct {
	TotalUsers          int64   `json:"total_users"`
	ActiveSubscriptions int64   `json:"active_subscriptions"`
	PendingRequests     int64   `json:"pending_requests"`
	OpenProblems        int64   `json:"open_problems"`
	UnpaidInvoices      int64   `json:"unpaid_invoices"`
	UnpaidTotal         float64 `json:"unpaid_total"`
}

// RecentActivityItem is one row of the recent-activity feed
type RecentActivityItem struct {
	Kind      string    `json:"kind"`
	UserID    *uint     `json:"user_id,omitempty"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// RecentActivitiesResponse lists the newest purchases, requests and logs
type RecentActivitiesResponse struct {
	Items []RecentActivityItem `json:"items"`
}

// UserSummaryResponse condenses one user's standing for the dashboard
type UserSummaryResponse struct {
	User           UserDTO          `json:"user"`
	PackageName    *string          `json:"package_name,omitempty"`
	Subscription   *SubscriptionDTO `json:"subscription,omitempty"`
	TotalSpent     float64          `json:"total_spent"`
	UnpaidInvoices int64            `json:"unpaid_invoices"`
}

// MonthlyRevenueResponse reports paid-invoice revenue for one month
type MonthlyRevenueResponse struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
}

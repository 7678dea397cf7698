package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetLiveDashboard fetches today's attendance export and substitute list
	// concurrently and aggregates them into a fresh summary
	GetLiveDashboard(ctx context.Context) (*DashboardSummary, error)
}

package primary

import "context"

// DashboardService defines the primary port for the company overview.
type DashboardService interface {
	// Stats returns the counts shown on the dashboard.
	Stats(ctx context.Context) (*DashboardStats, error)
}

// DashboardStats holds the dashboard counts for the current company.
type DashboardStats struct {
	TotalClients      int
	ActiveClients     int
	TotalProposals    int
	ApprovedProposals int
	TotalTasks        int
	CompletedTasks    int
	PendingTasks      int
	OverdueTasks      int
}

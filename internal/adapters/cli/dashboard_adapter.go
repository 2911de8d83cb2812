package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/crm/internal/ports/primary"
)

// DashboardAdapter renders the dashboard counters.
type DashboardAdapter struct {
	service primary.DashboardService
	out     io.Writer
}

// NewDashboardAdapter creates a new DashboardAdapter with the given service.
func NewDashboardAdapter(service primary.DashboardService, out io.Writer) *DashboardAdapter {
	return &DashboardAdapter{service: service, out: out}
}

// Show prints the dashboard for the current company.
func (a *DashboardAdapter) Show(ctx context.Context, companyName string) (*primary.DashboardStats, error) {
	stats, err := a.service.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	if companyName != "" {
		fmt.Fprintf(a.out, "\n%s\n\n", cyan.Sprint(companyName))
	}

	overdue := fmt.Sprint(stats.OverdueTasks)
	if stats.OverdueTasks > 0 {
		overdue = red.Sprint(stats.OverdueTasks)
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Clients\t%d\t(%d active)\n", stats.TotalClients, stats.ActiveClients)
	fmt.Fprintf(w, "Proposals\t%d\t(%d approved)\n", stats.TotalProposals, stats.ApprovedProposals)
	fmt.Fprintf(w, "Tasks\t%d\t(%d done, %d pending)\n", stats.TotalTasks, stats.CompletedTasks, stats.PendingTasks)
	fmt.Fprintf(w, "Overdue\t%s\t\n", overdue)
	w.Flush()
	return stats, nil
}

package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/crm/internal/models"
	"github.com/example/crm/internal/ports/primary"
	"github.com/example/crm/internal/ports/secondary"
)

// DashboardServiceImpl implements the DashboardService interface.
type DashboardServiceImpl struct {
	scope        tenantScope
	clientRepo   secondary.ClientRepository
	proposalRepo secondary.ProposalRepository
	taskRepo     secondary.TaskRepository
	now          func() time.Time
}

// NewDashboardService creates a new DashboardService with injected dependencies.
func NewDashboardService(
	auth primary.AuthService,
	companies primary.CompanyService,
	clientRepo secondary.ClientRepository,
	proposalRepo secondary.ProposalRepository,
	taskRepo secondary.TaskRepository,
) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		scope:        tenantScope{auth: auth, companies: companies},
		clientRepo:   clientRepo,
		proposalRepo: proposalRepo,
		taskRepo:     taskRepo,
		now:          time.Now,
	}
}

var _ primary.DashboardService = (*DashboardServiceImpl)(nil)

// Stats runs the eight dashboard counts concurrently. Any failed count fails
// the whole call.
func (s *DashboardServiceImpl) Stats(ctx context.Context) (*primary.DashboardStats, error) {
	ids, err := s.scope.resolve()
	if err != nil {
		return nil, err
	}
	company := ids.CompanyID
	stats := &primary.DashboardStats{}

	g, gctx := errgroup.WithContext(ctx)
	count := func(name string, dst *int, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			if err != nil {
				return fmt.Errorf("failed to count %s: %w", name, err)
			}
			*dst = n
			return nil
		})
	}

	count("clients", &stats.TotalClients, func(ctx context.Context) (int, error) {
		return s.clientRepo.Count(ctx, secondary.ClientFilters{CompanyID: company})
	})
	count("active clients", &stats.ActiveClients, func(ctx context.Context) (int, error) {
		return s.clientRepo.Count(ctx, secondary.ClientFilters{CompanyID: company, Status: models.ClientStatusActive})
	})
	count("proposals", &stats.TotalProposals, func(ctx context.Context) (int, error) {
		return s.proposalRepo.Count(ctx, secondary.ProposalFilters{CompanyID: company})
	})
	count("approved proposals", &stats.ApprovedProposals, func(ctx context.Context) (int, error) {
		return s.proposalRepo.Count(ctx, secondary.ProposalFilters{CompanyID: company, Status: models.ProposalStatusApproved})
	})
	count("tasks", &stats.TotalTasks, func(ctx context.Context) (int, error) {
		return s.taskRepo.Count(ctx, secondary.TaskFilters{CompanyID: company})
	})
	count("completed tasks", &stats.CompletedTasks, func(ctx context.Context) (int, error) {
		return s.taskRepo.Count(ctx, secondary.TaskFilters{CompanyID: company, Status: models.TaskStatusDone})
	})
	count("pending tasks", &stats.PendingTasks, func(ctx context.Context) (int, error) {
		return s.taskRepo.Count(ctx, secondary.TaskFilters{CompanyID: company, Statuses: models.PendingTaskStatuses})
	})
	count("overdue tasks", &stats.OverdueTasks, func(ctx context.Context) (int, error) {
		return s.taskRepo.Count(ctx, overdueFilters(company, s.now()))
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

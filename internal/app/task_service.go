package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/crm/internal/core/task"
	"github.com/example/crm/internal/models"
	"github.com/example/crm/internal/ports/primary"
	"github.com/example/crm/internal/ports/secondary"
)

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	scope        tenantScope
	taskRepo     secondary.TaskRepository
	clientRepo   secondary.ClientRepository
	proposalRepo secondary.ProposalRepository
}

// NewTaskService creates a new TaskService with injected dependencies.
func NewTaskService(
	auth primary.AuthService,
	companies primary.CompanyService,
	taskRepo secondary.TaskRepository,
	clientRepo secondary.ClientRepository,
	proposalRepo secondary.ProposalRepository,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		scope:        tenantScope{auth: auth, companies: companies},
		taskRepo:     taskRepo,
		clientRepo:   clientRepo,
		proposalRepo: proposalRepo,
	}
}

var _ primary.TaskService = (*TaskServiceImpl)(nil)

// ListTasks lists tasks of the current company, newest first.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*primary.Task, error) {
	ids, err := s.scope.resolve()
	if err != nil {
		return nil, err
	}

	records, err := s.taskRepo.List(ctx, secondary.TaskFilters{
		CompanyID:  ids.CompanyID,
		Status:     filters.Status,
		Priority:   filters.Priority,
		AssignedTo: filters.AssignedTo,
		ClientID:   filters.ClientID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return recordsToTasks(records), nil
}

// GetTask retrieves a task by ID.
func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID string) (*primary.Task, error) {
	ids, err := s.scope.resolve()
	if err != nil {
		return nil, err
	}

	record, err := s.taskRepo.GetByID(ctx, ids.CompanyID, taskID)
	if err != nil {
		return nil, lookupError("task", taskID, err)
	}
	return recordToTask(record), nil
}

// CreateTask creates a new task.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, req primary.CreateTaskRequest) (*primary.Task, error) {
	ids, err := s.scope.authorize(models.ModuleTasks, models.ActionCreate)
	if err != nil {
		return nil, err
	}

	clientExists, proposalExists, err := s.validateLinks(ctx, ids.CompanyID, req.ClientID, req.ProposalID)
	if err != nil {
		return nil, err
	}

	guard := task.CanCreateTask(task.CreateTaskContext{
		Title:          req.Title,
		Status:         req.Status,
		Priority:       req.Priority,
		DueDate:        req.DueDate,
		ClientID:       req.ClientID,
		ClientExists:   clientExists,
		ProposalID:     req.ProposalID,
		ProposalExists: proposalExists,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	priority := req.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	record := &secondary.TaskRecord{
		CompanyID:   ids.CompanyID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		ClientID:    req.ClientID,
		ProposalID:  req.ProposalID,
		CreatedBy:   ids.UserID,
	}
	if err := s.taskRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return recordToTask(record), nil
}

// UpdateTask applies a partial update.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, req primary.UpdateTaskRequest) (*primary.Task, error) {
	ids, err := s.scope.authorize(models.ModuleTasks, models.ActionUpdate)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, fmt.Errorf("task title is required")
	}
	if err := task.CanSetFields(deref(req.Status), deref(req.Priority), deref(req.DueDate)).Error(); err != nil {
		return nil, err
	}

	clientID, proposalID := deref(req.ClientID), deref(req.ProposalID)
	clientExists, proposalExists, err := s.validateLinks(ctx, ids.CompanyID, clientID, proposalID)
	if err != nil {
		return nil, err
	}
	if clientID != "" && !clientExists {
		return nil, fmt.Errorf("client %s not found", clientID)
	}
	if proposalID != "" && !proposalExists {
		return nil, fmt.Errorf("proposal %s not found", proposalID)
	}

	record, err := s.taskRepo.Update(ctx, ids.CompanyID, req.TaskID, secondary.TaskPatch{
		Title:       trimmed(req.Title),
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		ClientID:    req.ClientID,
		ProposalID:  req.ProposalID,
	})
	if err != nil {
		return nil, lookupError("task", req.TaskID, err)
	}
	return recordToTask(record), nil
}

// CompleteTask marks a task as done.
func (s *TaskServiceImpl) CompleteTask(ctx context.Context, taskID string) (*primary.Task, error) {
	ids, err := s.scope.authorize(models.ModuleTasks, models.ActionUpdate)
	if err != nil {
		return nil, err
	}

	existing, err := s.taskRepo.GetByID(ctx, ids.CompanyID, taskID)
	if err != nil {
		return nil, lookupError("task", taskID, err)
	}
	guard := task.CanCompleteTask(task.CompleteTaskContext{TaskID: taskID, Status: existing.Status})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	done := models.TaskStatusDone
	record, err := s.taskRepo.Update(ctx, ids.CompanyID, taskID, secondary.TaskPatch{Status: &done})
	if err != nil {
		return nil, lookupError("task", taskID, err)
	}
	return recordToTask(record), nil
}

// ListOverdue lists tasks due before today that are not done.
func (s *TaskServiceImpl) ListOverdue(ctx context.Context, now time.Time) ([]*primary.Task, error) {
	ids, err := s.scope.resolve()
	if err != nil {
		return nil, err
	}

	records, err := s.taskRepo.List(ctx, overdueFilters(ids.CompanyID, now))
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue tasks: %w", err)
	}
	return recordsToTasks(records), nil
}

// DeleteTask deletes a task.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, taskID string) error {
	ids, err := s.scope.authorize(models.ModuleTasks, models.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, ids.CompanyID, taskID); err != nil {
		return lookupError("task", taskID, err)
	}
	return nil
}

// validateLinks checks the optional client and proposal belong to the company.
func (s *TaskServiceImpl) validateLinks(ctx context.Context, companyID, clientID, proposalID string) (clientExists, proposalExists bool, err error) {
	if clientID != "" {
		_, err := s.clientRepo.GetByID(ctx, companyID, clientID)
		switch {
		case err == nil:
			clientExists = true
		case !errors.Is(err, secondary.ErrNotFound):
			return false, false, fmt.Errorf("failed to validate client: %w", err)
		}
	}
	if proposalID != "" {
		_, err := s.proposalRepo.GetByID(ctx, companyID, proposalID)
		switch {
		case err == nil:
			proposalExists = true
		case !errors.Is(err, secondary.ErrNotFound):
			return false, false, fmt.Errorf("failed to validate proposal: %w", err)
		}
	}
	return clientExists, proposalExists, nil
}

// overdueFilters selects tasks with due_date before today and status not done.
func overdueFilters(companyID string, now time.Time) secondary.TaskFilters {
	return secondary.TaskFilters{
		CompanyID:     companyID,
		DueBefore:     task.Today(now),
		ExcludeStatus: models.TaskStatusDone,
	}
}

func recordsToTasks(records []*secondary.TaskRecord) []*primary.Task {
	tasks := make([]*primary.Task, len(records))
	for i, r := range records {
		tasks[i] = recordToTask(r)
	}
	return tasks
}

func recordToTask(r *secondary.TaskRecord) *primary.Task {
	return &primary.Task{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		AssignedTo:  r.AssignedTo,
		DueDate:     r.DueDate,
		ClientID:    r.ClientID,
		ProposalID:  r.ProposalID,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

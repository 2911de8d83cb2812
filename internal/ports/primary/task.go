package primary

import (
	"context"
	"time"
)

// TaskService defines the primary port for task operations.
type TaskService interface {
	// ListTasks lists tasks with optional filters, newest first.
	ListTasks(ctx context.Context, filters TaskFilters) ([]*Task, error)

	// GetTask retrieves a task by ID.
	GetTask(ctx context.Context, taskID string) (*Task, error)

	// CreateTask creates a new task.
	CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error)

	// UpdateTask applies a partial update.
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (*Task, error)

	// CompleteTask marks a task as done.
	CompleteTask(ctx context.Context, taskID string) (*Task, error)

	// ListOverdue lists tasks due before today that are not done.
	ListOverdue(ctx context.Context, now time.Time) ([]*Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, taskID string) error
}

// Task is the public view of a task.
type Task struct {
	ID          string
	CompanyID   string
	Title       string
	Description string
	Status      string
	Priority    string
	AssignedTo  string
	DueDate     string
	ClientID    string
	ProposalID  string
	CreatedBy   string
	CreatedAt   string
	UpdatedAt   string
}

// TaskFilters contains filter options for listing tasks.
type TaskFilters struct {
	Status     string
	Priority   string
	AssignedTo string
	ClientID   string
}

// CreateTaskRequest contains parameters for creating a task.
type CreateTaskRequest struct {
	Title       string
	Description string
	Status      string // defaults to todo
	Priority    string // defaults to medium
	AssignedTo  string
	DueDate     string
	ClientID    string
	ProposalID  string
}

// UpdateTaskRequest contains parameters for updating a task.
// Nil fields are left unchanged; "" clears an optional field.
type UpdateTaskRequest struct {
	TaskID      string
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  *string
	DueDate     *string
	ClientID    *string
	ProposalID  *string
}

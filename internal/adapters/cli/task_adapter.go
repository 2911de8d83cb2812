package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/example/crm/internal/ports/primary"
)

// TaskAdapter is a thin adapter that translates CLI operations to TaskService calls.
type TaskAdapter struct {
	service primary.TaskService
	out     io.Writer
}

// NewTaskAdapter creates a new TaskAdapter with the given service.
func NewTaskAdapter(service primary.TaskService, out io.Writer) *TaskAdapter {
	return &TaskAdapter{service: service, out: out}
}

func (a *TaskAdapter) table(tasks []*primary.Task) {
	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPRIORITY\tDUE\tASSIGNEE\tSTATUS")
	fmt.Fprintln(w, "--\t-----\t--------\t---\t--------\t------")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Title, badge(t.Priority), orDash(t.DueDate), orDash(t.AssignedTo), badge(t.Status))
	}
	w.Flush()
}

// List lists tasks.
func (a *TaskAdapter) List(ctx context.Context, filters primary.TaskFilters) ([]*primary.Task, error) {
	tasks, err := a.service.ListTasks(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks found.")
		return tasks, nil
	}
	a.table(tasks)
	return tasks, nil
}

// Show displays details for a single task.
func (a *TaskAdapter) Show(ctx context.Context, taskID string) (*primary.Task, error) {
	t, err := a.service.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	fmt.Fprintf(a.out, "\nTask: %s\n", t.ID)
	fmt.Fprintf(a.out, "Title:    %s\n", t.Title)
	fmt.Fprintf(a.out, "Status:   %s\n", badge(t.Status))
	fmt.Fprintf(a.out, "Priority: %s\n", badge(t.Priority))
	fmt.Fprintf(a.out, "Due:      %s\n", orDash(t.DueDate))
	fmt.Fprintf(a.out, "Assignee: %s\n", orDash(t.AssignedTo))
	if t.ClientID != "" {
		fmt.Fprintf(a.out, "Client:   %s\n", t.ClientID)
	}
	if t.ProposalID != "" {
		fmt.Fprintf(a.out, "Proposal: %s\n", t.ProposalID)
	}
	if t.Description != "" {
		fmt.Fprintf(a.out, "\n%s\n", t.Description)
	}
	fmt.Fprintln(a.out)
	return t, nil
}

// Create creates a task.
func (a *TaskAdapter) Create(ctx context.Context, req primary.CreateTaskRequest) (*primary.Task, error) {
	t, err := a.service.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Created task %s: %s\n", t.ID, t.Title)
	return t, nil
}

// Update applies a partial update.
func (a *TaskAdapter) Update(ctx context.Context, req primary.UpdateTaskRequest) (*primary.Task, error) {
	t, err := a.service.UpdateTask(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Task %s updated\n", t.ID)
	return t, nil
}

// Complete marks a task as done.
func (a *TaskAdapter) Complete(ctx context.Context, taskID string) (*primary.Task, error) {
	t, err := a.service.CompleteTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Task %s completed\n", t.ID)
	return t, nil
}

// Overdue lists tasks past their due date.
func (a *TaskAdapter) Overdue(ctx context.Context, now time.Time) ([]*primary.Task, error) {
	tasks, err := a.service.ListOverdue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue tasks: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, green.Sprint("No overdue tasks."))
		return tasks, nil
	}
	fmt.Fprintln(a.out, red.Sprintf("%d overdue task(s)", len(tasks)))
	a.table(tasks)
	return tasks, nil
}

// Delete deletes a task.
func (a *TaskAdapter) Delete(ctx context.Context, taskID string) error {
	if err := a.service.DeleteTask(ctx, taskID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Deleted task %s\n", taskID)
	return nil
}

// Package task contains the pure business logic for task operations.
// Guards are pure functions that evaluate preconditions without side effects.
package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/crm/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateTaskContext provides context for task creation guards.
type CreateTaskContext struct {
	Title          string
	Status         string // empty means default
	Priority       string // empty means default
	DueDate        string // optional, 2006-01-02 or RFC3339
	ClientID       string // optional, empty if not specified
	ClientExists   bool   // only checked if ClientID != ""
	ProposalID     string // optional, empty if not specified
	ProposalExists bool   // only checked if ProposalID != ""
}

// CanCreateTask evaluates whether a task can be created.
// Rules:
// - Title is required
// - Status and priority must be valid when given
// - Due date must parse when given
// - Client must exist in the company (if client_id provided)
// - Proposal must exist in the company (if proposal_id provided)
func CanCreateTask(ctx CreateTaskContext) GuardResult {
	if strings.TrimSpace(ctx.Title) == "" {
		return GuardResult{Allowed: false, Reason: "task title is required"}
	}

	if r := CanSetFields(ctx.Status, ctx.Priority, ctx.DueDate); !r.Allowed {
		return r
	}

	if ctx.ClientID != "" && !ctx.ClientExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("client %s not found", ctx.ClientID),
		}
	}

	if ctx.ProposalID != "" && !ctx.ProposalExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("proposal %s not found", ctx.ProposalID),
		}
	}

	return GuardResult{Allowed: true}
}

// CanSetFields validates the enumerated fields of a task. Empty values are
// skipped.
func CanSetFields(status, priority, dueDate string) GuardResult {
	if status != "" && !models.Contains(models.ValidTaskStatuses, status) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid task status %q (valid: %s)", status, strings.Join(models.ValidTaskStatuses, ", ")),
		}
	}
	if priority != "" && !models.Contains(models.ValidTaskPriorities, priority) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid task priority %q (valid: %s)", priority, strings.Join(models.ValidTaskPriorities, ", ")),
		}
	}
	if dueDate != "" {
		if _, ok := ParseDue(dueDate); !ok {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("invalid due date %q (expected YYYY-MM-DD)", dueDate),
			}
		}
	}
	return GuardResult{Allowed: true}
}

// CompleteTaskContext provides context for task completion guards.
type CompleteTaskContext struct {
	TaskID string
	Status string
}

// CanCompleteTask evaluates whether a task can be completed.
// Rules:
// - Task must not already be done
func CanCompleteTask(ctx CompleteTaskContext) GuardResult {
	if ctx.Status == models.TaskStatusDone {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("task %s is already done", ctx.TaskID),
		}
	}
	return GuardResult{Allowed: true}
}

// ParseDue parses a due date in date or RFC3339 form.
func ParseDue(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Today returns the UTC calendar date of now as YYYY-MM-DD. Overdue queries
// compare due_date against this value.
func Today(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// IsOverdue reports whether a task is overdue at now: its due date is
// before today and it is not done.
func IsOverdue(status, dueDate string, now time.Time) bool {
	if dueDate == "" || status == models.TaskStatusDone {
		return false
	}
	due, ok := ParseDue(dueDate)
	if !ok {
		return false
	}
	today, _ := time.Parse("2006-01-02", Today(now))
	return due.Before(today)
}

// IsPending reports whether status counts as pending work.
func IsPending(status string) bool {
	return models.Contains(models.PendingTaskStatuses, status)
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/crm/internal/ports/secondary"
)

// TaskRepository implements secondary.TaskRepository with SQLite.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new SQLite task repository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskSelectCols = "id, company_id, title, description, status, priority, assigned_to, due_date, client_id, proposal_id, created_by, created_at, updated_at"

// scanTask scans a task row into a TaskRecord.
func scanTask(s scanner) (*secondary.TaskRecord, error) {
	var (
		desc, assignedTo, dueDate, clientID, proposalID sql.NullString
	)
	record := &secondary.TaskRecord{}
	err := s.Scan(
		&record.ID, &record.CompanyID, &record.Title, &desc, &record.Status,
		&record.Priority, &assignedTo, &dueDate, &clientID, &proposalID,
		&record.CreatedBy, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Description = desc.String
	record.AssignedTo = assignedTo.String
	record.DueDate = dueDate.String
	record.ClientID = clientID.String
	record.ProposalID = proposalID.String
	return record, nil
}

// Create persists a new task, filling ID and timestamps.
func (r *TaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = "todo"
	}
	if task.Priority == "" {
		task.Priority = "medium"
	}
	now := timestamp(time.Now())
	task.CreatedAt, task.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO tasks ("+taskSelectCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		task.ID, task.CompanyID, task.Title, nullString(task.Description), task.Status,
		task.Priority, nullString(task.AssignedTo), nullString(task.DueDate),
		nullString(task.ClientID), nullString(task.ProposalID), task.CreatedBy,
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetByID retrieves a task by ID within a company.
func (r *TaskRepository) GetByID(ctx context.Context, companyID, id string) (*secondary.TaskRecord, error) {
	record, err := scanTask(r.db.QueryRowContext(ctx,
		"SELECT "+taskSelectCols+" FROM tasks WHERE company_id = ? AND id = ?", companyID, id))
	if err == sql.ErrNoRows {
		return nil, notFound("task", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return record, nil
}

func taskWhere(filters secondary.TaskFilters) *where {
	w := &where{}
	w.add("company_id = ?", filters.CompanyID)
	w.addIf(filters.Status, "status = ?")
	w.in("status", filters.Statuses)
	w.addIf(filters.ExcludeStatus, "status != ?")
	w.addIf(filters.Priority, "priority = ?")
	w.addIf(filters.AssignedTo, "assigned_to = ?")
	w.addIf(filters.ClientID, "client_id = ?")
	w.addIf(filters.DueBefore, "due_date < ?")
	return w
}

// List retrieves tasks matching the filters, newest first.
func (r *TaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	w := taskWhere(filters)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+taskSelectCols+" FROM tasks"+w.String()+" ORDER BY created_at DESC, rowid DESC", w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*secondary.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, record)
	}
	return tasks, rows.Err()
}

// Update applies a partial update and returns the stored row.
func (r *TaskRepository) Update(ctx context.Context, companyID, id string, patch secondary.TaskPatch) (*secondary.TaskRecord, error) {
	s := &set{}
	s.required("title", patch.Title)
	s.optional("description", patch.Description)
	s.required("status", patch.Status)
	s.required("priority", patch.Priority)
	s.optional("assigned_to", patch.AssignedTo)
	s.optional("due_date", patch.DueDate)
	s.optional("client_id", patch.ClientID)
	s.optional("proposal_id", patch.ProposalID)

	if err := s.exec(ctx, r.db, "tasks", "task", companyID, id, time.Now()); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, companyID, id)
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, companyID, id string) error {
	return deleteScoped(ctx, r.db, "tasks", "task", companyID, id)
}

// Count returns the number of tasks matching the filters.
func (r *TaskRepository) Count(ctx context.Context, filters secondary.TaskFilters) (int, error) {
	w := taskWhere(filters)
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks"+w.String(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

var _ secondary.TaskRepository = (*TaskRepository)(nil)

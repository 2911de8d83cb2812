package rest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/crm/internal/ports/secondary"
)

// nullable sends "" as JSON null.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// patch collects the columns of a partial update.
type patch map[string]any

func (p patch) optional(column string, value *string) {
	if value != nil {
		p[column] = nullable(*value)
	}
}

func (p patch) required(column string, value *string) {
	if value != nil {
		p[column] = *value
	}
}

// insertOne inserts row and decodes the stored row into out.
func insertOne[T any](ctx context.Context, q *Query, row map[string]any, out *T) error {
	var rows []T
	if err := q.Insert(ctx, row, &rows); err != nil {
		return err
	}
	if len(rows) != 1 {
		return fmt.Errorf("insert into %s returned %d rows", q.table, len(rows))
	}
	*out = rows[0]
	return nil
}

// updateOne applies p to the row (companyID, id) and returns it.
func updateOne[T any](ctx context.Context, c *Client, table, kind, companyID, id string, p patch) (*T, error) {
	var rows []*T
	n, err := c.From(table).Eq("company_id", companyID).Eq("id", id).Update(ctx, p, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", kind, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%s %s: %w", kind, id, secondary.ErrNotFound)
	}
	return rows[0], nil
}

func deleteOne(ctx context.Context, c *Client, table, kind, companyID, id string) error {
	n, err := c.From(table).Eq("company_id", companyID).Eq("id", id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, secondary.ErrNotFound)
	}
	return nil
}

// CompanyRepository implements secondary.CompanyRepository over the backend.
type CompanyRepository struct {
	c *Client
}

// NewCompanyRepository creates a company repository.
func NewCompanyRepository(c *Client) *CompanyRepository {
	return &CompanyRepository{c: c}
}

// GetByID retrieves a company by its ID.
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*secondary.CompanyRecord, error) {
	var rec secondary.CompanyRecord
	if err := r.c.From("companies").Select("*").Eq("id", id).Single().Execute(ctx, &rec); err != nil {
		return nil, fmt.Errorf("failed to get company %s: %w", id, err)
	}
	return &rec, nil
}

// FindByEmail retrieves the first company registered with email.
func (r *CompanyRepository) FindByEmail(ctx context.Context, email string) (*secondary.CompanyRecord, error) {
	var recs []*secondary.CompanyRecord
	if err := r.c.From("companies").Select("*").Eq("email", email).Limit(1).Execute(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("company %s: %w", email, secondary.ErrNotFound)
	}
	return recs[0], nil
}

// ProfileRepository implements secondary.ProfileRepository over the backend.
type ProfileRepository struct {
	c *Client
}

// NewProfileRepository creates a profile repository.
func NewProfileRepository(c *Client) *ProfileRepository {
	return &ProfileRepository{c: c}
}

// ListActiveByUser retrieves the active profiles of a user with their
// company embedded.
func (r *ProfileRepository) ListActiveByUser(ctx context.Context, userID string) ([]*secondary.ProfileRecord, error) {
	var recs []*secondary.ProfileRecord
	err := r.c.From("profiles").
		Select("*, company:companies(*)").
		Eq("user_id", userID).
		Eq("is_active", "true").
		Execute(ctx, &recs)
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// Create persists a new profile.
func (r *ProfileRepository) Create(ctx context.Context, profile *secondary.ProfileRecord) error {
	row := map[string]any{
		"user_id":     profile.UserID,
		"company_id":  profile.CompanyID,
		"role":        profile.Role,
		"permissions": profile.Permissions,
		"is_active":   profile.IsActive,
	}
	if profile.ID != "" {
		row["id"] = profile.ID
	}
	if err := insertOne(ctx, r.c.From("profiles"), row, profile); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// ClientRepository implements secondary.ClientRepository over the backend.
type ClientRepository struct {
	c *Client
}

// NewClientRepository creates a client repository.
func NewClientRepository(c *Client) *ClientRepository {
	return &ClientRepository{c: c}
}

// Create persists a new client.
func (r *ClientRepository) Create(ctx context.Context, client *secondary.ClientRecord) error {
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	row := map[string]any{
		"id":         client.ID,
		"company_id": client.CompanyID,
		"type":       client.Type,
		"name":       client.Name,
		"email":      nullable(client.Email),
		"phone":      nullable(client.Phone),
		"document":   nullable(client.Document),
		"address":    nullable(client.Address),
		"city":       nullable(client.City),
		"state":      nullable(client.State),
		"zip_code":   nullable(client.ZipCode),
		"category":   nullable(client.Category),
		"status":     client.Status,
		"notes":      nullable(client.Notes),
		"created_by": client.CreatedBy,
	}
	if client.CustomFields != nil {
		row["custom_fields"] = client.CustomFields
	}
	if err := insertOne(ctx, r.c.From("clients"), row, client); err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// GetByID retrieves a client by ID within a company.
func (r *ClientRepository) GetByID(ctx context.Context, companyID, id string) (*secondary.ClientRecord, error) {
	var rec secondary.ClientRecord
	err := r.c.From("clients").Select("*").Eq("id", id).Eq("company_id", companyID).Single().Execute(ctx, &rec)
	if err != nil {
		return nil, fmt.Errorf("failed to get client %s: %w", id, err)
	}
	return &rec, nil
}

func (r *ClientRepository) query(f secondary.ClientFilters) *Query {
	q := r.c.From("clients").Eq("company_id", f.CompanyID)
	if f.Status != "" {
		q.Eq("status", f.Status)
	}
	if f.Type != "" {
		q.Eq("type", f.Type)
	}
	return q
}

// List retrieves clients matching the filters, newest first.
func (r *ClientRepository) List(ctx context.Context, filters secondary.ClientFilters) ([]*secondary.ClientRecord, error) {
	var recs []*secondary.ClientRecord
	if err := r.query(filters).Select("*").Order("created_at", false).Execute(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return recs, nil
}

// Update applies a partial update and returns the stored row.
func (r *ClientRepository) Update(ctx context.Context, companyID, id string, p secondary.ClientPatch) (*secondary.ClientRecord, error) {
	row := patch{}
	row.required("type", p.Type)
	row.required("name", p.Name)
	row.optional("email", p.Email)
	row.optional("phone", p.Phone)
	row.optional("document", p.Document)
	row.optional("address", p.Address)
	row.optional("city", p.City)
	row.optional("state", p.State)
	row.optional("zip_code", p.ZipCode)
	row.optional("category", p.Category)
	row.required("status", p.Status)
	row.optional("notes", p.Notes)
	return updateOne[secondary.ClientRecord](ctx, r.c, "clients", "client", companyID, id, row)
}

// Delete removes a client.
func (r *ClientRepository) Delete(ctx context.Context, companyID, id string) error {
	return deleteOne(ctx, r.c, "clients", "client", companyID, id)
}

// Count returns the exact number of clients matching the filters.
func (r *ClientRepository) Count(ctx context.Context, filters secondary.ClientFilters) (int, error) {
	return r.query(filters).Count(ctx)
}

// ProposalRepository implements secondary.ProposalRepository over the backend.
type ProposalRepository struct {
	c *Client
}

// NewProposalRepository creates a proposal repository.
func NewProposalRepository(c *Client) *ProposalRepository {
	return &ProposalRepository{c: c}
}

// Create persists a new proposal.
func (r *ProposalRepository) Create(ctx context.Context, proposal *secondary.ProposalRecord) error {
	if proposal.ID == "" {
		proposal.ID = uuid.NewString()
	}
	items := proposal.Items
	if items == nil {
		items = []secondary.ProposalItemRecord{}
	}
	row := map[string]any{
		"id":           proposal.ID,
		"company_id":   proposal.CompanyID,
		"client_id":    proposal.ClientID,
		"title":        proposal.Title,
		"description":  nullable(proposal.Description),
		"status":       proposal.Status,
		"total_amount": proposal.TotalAmount,
		"discount":     proposal.Discount,
		"items":        items,
		"valid_until":  nullable(proposal.ValidUntil),
		"notes":        nullable(proposal.Notes),
		"created_by":   proposal.CreatedBy,
	}
	if err := insertOne(ctx, r.c.From("proposals"), row, proposal); err != nil {
		return fmt.Errorf("failed to create proposal: %w", err)
	}
	return nil
}

// GetByID retrieves a proposal by ID within a company.
func (r *ProposalRepository) GetByID(ctx context.Context, companyID, id string) (*secondary.ProposalRecord, error) {
	var rec secondary.ProposalRecord
	err := r.c.From("proposals").Select("*").Eq("id", id).Eq("company_id", companyID).Single().Execute(ctx, &rec)
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal %s: %w", id, err)
	}
	return &rec, nil
}

func (r *ProposalRepository) query(f secondary.ProposalFilters) *Query {
	q := r.c.From("proposals").Eq("company_id", f.CompanyID)
	if f.ClientID != "" {
		q.Eq("client_id", f.ClientID)
	}
	if f.Status != "" {
		q.Eq("status", f.Status)
	}
	if len(f.Statuses) > 0 {
		q.In("status", f.Statuses)
	}
	return q
}

// List retrieves proposals matching the filters, newest first.
func (r *ProposalRepository) List(ctx context.Context, filters secondary.ProposalFilters) ([]*secondary.ProposalRecord, error) {
	var recs []*secondary.ProposalRecord
	if err := r.query(filters).Select("*").Order("created_at", false).Execute(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return recs, nil
}

// Update applies a partial update and returns the stored row.
func (r *ProposalRepository) Update(ctx context.Context, companyID, id string, p secondary.ProposalPatch) (*secondary.ProposalRecord, error) {
	row := patch{}
	row.required("client_id", p.ClientID)
	row.required("title", p.Title)
	row.optional("description", p.Description)
	row.required("status", p.Status)
	if p.TotalAmount != nil {
		row["total_amount"] = *p.TotalAmount
	}
	if p.Discount != nil {
		row["discount"] = *p.Discount
	}
	if p.Items != nil {
		row["items"] = *p.Items
	}
	row.optional("valid_until", p.ValidUntil)
	row.optional("notes", p.Notes)
	return updateOne[secondary.ProposalRecord](ctx, r.c, "proposals", "proposal", companyID, id, row)
}

// Delete removes a proposal.
func (r *ProposalRepository) Delete(ctx context.Context, companyID, id string) error {
	return deleteOne(ctx, r.c, "proposals", "proposal", companyID, id)
}

// Count returns the exact number of proposals matching the filters.
func (r *ProposalRepository) Count(ctx context.Context, filters secondary.ProposalFilters) (int, error) {
	return r.query(filters).Count(ctx)
}

// TaskRepository implements secondary.TaskRepository over the backend.
type TaskRepository struct {
	c *Client
}

// NewTaskRepository creates a task repository.
func NewTaskRepository(c *Client) *TaskRepository {
	return &TaskRepository{c: c}
}

// Create persists a new task.
func (r *TaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	row := map[string]any{
		"id":          task.ID,
		"company_id":  task.CompanyID,
		"title":       task.Title,
		"description": nullable(task.Description),
		"status":      task.Status,
		"priority":    task.Priority,
		"assigned_to": nullable(task.AssignedTo),
		"due_date":    nullable(task.DueDate),
		"client_id":   nullable(task.ClientID),
		"proposal_id": nullable(task.ProposalID),
		"created_by":  task.CreatedBy,
	}
	if err := insertOne(ctx, r.c.From("tasks"), row, task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetByID retrieves a task by ID within a company.
func (r *TaskRepository) GetByID(ctx context.Context, companyID, id string) (*secondary.TaskRecord, error) {
	var rec secondary.TaskRecord
	err := r.c.From("tasks").Select("*").Eq("id", id).Eq("company_id", companyID).Single().Execute(ctx, &rec)
	if err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", id, err)
	}
	return &rec, nil
}

func (r *TaskRepository) query(f secondary.TaskFilters) *Query {
	q := r.c.From("tasks").Eq("company_id", f.CompanyID)
	if f.Status != "" {
		q.Eq("status", f.Status)
	}
	if len(f.Statuses) > 0 {
		q.In("status", f.Statuses)
	}
	if f.ExcludeStatus != "" {
		q.Neq("status", f.ExcludeStatus)
	}
	if f.Priority != "" {
		q.Eq("priority", f.Priority)
	}
	if f.AssignedTo != "" {
		q.Eq("assigned_to", f.AssignedTo)
	}
	if f.ClientID != "" {
		q.Eq("client_id", f.ClientID)
	}
	if f.DueBefore != "" {
		q.Lt("due_date", f.DueBefore)
	}
	return q
}

// List retrieves tasks matching the filters, newest first.
func (r *TaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	var recs []*secondary.TaskRecord
	if err := r.query(filters).Select("*").Order("created_at", false).Execute(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return recs, nil
}

// Update applies a partial update and returns the stored row.
func (r *TaskRepository) Update(ctx context.Context, companyID, id string, p secondary.TaskPatch) (*secondary.TaskRecord, error) {
	row := patch{}
	row.required("title", p.Title)
	row.optional("description", p.Description)
	row.required("status", p.Status)
	row.required("priority", p.Priority)
	row.optional("assigned_to", p.AssignedTo)
	row.optional("due_date", p.DueDate)
	row.optional("client_id", p.ClientID)
	row.optional("proposal_id", p.ProposalID)
	return updateOne[secondary.TaskRecord](ctx, r.c, "tasks", "task", companyID, id, row)
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, companyID, id string) error {
	return deleteOne(ctx, r.c, "tasks", "task", companyID, id)
}

// Count returns the exact number of tasks matching the filters.
func (r *TaskRepository) Count(ctx context.Context, filters secondary.TaskFilters) (int, error) {
	return r.query(filters).Count(ctx)
}

// NotificationRepository implements secondary.NotificationRepository over
// the backend.
type NotificationRepository struct {
	c *Client
}

// NewNotificationRepository creates a notification repository.
func NewNotificationRepository(c *Client) *NotificationRepository {
	return &NotificationRepository{c: c}
}

// Create persists a new notification.
func (r *NotificationRepository) Create(ctx context.Context, n *secondary.NotificationRecord) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	row := map[string]any{
		"id":         n.ID,
		"user_id":    n.UserID,
		"company_id": n.CompanyID,
		"type":       n.Type,
		"title":      n.Title,
		"message":    n.Message,
		"is_read":    n.IsRead,
	}
	if n.Data != nil {
		row["data"] = n.Data
	}
	if err := insertOne(ctx, r.c.From("notifications"), row, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) query(f secondary.NotificationFilters) *Query {
	q := r.c.From("notifications")
	if f.UserID != "" {
		q.Eq("user_id", f.UserID)
	}
	if f.CompanyID != "" {
		q.Eq("company_id", f.CompanyID)
	}
	if f.UnreadOnly {
		q.Is("is_read", "false")
	}
	return q
}

// List retrieves notifications matching the filters, newest first.
func (r *NotificationRepository) List(ctx context.Context, filters secondary.NotificationFilters) ([]*secondary.NotificationRecord, error) {
	q := r.query(filters).Select("*").Order("created_at", false)
	if filters.Limit > 0 {
		q.Limit(filters.Limit)
	}
	var recs []*secondary.NotificationRecord
	if err := q.Execute(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return recs, nil
}

// MarkRead flags one notification of the user as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	n, err := r.c.From("notifications").Eq("user_id", userID).Eq("id", id).
		Update(ctx, map[string]any{"is_read": true}, nil)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("notification %s: %w", id, secondary.ErrNotFound)
	}
	return nil
}

// MarkAllRead flags every unread notification of the user in the company.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID, companyID string) error {
	_, err := r.c.From("notifications").
		Eq("user_id", userID).
		Eq("company_id", companyID).
		Is("is_read", "false").
		Update(ctx, map[string]any{"is_read": true}, nil)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// Count returns the exact number of notifications matching the filters.
func (r *NotificationRepository) Count(ctx context.Context, filters secondary.NotificationFilters) (int, error) {
	return r.query(filters).Count(ctx)
}

var (
	_ secondary.CompanyRepository      = (*CompanyRepository)(nil)
	_ secondary.ProfileRepository      = (*ProfileRepository)(nil)
	_ secondary.ClientRepository       = (*ClientRepository)(nil)
	_ secondary.ProposalRepository     = (*ProposalRepository)(nil)
	_ secondary.TaskRepository         = (*TaskRepository)(nil)
	_ secondary.NotificationRepository = (*NotificationRepository)(nil)
)

// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// CompanyRepository defines the secondary port for company lookups.
type CompanyRepository interface {
	// GetByID retrieves a company by its ID.
	GetByID(ctx context.Context, id string) (*CompanyRecord, error)

	// FindByEmail retrieves the company registered with email.
	FindByEmail(ctx context.Context, email string) (*CompanyRecord, error)
}

// CompanyRecord represents a company (tenant) as stored in persistence.
// Empty string means null for optional fields.
type CompanyRecord struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Document  string         `json:"document"`
	Address   string         `json:"address"`
	City      string         `json:"city"`
	State     string         `json:"state"`
	ZipCode   string         `json:"zip_code"`
	Plan      string         `json:"plan"`
	Status    string         `json:"status"`
	Settings  map[string]any `json:"settings"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// ProfileRepository defines the secondary port for memberships.
type ProfileRepository interface {
	// ListActiveByUser retrieves the active profiles of a user with their
	// company embedded.
	ListActiveByUser(ctx context.Context, userID string) ([]*ProfileRecord, error)

	// Create persists a new profile, filling ID and timestamps.
	Create(ctx context.Context, profile *ProfileRecord) error
}

// ProfileRecord represents a user's membership in a company.
type ProfileRecord struct {
	ID          string                     `json:"id"`
	UserID      string                     `json:"user_id"`
	CompanyID   string                     `json:"company_id"`
	Role        string                     `json:"role"`
	Permissions map[string]map[string]bool `json:"permissions"`
	IsActive    bool                       `json:"is_active"`
	CreatedAt   string                     `json:"created_at"`
	UpdatedAt   string                     `json:"updated_at"`
	Company     *CompanyRecord             `json:"company,omitempty"`
}

// ClientRepository defines the secondary port for client persistence.
type ClientRepository interface {
	// Create persists a new client, filling ID and timestamps.
	Create(ctx context.Context, client *ClientRecord) error

	// GetByID retrieves a client by ID within a company.
	GetByID(ctx context.Context, companyID, id string) (*ClientRecord, error)

	// List retrieves clients matching the filters, newest first.
	List(ctx context.Context, filters ClientFilters) ([]*ClientRecord, error)

	// Update applies a partial update and returns the stored row.
	Update(ctx context.Context, companyID, id string, patch ClientPatch) (*ClientRecord, error)

	// Delete removes a client.
	Delete(ctx context.Context, companyID, id string) error

	// Count returns the exact number of clients matching the filters.
	Count(ctx context.Context, filters ClientFilters) (int, error)
}

// ClientRecord represents a client as stored in persistence.
// Empty string means null for optional fields.
type ClientRecord struct {
	ID           string         `json:"id"`
	CompanyID    string         `json:"company_id"`
	Type         string         `json:"type"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Document     string         `json:"document"`
	Address      string         `json:"address"`
	City         string         `json:"city"`
	State        string         `json:"state"`
	ZipCode      string         `json:"zip_code"`
	Category     string         `json:"category"`
	Status       string         `json:"status"`
	Notes        string         `json:"notes"`
	CustomFields map[string]any `json:"custom_fields"`
	CreatedBy    string         `json:"created_by"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
}

// ClientFilters contains filter options for querying clients.
type ClientFilters struct {
	CompanyID string
	Status    string
	Type      string
}

// ClientPatch lists the fields to change. Nil means unchanged; a pointer
// to "" clears an optional field.
type ClientPatch struct {
	Type     *string
	Name     *string
	Email    *string
	Phone    *string
	Document *string
	Address  *string
	City     *string
	State    *string
	ZipCode  *string
	Category *string
	Status   *string
	Notes    *string
}

// ProposalRepository defines the secondary port for proposal persistence.
type ProposalRepository interface {
	// Create persists a new proposal, filling ID and timestamps.
	Create(ctx context.Context, proposal *ProposalRecord) error

	// GetByID retrieves a proposal by ID within a company.
	GetByID(ctx context.Context, companyID, id string) (*ProposalRecord, error)

	// List retrieves proposals matching the filters, newest first.
	List(ctx context.Context, filters ProposalFilters) ([]*ProposalRecord, error)

	// Update applies a partial update and returns the stored row.
	Update(ctx context.Context, companyID, id string, patch ProposalPatch) (*ProposalRecord, error)

	// Delete removes a proposal.
	Delete(ctx context.Context, companyID, id string) error

	// Count returns the exact number of proposals matching the filters.
	Count(ctx context.Context, filters ProposalFilters) (int, error)
}

// ProposalItemRecord is one line of a proposal.
type ProposalItemRecord struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// ProposalRecord represents a proposal as stored in persistence.
type ProposalRecord struct {
	ID          string               `json:"id"`
	CompanyID   string               `json:"company_id"`
	ClientID    string               `json:"client_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      string               `json:"status"`
	TotalAmount float64              `json:"total_amount"`
	Discount    float64              `json:"discount"`
	Items       []ProposalItemRecord `json:"items"`
	ValidUntil  string               `json:"valid_until"`
	Notes       string               `json:"notes"`
	CreatedBy   string               `json:"created_by"`
	CreatedAt   string               `json:"created_at"`
	UpdatedAt   string               `json:"updated_at"`
}

// ProposalFilters contains filter options for querying proposals.
type ProposalFilters struct {
	CompanyID string
	ClientID  string
	Status    string
	Statuses  []string // any of
}

// ProposalPatch lists the fields to change. Nil means unchanged.
type ProposalPatch struct {
	ClientID    *string
	Title       *string
	Description *string
	Status      *string
	TotalAmount *float64
	Discount    *float64
	Items       *[]ProposalItemRecord
	ValidUntil  *string
	Notes       *string
}

// TaskRepository defines the secondary port for task persistence.
type TaskRepository interface {
	// Create persists a new task, filling ID and timestamps.
	Create(ctx context.Context, task *TaskRecord) error

	// GetByID retrieves a task by ID within a company.
	GetByID(ctx context.Context, companyID, id string) (*TaskRecord, error)

	// List retrieves tasks matching the filters, newest first.
	List(ctx context.Context, filters TaskFilters) ([]*TaskRecord, error)

	// Update applies a partial update and returns the stored row.
	Update(ctx context.Context, companyID, id string, patch TaskPatch) (*TaskRecord, error)

	// Delete removes a task.
	Delete(ctx context.Context, companyID, id string) error

	// Count returns the exact number of tasks matching the filters.
	Count(ctx context.Context, filters TaskFilters) (int, error)
}

// TaskRecord represents a task as stored in persistence.
// Empty string means null for optional fields.
type TaskRecord struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	AssignedTo  string `json:"assigned_to"`
	DueDate     string `json:"due_date"`
	ClientID    string `json:"client_id"`
	ProposalID  string `json:"proposal_id"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// TaskFilters contains filter options for querying tasks.
type TaskFilters struct {
	CompanyID     string
	Status        string
	Statuses      []string // any of
	ExcludeStatus string
	Priority      string
	AssignedTo    string
	ClientID      string
	DueBefore     string // due_date < value (YYYY-MM-DD)
}

// TaskPatch lists the fields to change. Nil means unchanged; a pointer
// to "" clears an optional field.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  *string
	DueDate     *string
	ClientID    *string
	ProposalID  *string
}

// NotificationRepository defines the secondary port for notifications.
type NotificationRepository interface {
	// Create persists a new notification, filling ID and created_at.
	Create(ctx context.Context, n *NotificationRecord) error

	// List retrieves notifications matching the filters, newest first.
	List(ctx context.Context, filters NotificationFilters) ([]*NotificationRecord, error)

	// MarkRead flags one notification of the user as read.
	MarkRead(ctx context.Context, userID, id string) error

	// MarkAllRead flags every unread notification of the user in the company.
	MarkAllRead(ctx context.Context, userID, companyID string) error

	// Count returns the exact number of notifications matching the filters.
	Count(ctx context.Context, filters NotificationFilters) (int, error)
}

// NotificationRecord represents a notification as stored in persistence.
type NotificationRecord struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	CompanyID string         `json:"company_id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	IsRead    bool           `json:"is_read"`
	Data      map[string]any `json:"data"`
	CreatedAt string         `json:"created_at"`
}

// NotificationFilters contains filter options for querying notifications.
type NotificationFilters struct {
	UserID     string
	CompanyID  string
	UnreadOnly bool
	Limit      int
}

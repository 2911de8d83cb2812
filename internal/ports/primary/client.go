package primary

import "context"

// ClientService defines the primary port for client operations.
// Every operation is scoped to the current company.
type ClientService interface {
	// ListClients lists clients, newest first.
	ListClients(ctx context.Context, filters ClientFilters) ([]*Client, error)

	// GetClient retrieves a client by ID.
	GetClient(ctx context.Context, clientID string) (*Client, error)

	// CreateClient creates a new client.
	CreateClient(ctx context.Context, req CreateClientRequest) (*Client, error)

	// UpdateClient applies a partial update.
	UpdateClient(ctx context.Context, req UpdateClientRequest) (*Client, error)

	// DeleteClient deletes a client.
	DeleteClient(ctx context.Context, clientID string) error
}

// Client is the public view of a client.
type Client struct {
	ID           string
	CompanyID    string
	Type         string
	Name         string
	Email        string
	Phone        string
	Document     string
	Address      string
	City         string
	State        string
	ZipCode      string
	Category     string
	Status       string
	Notes        string
	CustomFields map[string]any
	CreatedBy    string
	CreatedAt    string
	UpdatedAt    string
}

// ClientFilters contains filter options for listing clients.
type ClientFilters struct {
	Status string
	Type   string
	Search string // case-insensitive over name/email, substring over phone
}

// CreateClientRequest contains parameters for creating a client.
type CreateClientRequest struct {
	Type     string
	Name     string
	Email    string
	Phone    string
	Document string
	Address  string
	City     string
	State    string
	ZipCode  string
	Category string
	Status   string // defaults to active
	Notes    string
}

// UpdateClientRequest contains parameters for updating a client.
// Nil fields are left unchanged; "" clears an optional field.
type UpdateClientRequest struct {
	ClientID string
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

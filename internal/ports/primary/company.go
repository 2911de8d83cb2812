package primary

import "context"

// CompanyService defines the primary port for tenant resolution.
type CompanyService interface {
	// Resolve loads the signed-in user's companies and selects the current one.
	Resolve(ctx context.Context) error

	// Refresh is Resolve.
	Refresh(ctx context.Context) error

	// Switch makes companyID current. It must be one of Companies().
	Switch(ctx context.Context, companyID string) error

	// Current returns the current company, or nil.
	Current() *Company

	// Companies returns the companies the user belongs to.
	Companies() []*Company

	// Profiles returns the user's active memberships.
	Profiles() []*Profile

	// CurrentProfile returns the membership in the current company, or nil.
	CurrentProfile() *Profile

	// LastError returns the error of the last Resolve, or nil.
	LastError() error

	// WatchAuth re-resolves on session changes of auth.
	WatchAuth(auth AuthService) (unsubscribe func())
}

// Company is the public view of a tenant.
type Company struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Document  string
	Address   string
	City      string
	State     string
	ZipCode   string
	Plan      string
	Status    string
	Settings  map[string]any
	CreatedAt string
	UpdatedAt string
}

// Profile is a user's membership in a company.
type Profile struct {
	ID          string
	UserID      string
	CompanyID   string
	Role        string
	Permissions map[string]map[string]bool
	IsActive    bool
	CreatedAt   string
	UpdatedAt   string
	Company     *Company
}

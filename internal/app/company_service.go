package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/crm/internal/core/tenant"
	"github.com/example/crm/internal/models"
	"github.com/example/crm/internal/ports/primary"
	"github.com/example/crm/internal/ports/secondary"
)

// CompanyServiceImpl implements the CompanyService interface.
type CompanyServiceImpl struct {
	auth          primary.AuthService
	companyRepo   secondary.CompanyRepository
	profileRepo   secondary.ProfileRepository
	prefs         secondary.PreferenceStore
	fallbackEmail string

	mu        sync.Mutex
	profiles  []*primary.Profile
	companies []*primary.Company
	current   *primary.Company
	lastErr   error
}

// NewCompanyService creates a new CompanyService with injected dependencies.
// fallbackEmail names the company a user is attached to when their
// memberships cannot be loaded; empty disables the fallback.
func NewCompanyService(
	auth primary.AuthService,
	companyRepo secondary.CompanyRepository,
	profileRepo secondary.ProfileRepository,
	prefs secondary.PreferenceStore,
	fallbackEmail string,
) *CompanyServiceImpl {
	return &CompanyServiceImpl{
		auth:          auth,
		companyRepo:   companyRepo,
		profileRepo:   profileRepo,
		prefs:         prefs,
		fallbackEmail: fallbackEmail,
	}
}

var _ primary.CompanyService = (*CompanyServiceImpl)(nil)

// Resolve loads the user's companies and selects the current one. A
// failure is kept and reported by LastError until the next Resolve.
func (s *CompanyServiceImpl) Resolve(ctx context.Context) error {
	err := s.resolve(ctx)
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	return err
}

func (s *CompanyServiceImpl) resolve(ctx context.Context) error {
	user := s.auth.CurrentUser()
	if user == nil {
		s.setState(nil, nil, nil)
		return nil
	}

	records, err := s.profileRepo.ListActiveByUser(ctx, user.ID)
	if err != nil {
		records, err = s.attachFallback(ctx, user.ID, err)
		if err != nil {
			s.setState(nil, nil, nil)
			return err
		}
	}

	profiles := make([]*primary.Profile, 0, len(records))
	companies := make([]*primary.Company, 0, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		p := recordToProfile(r)
		profiles = append(profiles, p)
		if p.Company != nil {
			companies = append(companies, p.Company)
			ids = append(ids, p.Company.ID)
		}
	}

	if len(companies) == 0 {
		s.setState(profiles, companies, nil)
		return nil
	}

	saved, err := s.prefs.Get(ctx, models.CurrentCompanyKey)
	if err != nil {
		return fmt.Errorf("failed to read remembered company: %w", err)
	}
	sel := tenant.SelectCurrent(saved, ids)
	var current *primary.Company
	for _, c := range companies {
		if c.ID == sel.CompanyID {
			current = c
			break
		}
	}
	if err := s.prefs.Set(ctx, models.CurrentCompanyKey, sel.CompanyID); err != nil {
		return fmt.Errorf("failed to remember company: %w", err)
	}

	s.setState(profiles, companies, current)
	return nil
}

// attachFallback gives the user an admin membership in the fallback company
// and retries the profile fetch once. fetchErr is returned if that fails. A
// retry that succeeds with no rows leaves the user without companies.
func (s *CompanyServiceImpl) attachFallback(ctx context.Context, userID string, fetchErr error) ([]*secondary.ProfileRecord, error) {
	wrapped := fmt.Errorf("failed to load companies: %w", fetchErr)
	if s.fallbackEmail == "" {
		return nil, wrapped
	}

	company, err := s.companyRepo.FindByEmail(ctx, s.fallbackEmail)
	if err != nil || company == nil {
		return nil, wrapped
	}

	err = s.profileRepo.Create(ctx, &secondary.ProfileRecord{
		UserID:      userID,
		CompanyID:   company.ID,
		Role:        models.RoleAdmin,
		Permissions: tenant.ToMap(tenant.DefaultAdminPermissions()),
		IsActive:    true,
	})
	if err != nil {
		return nil, wrapped
	}

	records, err := s.profileRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, wrapped
	}
	return records, nil
}

// Refresh is Resolve.
func (s *CompanyServiceImpl) Refresh(ctx context.Context) error {
	return s.Resolve(ctx)
}

// Switch makes companyID current.
func (s *CompanyServiceImpl) Switch(ctx context.Context, companyID string) error {
	s.mu.Lock()
	ids := make([]string, len(s.companies))
	var target *primary.Company
	for i, c := range s.companies {
		ids[i] = c.ID
		if c.ID == companyID {
			target = c
		}
	}
	s.mu.Unlock()

	if r := tenant.CanSwitch(companyID, ids); !r.Allowed {
		return fmt.Errorf("%w: %s", primary.ErrCompanyNotFound, r.Reason)
	}

	if err := s.prefs.Set(ctx, models.CurrentCompanyKey, companyID); err != nil {
		return fmt.Errorf("failed to remember company: %w", err)
	}

	s.mu.Lock()
	s.current = target
	s.mu.Unlock()
	return nil
}

// Current returns the current company, or nil.
func (s *CompanyServiceImpl) Current() *primary.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Companies returns the companies the user belongs to.
func (s *CompanyServiceImpl) Companies() []*primary.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*primary.Company, len(s.companies))
	copy(out, s.companies)
	return out
}

// Profiles returns the user's active memberships.
func (s *CompanyServiceImpl) Profiles() []*primary.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*primary.Profile, len(s.profiles))
	copy(out, s.profiles)
	return out
}

// CurrentProfile returns the membership in the current company, or nil.
func (s *CompanyServiceImpl) CurrentProfile() *primary.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	for _, p := range s.profiles {
		if p.CompanyID == s.current.ID {
			return p
		}
	}
	return nil
}

// LastError returns the error of the last Resolve, or nil.
func (s *CompanyServiceImpl) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// WatchAuth re-resolves on session changes of auth. Resolution errors are
// kept for LastError.
func (s *CompanyServiceImpl) WatchAuth(auth primary.AuthService) func() {
	return auth.Subscribe(func(event primary.AuthEvent, _ *primary.Session) {
		switch event {
		case primary.AuthEventInitialSession, primary.AuthEventSignedIn,
			primary.AuthEventSignedOut, primary.AuthEventUserUpdated:
			_ = s.Resolve(context.Background())
		}
	})
}

func (s *CompanyServiceImpl) setState(profiles []*primary.Profile, companies []*primary.Company, current *primary.Company) {
	s.mu.Lock()
	s.profiles = profiles
	s.companies = companies
	s.current = current
	s.mu.Unlock()
}

func recordToCompany(r *secondary.CompanyRecord) *primary.Company {
	if r == nil {
		return nil
	}
	return &primary.Company{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Document:  r.Document,
		Address:   r.Address,
		City:      r.City,
		State:     r.State,
		ZipCode:   r.ZipCode,
		Plan:      r.Plan,
		Status:    r.Status,
		Settings:  r.Settings,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func recordToProfile(r *secondary.ProfileRecord) *primary.Profile {
	return &primary.Profile{
		ID:          r.ID,
		UserID:      r.UserID,
		CompanyID:   r.CompanyID,
		Role:        r.Role,
		Permissions: r.Permissions,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Company:     recordToCompany(r.Company),
	}
}

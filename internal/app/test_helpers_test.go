package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/example/crm/internal/models"
	"github.com/example/crm/internal/ports/primary"
	"github.com/example/crm/internal/ports/secondary"
)

// ============================================================================
// Identity and local stores
// ============================================================================

var _ secondary.IdentityProvider = (*mockIdentityProvider)(nil)

// mockIdentityProvider implements secondary.IdentityProvider for testing.
type mockIdentityProvider struct {
	signInSession  *secondary.SessionRecord
	signInErr      error
	signUpResult   *secondary.SignUpResult
	signUpErr      error
	refreshSession *secondary.SessionRecord
	refreshErr     error
	signOutErr     error
	resetErr       error

	lastSignUp        secondary.SignUpRecord
	lastResetEmail    string
	lastResetRedirect string
	signedOutTokens   []string
	refreshCalls      int
}

func (m *mockIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*secondary.SessionRecord, error) {
	if m.signInErr != nil {
		return nil, m.signInErr
	}
	return m.signInSession, nil
}

func (m *mockIdentityProvider) SignUp(ctx context.Context, req secondary.SignUpRecord) (*secondary.SignUpResult, error) {
	m.lastSignUp = req
	if m.signUpErr != nil {
		return nil, m.signUpErr
	}
	return m.signUpResult, nil
}

func (m *mockIdentityProvider) SignOut(ctx context.Context, accessToken string) error {
	m.signedOutTokens = append(m.signedOutTokens, accessToken)
	return m.signOutErr
}

func (m *mockIdentityProvider) RefreshSession(ctx context.Context, refreshToken string) (*secondary.SessionRecord, error) {
	m.refreshCalls++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	return m.refreshSession, nil
}

func (m *mockIdentityProvider) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	m.lastResetEmail = email
	m.lastResetRedirect = redirectTo
	return m.resetErr
}

func (m *mockIdentityProvider) GetUser(ctx context.Context, accessToken string) (*secondary.UserRecord, error) {
	return nil, errors.New("not implemented")
}

var _ secondary.SessionStore = (*mockSessionStore)(nil)

// mockSessionStore implements secondary.SessionStore for testing.
type mockSessionStore struct {
	session *secondary.SessionRecord
	loadErr error
	saveErr error
	cleared int
}

func (m *mockSessionStore) Load(ctx context.Context) (*secondary.SessionRecord, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.session, nil
}

func (m *mockSessionStore) Save(ctx context.Context, s *secondary.SessionRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.session = s
	return nil
}

func (m *mockSessionStore) Clear(ctx context.Context) error {
	m.session = nil
	m.cleared++
	return nil
}

var _ secondary.PreferenceStore = (*mockPreferenceStore)(nil)

// mockPreferenceStore implements secondary.PreferenceStore for testing.
type mockPreferenceStore struct {
	values map[string]string
}

func newMockPreferenceStore() *mockPreferenceStore {
	return &mockPreferenceStore{values: make(map[string]string)}
}

func (m *mockPreferenceStore) Get(ctx context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *mockPreferenceStore) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *mockPreferenceStore) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

// ============================================================================
// Tenant scope stubs
// ============================================================================

// stubAuth implements primary.AuthService with a fixed user.
type stubAuth struct {
	user *primary.User
}

func (s *stubAuth) Bootstrap(ctx context.Context) (*primary.Session, error) { return nil, nil }
func (s *stubAuth) Subscribe(fn primary.AuthListener) func()                { return func() {} }
func (s *stubAuth) SignIn(ctx context.Context, email, password string) (*primary.Session, error) {
	return nil, nil
}
func (s *stubAuth) SignUp(ctx context.Context, req primary.SignUpRequest) (*primary.SignUpResponse, error) {
	return nil, nil
}
func (s *stubAuth) SignOut(ctx context.Context) error                 { return nil }
func (s *stubAuth) ResetPassword(ctx context.Context, e string) error { return nil }
func (s *stubAuth) CurrentSession() *primary.Session {
	if s.user == nil {
		return nil
	}
	return &primary.Session{AccessToken: "token", User: s.user}
}
func (s *stubAuth) CurrentUser() *primary.User { return s.user }
func (s *stubAuth) IsAuthenticated() bool      { return s.user != nil }
func (s *stubAuth) AccessToken() string        { return "token" }

// stubCompanies implements primary.CompanyService with a fixed membership.
type stubCompanies struct {
	current *primary.Company
	profile *primary.Profile
	err     error
}

func (s *stubCompanies) Resolve(ctx context.Context) error           { return nil }
func (s *stubCompanies) Refresh(ctx context.Context) error           { return nil }
func (s *stubCompanies) Switch(ctx context.Context, id string) error { return nil }
func (s *stubCompanies) Current() *primary.Company                   { return s.current }
func (s *stubCompanies) CurrentProfile() *primary.Profile            { return s.profile }
func (s *stubCompanies) WatchAuth(auth primary.AuthService) func()   { return func() {} }
func (s *stubCompanies) LastError() error                            { return s.err }
func (s *stubCompanies) Profiles() []*primary.Profile {
	if s.profile == nil {
		return nil
	}
	return []*primary.Profile{s.profile}
}
func (s *stubCompanies) Companies() []*primary.Company {
	if s.current == nil {
		return nil
	}
	return []*primary.Company{s.current}
}

const (
	testUserID    = "user-1"
	testCompanyID = "company-1"
)

// signedIn returns auth and company stubs for a user with role in the test company.
func signedIn(role string) (*stubAuth, *stubCompanies) {
	auth := &stubAuth{user: &primary.User{ID: testUserID, Email: "ana@example.com"}}
	company := &primary.Company{ID: testCompanyID, Name: "Acme"}
	return auth, &stubCompanies{
		current: company,
		profile: &primary.Profile{ID: "profile-1", UserID: testUserID, CompanyID: testCompanyID, Role: role, IsActive: true, Company: company},
	}
}

// ============================================================================
// Repositories
// ============================================================================

var _ secondary.CompanyRepository = (*mockCompanyRepository)(nil)

// mockCompanyRepository implements secondary.CompanyRepository for testing.
type mockCompanyRepository struct {
	companies map[string]*secondary.CompanyRecord
}

func newMockCompanyRepository() *mockCompanyRepository {
	return &mockCompanyRepository{companies: make(map[string]*secondary.CompanyRecord)}
}

func (m *mockCompanyRepository) GetByID(ctx context.Context, id string) (*secondary.CompanyRecord, error) {
	if c, ok := m.companies[id]; ok {
		return c, nil
	}
	return nil, secondary.ErrNotFound
}

func (m *mockCompanyRepository) FindByEmail(ctx context.Context, email string) (*secondary.CompanyRecord, error) {
	for _, c := range m.companies {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, secondary.ErrNotFound
}

var _ secondary.ProfileRepository = (*mockProfileRepository)(nil)

// mockProfileRepository implements secondary.ProfileRepository for testing.
type mockProfileRepository struct {
	companies *mockCompanyRepository
	profiles  []*secondary.ProfileRecord
	listErrs  []error // consumed one per ListActiveByUser call
	createErr error
	created   []*secondary.ProfileRecord
	hidden    bool // Create succeeds but the row is not readable back
}

func newMockProfileRepository(companies *mockCompanyRepository) *mockProfileRepository {
	return &mockProfileRepository{companies: companies}
}

func (m *mockProfileRepository) ListActiveByUser(ctx context.Context, userID string) ([]*secondary.ProfileRecord, error) {
	if len(m.listErrs) > 0 {
		err := m.listErrs[0]
		m.listErrs = m.listErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	var out []*secondary.ProfileRecord
	for _, p := range m.profiles {
		if p.UserID != userID || !p.IsActive {
			continue
		}
		cp := *p
		cp.Company = m.companies.companies[p.CompanyID]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockProfileRepository) Create(ctx context.Context, p *secondary.ProfileRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = fmt.Sprintf("profile-%d", len(m.profiles)+1)
	m.created = append(m.created, p)
	if !m.hidden {
		m.profiles = append(m.profiles, p)
	}
	return nil
}

var _ secondary.ClientRepository = (*mockClientRepository)(nil)

// mockClientRepository implements secondary.ClientRepository for testing.
type mockClientRepository struct {
	mu        sync.Mutex
	clients   map[string]*secondary.ClientRecord
	order     []string
	createErr error
	countErr  error
	lastList  secondary.ClientFilters
}

func newMockClientRepository() *mockClientRepository {
	return &mockClientRepository{clients: make(map[string]*secondary.ClientRecord)}
}

func (m *mockClientRepository) add(r *secondary.ClientRecord) {
	m.clients[r.ID] = r
	m.order = append(m.order, r.ID)
}

func (m *mockClientRepository) Create(ctx context.Context, r *secondary.ClientRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	r.ID = fmt.Sprintf("client-%d", len(m.clients)+1)
	r.CreatedAt = "2026-03-15T10:00:00Z"
	r.UpdatedAt = r.CreatedAt
	m.add(r)
	return nil
}

func (m *mockClientRepository) GetByID(ctx context.Context, companyID, id string) (*secondary.ClientRecord, error) {
	if c, ok := m.clients[id]; ok && c.CompanyID == companyID {
		return c, nil
	}
	return nil, secondary.ErrNotFound
}

func (m *mockClientRepository) matching(f secondary.ClientFilters) []*secondary.ClientRecord {
	var out []*secondary.ClientRecord
	for i := len(m.order) - 1; i >= 0; i-- {
		c := m.clients[m.order[i]]
		if c == nil || c.CompanyID != f.CompanyID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Type != "" && c.Type != f.Type {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (m *mockClientRepository) List(ctx context.Context, f secondary.ClientFilters) ([]*secondary.ClientRecord, error) {
	m.lastList = f
	return m.matching(f), nil
}

func (m *mockClientRepository) Update(ctx context.Context, companyID, id string, p secondary.ClientPatch) (*secondary.ClientRecord, error) {
	c, err := m.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.Type, p.Type)
	set(&c.Name, p.Name)
	set(&c.Email, p.Email)
	set(&c.Phone, p.Phone)
	set(&c.Document, p.Document)
	set(&c.Address, p.Address)
	set(&c.City, p.City)
	set(&c.State, p.State)
	set(&c.ZipCode, p.ZipCode)
	set(&c.Category, p.Category)
	set(&c.Status, p.Status)
	set(&c.Notes, p.Notes)
	return c, nil
}

func (m *mockClientRepository) Delete(ctx context.Context, companyID, id string) error {
	if _, err := m.GetByID(ctx, companyID, id); err != nil {
		return err
	}
	delete(m.clients, id)
	return nil
}

func (m *mockClientRepository) Count(ctx context.Context, f secondary.ClientFilters) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.matching(f)), nil
}

var _ secondary.ProposalRepository = (*mockProposalRepository)(nil)

// mockProposalRepository implements secondary.ProposalRepository for testing.
type mockProposalRepository struct {
	mu        sync.Mutex
	proposals map[string]*secondary.ProposalRecord
	createErr error
}

func newMockProposalRepository() *mockProposalRepository {
	return &mockProposalRepository{proposals: make(map[string]*secondary.ProposalRecord)}
}

func (m *mockProposalRepository) Create(ctx context.Context, r *secondary.ProposalRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	r.ID = fmt.Sprintf("proposal-%d", len(m.proposals)+1)
	m.proposals[r.ID] = r
	return nil
}

func (m *mockProposalRepository) GetByID(ctx context.Context, companyID, id string) (*secondary.ProposalRecord, error) {
	if p, ok := m.proposals[id]; ok && p.CompanyID == companyID {
		return p, nil
	}
	return nil, secondary.ErrNotFound
}

func (m *mockProposalRepository) matching(f secondary.ProposalFilters) []*secondary.ProposalRecord {
	var out []*secondary.ProposalRecord
	for _, p := range m.proposals {
		if p.CompanyID != f.CompanyID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.ClientID != "" && p.ClientID != f.ClientID {
			continue
		}
		if len(f.Statuses) > 0 && !models.Contains(f.Statuses, p.Status) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockProposalRepository) List(ctx context.Context, f secondary.ProposalFilters) ([]*secondary.ProposalRecord, error) {
	return m.matching(f), nil
}

func (m *mockProposalRepository) Update(ctx context.Context, companyID, id string, p secondary.ProposalPatch) (*secondary.ProposalRecord, error) {
	r, err := m.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.TotalAmount != nil {
		r.TotalAmount = *p.TotalAmount
	}
	if p.Discount != nil {
		r.Discount = *p.Discount
	}
	if p.Items != nil {
		r.Items = *p.Items
	}
	if p.ValidUntil != nil {
		r.ValidUntil = *p.ValidUntil
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	return r, nil
}

func (m *mockProposalRepository) Delete(ctx context.Context, companyID, id string) error {
	if _, err := m.GetByID(ctx, companyID, id); err != nil {
		return err
	}
	delete(m.proposals, id)
	return nil
}

func (m *mockProposalRepository) Count(ctx context.Context, f secondary.ProposalFilters) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matching(f)), nil
}

var _ secondary.TaskRepository = (*mockTaskRepository)(nil)

// mockTaskRepository implements secondary.TaskRepository for testing.
type mockTaskRepository struct {
	mu       sync.Mutex
	tasks    map[string]*secondary.TaskRecord
	lastList secondary.TaskFilters
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{tasks: make(map[string]*secondary.TaskRecord)}
}

func (m *mockTaskRepository) Create(ctx context.Context, r *secondary.TaskRecord) error {
	r.ID = fmt.Sprintf("task-%d", len(m.tasks)+1)
	m.tasks[r.ID] = r
	return nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, companyID, id string) (*secondary.TaskRecord, error) {
	if t, ok := m.tasks[id]; ok && t.CompanyID == companyID {
		return t, nil
	}
	return nil, secondary.ErrNotFound
}

func (m *mockTaskRepository) matching(f secondary.TaskFilters) []*secondary.TaskRecord {
	var out []*secondary.TaskRecord
	for _, t := range m.tasks {
		if t.CompanyID != f.CompanyID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if len(f.Statuses) > 0 && !models.Contains(f.Statuses, t.Status) {
			continue
		}
		if f.ExcludeStatus != "" && t.Status == f.ExcludeStatus {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.AssignedTo != "" && t.AssignedTo != f.AssignedTo {
			continue
		}
		if f.ClientID != "" && t.ClientID != f.ClientID {
			continue
		}
		if f.DueBefore != "" && (t.DueDate == "" || t.DueDate >= f.DueBefore) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockTaskRepository) List(ctx context.Context, f secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	m.lastList = f
	return m.matching(f), nil
}

func (m *mockTaskRepository) Update(ctx context.Context, companyID, id string, p secondary.TaskPatch) (*secondary.TaskRecord, error) {
	t, err := m.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&t.Title, p.Title)
	set(&t.Description, p.Description)
	set(&t.Status, p.Status)
	set(&t.Priority, p.Priority)
	set(&t.AssignedTo, p.AssignedTo)
	set(&t.DueDate, p.DueDate)
	set(&t.ClientID, p.ClientID)
	set(&t.ProposalID, p.ProposalID)
	return t, nil
}

func (m *mockTaskRepository) Delete(ctx context.Context, companyID, id string) error {
	if _, err := m.GetByID(ctx, companyID, id); err != nil {
		return err
	}
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskRepository) Count(ctx context.Context, f secondary.TaskFilters) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matching(f)), nil
}

var _ secondary.NotificationRepository = (*mockNotificationRepository)(nil)

// mockNotificationRepository implements secondary.NotificationRepository for testing.
type mockNotificationRepository struct {
	notifications []*secondary.NotificationRecord
}

func newMockNotificationRepository() *mockNotificationRepository {
	return &mockNotificationRepository{}
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *secondary.NotificationRecord) error {
	n.ID = fmt.Sprintf("notification-%d", len(m.notifications)+1)
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *mockNotificationRepository) List(ctx context.Context, f secondary.NotificationFilters) ([]*secondary.NotificationRecord, error) {
	var out []*secondary.NotificationRecord
	for i := len(m.notifications) - 1; i >= 0; i-- {
		n := m.notifications[i]
		if n.UserID != f.UserID || n.CompanyID != f.CompanyID {
			continue
		}
		if f.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	for _, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return secondary.ErrNotFound
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, userID, companyID string) error {
	for _, n := range m.notifications {
		if n.UserID == userID && n.CompanyID == companyID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepository) Count(ctx context.Context, f secondary.NotificationFilters) (int, error) {
	list, _ := m.List(ctx, secondary.NotificationFilters{UserID: f.UserID, CompanyID: f.CompanyID, UnreadOnly: f.UnreadOnly})
	return len(list), nil
}

func strPtr(s string) *string { return &s }

package cli

import (
	"context"
	"time"

	"github.com/example/crm/internal/ports/primary"
)

// mockClientService implements primary.ClientService for testing
type mockClientService struct {
	clients   []*primary.Client
	err       error
	lastReq   primary.CreateClientRequest
	deletedID string
}

func (m *mockClientService) ListClients(ctx context.Context, filters primary.ClientFilters) ([]*primary.Client, error) {
	return m.clients, m.err
}

func (m *mockClientService) GetClient(ctx context.Context, clientID string) (*primary.Client, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.clients {
		if c.ID == clientID {
			return c, nil
		}
	}
	return nil, primary.ErrNotFound
}

func (m *mockClientService) CreateClient(ctx context.Context, req primary.CreateClientRequest) (*primary.Client, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Client{ID: "client-new", Name: req.Name, Type: req.Type, Status: "active"}, nil
}

func (m *mockClientService) UpdateClient(ctx context.Context, req primary.UpdateClientRequest) (*primary.Client, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Client{ID: req.ClientID}, nil
}

func (m *mockClientService) DeleteClient(ctx context.Context, clientID string) error {
	m.deletedID = clientID
	return m.err
}

// mockProposalService implements primary.ProposalService for testing
type mockProposalService struct {
	proposals []*primary.Proposal
	expired   []*primary.Proposal
	err       error
	expiredAt time.Time
}

func (m *mockProposalService) ListProposals(ctx context.Context, filters primary.ProposalFilters) ([]*primary.Proposal, error) {
	return m.proposals, m.err
}

func (m *mockProposalService) GetProposal(ctx context.Context, proposalID string) (*primary.Proposal, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.proposals {
		if p.ID == proposalID {
			return p, nil
		}
	}
	return nil, primary.ErrNotFound
}

func (m *mockProposalService) CreateProposal(ctx context.Context, req primary.CreateProposalRequest) (*primary.Proposal, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Proposal{ID: "proposal-new", Title: req.Title, Status: "draft", TotalAmount: 1500}, nil
}

func (m *mockProposalService) UpdateProposal(ctx context.Context, req primary.UpdateProposalRequest) (*primary.Proposal, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Proposal{ID: req.ProposalID, TotalAmount: 900}, nil
}

func (m *mockProposalService) SetProposalStatus(ctx context.Context, proposalID, status string) (*primary.Proposal, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Proposal{ID: proposalID, Status: status}, nil
}

func (m *mockProposalService) ExpireOverdue(ctx context.Context, now time.Time) ([]*primary.Proposal, error) {
	m.expiredAt = now
	return m.expired, m.err
}

func (m *mockProposalService) DeleteProposal(ctx context.Context, proposalID string) error {
	return m.err
}

// mockTaskService implements primary.TaskService for testing
type mockTaskService struct {
	tasks   []*primary.Task
	overdue []*primary.Task
	err     error
}

func (m *mockTaskService) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*primary.Task, error) {
	return m.tasks, m.err
}

func (m *mockTaskService) GetTask(ctx context.Context, taskID string) (*primary.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, t := range m.tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return nil, primary.ErrNotFound
}

func (m *mockTaskService) CreateTask(ctx context.Context, req primary.CreateTaskRequest) (*primary.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Task{ID: "task-new", Title: req.Title}, nil
}

func (m *mockTaskService) UpdateTask(ctx context.Context, req primary.UpdateTaskRequest) (*primary.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Task{ID: req.TaskID}, nil
}

func (m *mockTaskService) CompleteTask(ctx context.Context, taskID string) (*primary.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Task{ID: taskID, Status: "done"}, nil
}

func (m *mockTaskService) ListOverdue(ctx context.Context, now time.Time) ([]*primary.Task, error) {
	return m.overdue, m.err
}

func (m *mockTaskService) DeleteTask(ctx context.Context, taskID string) error {
	return m.err
}

// mockNotificationService implements primary.NotificationService for testing
type mockNotificationService struct {
	notifications []*primary.Notification
	err           error
	readID        string
	allRead       bool
}

func (m *mockNotificationService) ListNotifications(ctx context.Context, filters primary.NotificationFilters) ([]*primary.Notification, error) {
	return m.notifications, m.err
}

func (m *mockNotificationService) MarkRead(ctx context.Context, notificationID string) error {
	m.readID = notificationID
	return m.err
}

func (m *mockNotificationService) MarkAllRead(ctx context.Context) error {
	m.allRead = true
	return m.err
}

func (m *mockNotificationService) Notify(ctx context.Context, req primary.NotifyRequest) (*primary.Notification, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Notification{ID: "n-new", UserID: req.UserID, Title: req.Title}, nil
}

func (m *mockNotificationService) UnreadCount(ctx context.Context) (int, error) {
	return 0, m.err
}

// mockCompanyService implements primary.CompanyService for testing
type mockCompanyService struct {
	companies []*primary.Company
	profiles  []*primary.Profile
	current   *primary.Company
}

func (m *mockCompanyService) Resolve(ctx context.Context) error { return nil }
func (m *mockCompanyService) Refresh(ctx context.Context) error { return nil }

func (m *mockCompanyService) Switch(ctx context.Context, companyID string) error {
	for _, c := range m.companies {
		if c.ID == companyID {
			m.current = c
			return nil
		}
	}
	return primary.ErrCompanyNotFound
}

func (m *mockCompanyService) Current() *primary.Company     { return m.current }
func (m *mockCompanyService) Companies() []*primary.Company { return m.companies }
func (m *mockCompanyService) Profiles() []*primary.Profile  { return m.profiles }
func (m *mockCompanyService) CurrentProfile() *primary.Profile {
	if m.current == nil {
		return nil
	}
	for _, p := range m.profiles {
		if p.CompanyID == m.current.ID {
			return p
		}
	}
	return nil
}
func (m *mockCompanyService) WatchAuth(auth primary.AuthService) func() { return func() {} }
func (m *mockCompanyService) LastError() error                          { return nil }

// mockDashboardService implements primary.DashboardService for testing
type mockDashboardService struct {
	stats *primary.DashboardStats
	err   error
}

func (m *mockDashboardService) Stats(ctx context.Context) (*primary.DashboardStats, error) {
	return m.stats, m.err
}

// mockAuthService implements primary.AuthService for testing
type mockAuthService struct {
	session  *primary.Session
	signUp   *primary.SignUpResponse
	err      error
	resetFor string
}

func (m *mockAuthService) Bootstrap(ctx context.Context) (*primary.Session, error) {
	return m.session, m.err
}

func (m *mockAuthService) Subscribe(fn primary.AuthListener) func() { return func() {} }

func (m *mockAuthService) SignIn(ctx context.Context, email, password string) (*primary.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockAuthService) SignUp(ctx context.Context, req primary.SignUpRequest) (*primary.SignUpResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.signUp, nil
}

func (m *mockAuthService) SignOut(ctx context.Context) error {
	m.session = nil
	return m.err
}

func (m *mockAuthService) ResetPassword(ctx context.Context, email string) error {
	m.resetFor = email
	return m.err
}

func (m *mockAuthService) CurrentSession() *primary.Session { return m.session }

func (m *mockAuthService) CurrentUser() *primary.User {
	if m.session == nil {
		return nil
	}
	return m.session.User
}

func (m *mockAuthService) IsAuthenticated() bool { return m.session != nil }

func (m *mockAuthService) AccessToken() string {
	if m.session == nil {
		return ""
	}
	return m.session.AccessToken
}

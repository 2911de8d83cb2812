// Package wire provides dependency injection for the crm application.
// It builds the services once, lazily, from the loaded configuration.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	cliadapter "github.com/example/crm/internal/adapters/cli"
	"github.com/example/crm/internal/adapters/rest"
	"github.com/example/crm/internal/adapters/sqlite"
	"github.com/example/crm/internal/app"
	"github.com/example/crm/internal/config"
	"github.com/example/crm/internal/db"
	"github.com/example/crm/internal/logging"
	"github.com/example/crm/internal/metrics"
	"github.com/example/crm/internal/ports/primary"
	"github.com/example/crm/internal/ports/secondary"
)

// Container holds the wired services for one process.
type Container struct {
	Config   *config.Config
	Log      *zap.Logger
	DB       *sql.DB
	Registry *prometheus.Registry

	Auth          primary.AuthService
	Companies     primary.CompanyService
	Clients       primary.ClientService
	Proposals     primary.ProposalService
	Tasks         primary.TaskService
	Notifications primary.NotificationService
	Dashboard     primary.DashboardService

	unwatch func()
}

// repositories groups the secondary ports one backend provides.
type repositories struct {
	identity      secondary.IdentityProvider
	companies     secondary.CompanyRepository
	profiles      secondary.ProfileRepository
	clients       secondary.ClientRepository
	proposals     secondary.ProposalRepository
	tasks         secondary.TaskRepository
	notifications secondary.NotificationRepository
}

// New wires a Container from cfg. The local sqlite store is opened in
// every mode because it holds the session and preferences.
func New(cfg *config.Config, log *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	database, err := db.Open(cfg.Store.Path, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	c := &Container{
		Config:   cfg,
		Log:      log,
		DB:       database,
		Registry: prometheus.NewRegistry(),
	}

	// The REST client reads the access token from the auth service, which
	// in turn is built on the identity provider that client serves.
	var auth primary.AuthService
	tokenSource := func() string {
		if auth == nil {
			return ""
		}
		return auth.AccessToken()
	}

	var repos *repositories
	if cfg.IsLocal() {
		repos = localRepositories(database, log)
	} else {
		repos, err = remoteRepositories(cfg, tokenSource, c.Registry)
		if err != nil {
			database.Close()
			return nil, err
		}
	}

	auth = app.NewAuthLogger(log.Named("auth"), app.NewAuthService(
		repos.identity,
		sqlite.NewSessionStore(database),
		app.AuthConfig{
			RedirectURL:   cfg.Auth.RedirectURL,
			RefreshMargin: cfg.GetRefreshMargin(),
		},
	))
	companies := app.NewCompanyLogger(log.Named("company"), app.NewCompanyService(
		auth,
		repos.companies,
		repos.profiles,
		sqlite.NewPreferenceStore(database),
		cfg.Tenancy.FallbackCompanyEmail,
	))

	c.Auth = auth
	c.Companies = companies
	c.Clients = app.NewClientService(auth, companies, repos.clients)
	c.Proposals = app.NewProposalService(auth, companies, repos.proposals, repos.clients)
	c.Tasks = app.NewTaskService(auth, companies, repos.tasks, repos.clients, repos.proposals)
	c.Notifications = app.NewNotificationService(auth, companies, repos.notifications, repos.profiles)
	c.Dashboard = app.NewDashboardService(auth, companies, repos.clients, repos.proposals, repos.tasks)
	return c, nil
}

func localRepositories(database *sql.DB, log *zap.Logger) *repositories {
	return &repositories{
		identity:      sqlite.NewIdentityProvider(database, log.Named("identity")),
		companies:     sqlite.NewCompanyRepository(database),
		profiles:      sqlite.NewProfileRepository(database),
		clients:       sqlite.NewClientRepository(database),
		proposals:     sqlite.NewProposalRepository(database),
		tasks:         sqlite.NewTaskRepository(database),
		notifications: sqlite.NewNotificationRepository(database),
	}
}

func remoteRepositories(cfg *config.Config, tokenSource func() string, reg prometheus.Registerer) (*repositories, error) {
	client, err := rest.New(
		rest.WithAddr(cfg.Backend.URL),
		rest.WithAPIKey(cfg.Backend.AnonKey),
		rest.WithTokenSource(tokenSource),
		rest.WithTimeout(cfg.GetTimeout()),
		rest.WithInsecureSkipVerify(cfg.Backend.InsecureSkipVerify),
		rest.WithRecorder(metrics.New(reg, "backend")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}
	return &repositories{
		identity:      rest.NewIdentityProvider(client),
		companies:     rest.NewCompanyRepository(client),
		profiles:      rest.NewProfileRepository(client),
		clients:       rest.NewClientRepository(client),
		proposals:     rest.NewProposalRepository(client),
		tasks:         rest.NewTaskRepository(client),
		notifications: rest.NewNotificationRepository(client),
	}, nil
}

// Start restores the persisted session and resolves the user's companies.
// Company state follows every later sign-in and sign-out.
func (c *Container) Start(ctx context.Context) error {
	if c.unwatch == nil {
		c.unwatch = c.Companies.WatchAuth(c.Auth)
	}
	ctx = logging.NewContextWithLogger(ctx, c.Log)
	if _, err := c.Auth.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	return nil
}

// Close releases the database.
func (c *Container) Close() error {
	if c.unwatch != nil {
		c.unwatch()
		c.unwatch = nil
	}
	return c.DB.Close()
}

// ClientAdapter returns a new ClientAdapter writing to out.
func (c *Container) ClientAdapter(out io.Writer) *cliadapter.ClientAdapter {
	return cliadapter.NewClientAdapter(c.Clients, out)
}

// ProposalAdapter returns a new ProposalAdapter writing to out.
func (c *Container) ProposalAdapter(out io.Writer) *cliadapter.ProposalAdapter {
	return cliadapter.NewProposalAdapter(c.Proposals, out)
}

// TaskAdapter returns a new TaskAdapter writing to out.
func (c *Container) TaskAdapter(out io.Writer) *cliadapter.TaskAdapter {
	return cliadapter.NewTaskAdapter(c.Tasks, out)
}

// NotificationAdapter returns a new NotificationAdapter writing to out.
func (c *Container) NotificationAdapter(out io.Writer) *cliadapter.NotificationAdapter {
	return cliadapter.NewNotificationAdapter(c.Notifications, out)
}

// CompanyAdapter returns a new CompanyAdapter writing to out.
func (c *Container) CompanyAdapter(out io.Writer) *cliadapter.CompanyAdapter {
	return cliadapter.NewCompanyAdapter(c.Companies, out)
}

// DashboardAdapter returns a new DashboardAdapter writing to out.
func (c *Container) DashboardAdapter(out io.Writer) *cliadapter.DashboardAdapter {
	return cliadapter.NewDashboardAdapter(c.Dashboard, out)
}

// AuthAdapter returns a new AuthAdapter writing to out.
func (c *Container) AuthAdapter(out io.Writer) *cliadapter.AuthAdapter {
	return cliadapter.NewAuthAdapter(c.Auth, out)
}

var (
	configPath string
	container  *Container
	initErr    error
	once       sync.Once
)

// SetConfigPath sets the configuration file the default container loads.
// It must be called before the first call to Default.
func SetConfigPath(path string) {
	configPath = path
}

// ConfigPath returns the configuration file in use.
func ConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

// Default returns the process-wide Container, building and starting it on
// first use.
func Default(ctx context.Context) (*Container, error) {
	once.Do(func() {
		container, initErr = initDefault(ctx)
	})
	return container, initErr
}

func initDefault(ctx context.Context) (*Container, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	c, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := c.Start(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Package config loads the crm configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend modes
const (
	ModeRemote = "remote" // hosted backend over HTTP
	ModeLocal  = "local"  // sqlite file on this machine
)

// DefaultFallbackCompanyEmail identifies the company new users are attached
// to when their memberships cannot be loaded.
const DefaultFallbackCompanyEmail = "demo@unasyscrm.com.br"

// Config is the crm configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Store   StoreConfig   `yaml:"store"`
	Tenancy TenancyConfig `yaml:"tenancy"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig selects and addresses the backend.
type BackendConfig struct {
	Mode               string `yaml:"mode"`
	URL                string `yaml:"url"`
	AnonKey            string `yaml:"anon_key"`
	Timeout            string `yaml:"timeout"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// StoreConfig locates the local sqlite file. It holds the session and
// preferences in every mode and all data in local mode.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// TenancyConfig configures company resolution.
type TenancyConfig struct {
	FallbackCompanyEmail string `yaml:"fallback_company_email"`
}

// AuthConfig configures the auth flows.
type AuthConfig struct {
	RedirectURL   string `yaml:"redirect_url"`
	RefreshMargin string `yaml:"refresh_margin"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Dir returns the crm directory under the user's home.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".crm"), nil
}

// DefaultPath returns ~/.crm/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	storePath := "crm.db"
	if dir, err := Dir(); err == nil {
		storePath = filepath.Join(dir, "crm.db")
	}
	return &Config{
		Backend: BackendConfig{
			Mode:    ModeRemote,
			Timeout: "30s",
		},
		Store: StoreConfig{
			Path: storePath,
		},
		Tenancy: TenancyConfig{
			FallbackCompanyEmail: DefaultFallbackCompanyEmail,
		},
		Auth: AuthConfig{
			RedirectURL:   "http://localhost:5173",
			RefreshMargin: "60s",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CRM_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("CRM_ANON_KEY"); v != "" {
		c.Backend.AnonKey = v
	}
	if v := os.Getenv("CRM_BACKEND_MODE"); v != "" {
		c.Backend.Mode = v
	}
	if v := os.Getenv("CRM_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("CRM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Backend.Mode {
	case ModeRemote:
		var missing []string
		if c.Backend.URL == "" {
			missing = append(missing, "CRM_BACKEND_URL")
		}
		if c.Backend.AnonKey == "" {
			missing = append(missing, "CRM_ANON_KEY")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing backend configuration: %s", strings.Join(missing, ", "))
		}
	case ModeLocal:
	default:
		return fmt.Errorf("invalid backend mode: %s (valid: %s, %s)", c.Backend.Mode, ModeRemote, ModeLocal)
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store path is required (set store.path or CRM_STORE_PATH)")
	}
	if _, err := time.ParseDuration(c.Backend.Timeout); c.Backend.Timeout != "" && err != nil {
		return fmt.Errorf("invalid backend timeout %q: %w", c.Backend.Timeout, err)
	}
	if _, err := time.ParseDuration(c.Auth.RefreshMargin); c.Auth.RefreshMargin != "" && err != nil {
		return fmt.Errorf("invalid refresh margin %q: %w", c.Auth.RefreshMargin, err)
	}
	return nil
}

// GetTimeout returns the backend timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetRefreshMargin returns the session refresh margin as a duration.
func (c *Config) GetRefreshMargin() time.Duration {
	d, err := time.ParseDuration(c.Auth.RefreshMargin)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// IsLocal reports whether the backend is the local sqlite store.
func (c *Config) IsLocal() bool {
	return c.Backend.Mode == ModeLocal
}

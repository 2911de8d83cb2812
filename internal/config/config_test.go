package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CRM_BACKEND_URL", "CRM_ANON_KEY", "CRM_BACKEND_MODE", "CRM_STORE_PATH", "CRM_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ModeRemote, cfg.Backend.Mode)
	assert.Equal(t, DefaultFallbackCompanyEmail, cfg.Tenancy.FallbackCompanyEmail)
	assert.Equal(t, 30*time.Second, cfg.GetTimeout())
	assert.Equal(t, 60*time.Second, cfg.GetRefreshMargin())
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend:
  mode: remote
  url: https://xyz.supabase.co
  anon_key: anon
  timeout: 5s
tenancy:
  fallback_company_email: ops@example.com
logging:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://xyz.supabase.co", cfg.Backend.URL)
	assert.Equal(t, 5*time.Second, cfg.GetTimeout())
	assert.Equal(t, "ops@example.com", cfg.Tenancy.FallbackCompanyEmail)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format, "unset keys keep defaults")
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: [unclosed"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CRM_BACKEND_URL", "https://env.example.com")
	t.Setenv("CRM_ANON_KEY", "env-key")
	t.Setenv("CRM_BACKEND_MODE", "local")
	t.Setenv("CRM_STORE_PATH", "/tmp/crm-test.db")
	t.Setenv("CRM_LOG_LEVEL", "info")

	cfg := &Config{}
	cfg.applyEnvOverrides()

	assert.Equal(t, "https://env.example.com", cfg.Backend.URL)
	assert.Equal(t, "env-key", cfg.Backend.AnonKey)
	assert.Equal(t, ModeLocal, cfg.Backend.Mode)
	assert.Equal(t, "/tmp/crm-test.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.IsLocal())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "remote without url and key",
			mutate:  func(c *Config) {},
			wantErr: "missing backend configuration: CRM_BACKEND_URL, CRM_ANON_KEY",
		},
		{
			name:    "remote without key",
			mutate:  func(c *Config) { c.Backend.URL = "https://x" },
			wantErr: "missing backend configuration: CRM_ANON_KEY",
		},
		{
			name:   "local needs no backend url",
			mutate: func(c *Config) { c.Backend.Mode = ModeLocal },
		},
		{
			name:    "unknown mode",
			mutate:  func(c *Config) { c.Backend.Mode = "cloud" },
			wantErr: "invalid backend mode: cloud (valid: remote, local)",
		},
		{
			name: "bad timeout",
			mutate: func(c *Config) {
				c.Backend.Mode = ModeLocal
				c.Backend.Timeout = "soon"
			},
			wantErr: `invalid backend timeout "soon"`,
		},
		{
			name: "missing store path",
			mutate: func(c *Config) {
				c.Backend.Mode = ModeLocal
				c.Store.Path = ""
			},
			wantErr: "store path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Backend.Mode = ModeLocal
	cfg.Store.Path = "/var/lib/crm.db"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/crm/internal/ports/secondary"
)

// PreferenceStore implements secondary.PreferenceStore with SQLite.
type PreferenceStore struct {
	db *sql.DB
}

// NewPreferenceStore creates a new SQLite preference store.
func NewPreferenceStore(db *sql.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

// Get returns the value for key, or "" if unset.
func (p *PreferenceStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := p.db.QueryRowContext(ctx, "SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key.
func (p *PreferenceStore) Set(ctx context.Context, key, value string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, timestamp(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (p *PreferenceStore) Delete(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, "DELETE FROM preferences WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}

var _ secondary.PreferenceStore = (*PreferenceStore)(nil)

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/crm/internal/ports/secondary"
)

// SessionStore implements secondary.SessionStore with a single-row table.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore creates a new SQLite session store.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Load returns the stored session, or nil when there is none.
func (s *SessionStore) Load(ctx context.Context) (*secondary.SessionRecord, error) {
	var (
		refreshToken, tokenType, userID, email, name sql.NullString
		avatarURL, createdAt, updatedAt              sql.NullString
	)
	record := &secondary.SessionRecord{}
	err := s.db.QueryRowContext(ctx, `
		SELECT access_token, refresh_token, token_type, expires_at,
			user_id, user_email, user_name, user_avatar_url, user_created_at, user_updated_at
		FROM session WHERE id = 1`,
	).Scan(&record.AccessToken, &refreshToken, &tokenType, &record.ExpiresAt,
		&userID, &email, &name, &avatarURL, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	record.RefreshToken = refreshToken.String
	record.TokenType = tokenType.String
	if userID.Valid {
		record.User = &secondary.UserRecord{
			ID:             userID.String,
			Email:          email.String,
			Name:           name.String,
			AvatarURL:      avatarURL.String,
			EmailConfirmed: true,
			CreatedAt:      createdAt.String,
			UpdatedAt:      updatedAt.String,
		}
	}
	return record, nil
}

// Save replaces the stored session.
func (s *SessionStore) Save(ctx context.Context, session *secondary.SessionRecord) error {
	if session == nil {
		return s.Clear(ctx)
	}
	user := session.User
	if user == nil {
		user = &secondary.UserRecord{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO session (id, access_token, refresh_token, token_type, expires_at,
			user_id, user_email, user_name, user_avatar_url, user_created_at, user_updated_at, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.AccessToken, nullString(session.RefreshToken), nullString(session.TokenType),
		session.ExpiresAt, nullString(user.ID), nullString(user.Email), nullString(user.Name),
		nullString(user.AvatarURL), nullString(user.CreatedAt), nullString(user.UpdatedAt),
		timestamp(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes the stored session.
func (s *SessionStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

var _ secondary.SessionStore = (*SessionStore)(nil)

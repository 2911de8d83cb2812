package secondary

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("record not found")

// IdentityProvider defines the secondary port for the managed identity service.
// Implementations return errors whose text carries the provider's message
// (e.g. "Invalid login credentials") so the auth service can translate it.
type IdentityProvider interface {
	// SignInWithPassword exchanges email and password for a session.
	SignInWithPassword(ctx context.Context, email, password string) (*SessionRecord, error)

	// SignUp registers a new user. Session is nil when the provider
	// requires email confirmation first.
	SignUp(ctx context.Context, req SignUpRecord) (*SignUpResult, error)

	// SignOut revokes the session identified by accessToken.
	SignOut(ctx context.Context, accessToken string) error

	// RefreshSession exchanges a refresh token for a new session.
	RefreshSession(ctx context.Context, refreshToken string) (*SessionRecord, error)

	// ResetPasswordForEmail sends a recovery email linking to redirectTo.
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error

	// GetUser returns the user owning accessToken.
	GetUser(ctx context.Context, accessToken string) (*UserRecord, error)
}

// SignUpRecord carries the registration parameters.
type SignUpRecord struct {
	Email      string
	Password   string
	Name       string
	RedirectTo string
}

// SignUpResult is the provider's answer to a registration.
type SignUpResult struct {
	User    *UserRecord
	Session *SessionRecord // nil until the email is confirmed
}

// UserRecord represents an identity as returned by the provider.
type UserRecord struct {
	ID             string
	Email          string
	Name           string // from user metadata, empty if unset
	AvatarURL      string
	EmailConfirmed bool
	CreatedAt      string
	UpdatedAt      string
}

// SessionRecord represents an authenticated session.
type SessionRecord struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    int64 // unix seconds, 0 if unknown
	User         *UserRecord
}

// SessionStore persists the current session between CLI invocations.
type SessionStore interface {
	// Load returns the stored session, or nil when there is none.
	Load(ctx context.Context) (*SessionRecord, error)

	// Save replaces the stored session.
	Save(ctx context.Context, session *SessionRecord) error

	// Clear removes the stored session.
	Clear(ctx context.Context) error
}

// PreferenceStore is the local key/value store for client-side preferences.
type PreferenceStore interface {
	// Get returns the value for key, or "" if unset.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error
}

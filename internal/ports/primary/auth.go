package primary

import (
	"context"
	"time"
)

// AuthService defines the primary port for authentication and session state.
type AuthService interface {
	// Bootstrap restores the persisted session, refreshing it when close to
	// expiry, and emits INITIAL_SESSION.
	Bootstrap(ctx context.Context) (*Session, error)

	// Subscribe registers a listener for session changes. The returned
	// function removes it and may be called more than once.
	Subscribe(fn AuthListener) (unsubscribe func())

	// SignIn authenticates with email and password.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignUp registers a new account.
	SignUp(ctx context.Context, req SignUpRequest) (*SignUpResponse, error)

	// SignOut ends the current session.
	SignOut(ctx context.Context) error

	// ResetPassword sends a password recovery email.
	ResetPassword(ctx context.Context, email string) error

	// CurrentSession returns the active session, or nil.
	CurrentSession() *Session

	// CurrentUser returns the signed-in user, or nil.
	CurrentUser() *User

	// IsAuthenticated reports whether a session is active.
	IsAuthenticated() bool

	// AccessToken returns the current access token, or "".
	AccessToken() string
}

// AuthEvent names a session change.
type AuthEvent string

// Session change events.
const (
	AuthEventInitialSession AuthEvent = "INITIAL_SESSION"
	AuthEventSignedIn       AuthEvent = "SIGNED_IN"
	AuthEventSignedOut      AuthEvent = "SIGNED_OUT"
	AuthEventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
	AuthEventUserUpdated    AuthEvent = "USER_UPDATED"
)

// AuthListener receives session changes. session is nil after sign-out.
type AuthListener func(event AuthEvent, session *Session)

// User is the public view of an identity.
type User struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
	CreatedAt string
	UpdatedAt string
}

// Session is an authenticated session.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *User
}

// SignUpRequest contains parameters for registering an account.
type SignUpRequest struct {
	Email    string
	Password string
	Name     string
}

// SignUpResponse contains the result of a registration.
type SignUpResponse struct {
	User                 *User
	Session              *Session // nil when confirmation is pending
	ConfirmationRequired bool
}

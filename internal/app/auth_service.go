package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/example/crm/internal/core/session"
	"github.com/example/crm/internal/ports/primary"
	"github.com/example/crm/internal/ports/secondary"
)

// AuthConfig holds the settings the auth service needs from configuration.
type AuthConfig struct {
	// RedirectURL is the base URL links in auth emails point to.
	RedirectURL string
	// RefreshMargin is how long before expiry a session is refreshed.
	RefreshMargin time.Duration
}

// AuthServiceImpl implements the AuthService interface.
type AuthServiceImpl struct {
	provider secondary.IdentityProvider
	store    secondary.SessionStore
	cfg      AuthConfig
	now      func() time.Time

	mu        sync.Mutex
	session   *primary.Session
	listeners []*authSubscription
}

type authSubscription struct {
	fn primary.AuthListener
}

// NewAuthService creates a new AuthService with injected dependencies.
func NewAuthService(provider secondary.IdentityProvider, store secondary.SessionStore, cfg AuthConfig) *AuthServiceImpl {
	if cfg.RefreshMargin <= 0 {
		cfg.RefreshMargin = session.DefaultRefreshMargin
	}
	return &AuthServiceImpl{
		provider: provider,
		store:    store,
		cfg:      cfg,
		now:      time.Now,
	}
}

var _ primary.AuthService = (*AuthServiceImpl)(nil)

// Bootstrap restores the persisted session.
func (s *AuthServiceImpl) Bootstrap(ctx context.Context) (*primary.Session, error) {
	rec, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var (
		current   *primary.Session
		refreshed bool
	)
	if rec != nil {
		current = recordToSession(rec)
		state := session.State{
			AccessToken:  current.AccessToken,
			RefreshToken: current.RefreshToken,
			ExpiresAt:    current.ExpiresAt,
		}
		now := s.now()
		switch {
		case session.NeedsRefresh(state, now, s.cfg.RefreshMargin):
			next, err := s.provider.RefreshSession(ctx, current.RefreshToken)
			if err != nil {
				current = nil
				if err := s.store.Clear(ctx); err != nil {
					return nil, fmt.Errorf("failed to clear stale session: %w", err)
				}
				break
			}
			if err := s.store.Save(ctx, next); err != nil {
				return nil, fmt.Errorf("failed to save refreshed session: %w", err)
			}
			current = recordToSession(next)
			refreshed = true
		case session.IsExpired(state, now):
			current = nil
			if err := s.store.Clear(ctx); err != nil {
				return nil, fmt.Errorf("failed to clear expired session: %w", err)
			}
		}
	}

	s.mu.Lock()
	s.session = current
	s.mu.Unlock()

	if refreshed {
		s.emit(primary.AuthEventTokenRefreshed, current)
	}
	s.emit(primary.AuthEventInitialSession, current)
	return current, nil
}

// Subscribe registers a listener for session changes.
func (s *AuthServiceImpl) Subscribe(fn primary.AuthListener) func() {
	sub := &authSubscription{fn: fn}
	s.mu.Lock()
	s.listeners = append(s.listeners, sub)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l == sub {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// SignIn authenticates with email and password.
func (s *AuthServiceImpl) SignIn(ctx context.Context, email, password string) (*primary.Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	rec, err := s.provider.SignInWithPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, translateAuthError(err)
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	current := recordToSession(rec)
	s.setSession(current)
	s.emit(primary.AuthEventSignedIn, current)
	return current, nil
}

// SignUp registers a new account.
func (s *AuthServiceImpl) SignUp(ctx context.Context, req primary.SignUpRequest) (*primary.SignUpResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	result, err := s.provider.SignUp(ctx, secondary.SignUpRecord{
		Email:      strings.TrimSpace(req.Email),
		Password:   req.Password,
		Name:       req.Name,
		RedirectTo: joinURL(s.cfg.RedirectURL, "/dashboard"),
	})
	if err != nil {
		return nil, translateAuthError(err)
	}

	resp := &primary.SignUpResponse{
		User:                 recordToUser(result.User),
		ConfirmationRequired: result.Session == nil,
	}
	if result.Session != nil {
		if err := s.store.Save(ctx, result.Session); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
		resp.Session = recordToSession(result.Session)
		if resp.User == nil {
			resp.User = resp.Session.User
		}
		s.setSession(resp.Session)
		s.emit(primary.AuthEventSignedIn, resp.Session)
	}
	return resp, nil
}

// SignOut ends the current session. The local session is always cleared;
// a failed remote revocation is reported after that.
func (s *AuthServiceImpl) SignOut(ctx context.Context) error {
	token := s.AccessToken()

	var remoteErr error
	if token != "" {
		remoteErr = s.provider.SignOut(ctx, token)
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.setSession(nil)
	s.emit(primary.AuthEventSignedOut, nil)

	if remoteErr != nil {
		return fmt.Errorf("signed out locally, remote revoke failed: %w", remoteErr)
	}
	return nil
}

// ResetPassword sends a password recovery email.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}
	if err := s.provider.ResetPasswordForEmail(ctx, strings.TrimSpace(email), joinURL(s.cfg.RedirectURL, "/reset-password")); err != nil {
		return translateAuthError(err)
	}
	return nil
}

// CurrentSession returns the active session, or nil.
func (s *AuthServiceImpl) CurrentSession() *primary.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// CurrentUser returns the signed-in user, or nil.
func (s *AuthServiceImpl) CurrentUser() *primary.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	return s.session.User
}

// IsAuthenticated reports whether a session is active.
func (s *AuthServiceImpl) IsAuthenticated() bool {
	return s.CurrentSession() != nil
}

// AccessToken returns the current access token, or "".
func (s *AuthServiceImpl) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.AccessToken
}

func (s *AuthServiceImpl) setSession(sess *primary.Session) {
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
}

// emit calls listeners in subscription order, outside the lock.
func (s *AuthServiceImpl) emit(event primary.AuthEvent, sess *primary.Session) {
	s.mu.Lock()
	subs := make([]*authSubscription, len(s.listeners))
	copy(subs, s.listeners)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(event, sess)
	}
}

// translateAuthError maps provider messages to the sentinel errors.
func translateAuthError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Invalid login credentials"):
		return primary.ErrInvalidCredentials
	case strings.Contains(msg, "Email not confirmed"):
		return primary.ErrEmailNotConfirmed
	case strings.Contains(msg, "User already registered"):
		return primary.ErrUserAlreadyRegistered
	}
	return fmt.Errorf("authentication failed: %w", err)
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

func recordToSession(rec *secondary.SessionRecord) *primary.Session {
	if rec == nil {
		return nil
	}
	sess := &primary.Session{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		User:         recordToUser(rec.User),
	}
	if rec.ExpiresAt > 0 {
		sess.ExpiresAt = time.Unix(rec.ExpiresAt, 0).UTC()
	} else {
		sess.ExpiresAt = session.ExpiryFromToken(rec.AccessToken)
	}
	if sess.User == nil {
		if claims, err := session.ParseClaims(rec.AccessToken); err == nil && claims.Subject != "" {
			sess.User = &primary.User{ID: claims.Subject, Email: claims.Email}
			if name, ok := claims.UserMetadata["name"].(string); ok {
				sess.User.Name = name
			}
		}
	}
	return sess
}

func recordToUser(rec *secondary.UserRecord) *primary.User {
	if rec == nil {
		return nil
	}
	return &primary.User{
		ID:        rec.ID,
		Email:     rec.Email,
		Name:      rec.Name,
		AvatarURL: rec.AvatarURL,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

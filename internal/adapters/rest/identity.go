package rest

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/example/crm/internal/ports/secondary"
)

// IdentityProvider implements secondary.IdentityProvider against the
// identity service.
type IdentityProvider struct {
	c *Client
}

// NewIdentityProvider creates an identity provider on top of c.
func NewIdentityProvider(c *Client) *IdentityProvider {
	return &IdentityProvider{c: c}
}

type userJSON struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt string         `json:"email_confirmed_at"`
	UserMetadata     map[string]any `json:"user_metadata"`
	CreatedAt        string         `json:"created_at"`
	UpdatedAt        string         `json:"updated_at"`
}

func (u *userJSON) record() *secondary.UserRecord {
	if u == nil || u.ID == "" {
		return nil
	}
	rec := &secondary.UserRecord{
		ID:             u.ID,
		Email:          u.Email,
		EmailConfirmed: u.EmailConfirmedAt != "",
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
	if name, ok := u.UserMetadata["name"].(string); ok {
		rec.Name = name
	}
	if avatar, ok := u.UserMetadata["avatar_url"].(string); ok {
		rec.AvatarURL = avatar
	}
	return rec
}

type sessionJSON struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at"`
	User         *userJSON `json:"user"`
}

func (s *sessionJSON) record() *secondary.SessionRecord {
	if s.AccessToken == "" {
		return nil
	}
	expiresAt := s.ExpiresAt
	if expiresAt == 0 && s.ExpiresIn > 0 {
		expiresAt = time.Now().Unix() + s.ExpiresIn
	}
	return &secondary.SessionRecord{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresAt:    expiresAt,
		User:         s.User.record(),
	}
}

func (p *IdentityProvider) token(ctx context.Context, grant string, body any) (*secondary.SessionRecord, error) {
	resp, err := p.c.do(ctx, request{
		op:     "auth_" + grant,
		method: http.MethodPost,
		path:   authPrefix + "token",
		query:  url.Values{"grant_type": {grant}},
		body:   body,
	})
	if err != nil {
		return nil, err
	}
	var s sessionJSON
	if err := resp.decode(&s); err != nil {
		return nil, err
	}
	return s.record(), nil
}

// SignInWithPassword exchanges email and password for a session.
func (p *IdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*secondary.SessionRecord, error) {
	return p.token(ctx, "password", map[string]string{"email": email, "password": password})
}

// RefreshSession exchanges a refresh token for a new session.
func (p *IdentityProvider) RefreshSession(ctx context.Context, refreshToken string) (*secondary.SessionRecord, error) {
	return p.token(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

// SignUp registers a user. The service answers with a session when it
// auto-confirms, and with the bare user otherwise.
func (p *IdentityProvider) SignUp(ctx context.Context, req secondary.SignUpRecord) (*secondary.SignUpResult, error) {
	query := url.Values{}
	if req.RedirectTo != "" {
		query.Set("redirect_to", req.RedirectTo)
	}
	resp, err := p.c.do(ctx, request{
		op:     "auth_signup",
		method: http.MethodPost,
		path:   authPrefix + "signup",
		query:  query,
		body: map[string]any{
			"email":    req.Email,
			"password": req.Password,
			"data":     map[string]string{"name": req.Name},
		},
	})
	if err != nil {
		return nil, err
	}

	var body struct {
		sessionJSON
		userJSON
	}
	if err := resp.decode(&body); err != nil {
		return nil, err
	}
	if sess := body.sessionJSON.record(); sess != nil {
		return &secondary.SignUpResult{User: sess.User, Session: sess}, nil
	}
	return &secondary.SignUpResult{User: body.userJSON.record()}, nil
}

// SignOut revokes the session identified by accessToken.
func (p *IdentityProvider) SignOut(ctx context.Context, accessToken string) error {
	_, err := p.c.do(ctx, request{
		op:     "auth_logout",
		method: http.MethodPost,
		path:   authPrefix + "logout",
		token:  accessToken,
	})
	return err
}

// ResetPasswordForEmail sends a recovery email linking to redirectTo.
func (p *IdentityProvider) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	query := url.Values{}
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}
	_, err := p.c.do(ctx, request{
		op:     "auth_recover",
		method: http.MethodPost,
		path:   authPrefix + "recover",
		query:  query,
		body:   map[string]string{"email": email},
	})
	return err
}

// GetUser returns the user owning accessToken.
func (p *IdentityProvider) GetUser(ctx context.Context, accessToken string) (*secondary.UserRecord, error) {
	resp, err := p.c.do(ctx, request{
		op:     "auth_user",
		method: http.MethodGet,
		path:   authPrefix + "user",
		token:  accessToken,
	})
	if err != nil {
		return nil, err
	}
	var u userJSON
	if err := resp.decode(&u); err != nil {
		return nil, err
	}
	return u.record(), nil
}

var _ secondary.IdentityProvider = (*IdentityProvider)(nil)

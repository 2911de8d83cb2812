package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/example/crm/internal/ports/primary"
)

// AuthAdapter renders authentication flows.
type AuthAdapter struct {
	service primary.AuthService
	out     io.Writer
	now     func() time.Time
}

// NewAuthAdapter creates a new AuthAdapter with the given service.
func NewAuthAdapter(service primary.AuthService, out io.Writer) *AuthAdapter {
	return &AuthAdapter{service: service, out: out, now: time.Now}
}

func displayName(u *primary.User) string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Login signs in with email and password.
func (a *AuthAdapter) Login(ctx context.Context, email, password string) (*primary.Session, error) {
	session, err := a.service.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Signed in as %s\n", displayName(session.User))
	return session, nil
}

// Register creates an account.
func (a *AuthAdapter) Register(ctx context.Context, req primary.SignUpRequest) (*primary.SignUpResponse, error) {
	resp, err := a.service.SignUp(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.ConfirmationRequired {
		fmt.Fprintf(a.out, "✓ Account created. Check %s to confirm your email.\n", req.Email)
		return resp, nil
	}
	fmt.Fprintf(a.out, "✓ Account created. Signed in as %s\n", displayName(resp.User))
	return resp, nil
}

// Logout signs out.
func (a *AuthAdapter) Logout(ctx context.Context) error {
	if err := a.service.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "✓ Signed out")
	return nil
}

// ResetPassword sends a recovery email.
func (a *AuthAdapter) ResetPassword(ctx context.Context, email string) error {
	if err := a.service.ResetPassword(ctx, email); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ If %s is registered, a reset link is on its way\n", email)
	return nil
}

// WhoAmI prints the signed-in user and session expiry.
func (a *AuthAdapter) WhoAmI() (*primary.User, error) {
	session := a.service.CurrentSession()
	if session == nil || session.User == nil {
		return nil, primary.ErrNotAuthenticated
	}
	u := session.User
	fmt.Fprintf(a.out, "User:    %s\n", u.ID)
	fmt.Fprintf(a.out, "Email:   %s\n", u.Email)
	if u.Name != "" {
		fmt.Fprintf(a.out, "Name:    %s\n", u.Name)
	}
	if !session.ExpiresAt.IsZero() {
		now := a.now()
		if session.ExpiresAt.After(now) {
			fmt.Fprintf(a.out, "Session: expires %s\n", humanize.RelTime(session.ExpiresAt, now, "ago", "from now"))
		} else {
			fmt.Fprintf(a.out, "Session: %s\n", yellow.Sprint("expired"))
		}
	}
	return u, nil
}

package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/crm/internal/ports/primary"
)

// AuthLogger is a logging middleware for the AuthService.
type AuthLogger struct {
	logger      *zap.Logger
	authService primary.AuthService
}

// NewAuthLogger returns a logging service middleware for the AuthService.
func NewAuthLogger(log *zap.Logger, s primary.AuthService) *AuthLogger {
	return &AuthLogger{
		logger:      log,
		authService: s,
	}
}

var _ primary.AuthService = (*AuthLogger)(nil)

func (l *AuthLogger) Bootstrap(ctx context.Context) (sess *primary.Session, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to bootstrap session", zap.Error(err), dur)
			return
		}
		l.logger.Debug("session bootstrap", zap.Bool("authenticated", sess != nil), dur)
	}(time.Now())
	return l.authService.Bootstrap(ctx)
}

func (l *AuthLogger) Subscribe(fn primary.AuthListener) func() {
	return l.authService.Subscribe(fn)
}

func (l *AuthLogger) SignIn(ctx context.Context, email, password string) (sess *primary.Session, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to sign in", zap.String("email", email), zap.Error(err), dur)
			return
		}
		l.logger.Debug("sign in", zap.String("email", email), dur)
	}(time.Now())
	return l.authService.SignIn(ctx, email, password)
}

func (l *AuthLogger) SignUp(ctx context.Context, req primary.SignUpRequest) (resp *primary.SignUpResponse, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to sign up", zap.String("email", req.Email), zap.Error(err), dur)
			return
		}
		l.logger.Debug("sign up", zap.String("email", req.Email), zap.Bool("confirmation_required", resp.ConfirmationRequired), dur)
	}(time.Now())
	return l.authService.SignUp(ctx, req)
}

func (l *AuthLogger) SignOut(ctx context.Context) (err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to sign out", zap.Error(err), dur)
			return
		}
		l.logger.Debug("sign out", dur)
	}(time.Now())
	return l.authService.SignOut(ctx)
}

func (l *AuthLogger) ResetPassword(ctx context.Context, email string) (err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to request password reset", zap.String("email", email), zap.Error(err), dur)
			return
		}
		l.logger.Debug("password reset requested", zap.String("email", email), dur)
	}(time.Now())
	return l.authService.ResetPassword(ctx, email)
}

func (l *AuthLogger) CurrentSession() *primary.Session { return l.authService.CurrentSession() }
func (l *AuthLogger) CurrentUser() *primary.User       { return l.authService.CurrentUser() }
func (l *AuthLogger) IsAuthenticated() bool            { return l.authService.IsAuthenticated() }
func (l *AuthLogger) AccessToken() string              { return l.authService.AccessToken() }

// CompanyLogger is a logging middleware for the CompanyService.
type CompanyLogger struct {
	logger         *zap.Logger
	companyService primary.CompanyService
}

// NewCompanyLogger returns a logging service middleware for the CompanyService.
func NewCompanyLogger(log *zap.Logger, s primary.CompanyService) *CompanyLogger {
	return &CompanyLogger{
		logger:         log,
		companyService: s,
	}
}

var _ primary.CompanyService = (*CompanyLogger)(nil)

func (l *CompanyLogger) Resolve(ctx context.Context) (err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Warn("failed to resolve companies", zap.Error(err), dur)
			return
		}
		fields := []zap.Field{zap.Int("companies", len(l.companyService.Companies())), dur}
		if c := l.companyService.Current(); c != nil {
			fields = append(fields, zap.String("current", c.ID))
		}
		l.logger.Debug("companies resolved", fields...)
	}(time.Now())
	return l.companyService.Resolve(ctx)
}

func (l *CompanyLogger) Refresh(ctx context.Context) error {
	return l.Resolve(ctx)
}

func (l *CompanyLogger) Switch(ctx context.Context, companyID string) (err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to switch company", zap.String("company_id", companyID), zap.Error(err), dur)
			return
		}
		l.logger.Debug("company switched", zap.String("company_id", companyID), dur)
	}(time.Now())
	return l.companyService.Switch(ctx, companyID)
}

func (l *CompanyLogger) Current() *primary.Company        { return l.companyService.Current() }
func (l *CompanyLogger) Companies() []*primary.Company    { return l.companyService.Companies() }
func (l *CompanyLogger) Profiles() []*primary.Profile     { return l.companyService.Profiles() }
func (l *CompanyLogger) CurrentProfile() *primary.Profile { return l.companyService.CurrentProfile() }
func (l *CompanyLogger) LastError() error                 { return l.companyService.LastError() }

func (l *CompanyLogger) WatchAuth(auth primary.AuthService) func() {
	return auth.Subscribe(func(event primary.AuthEvent, _ *primary.Session) {
		switch event {
		case primary.AuthEventInitialSession, primary.AuthEventSignedIn,
			primary.AuthEventSignedOut, primary.AuthEventUserUpdated:
			_ = l.Resolve(context.Background())
		}
	})
}

package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/crm/internal/core/session"
	"github.com/example/crm/internal/ports/secondary"
)

// Messages mirror the hosted identity service so callers translate them the
// same way in both backend modes.
var (
	errInvalidCredentials  = errors.New("Invalid login credentials")
	errUserRegistered      = errors.New("User already registered")
	errInvalidRefreshToken = errors.New("Invalid Refresh Token: Refresh Token Not Found")
	errInvalidToken        = errors.New("invalid JWT: unable to parse or verify signature")
)

// jwtSecretKey is the preference holding the local signing secret.
const jwtSecretKey = "local.jwt_secret"

// DefaultTokenTTL is the lifetime of locally issued access tokens.
const DefaultTokenTTL = time.Hour

// IdentityProvider implements secondary.IdentityProvider against the local
// users table. Passwords are bcrypt hashes, access tokens are HS256 JWTs
// signed with a per-database secret, and refresh tokens are opaque and
// single use.
type IdentityProvider struct {
	db    *sql.DB
	prefs *PreferenceStore
	log   *zap.Logger
	ttl   time.Duration
	now   func() time.Time
}

// NewIdentityProvider creates a local identity provider.
func NewIdentityProvider(db *sql.DB, log *zap.Logger) *IdentityProvider {
	if log == nil {
		log = zap.NewNop()
	}
	return &IdentityProvider{
		db:    db,
		prefs: NewPreferenceStore(db),
		log:   log,
		ttl:   DefaultTokenTTL,
		now:   time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignInWithPassword checks the password against the stored hash.
func (p *IdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*secondary.SessionRecord, error) {
	user, hash, err := p.userByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, errInvalidCredentials
	}
	return p.issue(ctx, user)
}

// SignUp registers a user. Local accounts are confirmed immediately, so a
// session is always returned.
func (p *IdentityProvider) SignUp(ctx context.Context, req secondary.SignUpRecord) (*secondary.SignUpResult, error) {
	email := normalizeEmail(req.Email)
	if _, _, err := p.userByEmail(ctx, email); err == nil {
		return nil, errUserRegistered
	} else if !errors.Is(err, secondary.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := timestamp(p.now())
	user := &secondary.UserRecord{
		ID:             uuid.NewString(),
		Email:          email,
		Name:           req.Name,
		EmailConfirmed: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, email_confirmed_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, string(hash), nullString(user.Name), now, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	sess, err := p.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &secondary.SignUpResult{User: user, Session: sess}, nil
}

// SignOut revokes every refresh token of the token's owner.
func (p *IdentityProvider) SignOut(ctx context.Context, accessToken string) error {
	claims, err := p.verify(ctx, accessToken)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, "UPDATE refresh_tokens SET revoked = 1 WHERE user_id = ?", claims.Subject)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}

// RefreshSession rotates a refresh token.
func (p *IdentityProvider) RefreshSession(ctx context.Context, refreshToken string) (*secondary.SessionRecord, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin refresh: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx,
		"SELECT user_id FROM refresh_tokens WHERE token = ? AND revoked = 0", refreshToken,
	).Scan(&userID)
	if err == sql.ErrNoRows {
		return nil, errInvalidRefreshToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE refresh_tokens SET revoked = 1 WHERE token = ?", refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit refresh: %w", err)
	}

	user, _, err := p.userByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.issue(ctx, user)
}

// ResetPasswordForEmail cannot send mail locally; it only logs the request.
func (p *IdentityProvider) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	p.log.Info("password recovery requested",
		zap.String("email", normalizeEmail(email)),
		zap.String("redirect_to", redirectTo))
	return nil
}

// GetUser returns the user owning accessToken.
func (p *IdentityProvider) GetUser(ctx context.Context, accessToken string) (*secondary.UserRecord, error) {
	claims, err := p.verify(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	user, _, err := p.userByID(ctx, claims.Subject)
	return user, err
}

func (p *IdentityProvider) issue(ctx context.Context, user *secondary.UserRecord) (*secondary.SessionRecord, error) {
	secret, err := p.secret(ctx)
	if err != nil {
		return nil, err
	}

	now := p.now()
	expiresAt := now.Add(p.ttl)
	claims := &session.Claims{
		Email:        user.Email,
		Role:         "authenticated",
		UserMetadata: map[string]any{"name": user.Name},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := randomHex(24)
	if err != nil {
		return nil, err
	}
	_, err = p.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (token, user_id, created_at) VALUES (?, ?, ?)",
		refresh, user.ID, timestamp(now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &secondary.SessionRecord{
		AccessToken:  signed,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresAt:    expiresAt.Unix(),
		User:         user,
	}, nil
}

func (p *IdentityProvider) verify(ctx context.Context, accessToken string) (*session.Claims, error) {
	secret, err := p.secret(ctx)
	if err != nil {
		return nil, err
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &session.Claims{}
	token, err := parser.ParseWithClaims(accessToken, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}

// secret returns the signing secret, creating it on first use.
func (p *IdentityProvider) secret(ctx context.Context) ([]byte, error) {
	value, err := p.prefs.Get(ctx, jwtSecretKey)
	if err != nil {
		return nil, err
	}
	if value == "" {
		if value, err = randomHex(32); err != nil {
			return nil, err
		}
		if err := p.prefs.Set(ctx, jwtSecretKey, value); err != nil {
			return nil, err
		}
	}
	return []byte(value), nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

const userSelectCols = "id, email, password_hash, name, avatar_url, email_confirmed_at, created_at, updated_at"

func scanUser(s scanner) (*secondary.UserRecord, string, error) {
	var (
		hash                      string
		name, avatar, confirmedAt sql.NullString
	)
	user := &secondary.UserRecord{}
	err := s.Scan(&user.ID, &user.Email, &hash, &name, &avatar, &confirmedAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, "", err
	}
	user.Name = name.String
	user.AvatarURL = avatar.String
	user.EmailConfirmed = confirmedAt.Valid
	return user, hash, nil
}

func (p *IdentityProvider) userByEmail(ctx context.Context, email string) (*secondary.UserRecord, string, error) {
	user, hash, err := scanUser(p.db.QueryRowContext(ctx,
		"SELECT "+userSelectCols+" FROM users WHERE email = ?", email))
	if err == sql.ErrNoRows {
		return nil, "", notFound("user", email)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	return user, hash, nil
}

func (p *IdentityProvider) userByID(ctx context.Context, id string) (*secondary.UserRecord, string, error) {
	user, hash, err := scanUser(p.db.QueryRowContext(ctx,
		"SELECT "+userSelectCols+" FROM users WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, "", notFound("user", id)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	return user, hash, nil
}

var _ secondary.IdentityProvider = (*IdentityProvider)(nil)

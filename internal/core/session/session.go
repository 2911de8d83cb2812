// Package session contains the pure logic for deciding whether an
// authenticated session is still usable.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultRefreshMargin is how long before expiry a session is refreshed.
const DefaultRefreshMargin = 60 * time.Second

// State is the minimal view of a session needed by the expiry checks.
type State struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// IsExpired reports whether the access token has expired at now.
// A zero ExpiresAt is treated as never expiring.
func IsExpired(s State, now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}

// NeedsRefresh reports whether the session should be refreshed at now,
// i.e. it expires within margin and can be refreshed.
func NeedsRefresh(s State, now time.Time, margin time.Duration) bool {
	if s.RefreshToken == "" || s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(margin).Before(s.ExpiresAt)
}

// Claims are the access-token claims the client reads.
type Claims struct {
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims extracts claims from an access token without verifying its
// signature. The backend owns verification; the client only needs the
// subject and expiry.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	return claims, nil
}

// ExpiryFromToken returns the exp claim of token, or the zero time when the
// token carries none or cannot be parsed.
func ExpiryFromToken(token string) time.Time {
	claims, err := ParseClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

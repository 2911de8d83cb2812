// Package client contains the pure business logic for client records.
package client

import (
	"fmt"
	"strings"

	"github.com/example/crm/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// SaveClientContext provides context for create/update guards.
// Empty Type or Status means "unchanged" on update.
type SaveClientContext struct {
	Name     string
	Type     string
	Status   string
	IsCreate bool
	NameSet  bool // update carries a name
}

// CanSaveClient evaluates whether a client can be saved.
// Rules:
// - Name is required on create and cannot be blanked on update
// - Type must be individual or company (required on create)
// - Status must be active, inactive or prospect
func CanSaveClient(ctx SaveClientContext) GuardResult {
	if (ctx.IsCreate || ctx.NameSet) && strings.TrimSpace(ctx.Name) == "" {
		return GuardResult{Allowed: false, Reason: "client name is required"}
	}
	if ctx.IsCreate && ctx.Type == "" {
		return GuardResult{Allowed: false, Reason: "client type is required (individual or company)"}
	}
	if ctx.Type != "" && !models.Contains(models.ValidClientTypes, ctx.Type) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid client type %q (valid: %s)", ctx.Type, strings.Join(models.ValidClientTypes, ", ")),
		}
	}
	if ctx.Status != "" && !models.Contains(models.ValidClientStatuses, ctx.Status) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid client status %q (valid: %s)", ctx.Status, strings.Join(models.ValidClientStatuses, ", ")),
		}
	}
	return GuardResult{Allowed: true}
}

// SearchFields are the client fields a free-text search looks at.
type SearchFields struct {
	Name  string
	Email string
	Phone string
}

// MatchesSearch reports whether a client matches term. Name and email match
// case-insensitively; phone matches as a plain substring. An empty term
// matches everything.
func MatchesSearch(c SearchFields, term string) bool {
	if term == "" {
		return true
	}
	lower := strings.ToLower(term)
	if strings.Contains(strings.ToLower(c.Name), lower) {
		return true
	}
	if c.Email != "" && strings.Contains(strings.ToLower(c.Email), lower) {
		return true
	}
	return c.Phone != "" && strings.Contains(c.Phone, term)
}

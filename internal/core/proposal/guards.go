package proposal

import (
	"fmt"
	"strings"
	"time"

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

// CreateProposalContext provides context for proposal creation guards.
type CreateProposalContext struct {
	Title        string
	ClientID     string
	ClientExists bool // client exists in the current company
	Items        []Item
	Discount     float64
}

// CanCreateProposal evaluates whether a proposal can be created.
// Rules:
// - Title is required
// - Client must exist in the current company
// - Quantities and prices cannot be negative
// - Discount cannot be negative
func CanCreateProposal(ctx CreateProposalContext) GuardResult {
	if strings.TrimSpace(ctx.Title) == "" {
		return GuardResult{Allowed: false, Reason: "proposal title is required"}
	}
	if !ctx.ClientExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("client %s not found", ctx.ClientID)}
	}
	if r := checkItems(ctx.Items, ctx.Discount); !r.Allowed {
		return r
	}
	return GuardResult{Allowed: true}
}

// CanUpdateItems evaluates replacement items and discount.
func CanUpdateItems(items []Item, discount float64) GuardResult {
	return checkItems(items, discount)
}

func checkItems(items []Item, discount float64) GuardResult {
	for i, it := range items {
		if it.Quantity < 0 || it.UnitPrice < 0 {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("item %d has a negative quantity or price", i+1),
			}
		}
	}
	if discount < 0 {
		return GuardResult{Allowed: false, Reason: "discount cannot be negative"}
	}
	return GuardResult{Allowed: true}
}

// CanSetStatus evaluates whether status is a known proposal status.
func CanSetStatus(status string) GuardResult {
	if !models.Contains(models.ValidProposalStatuses, status) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid proposal status %q (valid: %s)", status, strings.Join(models.ValidProposalStatuses, ", ")),
		}
	}
	return GuardResult{Allowed: true}
}

// IsFinal reports whether status ends the proposal lifecycle.
func IsFinal(status string) bool {
	switch status {
	case models.ProposalStatusApproved, models.ProposalStatusRejected, models.ProposalStatusExpired:
		return true
	}
	return false
}

// ShouldExpire reports whether a proposal in status with the given
// valid_until value is past its validity at now. validUntil accepts a date
// (2006-01-02) or an RFC3339 timestamp; an empty or unparseable value never
// expires. A date is valid through the end of that day.
func ShouldExpire(status, validUntil string, now time.Time) bool {
	if validUntil == "" || IsFinal(status) {
		return false
	}
	if t, err := time.Parse(time.RFC3339, validUntil); err == nil {
		return now.After(t)
	}
	if d, err := time.Parse("2006-01-02", validUntil); err == nil {
		return !now.Before(d.AddDate(0, 0, 1))
	}
	return false
}

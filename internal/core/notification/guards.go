// Package notification contains the pure business logic for notifications.
package notification

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

// NotifyContext provides context for notification creation guards.
type NotifyContext struct {
	Type              string
	Title             string
	Message           string
	RecipientIsMember bool // recipient has an active profile in the company
}

// CanNotify evaluates whether a notification can be created.
// Rules:
// - Type must be info, success, warning or error
// - Title and message are required
// - Recipient must belong to the current company
func CanNotify(ctx NotifyContext) GuardResult {
	if !models.Contains(models.ValidNotificationTypes, ctx.Type) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid notification type %q (valid: %s)", ctx.Type, strings.Join(models.ValidNotificationTypes, ", ")),
		}
	}
	if strings.TrimSpace(ctx.Title) == "" {
		return GuardResult{Allowed: false, Reason: "notification title is required"}
	}
	if strings.TrimSpace(ctx.Message) == "" {
		return GuardResult{Allowed: false, Reason: "notification message is required"}
	}
	if !ctx.RecipientIsMember {
		return GuardResult{Allowed: false, Reason: "recipient is not a member of the current company"}
	}
	return GuardResult{Allowed: true}
}

package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/example/crm/internal/ports/primary"
)

// NotificationAdapter is a thin adapter that translates CLI operations to NotificationService calls.
type NotificationAdapter struct {
	service primary.NotificationService
	out     io.Writer
	now     func() time.Time
}

// NewNotificationAdapter creates a new NotificationAdapter with the given service.
func NewNotificationAdapter(service primary.NotificationService, out io.Writer) *NotificationAdapter {
	return &NotificationAdapter{service: service, out: out, now: time.Now}
}

// List lists notifications for the signed-in user in the current company.
func (a *NotificationAdapter) List(ctx context.Context, filters primary.NotificationFilters) ([]*primary.Notification, error) {
	notifications, err := a.service.ListNotifications(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	if len(notifications) == 0 {
		fmt.Fprintln(a.out, "No notifications.")
		return notifications, nil
	}

	now := a.now()
	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, " \tID\tTYPE\tTITLE\tWHEN")
	for _, n := range notifications {
		marker := "●"
		if n.IsRead {
			marker = " "
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, n.ID, badge(n.Type), n.Title, ago(n.CreatedAt, now))
		if n.Message != "" {
			fmt.Fprintf(w, " \t\t\t%s\t\n", faint.Sprint(n.Message))
		}
	}
	w.Flush()
	return notifications, nil
}

// MarkRead marks a single notification as read.
func (a *NotificationAdapter) MarkRead(ctx context.Context, notificationID string) error {
	if err := a.service.MarkRead(ctx, notificationID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Notification %s marked as read\n", notificationID)
	return nil
}

// MarkAllRead marks every notification as read.
func (a *NotificationAdapter) MarkAllRead(ctx context.Context) error {
	if err := a.service.MarkAllRead(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "✓ All notifications marked as read")
	return nil
}

// Send creates a notification.
func (a *NotificationAdapter) Send(ctx context.Context, req primary.NotifyRequest) (*primary.Notification, error) {
	n, err := a.service.Notify(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Sent notification %s to %s\n", n.ID, n.UserID)
	return n, nil
}

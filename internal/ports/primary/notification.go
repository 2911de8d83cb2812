package primary

import "context"

// NotificationService defines the primary port for the signed-in user's
// notifications in the current company.
type NotificationService interface {
	// ListNotifications lists notifications, newest first.
	ListNotifications(ctx context.Context, filters NotificationFilters) ([]*Notification, error)

	// MarkRead marks one notification as read.
	MarkRead(ctx context.Context, notificationID string) error

	// MarkAllRead marks every notification as read.
	MarkAllRead(ctx context.Context) error

	// Notify creates a notification.
	Notify(ctx context.Context, req NotifyRequest) (*Notification, error)

	// UnreadCount returns the number of unread notifications.
	UnreadCount(ctx context.Context) (int, error)
}

// Notification is the public view of a notification.
type Notification struct {
	ID        string
	UserID    string
	CompanyID string
	Type      string
	Title     string
	Message   string
	IsRead    bool
	Data      map[string]any
	CreatedAt string
}

// NotificationFilters contains filter options for listing notifications.
type NotificationFilters struct {
	UnreadOnly bool
	Limit      int
}

// NotifyRequest contains parameters for creating a notification.
type NotifyRequest struct {
	UserID  string // defaults to the signed-in user
	Type    string // defaults to info
	Title   string
	Message string
	Data    map[string]any
}

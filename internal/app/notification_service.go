package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/crm/internal/core/notification"
	"github.com/example/crm/internal/models"
	"github.com/example/crm/internal/ports/primary"
	"github.com/example/crm/internal/ports/secondary"
)

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	scope            tenantScope
	notificationRepo secondary.NotificationRepository
	profileRepo      secondary.ProfileRepository
}

// NewNotificationService creates a new NotificationService with injected dependencies.
func NewNotificationService(
	auth primary.AuthService,
	companies primary.CompanyService,
	notificationRepo secondary.NotificationRepository,
	profileRepo secondary.ProfileRepository,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		scope:            tenantScope{auth: auth, companies: companies},
		notificationRepo: notificationRepo,
		profileRepo:      profileRepo,
	}
}

var _ primary.NotificationService = (*NotificationServiceImpl)(nil)

// ListNotifications lists the user's notifications in the current company.
func (s *NotificationServiceImpl) ListNotifications(ctx context.Context, filters primary.NotificationFilters) ([]*primary.Notification, error) {
	ids, err := s.scope.resolve()
	if err != nil {
		return nil, err
	}

	records, err := s.notificationRepo.List(ctx, secondary.NotificationFilters{
		UserID:     ids.UserID,
		CompanyID:  ids.CompanyID,
		UnreadOnly: filters.UnreadOnly,
		Limit:      filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	out := make([]*primary.Notification, len(records))
	for i, r := range records {
		out[i] = recordToNotification(r)
	}
	return out, nil
}

// MarkRead marks one notification as read.
func (s *NotificationServiceImpl) MarkRead(ctx context.Context, notificationID string) error {
	ids, err := s.scope.resolve()
	if err != nil {
		return err
	}
	if err := s.notificationRepo.MarkRead(ctx, ids.UserID, notificationID); err != nil {
		return lookupError("notification", notificationID, err)
	}
	return nil
}

// MarkAllRead marks every notification of the user in the company as read.
func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context) error {
	ids, err := s.scope.resolve()
	if err != nil {
		return err
	}
	if err := s.notificationRepo.MarkAllRead(ctx, ids.UserID, ids.CompanyID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// Notify creates a notification in the current company.
func (s *NotificationServiceImpl) Notify(ctx context.Context, req primary.NotifyRequest) (*primary.Notification, error) {
	ids, err := s.scope.authorize(models.ModuleNotifications, models.ActionCreate)
	if err != nil {
		return nil, err
	}

	kind := req.Type
	if kind == "" {
		kind = models.NotificationInfo
	}
	userID := req.UserID
	if userID == "" {
		userID = ids.UserID
	}
	member, err := s.isMember(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	guard := notification.CanNotify(notification.NotifyContext{
		Type:              kind,
		Title:             req.Title,
		Message:           req.Message,
		RecipientIsMember: member,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}
	record := &secondary.NotificationRecord{
		UserID:    userID,
		CompanyID: ids.CompanyID,
		Type:      kind,
		Title:     strings.TrimSpace(req.Title),
		Message:   strings.TrimSpace(req.Message),
		Data:      req.Data,
	}
	if err := s.notificationRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return recordToNotification(record), nil
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationServiceImpl) UnreadCount(ctx context.Context) (int, error) {
	ids, err := s.scope.resolve()
	if err != nil {
		return 0, err
	}
	n, err := s.notificationRepo.Count(ctx, secondary.NotificationFilters{
		UserID:     ids.UserID,
		CompanyID:  ids.CompanyID,
		UnreadOnly: true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n, nil
}

func recordToNotification(r *secondary.NotificationRecord) *primary.Notification {
	return &primary.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		CompanyID: r.CompanyID,
		Type:      r.Type,
		Title:     r.Title,
		Message:   r.Message,
		IsRead:    r.IsRead,
		Data:      r.Data,
		CreatedAt: r.CreatedAt,
	}
}

// isMember reports whether userID has an active profile in the scoped
// company. The caller is a member by construction of the scope.
func (s *NotificationServiceImpl) isMember(ctx context.Context, userID string, ids scopeIDs) (bool, error) {
	if userID == ids.UserID {
		return true, nil
	}
	records, err := s.profileRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check recipient %s: %w", userID, err)
	}
	for _, r := range records {
		if r.CompanyID == ids.CompanyID {
			return true, nil
		}
	}
	return false, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/crm/internal/ports/secondary"
)

// NotificationRepository implements secondary.NotificationRepository with SQLite.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new SQLite notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationSelectCols = "id, user_id, company_id, type, title, message, is_read, data, created_at"

func scanNotification(s scanner) (*secondary.NotificationRecord, error) {
	var data sql.NullString
	record := &secondary.NotificationRecord{}
	err := s.Scan(
		&record.ID, &record.UserID, &record.CompanyID, &record.Type, &record.Title,
		&record.Message, &record.IsRead, &data, &record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(data, &record.Data); err != nil {
		return nil, fmt.Errorf("invalid data for notification %s: %w", record.ID, err)
	}
	return record, nil
}

// Create persists a new notification, filling ID and created_at.
func (r *NotificationRepository) Create(ctx context.Context, n *secondary.NotificationRecord) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = timestamp(time.Now())

	data, err := encodeJSON(n.Data)
	if err != nil {
		return fmt.Errorf("failed to encode notification data: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO notifications ("+notificationSelectCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		n.ID, n.UserID, n.CompanyID, n.Type, n.Title, n.Message, n.IsRead, data, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func notificationWhere(filters secondary.NotificationFilters) *where {
	w := &where{}
	w.addIf(filters.UserID, "user_id = ?")
	w.addIf(filters.CompanyID, "company_id = ?")
	if filters.UnreadOnly {
		w.add("is_read = 0")
	}
	return w
}

// List retrieves notifications matching the filters, newest first.
func (r *NotificationRepository) List(ctx context.Context, filters secondary.NotificationFilters) ([]*secondary.NotificationRecord, error) {
	w := notificationWhere(filters)
	query := "SELECT " + notificationSelectCols + " FROM notifications" + w.String() + " ORDER BY created_at DESC, rowid DESC"
	args := w.args
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*secondary.NotificationRecord
	for rows.Next() {
		record, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, record)
	}
	return notifications, rows.Err()
}

// MarkRead flags one notification of the user as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return notFound("notification", id)
	}
	return nil
}

// MarkAllRead flags every unread notification of the user in the company.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID, companyID string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE user_id = ? AND company_id = ? AND is_read = 0",
		userID, companyID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// Count returns the number of notifications matching the filters.
func (r *NotificationRepository) Count(ctx context.Context, filters secondary.NotificationFilters) (int, error) {
	w := notificationWhere(filters)
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications"+w.String(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n, nil
}

var _ secondary.NotificationRepository = (*NotificationRepository)(nil)

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/crm/internal/ports/secondary"
)

// ProfileRepository implements secondary.ProfileRepository with SQLite.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new SQLite profile repository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// ListActiveByUser returns the user's active memberships in creation order,
// each with its company embedded. Company is nil when the company row is
// missing.
func (r *ProfileRepository) ListActiveByUser(ctx context.Context, userID string) ([]*secondary.ProfileRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.company_id, p.role, p.permissions, p.is_active, p.created_at, p.updated_at,
			c.id, c.name, c.email, c.phone, c.document, c.address, c.city, c.state, c.zip_code,
			c.plan, c.status, c.settings, c.created_at, c.updated_at
		FROM profiles p
		LEFT JOIN companies c ON c.id = p.company_id
		WHERE p.user_id = ? AND p.is_active = 1
		ORDER BY p.created_at, p.rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*secondary.ProfileRecord
	for rows.Next() {
		var (
			permissions                                     sql.NullString
			cID, cName, cEmail, cPhone, cDocument, cAddress sql.NullString
			cCity, cState, cZip, cPlan, cStatus, cSettings  sql.NullString
			cCreatedAt, cUpdatedAt                          sql.NullString
		)
		record := &secondary.ProfileRecord{}
		err := rows.Scan(
			&record.ID, &record.UserID, &record.CompanyID, &record.Role, &permissions,
			&record.IsActive, &record.CreatedAt, &record.UpdatedAt,
			&cID, &cName, &cEmail, &cPhone, &cDocument, &cAddress, &cCity, &cState, &cZip,
			&cPlan, &cStatus, &cSettings, &cCreatedAt, &cUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		if err := decodeJSON(permissions, &record.Permissions); err != nil {
			return nil, fmt.Errorf("invalid permissions for profile %s: %w", record.ID, err)
		}
		if cID.Valid {
			company := &secondary.CompanyRecord{
				ID:        cID.String,
				Name:      cName.String,
				Email:     cEmail.String,
				Phone:     cPhone.String,
				Document:  cDocument.String,
				Address:   cAddress.String,
				City:      cCity.String,
				State:     cState.String,
				ZipCode:   cZip.String,
				Plan:      cPlan.String,
				Status:    cStatus.String,
				CreatedAt: cCreatedAt.String,
				UpdatedAt: cUpdatedAt.String,
			}
			if err := decodeJSON(cSettings, &company.Settings); err != nil {
				return nil, fmt.Errorf("invalid settings for company %s: %w", company.ID, err)
			}
			record.Company = company
		}
		profiles = append(profiles, record)
	}
	return profiles, rows.Err()
}

// Create persists a new profile, filling ID and timestamps.
func (r *ProfileRepository) Create(ctx context.Context, profile *secondary.ProfileRecord) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	if profile.Role == "" {
		profile.Role = "user"
	}
	now := timestamp(time.Now())
	profile.CreatedAt, profile.UpdatedAt = now, now

	permissions, err := encodeJSON(profile.Permissions)
	if err != nil {
		return fmt.Errorf("failed to encode permissions: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, company_id, role, permissions, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.ID, profile.UserID, profile.CompanyID, profile.Role, permissions,
		profile.IsActive, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

var _ secondary.ProfileRepository = (*ProfileRepository)(nil)

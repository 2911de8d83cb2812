package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/crm/internal/ports/secondary"
)

// CompanyRepository implements secondary.CompanyRepository with SQLite.
type CompanyRepository struct {
	db *sql.DB
}

// NewCompanyRepository creates a new SQLite company repository.
func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

const companySelectCols = "id, name, email, phone, document, address, city, state, zip_code, plan, status, settings, created_at, updated_at"

func scanCompany(s scanner) (*secondary.CompanyRecord, error) {
	var (
		phone, document, address, city, state, zip, settings sql.NullString
	)
	record := &secondary.CompanyRecord{}
	err := s.Scan(
		&record.ID, &record.Name, &record.Email, &phone, &document, &address,
		&city, &state, &zip, &record.Plan, &record.Status, &settings,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Phone = phone.String
	record.Document = document.String
	record.Address = address.String
	record.City = city.String
	record.State = state.String
	record.ZipCode = zip.String
	if err := decodeJSON(settings, &record.Settings); err != nil {
		return nil, fmt.Errorf("invalid settings for company %s: %w", record.ID, err)
	}
	return record, nil
}

// Create persists a new company, filling ID and timestamps when empty.
func (r *CompanyRepository) Create(ctx context.Context, company *secondary.CompanyRecord) error {
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	if company.Plan == "" {
		company.Plan = "basic"
	}
	if company.Status == "" {
		company.Status = "active"
	}
	now := timestamp(time.Now())
	company.CreatedAt, company.UpdatedAt = now, now

	settings, err := encodeJSON(company.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode company settings: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO companies ("+companySelectCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		company.ID, company.Name, company.Email, nullString(company.Phone), nullString(company.Document),
		nullString(company.Address), nullString(company.City), nullString(company.State),
		nullString(company.ZipCode), company.Plan, company.Status, settings,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	return nil
}

// GetByID retrieves a company by its ID.
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*secondary.CompanyRecord, error) {
	record, err := scanCompany(r.db.QueryRowContext(ctx,
		"SELECT "+companySelectCols+" FROM companies WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, notFound("company", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return record, nil
}

// FindByEmail retrieves the first company registered with email.
func (r *CompanyRepository) FindByEmail(ctx context.Context, email string) (*secondary.CompanyRecord, error) {
	record, err := scanCompany(r.db.QueryRowContext(ctx,
		"SELECT "+companySelectCols+" FROM companies WHERE email = ? ORDER BY created_at, rowid LIMIT 1", email))
	if err == sql.ErrNoRows {
		return nil, notFound("company", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	return record, nil
}

var _ secondary.CompanyRepository = (*CompanyRepository)(nil)

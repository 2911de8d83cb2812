package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/crm/internal/ports/secondary"
)

// ClientRepository implements secondary.ClientRepository with SQLite.
type ClientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new SQLite client repository.
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientSelectCols = "id, company_id, type, name, email, phone, document, address, city, state, zip_code, category, status, notes, custom_fields, created_by, created_at, updated_at"

func scanClient(s scanner) (*secondary.ClientRecord, error) {
	var (
		email, phone, document, address, city, state sql.NullString
		zip, category, notes, customFields           sql.NullString
	)
	record := &secondary.ClientRecord{}
	err := s.Scan(
		&record.ID, &record.CompanyID, &record.Type, &record.Name, &email, &phone,
		&document, &address, &city, &state, &zip, &category, &record.Status,
		&notes, &customFields, &record.CreatedBy, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Email = email.String
	record.Phone = phone.String
	record.Document = document.String
	record.Address = address.String
	record.City = city.String
	record.State = state.String
	record.ZipCode = zip.String
	record.Category = category.String
	record.Notes = notes.String
	if err := decodeJSON(customFields, &record.CustomFields); err != nil {
		return nil, fmt.Errorf("invalid custom fields for client %s: %w", record.ID, err)
	}
	return record, nil
}

// Create persists a new client, filling ID and timestamps.
func (r *ClientRepository) Create(ctx context.Context, client *secondary.ClientRecord) error {
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	if client.Status == "" {
		client.Status = "active"
	}
	now := timestamp(time.Now())
	client.CreatedAt, client.UpdatedAt = now, now

	customFields, err := encodeJSON(client.CustomFields)
	if err != nil {
		return fmt.Errorf("failed to encode custom fields: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO clients ("+clientSelectCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		client.ID, client.CompanyID, client.Type, client.Name, nullString(client.Email),
		nullString(client.Phone), nullString(client.Document), nullString(client.Address),
		nullString(client.City), nullString(client.State), nullString(client.ZipCode),
		nullString(client.Category), client.Status, nullString(client.Notes), customFields,
		client.CreatedBy, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// GetByID retrieves a client by ID within a company.
func (r *ClientRepository) GetByID(ctx context.Context, companyID, id string) (*secondary.ClientRecord, error) {
	record, err := scanClient(r.db.QueryRowContext(ctx,
		"SELECT "+clientSelectCols+" FROM clients WHERE company_id = ? AND id = ?", companyID, id))
	if err == sql.ErrNoRows {
		return nil, notFound("client", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return record, nil
}

func clientWhere(filters secondary.ClientFilters) *where {
	w := &where{}
	w.add("company_id = ?", filters.CompanyID)
	w.addIf(filters.Status, "status = ?")
	w.addIf(filters.Type, "type = ?")
	return w
}

// List retrieves clients matching the filters, newest first.
func (r *ClientRepository) List(ctx context.Context, filters secondary.ClientFilters) ([]*secondary.ClientRecord, error) {
	w := clientWhere(filters)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+clientSelectCols+" FROM clients"+w.String()+" ORDER BY created_at DESC, rowid DESC", w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*secondary.ClientRecord
	for rows.Next() {
		record, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, record)
	}
	return clients, rows.Err()
}

// Update applies a partial update and returns the stored row.
func (r *ClientRepository) Update(ctx context.Context, companyID, id string, patch secondary.ClientPatch) (*secondary.ClientRecord, error) {
	s := &set{}
	s.required("type", patch.Type)
	s.required("name", patch.Name)
	s.optional("email", patch.Email)
	s.optional("phone", patch.Phone)
	s.optional("document", patch.Document)
	s.optional("address", patch.Address)
	s.optional("city", patch.City)
	s.optional("state", patch.State)
	s.optional("zip_code", patch.ZipCode)
	s.optional("category", patch.Category)
	s.required("status", patch.Status)
	s.optional("notes", patch.Notes)

	if err := s.exec(ctx, r.db, "clients", "client", companyID, id, time.Now()); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, companyID, id)
}

// Delete removes a client.
func (r *ClientRepository) Delete(ctx context.Context, companyID, id string) error {
	return deleteScoped(ctx, r.db, "clients", "client", companyID, id)
}

// Count returns the number of clients matching the filters.
func (r *ClientRepository) Count(ctx context.Context, filters secondary.ClientFilters) (int, error) {
	w := clientWhere(filters)
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM clients"+w.String(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return n, nil
}

var _ secondary.ClientRepository = (*ClientRepository)(nil)

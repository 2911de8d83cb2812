package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/crm/internal/ports/secondary"
)

// ProposalRepository implements secondary.ProposalRepository with SQLite.
// Items are stored as a JSON array in the items column.
type ProposalRepository struct {
	db *sql.DB
}

// NewProposalRepository creates a new SQLite proposal repository.
func NewProposalRepository(db *sql.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

const proposalSelectCols = "id, company_id, client_id, title, description, status, total_amount, discount, items, valid_until, notes, created_by, created_at, updated_at"

func scanProposal(s scanner) (*secondary.ProposalRecord, error) {
	var (
		desc, validUntil, notes sql.NullString
		discount                sql.NullFloat64
		items                   string
	)
	record := &secondary.ProposalRecord{}
	err := s.Scan(
		&record.ID, &record.CompanyID, &record.ClientID, &record.Title, &desc,
		&record.Status, &record.TotalAmount, &discount, &items, &validUntil, &notes,
		&record.CreatedBy, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Description = desc.String
	record.Discount = discount.Float64
	record.ValidUntil = validUntil.String
	record.Notes = notes.String
	record.Items = []secondary.ProposalItemRecord{}
	if items != "" {
		if err := json.Unmarshal([]byte(items), &record.Items); err != nil {
			return nil, fmt.Errorf("invalid items for proposal %s: %w", record.ID, err)
		}
	}
	return record, nil
}

func encodeItems(items []secondary.ProposalItemRecord) (string, error) {
	if items == nil {
		items = []secondary.ProposalItemRecord{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode proposal items: %w", err)
	}
	return string(data), nil
}

// Create persists a new proposal, filling ID and timestamps.
func (r *ProposalRepository) Create(ctx context.Context, proposal *secondary.ProposalRecord) error {
	if proposal.ID == "" {
		proposal.ID = uuid.NewString()
	}
	if proposal.Status == "" {
		proposal.Status = "draft"
	}
	now := timestamp(time.Now())
	proposal.CreatedAt, proposal.UpdatedAt = now, now

	items, err := encodeItems(proposal.Items)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO proposals ("+proposalSelectCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		proposal.ID, proposal.CompanyID, proposal.ClientID, proposal.Title,
		nullString(proposal.Description), proposal.Status, proposal.TotalAmount,
		proposal.Discount, items, nullString(proposal.ValidUntil), nullString(proposal.Notes),
		proposal.CreatedBy, proposal.CreatedAt, proposal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create proposal: %w", err)
	}
	return nil
}

// GetByID retrieves a proposal by ID within a company.
func (r *ProposalRepository) GetByID(ctx context.Context, companyID, id string) (*secondary.ProposalRecord, error) {
	record, err := scanProposal(r.db.QueryRowContext(ctx,
		"SELECT "+proposalSelectCols+" FROM proposals WHERE company_id = ? AND id = ?", companyID, id))
	if err == sql.ErrNoRows {
		return nil, notFound("proposal", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	return record, nil
}

func proposalWhere(filters secondary.ProposalFilters) *where {
	w := &where{}
	w.add("company_id = ?", filters.CompanyID)
	w.addIf(filters.ClientID, "client_id = ?")
	w.addIf(filters.Status, "status = ?")
	w.in("status", filters.Statuses)
	return w
}

// List retrieves proposals matching the filters, newest first.
func (r *ProposalRepository) List(ctx context.Context, filters secondary.ProposalFilters) ([]*secondary.ProposalRecord, error) {
	w := proposalWhere(filters)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+proposalSelectCols+" FROM proposals"+w.String()+" ORDER BY created_at DESC, rowid DESC", w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	var proposals []*secondary.ProposalRecord
	for rows.Next() {
		record, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		proposals = append(proposals, record)
	}
	return proposals, rows.Err()
}

// Update applies a partial update and returns the stored row.
func (r *ProposalRepository) Update(ctx context.Context, companyID, id string, patch secondary.ProposalPatch) (*secondary.ProposalRecord, error) {
	s := &set{}
	s.required("client_id", patch.ClientID)
	s.required("title", patch.Title)
	s.optional("description", patch.Description)
	s.required("status", patch.Status)
	if patch.TotalAmount != nil {
		s.add("total_amount", *patch.TotalAmount)
	}
	if patch.Discount != nil {
		s.add("discount", *patch.Discount)
	}
	if patch.Items != nil {
		items, err := encodeItems(*patch.Items)
		if err != nil {
			return nil, err
		}
		s.add("items", items)
	}
	s.optional("valid_until", patch.ValidUntil)
	s.optional("notes", patch.Notes)

	if err := s.exec(ctx, r.db, "proposals", "proposal", companyID, id, time.Now()); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, companyID, id)
}

// Delete removes a proposal.
func (r *ProposalRepository) Delete(ctx context.Context, companyID, id string) error {
	return deleteScoped(ctx, r.db, "proposals", "proposal", companyID, id)
}

// Count returns the number of proposals matching the filters.
func (r *ProposalRepository) Count(ctx context.Context, filters secondary.ProposalFilters) (int, error) {
	w := proposalWhere(filters)
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM proposals"+w.String(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count proposals: %w", err)
	}
	return n, nil
}

var _ secondary.ProposalRepository = (*ProposalRepository)(nil)

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/crm/internal/core/proposal"
	"github.com/example/crm/internal/models"
	"github.com/example/crm/internal/ports/primary"
	"github.com/example/crm/internal/ports/secondary"
)

// ProposalServiceImpl implements the ProposalService interface.
type ProposalServiceImpl struct {
	scope        tenantScope
	proposalRepo secondary.ProposalRepository
	clientRepo   secondary.ClientRepository
	newID        func() string
}

// NewProposalService creates a new ProposalService with injected dependencies.
func NewProposalService(
	auth primary.AuthService,
	companies primary.CompanyService,
	proposalRepo secondary.ProposalRepository,
	clientRepo secondary.ClientRepository,
) *ProposalServiceImpl {
	return &ProposalServiceImpl{
		scope:        tenantScope{auth: auth, companies: companies},
		proposalRepo: proposalRepo,
		clientRepo:   clientRepo,
		newID:        uuid.NewString,
	}
}

var _ primary.ProposalService = (*ProposalServiceImpl)(nil)

// ListProposals lists proposals of the current company, newest first.
func (s *ProposalServiceImpl) ListProposals(ctx context.Context, filters primary.ProposalFilters) ([]*primary.Proposal, error) {
	ids, err := s.scope.resolve()
	if err != nil {
		return nil, err
	}

	records, err := s.proposalRepo.List(ctx, secondary.ProposalFilters{
		CompanyID: ids.CompanyID,
		Status:    filters.Status,
		ClientID:  filters.ClientID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}

	proposals := make([]*primary.Proposal, len(records))
	for i, r := range records {
		proposals[i] = recordToProposal(r)
	}
	return proposals, nil
}

// GetProposal retrieves a proposal by ID.
func (s *ProposalServiceImpl) GetProposal(ctx context.Context, proposalID string) (*primary.Proposal, error) {
	ids, err := s.scope.resolve()
	if err != nil {
		return nil, err
	}

	record, err := s.proposalRepo.GetByID(ctx, ids.CompanyID, proposalID)
	if err != nil {
		return nil, lookupError("proposal", proposalID, err)
	}
	return recordToProposal(record), nil
}

// CreateProposal creates a draft proposal.
func (s *ProposalServiceImpl) CreateProposal(ctx context.Context, req primary.CreateProposalRequest) (*primary.Proposal, error) {
	ids, err := s.scope.authorize(models.ModuleProposals, models.ActionCreate)
	if err != nil {
		return nil, err
	}

	clientExists, err := s.clientExists(ctx, ids.CompanyID, req.ClientID)
	if err != nil {
		return nil, err
	}

	items := toCoreItems(req.Items)
	guard := proposal.CanCreateProposal(proposal.CreateProposalContext{
		Title:        req.Title,
		ClientID:     req.ClientID,
		ClientExists: clientExists,
		Items:        items,
		Discount:     req.Discount,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	record := &secondary.ProposalRecord{
		CompanyID:   ids.CompanyID,
		ClientID:    req.ClientID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      models.ProposalStatusDraft,
		TotalAmount: proposal.TotalAmount(items, req.Discount),
		Discount:    req.Discount,
		Items:       s.buildItems(items),
		ValidUntil:  req.ValidUntil,
		Notes:       req.Notes,
		CreatedBy:   ids.UserID,
	}
	if err := s.proposalRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}
	return recordToProposal(record), nil
}

// UpdateProposal applies a partial update. Totals are recomputed whenever
// items or discount change.
func (s *ProposalServiceImpl) UpdateProposal(ctx context.Context, req primary.UpdateProposalRequest) (*primary.Proposal, error) {
	ids, err := s.scope.authorize(models.ModuleProposals, models.ActionUpdate)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, fmt.Errorf("proposal title is required")
	}

	patch := secondary.ProposalPatch{
		Title:       trimmed(req.Title),
		Description: req.Description,
		ValidUntil:  req.ValidUntil,
		Notes:       req.Notes,
	}

	if req.Items != nil || req.Discount != nil {
		existing, err := s.proposalRepo.GetByID(ctx, ids.CompanyID, req.ProposalID)
		if err != nil {
			return nil, lookupError("proposal", req.ProposalID, err)
		}

		items := itemsFromRecords(existing.Items)
		records := existing.Items
		if req.Items != nil {
			items = toCoreItems(*req.Items)
			records = nil
		}
		discount := existing.Discount
		if req.Discount != nil {
			discount = *req.Discount
		}

		if err := proposal.CanUpdateItems(items, discount).Error(); err != nil {
			return nil, err
		}

		if records == nil {
			records = s.buildItems(items)
		}
		total := proposal.TotalAmount(items, discount)
		patch.Items = &records
		patch.Discount = &discount
		patch.TotalAmount = &total
	}

	record, err := s.proposalRepo.Update(ctx, ids.CompanyID, req.ProposalID, patch)
	if err != nil {
		return nil, lookupError("proposal", req.ProposalID, err)
	}
	return recordToProposal(record), nil
}

// SetProposalStatus moves a proposal to status.
func (s *ProposalServiceImpl) SetProposalStatus(ctx context.Context, proposalID, status string) (*primary.Proposal, error) {
	ids, err := s.scope.authorize(models.ModuleProposals, models.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := proposal.CanSetStatus(status).Error(); err != nil {
		return nil, err
	}

	record, err := s.proposalRepo.Update(ctx, ids.CompanyID, proposalID, secondary.ProposalPatch{Status: &status})
	if err != nil {
		return nil, lookupError("proposal", proposalID, err)
	}
	return recordToProposal(record), nil
}

// ExpireOverdue marks open proposals past valid_until as expired.
func (s *ProposalServiceImpl) ExpireOverdue(ctx context.Context, now time.Time) ([]*primary.Proposal, error) {
	ids, err := s.scope.authorize(models.ModuleProposals, models.ActionUpdate)
	if err != nil {
		return nil, err
	}

	open, err := s.proposalRepo.List(ctx, secondary.ProposalFilters{
		CompanyID: ids.CompanyID,
		Statuses: []string{
			models.ProposalStatusDraft,
			models.ProposalStatusSent,
			models.ProposalStatusViewed,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list open proposals: %w", err)
	}

	expired := models.ProposalStatusExpired
	var out []*primary.Proposal
	for _, r := range open {
		if !proposal.ShouldExpire(r.Status, r.ValidUntil, now) {
			continue
		}
		updated, err := s.proposalRepo.Update(ctx, ids.CompanyID, r.ID, secondary.ProposalPatch{Status: &expired})
		if err != nil {
			return out, fmt.Errorf("failed to expire proposal %s: %w", r.ID, err)
		}
		out = append(out, recordToProposal(updated))
	}
	return out, nil
}

// DeleteProposal deletes a proposal.
func (s *ProposalServiceImpl) DeleteProposal(ctx context.Context, proposalID string) error {
	ids, err := s.scope.authorize(models.ModuleProposals, models.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.proposalRepo.Delete(ctx, ids.CompanyID, proposalID); err != nil {
		return lookupError("proposal", proposalID, err)
	}
	return nil
}

func (s *ProposalServiceImpl) clientExists(ctx context.Context, companyID, clientID string) (bool, error) {
	if clientID == "" {
		return false, nil
	}
	_, err := s.clientRepo.GetByID(ctx, companyID, clientID)
	if errors.Is(err, secondary.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to validate client: %w", err)
	}
	return true, nil
}

func (s *ProposalServiceImpl) buildItems(items []proposal.Item) []secondary.ProposalItemRecord {
	out := make([]secondary.ProposalItemRecord, len(items))
	for i, it := range items {
		out[i] = secondary.ProposalItemRecord{
			ID:          s.newID(),
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       proposal.LineTotal(it),
		}
	}
	return out
}

func toCoreItems(in []primary.ProposalItemInput) []proposal.Item {
	out := make([]proposal.Item, len(in))
	for i, it := range in {
		out[i] = proposal.Item{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return out
}

func itemsFromRecords(in []secondary.ProposalItemRecord) []proposal.Item {
	out := make([]proposal.Item, len(in))
	for i, it := range in {
		out[i] = proposal.Item{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return out
}

func recordToProposal(r *secondary.ProposalRecord) *primary.Proposal {
	items := make([]primary.ProposalItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = primary.ProposalItem{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		}
	}
	return &primary.Proposal{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		ClientID:    r.ClientID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		TotalAmount: r.TotalAmount,
		Discount:    r.Discount,
		Items:       items,
		ValidUntil:  r.ValidUntil,
		Notes:       r.Notes,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

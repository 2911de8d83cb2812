package primary

import (
	"context"
	"time"
)

// ProposalService defines the primary port for proposal operations.
type ProposalService interface {
	// ListProposals lists proposals, newest first.
	ListProposals(ctx context.Context, filters ProposalFilters) ([]*Proposal, error)

	// GetProposal retrieves a proposal by ID.
	GetProposal(ctx context.Context, proposalID string) (*Proposal, error)

	// CreateProposal creates a draft proposal.
	CreateProposal(ctx context.Context, req CreateProposalRequest) (*Proposal, error)

	// UpdateProposal applies a partial update, recomputing totals.
	UpdateProposal(ctx context.Context, req UpdateProposalRequest) (*Proposal, error)

	// SetProposalStatus moves a proposal to status.
	SetProposalStatus(ctx context.Context, proposalID, status string) (*Proposal, error)

	// ExpireOverdue marks open proposals past valid_until as expired and
	// returns them.
	ExpireOverdue(ctx context.Context, now time.Time) ([]*Proposal, error)

	// DeleteProposal deletes a proposal.
	DeleteProposal(ctx context.Context, proposalID string) error
}

// ProposalItem is one line of a proposal.
type ProposalItem struct {
	ID          string
	Description string
	Quantity    float64
	UnitPrice   float64
	Total       float64
}

// Proposal is the public view of a proposal.
type Proposal struct {
	ID          string
	CompanyID   string
	ClientID    string
	Title       string
	Description string
	Status      string
	TotalAmount float64
	Discount    float64
	Items       []ProposalItem
	ValidUntil  string
	Notes       string
	CreatedBy   string
	CreatedAt   string
	UpdatedAt   string
}

// ProposalFilters contains filter options for listing proposals.
type ProposalFilters struct {
	Status   string
	ClientID string
}

// ProposalItemInput is an item as entered by the user.
type ProposalItemInput struct {
	Description string
	Quantity    float64
	UnitPrice   float64
}

// CreateProposalRequest contains parameters for creating a proposal.
type CreateProposalRequest struct {
	ClientID    string
	Title       string
	Description string
	Items       []ProposalItemInput
	Discount    float64
	ValidUntil  string
	Notes       string
}

// UpdateProposalRequest contains parameters for updating a proposal.
type UpdateProposalRequest struct {
	ProposalID  string
	Title       *string
	Description *string
	Items       *[]ProposalItemInput
	Discount    *float64
	ValidUntil  *string
	Notes       *string
}

package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/example/crm/internal/ports/primary"
)

// ProposalAdapter is a thin adapter that translates CLI operations to ProposalService calls.
type ProposalAdapter struct {
	service primary.ProposalService
	out     io.Writer
}

// NewProposalAdapter creates a new ProposalAdapter with the given service.
func NewProposalAdapter(service primary.ProposalService, out io.Writer) *ProposalAdapter {
	return &ProposalAdapter{service: service, out: out}
}

func (a *ProposalAdapter) table(proposals []*primary.Proposal) {
	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCLIENT\tTOTAL\tVALID UNTIL\tSTATUS")
	fmt.Fprintln(w, "--\t-----\t------\t-----\t-----------\t------")
	for _, p := range proposals {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Title, p.ClientID, currency(p.TotalAmount), orDash(p.ValidUntil), badge(p.Status))
	}
	w.Flush()
}

// List lists proposals.
func (a *ProposalAdapter) List(ctx context.Context, filters primary.ProposalFilters) ([]*primary.Proposal, error) {
	proposals, err := a.service.ListProposals(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	if len(proposals) == 0 {
		fmt.Fprintln(a.out, "No proposals found.")
		return proposals, nil
	}
	a.table(proposals)
	return proposals, nil
}

// Show displays a proposal with its items.
func (a *ProposalAdapter) Show(ctx context.Context, proposalID string) (*primary.Proposal, error) {
	p, err := a.service.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	fmt.Fprintf(a.out, "\nProposal: %s\n", p.ID)
	fmt.Fprintf(a.out, "Title:       %s\n", p.Title)
	fmt.Fprintf(a.out, "Client:      %s\n", p.ClientID)
	fmt.Fprintf(a.out, "Status:      %s\n", badge(p.Status))
	fmt.Fprintf(a.out, "Valid until: %s\n", orDash(p.ValidUntil))
	if p.Description != "" {
		fmt.Fprintf(a.out, "Description: %s\n", p.Description)
	}

	if len(p.Items) > 0 {
		fmt.Fprintln(a.out)
		w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "DESCRIPTION\tQTY\tUNIT PRICE\tTOTAL\t")
		for _, item := range p.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
				item.Description, quantity(item.Quantity), currency(item.UnitPrice), currency(item.Total))
		}
		w.Flush()
	}

	fmt.Fprintln(a.out)
	if p.Discount > 0 {
		fmt.Fprintf(a.out, "Discount:    %s\n", currency(p.Discount))
	}
	fmt.Fprintf(a.out, "Total:       %s\n", currency(p.TotalAmount))
	if p.Notes != "" {
		fmt.Fprintf(a.out, "Notes:       %s\n", p.Notes)
	}
	fmt.Fprintln(a.out)
	return p, nil
}

// Create creates a draft proposal.
func (a *ProposalAdapter) Create(ctx context.Context, req primary.CreateProposalRequest) (*primary.Proposal, error) {
	p, err := a.service.CreateProposal(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Created proposal %s: %s (%s)\n", p.ID, p.Title, currency(p.TotalAmount))
	return p, nil
}

// Update applies a partial update.
func (a *ProposalAdapter) Update(ctx context.Context, req primary.UpdateProposalRequest) (*primary.Proposal, error) {
	p, err := a.service.UpdateProposal(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Proposal %s updated (%s)\n", p.ID, currency(p.TotalAmount))
	return p, nil
}

// SetStatus moves a proposal to status.
func (a *ProposalAdapter) SetStatus(ctx context.Context, proposalID, status string) (*primary.Proposal, error) {
	p, err := a.service.SetProposalStatus(ctx, proposalID, status)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Proposal %s is now %s\n", p.ID, badge(p.Status))
	return p, nil
}

// Expire marks overdue proposals as expired.
func (a *ProposalAdapter) Expire(ctx context.Context, now time.Time) ([]*primary.Proposal, error) {
	expired, err := a.service.ExpireOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		fmt.Fprintln(a.out, "No proposals to expire.")
		return expired, nil
	}
	fmt.Fprintf(a.out, "✓ Expired %d proposal(s)\n", len(expired))
	a.table(expired)
	return expired, nil
}

// Delete deletes a proposal.
func (a *ProposalAdapter) Delete(ctx context.Context, proposalID string) error {
	if err := a.service.DeleteProposal(ctx, proposalID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Deleted proposal %s\n", proposalID)
	return nil
}

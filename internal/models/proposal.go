package models

// Proposal status constants
const (
	ProposalStatusDraft    = "draft"
	ProposalStatusSent     = "sent"
	ProposalStatusViewed   = "viewed"
	ProposalStatusApproved = "approved"
	ProposalStatusRejected = "rejected"
	ProposalStatusExpired  = "expired"
)

// ValidProposalStatuses lists the accepted proposal statuses.
var ValidProposalStatuses = []string{
	ProposalStatusDraft,
	ProposalStatusSent,
	ProposalStatusViewed,
	ProposalStatusApproved,
	ProposalStatusRejected,
	ProposalStatusExpired,
}

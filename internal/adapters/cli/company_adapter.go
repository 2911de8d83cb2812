package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/crm/internal/ports/primary"
)

// CompanyAdapter renders tenant state and drives company switching.
type CompanyAdapter struct {
	service primary.CompanyService
	out     io.Writer
}

// NewCompanyAdapter creates a new CompanyAdapter with the given service.
func NewCompanyAdapter(service primary.CompanyService, out io.Writer) *CompanyAdapter {
	return &CompanyAdapter{service: service, out: out}
}

func (a *CompanyAdapter) roleIn(companyID string) string {
	for _, p := range a.service.Profiles() {
		if p.CompanyID == companyID {
			return p.Role
		}
	}
	return ""
}

// List lists the companies the user belongs to, marking the current one.
func (a *CompanyAdapter) List() []*primary.Company {
	companies := a.service.Companies()
	if len(companies) == 0 {
		fmt.Fprintln(a.out, "You are not a member of any company.")
		return companies
	}

	currentID := ""
	if current := a.service.Current(); current != nil {
		currentID = current.ID
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, " \tID\tNAME\tPLAN\tROLE\tSTATUS")
	for _, c := range companies {
		marker := " "
		if c.ID == currentID {
			marker = green.Sprint("*")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			marker, c.ID, c.Name, c.Plan, orDash(a.roleIn(c.ID)), badge(c.Status))
	}
	w.Flush()
	return companies
}

// Current prints the current company.
func (a *CompanyAdapter) Current() (*primary.Company, error) {
	current := a.service.Current()
	if current == nil {
		return nil, primary.ErrNoCurrentCompany
	}
	fmt.Fprintf(a.out, "%s (%s)\n", current.Name, current.ID)
	if profile := a.service.CurrentProfile(); profile != nil {
		fmt.Fprintf(a.out, "Role: %s\n", profile.Role)
	}
	return current, nil
}

// Switch changes the current company.
func (a *CompanyAdapter) Switch(ctx context.Context, companyID string) error {
	if err := a.service.Switch(ctx, companyID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Switched to %s\n", a.service.Current().Name)
	return nil
}

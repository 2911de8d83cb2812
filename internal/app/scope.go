package app

import (
	"fmt"

	"github.com/example/crm/internal/core/tenant"
	"github.com/example/crm/internal/ports/primary"
)

// tenantScope ties the data services to the signed-in user and the current
// company.
type tenantScope struct {
	auth      primary.AuthService
	companies primary.CompanyService
}

type scopeIDs struct {
	UserID    string
	CompanyID string
}

// resolve returns the user and company every query is scoped to.
func (t tenantScope) resolve() (scopeIDs, error) {
	user := t.auth.CurrentUser()
	if user == nil {
		return scopeIDs{}, primary.ErrNotAuthenticated
	}
	company := t.companies.Current()
	if company == nil {
		if err := t.companies.LastError(); err != nil {
			return scopeIDs{}, fmt.Errorf("%w: %w", primary.ErrNoCurrentCompany, err)
		}
		return scopeIDs{}, primary.ErrNoCurrentCompany
	}
	return scopeIDs{UserID: user.ID, CompanyID: company.ID}, nil
}

// authorize resolves the scope and checks the current profile may perform
// action on module.
func (t tenantScope) authorize(module, action string) (scopeIDs, error) {
	ids, err := t.resolve()
	if err != nil {
		return ids, err
	}
	profile := t.companies.CurrentProfile()
	if profile == nil {
		return ids, primary.ErrNoCurrentCompany
	}
	access := tenant.Access{
		Role:        profile.Role,
		IsActive:    profile.IsActive,
		Permissions: tenant.FromMap(profile.Permissions),
	}
	if r := tenant.CanPerform(access, module, action); !r.Allowed {
		return ids, fmt.Errorf("%w: %s", primary.ErrPermissionDenied, r.Reason)
	}
	return ids, nil
}

package tenant

import (
	"fmt"

	"github.com/example/crm/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// Actions is the CRUD permission set for one module.
type Actions struct {
	Create bool
	Read   bool
	Update bool
	Delete bool
}

// Allows reports whether the named action is granted.
func (a Actions) Allows(action string) bool {
	switch action {
	case models.ActionCreate:
		return a.Create
	case models.ActionRead:
		return a.Read
	case models.ActionUpdate:
		return a.Update
	case models.ActionDelete:
		return a.Delete
	}
	return false
}

// Access is the membership data the permission check needs.
type Access struct {
	Role        string
	IsActive    bool
	Permissions map[string]Actions
}

// roleDefaults applies when a profile carries no explicit entry for a module.
var roleDefaults = map[string]Actions{
	models.RoleAdmin:   {Create: true, Read: true, Update: true, Delete: true},
	models.RoleManager: {Create: true, Read: true, Update: true},
	models.RoleUser:    {Create: true, Read: true, Update: true},
	models.RoleViewer:  {Read: true},
}

// CanPerform evaluates whether access allows action on module.
// Rules:
// - Inactive memberships are denied
// - Admins are always allowed
// - An explicit module entry wins over the role default
func CanPerform(access Access, module, action string) GuardResult {
	if !access.IsActive {
		return GuardResult{Allowed: false, Reason: "membership is inactive"}
	}
	if access.Role == models.RoleAdmin {
		return GuardResult{Allowed: true}
	}

	actions, ok := access.Permissions[module]
	if !ok {
		actions = roleDefaults[access.Role]
	}
	if !actions.Allows(action) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("role %s cannot %s %s", access.Role, action, module),
		}
	}
	return GuardResult{Allowed: true}
}

// DefaultAdminPermissions is the permission set granted to a profile that is
// created automatically for the fallback company.
func DefaultAdminPermissions() map[string]Actions {
	return map[string]Actions{
		models.ModuleClients:   {Create: true, Read: true, Update: true, Delete: true},
		models.ModuleProposals: {Create: true, Read: true, Update: true, Delete: true},
		models.ModuleTasks:     {Create: true, Read: true, Update: true, Delete: true},
		models.ModuleReports:   {Create: true, Read: true, Update: true, Delete: false},
	}
}

// ToMap converts a permission set to its stored JSON shape.
func ToMap(perms map[string]Actions) map[string]map[string]bool {
	if perms == nil {
		return nil
	}
	out := make(map[string]map[string]bool, len(perms))
	for module, a := range perms {
		out[module] = map[string]bool{
			models.ActionCreate: a.Create,
			models.ActionRead:   a.Read,
			models.ActionUpdate: a.Update,
			models.ActionDelete: a.Delete,
		}
	}
	return out
}

// FromMap converts a stored permission map to a permission set.
func FromMap(m map[string]map[string]bool) map[string]Actions {
	if m == nil {
		return nil
	}
	out := make(map[string]Actions, len(m))
	for module, actions := range m {
		out[module] = Actions{
			Create: actions[models.ActionCreate],
			Read:   actions[models.ActionRead],
			Update: actions[models.ActionUpdate],
			Delete: actions[models.ActionDelete],
		}
	}
	return out
}

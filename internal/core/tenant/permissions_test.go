package tenant

import (
	"testing"

	"github.com/example/crm/internal/models"
)

func TestCanPerform(t *testing.T) {
	tests := []struct {
		name        string
		access      Access
		module      string
		action      string
		wantAllowed bool
	}{
		{
			name:        "inactive membership denied",
			access:      Access{Role: models.RoleAdmin, IsActive: false},
			module:      models.ModuleClients,
			action:      models.ActionRead,
			wantAllowed: false,
		},
		{
			name:        "admin always allowed",
			access:      Access{Role: models.RoleAdmin, IsActive: true, Permissions: map[string]Actions{models.ModuleClients: {}}},
			module:      models.ModuleClients,
			action:      models.ActionDelete,
			wantAllowed: true,
		},
		{
			name:        "manager cannot delete by default",
			access:      Access{Role: models.RoleManager, IsActive: true},
			module:      models.ModuleTasks,
			action:      models.ActionDelete,
			wantAllowed: false,
		},
		{
			name:        "viewer can read",
			access:      Access{Role: models.RoleViewer, IsActive: true},
			module:      models.ModuleProposals,
			action:      models.ActionRead,
			wantAllowed: true,
		},
		{
			name:        "viewer cannot create",
			access:      Access{Role: models.RoleViewer, IsActive: true},
			module:      models.ModuleProposals,
			action:      models.ActionCreate,
			wantAllowed: false,
		},
		{
			name: "explicit entry overrides role default",
			access: Access{
				Role:        models.RoleViewer,
				IsActive:    true,
				Permissions: map[string]Actions{models.ModuleTasks: {Read: true, Update: true}},
			},
			module:      models.ModuleTasks,
			action:      models.ActionUpdate,
			wantAllowed: true,
		},
		{
			name: "explicit entry can revoke",
			access: Access{
				Role:        models.RoleUser,
				IsActive:    true,
				Permissions: map[string]Actions{models.ModuleClients: {Read: true}},
			},
			module:      models.ModuleClients,
			action:      models.ActionCreate,
			wantAllowed: false,
		},
		{
			name:        "unknown role gets nothing",
			access:      Access{Role: "guest", IsActive: true},
			module:      models.ModuleClients,
			action:      models.ActionRead,
			wantAllowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanPerform(tt.access, tt.module, tt.action)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v (reason %q)", result.Allowed, tt.wantAllowed, result.Reason)
			}
			if !result.Allowed && result.Error() == nil {
				t.Error("expected error for denied result")
			}
		})
	}
}

func TestPermissionMapRoundTrip(t *testing.T) {
	perms := DefaultAdminPermissions()
	back := FromMap(ToMap(perms))

	if back[models.ModuleReports].Delete {
		t.Error("reports delete should stay false")
	}
	if !back[models.ModuleClients].Delete {
		t.Error("clients delete should stay true")
	}
	if FromMap(nil) != nil || ToMap(nil) != nil {
		t.Error("nil maps should stay nil")
	}
}

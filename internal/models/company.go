// Package models contains the domain vocabulary shared by the CRM packages:
// the enumerated values the backend tables accept.
package models

// Company plans
const (
	PlanBasic        = "basic"
	PlanProfessional = "professional"
	PlanEnterprise   = "enterprise"
)

// Company status constants
const (
	CompanyStatusActive    = "active"
	CompanyStatusInactive  = "inactive"
	CompanyStatusPending   = "pending"
	CompanyStatusSuspended = "suspended"
)

// Profile roles, from most to least privileged.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
	RoleViewer  = "viewer"
)

// Permission modules
const (
	ModuleClients       = "clients"
	ModuleProposals     = "proposals"
	ModuleTasks         = "tasks"
	ModuleReports       = "reports"
	ModuleNotifications = "notifications"
)

// Permission actions
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ValidRoles lists every role a profile may carry.
var ValidRoles = []string{RoleAdmin, RoleManager, RoleUser, RoleViewer}

// CurrentCompanyKey is the preference key remembering the selected company.
const CurrentCompanyKey = "currentCompanyId"

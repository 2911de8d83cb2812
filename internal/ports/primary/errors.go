// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the CLI drives the CRM services.
package primary

import "errors"

// Sentinel errors returned by the services. Callers test with errors.Is.
var (
	ErrNotAuthenticated      = errors.New("not authenticated: run 'crm login' first")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailNotConfirmed     = errors.New("email not confirmed: check your inbox")
	ErrUserAlreadyRegistered = errors.New("this email is already registered")
	ErrNoCurrentCompany      = errors.New("no company selected")
	ErrCompanyNotFound       = errors.New("company not available for this user")
	ErrNotFound              = errors.New("not found")
	ErrPermissionDenied      = errors.New("permission denied")
)

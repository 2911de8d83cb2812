package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/crm/internal/core/client"
	"github.com/example/crm/internal/models"
	"github.com/example/crm/internal/ports/primary"
	"github.com/example/crm/internal/ports/secondary"
)

// ClientServiceImpl implements the ClientService interface.
type ClientServiceImpl struct {
	scope      tenantScope
	clientRepo secondary.ClientRepository
}

// NewClientService creates a new ClientService with injected dependencies.
func NewClientService(
	auth primary.AuthService,
	companies primary.CompanyService,
	clientRepo secondary.ClientRepository,
) *ClientServiceImpl {
	return &ClientServiceImpl{
		scope:      tenantScope{auth: auth, companies: companies},
		clientRepo: clientRepo,
	}
}

var _ primary.ClientService = (*ClientServiceImpl)(nil)

// ListClients lists clients of the current company, newest first.
func (s *ClientServiceImpl) ListClients(ctx context.Context, filters primary.ClientFilters) ([]*primary.Client, error) {
	ids, err := s.scope.resolve()
	if err != nil {
		return nil, err
	}

	records, err := s.clientRepo.List(ctx, secondary.ClientFilters{
		CompanyID: ids.CompanyID,
		Status:    filters.Status,
		Type:      filters.Type,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	term := strings.TrimSpace(filters.Search)
	clients := make([]*primary.Client, 0, len(records))
	for _, r := range records {
		if !client.MatchesSearch(client.SearchFields{Name: r.Name, Email: r.Email, Phone: r.Phone}, term) {
			continue
		}
		clients = append(clients, recordToClient(r))
	}
	return clients, nil
}

// GetClient retrieves a client by ID.
func (s *ClientServiceImpl) GetClient(ctx context.Context, clientID string) (*primary.Client, error) {
	ids, err := s.scope.resolve()
	if err != nil {
		return nil, err
	}

	record, err := s.clientRepo.GetByID(ctx, ids.CompanyID, clientID)
	if err != nil {
		return nil, lookupError("client", clientID, err)
	}
	return recordToClient(record), nil
}

// CreateClient creates a new client in the current company.
func (s *ClientServiceImpl) CreateClient(ctx context.Context, req primary.CreateClientRequest) (*primary.Client, error) {
	ids, err := s.scope.authorize(models.ModuleClients, models.ActionCreate)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.ClientStatusActive
	}
	guard := client.CanSaveClient(client.SaveClientContext{
		Name:     req.Name,
		Type:     req.Type,
		Status:   status,
		IsCreate: true,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	record := &secondary.ClientRecord{
		CompanyID: ids.CompanyID,
		Type:      req.Type,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Document:  strings.TrimSpace(req.Document),
		Address:   strings.TrimSpace(req.Address),
		City:      strings.TrimSpace(req.City),
		State:     strings.TrimSpace(req.State),
		ZipCode:   strings.TrimSpace(req.ZipCode),
		Category:  strings.TrimSpace(req.Category),
		Status:    status,
		Notes:     req.Notes,
		CreatedBy: ids.UserID,
	}
	if err := s.clientRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return recordToClient(record), nil
}

// UpdateClient applies a partial update.
func (s *ClientServiceImpl) UpdateClient(ctx context.Context, req primary.UpdateClientRequest) (*primary.Client, error) {
	ids, err := s.scope.authorize(models.ModuleClients, models.ActionUpdate)
	if err != nil {
		return nil, err
	}

	guard := client.CanSaveClient(client.SaveClientContext{
		Name:    deref(req.Name),
		NameSet: req.Name != nil,
		Type:    deref(req.Type),
		Status:  deref(req.Status),
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	patch := secondary.ClientPatch{
		Type:     req.Type,
		Name:     trimmed(req.Name),
		Email:    trimmed(req.Email),
		Phone:    trimmed(req.Phone),
		Document: trimmed(req.Document),
		Address:  trimmed(req.Address),
		City:     trimmed(req.City),
		State:    trimmed(req.State),
		ZipCode:  trimmed(req.ZipCode),
		Category: trimmed(req.Category),
		Status:   req.Status,
		Notes:    req.Notes,
	}
	record, err := s.clientRepo.Update(ctx, ids.CompanyID, req.ClientID, patch)
	if err != nil {
		return nil, lookupError("client", req.ClientID, err)
	}
	return recordToClient(record), nil
}

// DeleteClient deletes a client.
func (s *ClientServiceImpl) DeleteClient(ctx context.Context, clientID string) error {
	ids, err := s.scope.authorize(models.ModuleClients, models.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.clientRepo.Delete(ctx, ids.CompanyID, clientID); err != nil {
		return lookupError("client", clientID, err)
	}
	return nil
}

// lookupError maps repository misses to primary.ErrNotFound.
func lookupError(kind, id string, err error) error {
	if errors.Is(err, secondary.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, primary.ErrNotFound)
	}
	return fmt.Errorf("failed to access %s %s: %w", kind, id, err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func recordToClient(r *secondary.ClientRecord) *primary.Client {
	return &primary.Client{
		ID:           r.ID,
		CompanyID:    r.CompanyID,
		Type:         r.Type,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		Document:     r.Document,
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		ZipCode:      r.ZipCode,
		Category:     r.Category,
		Status:       r.Status,
		Notes:        r.Notes,
		CustomFields: r.CustomFields,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

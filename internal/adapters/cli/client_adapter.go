package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/crm/internal/ports/primary"
)

// ClientAdapter is a thin adapter that translates CLI operations to ClientService calls.
type ClientAdapter struct {
	service primary.ClientService
	out     io.Writer
}

// NewClientAdapter creates a new ClientAdapter with the given service.
func NewClientAdapter(service primary.ClientService, out io.Writer) *ClientAdapter {
	return &ClientAdapter{service: service, out: out}
}

// List lists the clients of the current company.
func (a *ClientAdapter) List(ctx context.Context, filters primary.ClientFilters) ([]*primary.Client, error) {
	clients, err := a.service.ListClients(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	if len(clients) == 0 {
		fmt.Fprintln(a.out, "No clients found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Create your first client:")
		fmt.Fprintln(a.out, `  crm client create --name "Padaria Central" --type company`)
		return clients, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tEMAIL\tPHONE\tSTATUS")
	fmt.Fprintln(w, "--\t----\t----\t-----\t-----\t------")
	for _, c := range clients {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, c.Type, orDash(c.Email), orDash(c.Phone), badge(c.Status))
	}
	w.Flush()
	return clients, nil
}

// Show displays details for a single client.
func (a *ClientAdapter) Show(ctx context.Context, clientID string) (*primary.Client, error) {
	c, err := a.service.GetClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	fmt.Fprintf(a.out, "\nClient: %s\n", c.ID)
	fmt.Fprintf(a.out, "Name:     %s\n", c.Name)
	fmt.Fprintf(a.out, "Type:     %s\n", c.Type)
	fmt.Fprintf(a.out, "Status:   %s\n", badge(c.Status))
	fmt.Fprintf(a.out, "Email:    %s\n", orDash(c.Email))
	fmt.Fprintf(a.out, "Phone:    %s\n", orDash(c.Phone))
	fmt.Fprintf(a.out, "Document: %s\n", orDash(c.Document))
	if c.Address != "" || c.City != "" {
		fmt.Fprintf(a.out, "Address:  %s, %s/%s %s\n", orDash(c.Address), orDash(c.City), orDash(c.State), c.ZipCode)
	}
	if c.Category != "" {
		fmt.Fprintf(a.out, "Category: %s\n", c.Category)
	}
	if c.Notes != "" {
		fmt.Fprintf(a.out, "Notes:    %s\n", c.Notes)
	}
	fmt.Fprintf(a.out, "Created:  %s\n", day(c.CreatedAt))
	fmt.Fprintln(a.out)
	return c, nil
}

// Create creates a client and prints its ID.
func (a *ClientAdapter) Create(ctx context.Context, req primary.CreateClientRequest) (*primary.Client, error) {
	c, err := a.service.CreateClient(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Created client %s: %s\n", c.ID, c.Name)
	return c, nil
}

// Update applies a partial update.
func (a *ClientAdapter) Update(ctx context.Context, req primary.UpdateClientRequest) (*primary.Client, error) {
	c, err := a.service.UpdateClient(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Client %s updated\n", c.ID)
	return c, nil
}

// Delete deletes a client.
func (a *ClientAdapter) Delete(ctx context.Context, clientID string) error {
	if err := a.service.DeleteClient(ctx, clientID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Deleted client %s\n", clientID)
	return nil
}

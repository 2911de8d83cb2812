package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/crm/internal/ports/primary"
)

// clientFields are the flags shared by client create and update.
var clientFields = []struct{ name, usage string }{
	{"type", "individual or company"},
	{"name", "Client name"},
	{"email", "Contact email"},
	{"phone", "Contact phone"},
	{"document", "CPF or CNPJ"},
	{"address", "Street address"},
	{"city", "City"},
	{"state", "State"},
	{"zip", "Postal code"},
	{"category", "Free-form category"},
	{"status", "active, inactive or prospect"},
	{"notes", "Notes"},
}

func addClientFlags(cmd *cobra.Command) {
	for _, f := range clientFields {
		cmd.Flags().String(f.name, "", f.usage)
	}
}

// ClientCmd returns the client command
func ClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients of the current company",
	}

	cmd.AddCommand(clientListCmd())
	cmd.AddCommand(clientShowCmd())
	cmd.AddCommand(clientCreateCmd())
	cmd.AddCommand(clientUpdateCmd())
	cmd.AddCommand(clientDeleteCmd())

	return cmd
}

func clientListCmd() *cobra.Command {
	var filters primary.ClientFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			_, err = c.ClientAdapter(cmd.OutOrStdout()).List(cmd.Context(), filters)
			return err
		},
	}

	cmd.Flags().StringVar(&filters.Status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&filters.Type, "type", "", "Filter by type")
	cmd.Flags().StringVarP(&filters.Search, "search", "s", "", "Match name, email or phone")
	return cmd
}

func clientShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [client-id]",
		Short: "Show client details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			_, err = c.ClientAdapter(cmd.OutOrStdout()).Show(cmd.Context(), args[0])
			return err
		},
	}
}

func clientCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a client",
		Long: `Create a client in the current company.

Examples:
  crm client create --name "Padaria Central" --type company --email contato@padaria.com
  crm client create --name "Maria Silva" --type individual --status prospect`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			get := func(name string) string {
				v, _ := cmd.Flags().GetString(name)
				return v
			}
			req := primary.CreateClientRequest{
				Type:     get("type"),
				Name:     get("name"),
				Email:    get("email"),
				Phone:    get("phone"),
				Document: get("document"),
				Address:  get("address"),
				City:     get("city"),
				State:    get("state"),
				ZipCode:  get("zip"),
				Category: get("category"),
				Status:   get("status"),
				Notes:    get("notes"),
			}
			_, err = c.ClientAdapter(cmd.OutOrStdout()).Create(cmd.Context(), req)
			return err
		},
	}

	addClientFlags(cmd)
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("type")
	return cmd
}

func clientUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [client-id]",
		Short: "Update a client",
		Long: `Update a client. Only the flags you pass are changed; pass an empty
value to clear an optional field.

Examples:
  crm client update 1f0c... --status inactive
  crm client update 1f0c... --phone ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			req := primary.UpdateClientRequest{
				ClientID: args[0],
				Type:     changedString(cmd, "type"),
				Name:     changedString(cmd, "name"),
				Email:    changedString(cmd, "email"),
				Phone:    changedString(cmd, "phone"),
				Document: changedString(cmd, "document"),
				Address:  changedString(cmd, "address"),
				City:     changedString(cmd, "city"),
				State:    changedString(cmd, "state"),
				ZipCode:  changedString(cmd, "zip"),
				Category: changedString(cmd, "category"),
				Status:   changedString(cmd, "status"),
				Notes:    changedString(cmd, "notes"),
			}
			_, err = c.ClientAdapter(cmd.OutOrStdout()).Update(cmd.Context(), req)
			return err
		},
	}

	addClientFlags(cmd)
	return cmd
}

func clientDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [client-id]",
		Short: "Delete a client and its proposals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			return c.ClientAdapter(cmd.OutOrStdout()).Delete(cmd.Context(), args[0])
		},
	}
}

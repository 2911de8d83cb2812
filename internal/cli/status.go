package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/crm/internal/db"
	"github.com/example/crm/internal/metrics"
	"github.com/example/crm/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	var showMetrics bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration, session and current company",
		Long: `Show where crm is pointed, who is signed in and which company is current.

With --metrics, also print the backend call metrics gathered by this run in
the Prometheus text format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			path, err := wire.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Config:  %s\n", path)
			if c.Config.IsLocal() {
				fmt.Fprintln(out, "Backend: local")
			} else {
				fmt.Fprintf(out, "Backend: remote (%s)\n", c.Config.Backend.URL)
			}
			schema, err := db.SchemaVersion(c.DB)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Store:   %s (schema v%d)\n", c.Config.Store.Path, schema)

			user := c.Auth.CurrentUser()
			if user == nil {
				fmt.Fprintln(out, "User:    not signed in")
			} else {
				fmt.Fprintf(out, "User:    %s\n", user.Email)
			}

			if current := c.Companies.Current(); current != nil {
				role := ""
				if p := c.Companies.CurrentProfile(); p != nil {
					role = " as " + p.Role
				}
				fmt.Fprintf(out, "Company: %s%s\n", current.Name, role)

				unread, err := c.Notifications.UnreadCount(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Unread:  %d\n", unread)
			} else if user != nil {
				fmt.Fprintln(out, "Company: none")
			}

			if showMetrics {
				fmt.Fprintln(out)
				return metrics.WriteText(out, c.Registry)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print backend call metrics")
	return cmd
}

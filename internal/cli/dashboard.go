package cli

import (
	"github.com/spf13/cobra"
)

// DashboardCmd returns the dashboard command
func DashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show client, proposal and task counts for the current company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			name := ""
			if current := c.Companies.Current(); current != nil {
				name = current.Name
			}
			_, err = c.DashboardAdapter(cmd.OutOrStdout()).Show(cmd.Context(), name)
			return err
		},
	}
}

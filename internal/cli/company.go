package cli

import (
	"github.com/spf13/cobra"
)

// CompanyCmd returns the company command
func CompanyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "List and switch between your companies",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List companies you belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			c.CompanyAdapter(cmd.OutOrStdout()).List()
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "current",
		Short: "Show the current company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			_, err = c.CompanyAdapter(cmd.OutOrStdout()).Current()
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "switch [company-id]",
		Short: "Make another company current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			return c.CompanyAdapter(cmd.OutOrStdout()).Switch(cmd.Context(), args[0])
		},
	})

	return cmd
}

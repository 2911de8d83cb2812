// Package cli defines the crm cobra commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/crm/internal/logging"
	"github.com/example/crm/internal/version"
	"github.com/example/crm/internal/wire"
)

// container returns the wired services. Tests replace it.
var container = func(ctx context.Context) (*wire.Container, error) {
	return wire.Default(ctx)
}

// services returns the container and puts its logger on the command
// context for the calls that follow.
func services(cmd *cobra.Command) (*wire.Container, error) {
	c, err := container(cmd.Context())
	if err != nil {
		return nil, err
	}
	cmd.SetContext(logging.NewContextWithLogger(cmd.Context(), c.Log))
	return c, nil
}

// RootCmd returns the crm root command with every subcommand attached.
func RootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:     "crm",
		Short:   "CRM - clients, proposals and tasks for your companies",
		Version: version.String(),
		Long: `crm is a command line client for a multi-tenant CRM.
It talks to a hosted backend, or to a local sqlite file in local mode.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if configPath != "" {
				wire.SetConfigPath(configPath)
			}
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.crm/config.yaml)")

	// Session
	cmd.AddCommand(LoginCmd())
	cmd.AddCommand(RegisterCmd())
	cmd.AddCommand(LogoutCmd())
	cmd.AddCommand(ResetPasswordCmd())
	cmd.AddCommand(WhoAmICmd())

	// Tenancy and records
	cmd.AddCommand(CompanyCmd())
	cmd.AddCommand(ClientCmd())
	cmd.AddCommand(ProposalCmd())
	cmd.AddCommand(TaskCmd())
	cmd.AddCommand(NotificationCmd())
	cmd.AddCommand(DashboardCmd())

	// Setup
	cmd.AddCommand(InitCmd())
	cmd.AddCommand(StatusCmd())

	return cmd
}

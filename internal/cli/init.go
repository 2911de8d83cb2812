package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/crm/internal/config"
	"github.com/example/crm/internal/db"
	"github.com/example/crm/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var mode, url, anonKey, storePath string
	var seed, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the config file and prepare the local store",
		Long: `Write ~/.crm/config.yaml (unless it exists) and create or migrate the
local sqlite store. The store keeps your session in every mode and all data
in local mode.

Examples:
  crm init --url https://project.example.co --anon-key eyJ...
  crm init --mode local --seed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			path, err := wire.ConfigPath()
			if err != nil {
				return err
			}

			_, statErr := os.Stat(path)
			exists := statErr == nil
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if exists && !force {
				fmt.Fprintf(out, "Using existing config at %s\n", path)
			} else {
				if cmd.Flags().Changed("mode") {
					cfg.Backend.Mode = mode
				}
				if url != "" {
					cfg.Backend.URL = url
				}
				if anonKey != "" {
					cfg.Backend.AnonKey = anonKey
				}
				if storePath != "" {
					cfg.Store.Path = storePath
				}
				if err := cfg.Validate(); err != nil {
					return err
				}
				if err := cfg.Save(path); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Wrote config to %s\n", path)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			database, err := db.Open(cfg.Store.Path, nil)
			if err != nil {
				return err
			}
			defer database.Close()

			schema, err := db.SchemaVersion(database)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Store ready at %s (schema v%d)\n", cfg.Store.Path, schema)

			if seed {
				if !cfg.IsLocal() {
					return errors.New("demo data can only be seeded in local mode (use --mode local)")
				}
				res, err := db.SeedDemo(database, time.Now())
				if err != nil {
					return err
				}
				if res.Skipped {
					fmt.Fprintln(out, "✓ Demo data already present")
				} else {
					fmt.Fprintln(out, "✓ Seeded demo company")
				}
				fmt.Fprintf(out, "  Login: crm login --email %s --password %s\n", db.DemoEmail, db.DemoPassword)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  crm login --email you@example.com")
			fmt.Fprintln(out, "  crm dashboard")
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", config.ModeRemote, "Backend mode: remote or local")
	cmd.Flags().StringVar(&url, "url", "", "Backend project URL")
	cmd.Flags().StringVar(&anonKey, "anon-key", "", "Backend anonymous key")
	cmd.Flags().StringVar(&storePath, "store", "", "Local store path")
	cmd.Flags().BoolVar(&seed, "seed", false, "Load the demo company (local mode only)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

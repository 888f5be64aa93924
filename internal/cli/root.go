// Package cli implements the crmmeta command-line interface: serving the
// HTTP API, running database migrations, and seeding demo data.
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Execute runs the crmmeta CLI.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "crmmeta",
		Short:        "crmmeta serves CRM doctype metadata and field layouts",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newMigrateCmd(&configPath))
	root.AddCommand(newSeedCmd(&configPath))

	return root.ExecuteContext(ctx)
}

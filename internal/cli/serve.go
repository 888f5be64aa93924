package cli

import (
	"github.com/spf13/cobra"

	"github.com/lethang/crmmeta/internal/config"
	"github.com/lethang/crmmeta/internal/db"
	"github.com/lethang/crmmeta/internal/server"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			sqldb, err := db.Open(ctx, cfg.Database.Path)
			if err != nil {
				return err
			}
			defer sqldb.Close()
			if err := db.Migrate(sqldb); err != nil {
				return err
			}
			return server.Run(ctx, cfg, sqldb)
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/lethang/crmmeta/internal/config"
	"github.com/lethang/crmmeta/internal/db"
	"github.com/lethang/crmmeta/internal/layout"
	"github.com/lethang/crmmeta/internal/meta"
	"github.com/lethang/crmmeta/internal/seed"
)

func newSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed demo CRM doctypes and layouts",
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
			return seed.Seed(ctx, meta.NewSQLiteStore(sqldb), layout.NewSQLiteStore(sqldb))
		},
	}
}

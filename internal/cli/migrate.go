package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lethang/crmmeta/internal/config"
	"github.com/lethang/crmmeta/internal/db"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
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
			version, dirty, err := db.Version(sqldb)
			if err != nil {
				return err
			}
			log.Info("migrations applied", "version", version, "dirty", dirty)
			return nil
		},
	}
}

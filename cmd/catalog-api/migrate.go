package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cinefavs/catalog-api/internal/infrastructure/config"
	"github.com/cinefavs/catalog-api/internal/infrastructure/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Apply, roll back or report the schema version",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{db.MigrateUp, db.MigrateDown, db.MigrateVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			v, err := db.Migrate(ctx, cfg.Store, args[0], log)
			if err != nil {
				return fmt.Errorf("migrate %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema at version %d\n", cfg.Store.Driver, v)
			return nil
		},
	}
}

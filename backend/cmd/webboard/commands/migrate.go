package commands

import (
	"fmt"

	"github.com/mosacup/webboard/backend/internal/storage/pg"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			storage, err := pg.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer storage.Cleanup()

			if err := pg.ApplyMigrations(cmd.Context(), storage.DB()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			return nil
		},
	}
}

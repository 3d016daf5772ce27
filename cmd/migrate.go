package cmd

import (
	"freight/internal/adapters/out/postgres"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the loads, shipments and outbox_events tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, _, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer root.Close()

			if err = postgres.Migrate(root.gormDB); err != nil {
				return err
			}
			logger.Info("schema migrated")
			return nil
		},
	}
}

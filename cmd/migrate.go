package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/abang/internal/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Run: func(cmd *cobra.Command, _ []string) {
		runMigrate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().Int("down", 0, "roll back the given number of migrations instead")
}

func runMigrate(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := bootstrap()

	if steps, _ := cmd.Flags().GetInt("down"); steps > 0 {
		if err := postgres.Rollback(ctx, config.Database, steps, logger); err != nil {
			logger.Fatal("rolling back", zap.Error(err))
		}
		return
	}

	if err := postgres.Migrate(ctx, config.Database, logger); err != nil {
		logger.Fatal("migrating database", zap.Error(err))
	}
}

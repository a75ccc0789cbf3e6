package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/abang/internal/policy"
	"github.com/spigell/abang/internal/postgres"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates <finder-request-id>",
	Short: "List stored listings that fit a finder request budget",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		candidates(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(candidatesCmd)

	candidatesCmd.Flags().IntP("limit", "l", 0, "maximum number of candidates, 0 means no limit")
}

func candidates(cmd *cobra.Command, rawID string) {
	ctx := context.Background()

	logger, config := bootstrap()

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		logger.Fatal("invalid finder request id", zap.String("id", rawID), zap.Error(err))
	}
	limit, _ := cmd.Flags().GetInt("limit")

	db, err := openDatabase(ctx, config, logger)
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}
	defer db.Close()

	budget, err := policy.NewBudgetFilterPolicy(config.Policy.BudgetMarginRatio)
	if err != nil {
		logger.Fatal("budget policy", zap.Error(err))
	}

	svc := policy.NewService(postgres.NewFinderRequestRepository(db), postgres.NewCandidateRepository(db, logger), budget, logger)

	result, err := svc.Execute(ctx, policy.Command{FinderRequestID: id, Limit: limit})
	if err != nil {
		logger.Fatal("selecting candidates", zap.Error(err))
	}

	printJSON(result)
}

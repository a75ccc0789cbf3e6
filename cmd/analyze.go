package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/abang/internal/analysis"
	"github.com/spigell/abang/internal/postgres"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score an address by building risk or price",
}

var analyzeRiskCmd = &cobra.Command{
	Use:   "risk <address>",
	Short: "Calculate and store the risk score of an address",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		analyzeRisk(args[0])
	},
}

var analyzePriceCmd = &cobra.Command{
	Use:   "price <address>",
	Short: "Compare a price with recent transactions around an address",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyzePrice(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.AddCommand(analyzeRiskCmd, analyzePriceCmd)

	analyzePriceCmd.Flags().String("deal-type", "전세", "transaction type to compare with")
	analyzePriceCmd.Flags().Float64("price", 0, "price of the listing")
	analyzePriceCmd.Flags().Float64("area", 0, "area of the listing")
}

func analysisDeps(ctx context.Context) (*zap.Logger, *analysis.Static, *postgres.HistoryRepository, func()) {
	logger, config := bootstrap()

	static, err := analysis.NewStatic(config.Analysis)
	if err != nil {
		logger.Fatal("analysis reference data", zap.Error(err))
	}

	db, err := openDatabase(ctx, config, logger)
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}

	return logger, static, postgres.NewHistoryRepository(db), func() { db.Close() }
}

func analyzeRisk(address string) {
	ctx := context.Background()

	logger, static, history, closeDB := analysisDeps(ctx)
	defer closeDB()

	score, err := analysis.NewRiskAnalyzer(static, static, history, logger).Execute(ctx, address)
	if err != nil {
		logger.Fatal("risk analysis failed", zap.String("address", address), zap.Error(err))
	}

	printJSON(score)
}

func analyzePrice(cmd *cobra.Command, address string) {
	ctx := context.Background()

	logger, static, history, closeDB := analysisDeps(ctx)
	defer closeDB()

	q := analysis.PriceQuery{Address: address}
	q.DealType, _ = cmd.Flags().GetString("deal-type")
	q.Price, _ = cmd.Flags().GetFloat64("price")
	q.Area, _ = cmd.Flags().GetFloat64("area")

	score, err := analysis.NewPriceAnalyzer(static, static, history, logger).Execute(ctx, q)
	if err != nil {
		logger.Fatal("price analysis failed", zap.String("address", address), zap.Error(err))
	}

	printJSON(score)
}

func printJSON(v any) {
	pretty, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(pretty))
}

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/abang/internal/filtering"
	"github.com/spigell/abang/internal/houseplatform"
	"github.com/spigell/abang/internal/ingest"
	"github.com/spigell/abang/internal/postgres"
)

const (
	PromptYes  = "Yes"
	PromptNo   = "No"
	PromptShow = "Show listings"
)

var prompt = promptui.Select{
	Label: "Store listings?",
	Items: []string{PromptYes, PromptNo, PromptShow},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch Zigbang listings and store them",
	Run: func(cmd *cobra.Command, _ []string) {
		runIngest(cmd)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringSlice("item-id", nil, "zigbang item id to fetch (repeatable). Defaults to ingest.item-ids")
	ingestCmd.Flags().StringSlice("region", nil, "keep only listings whose address contains the region (repeatable). Defaults to zigbang.region-filters")
	ingestCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before storing")
	ingestCmd.Flags().BoolP("refresh", "f", false, "update listings that are already stored")
	ingestCmd.Flags().StringP("exclude-file", "e", "", "file with registration numbers to skip. Defaults to ingest.exclude-file")
}

func runIngest(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := bootstrap()

	itemIDs := config.Ingest.ItemIDs
	if ids, _ := cmd.Flags().GetStringSlice("item-id"); len(ids) > 0 {
		itemIDs = make([]any, 0, len(ids))
		for _, id := range ids {
			itemIDs = append(itemIDs, id)
		}
	}
	if regions, _ := cmd.Flags().GetStringSlice("region"); len(regions) > 0 {
		config.Zigbang.RegionFilters = regions
	}

	excludeFile, _ := cmd.Flags().GetString("exclude-file")

	db, err := openDatabase(ctx, config, logger)
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}
	defer db.Close()

	svc, err := newIngestService(config, postgres.NewHousePlatformRepository(db, logger), nil, logger, ingestOptions{ExcludeFile: excludeFile})
	if err != nil {
		logger.Fatal("preparing ingestion", zap.Error(err))
	}

	if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
		filtering.DisableByName(svc.Filters(), filtering.StoredName, "disabled by --refresh flag")
	}
	logFilters(logger, svc.Filters())

	command := ingest.Command{ItemIDs: itemIDs}
	if approve, _ := cmd.Flags().GetBool("auto-approve"); !approve {
		command.Confirm = confirm(logger)
	}

	result, err := svc.Execute(ctx, command)
	if errors.Is(err, ingest.ErrDeclined) {
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return
	}
	if err != nil {
		logger.Fatal("ingestion failed", zap.Error(err))
	}

	logger.Info("ingestion finished",
		zap.Int("fetched", result.Fetched),
		zap.Int("stored", result.Stored),
		zap.Int("skipped", result.Skipped),
		zap.Strings("errors", result.Errors),
	)
}

// confirm asks before storing. Showing the listings returns to the prompt.
func confirm(logger *zap.Logger) func(context.Context, []*houseplatform.Bundle) (bool, error) {
	return func(_ context.Context, bundles []*houseplatform.Bundle) (bool, error) {
		logger.Info("current list of listings", zap.Int("count", len(bundles)))

		for {
			_, action, err := prompt.Run()
			if err != nil {
				return false, err
			}

			switch action {
			case PromptYes:
				return true, nil
			case PromptNo:
				return false, nil
			case PromptShow:
				pretty, _ := json.MarshalIndent(bundles, "", "  ")
				logger.Info(string(pretty), zap.Int("listings count", len(bundles)))
			default:
				return false, fmt.Errorf("invalid action: %s", action)
			}
		}
	}
}

func logFilters(logger *zap.Logger, steps []filtering.Filter) {
	for _, status := range filtering.Describe(steps) {
		logger.Info("filter",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}
}

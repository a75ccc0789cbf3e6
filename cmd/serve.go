package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/abang/internal/httpapi"
	"github.com/spigell/abang/internal/postgres"
	"github.com/spigell/abang/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the ingestion schedule",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Bool("migrate", false, "apply database migrations before serving")
}

func serve(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := bootstrap()
	logger.Info("starting abang", zap.String("version", version))

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := postgres.Migrate(ctx, config.Database, logger); err != nil {
			logger.Fatal("migrating database", zap.Error(err))
		}
	}

	svc, err := buildServices(ctx, config, logger, ingestOptions{})
	if err != nil {
		logger.Fatal("building services", zap.Error(err))
	}
	defer svc.db.Close()

	deps := httpapi.Deps{
		Risk:       svc.risk,
		Price:      svc.price,
		Candidates: svc.candidates,
		Ingest:     svc.ingest,
		Phone:      svc.phone,
		Metrics:    svc.metrics,
		Logger:     logger,
	}
	if svc.chatbot != nil {
		deps.Chatbot = svc.chatbot
	}

	if config.Ingest.Schedule != "" {
		sched := scheduler.New(logger, svc.metrics)
		if err := sched.AddJob(config.Ingest.Schedule, scheduler.NewIngestJob(svc.ingest, config.Ingest.ItemIDs, logger)); err != nil {
			logger.Fatal("scheduling ingestion", zap.Error(err))
		}
		sched.Start(ctx)
		defer sched.Stop()
	}

	if err := httpapi.Serve(ctx, config.HTTP, httpapi.NewRouter(deps), logger); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}
}

package cmd

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/abang/internal/ai/gemini"
	"github.com/spigell/abang/internal/analysis"
	"github.com/spigell/abang/internal/chatbot"
	"github.com/spigell/abang/internal/filtering"
	"github.com/spigell/abang/internal/houseplatform"
	"github.com/spigell/abang/internal/ingest"
	"github.com/spigell/abang/internal/logger"
	"github.com/spigell/abang/internal/metrics"
	"github.com/spigell/abang/internal/policy"
	"github.com/spigell/abang/internal/postgres"
	"github.com/spigell/abang/internal/secrets"
	"github.com/spigell/abang/internal/user"
	"github.com/spigell/abang/internal/zigbang"
)

const geminiKeyEnv = "GEMINI_API_KEY"

// services holds the use cases built over one connection pool.
type services struct {
	db         *sql.DB
	metrics    *metrics.Metrics
	risk       *analysis.RiskAnalyzer
	price      *analysis.PriceAnalyzer
	candidates *policy.Service
	ingest     *ingest.Service
	phone      *user.PhoneService
	// chatbot is nil when it is disabled or misconfigured.
	chatbot *chatbot.Service
}

type ingestOptions struct {
	ExcludeFile string
}

// bootstrap builds the logger and reads the configuration, exiting on failure.
func bootstrap() (*zap.Logger, *Config) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		l.Fatal("config is required")
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	l.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return l, config
}

func redacted(config *Config) Config {
	c := *config
	if c.Database.Password != "" {
		c.Database.Password = "***"
	}
	if c.Chatbot.Gemini != nil && c.Chatbot.Gemini.APIKey != "" {
		g := *c.Chatbot.Gemini
		g.APIKey = "***"
		c.Chatbot.Gemini = &g
	}
	return c
}

func openDatabase(ctx context.Context, config *Config, l *zap.Logger) (*sql.DB, error) {
	db, err := postgres.Open(ctx, config.Database, l)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

func buildServices(ctx context.Context, config *Config, l *zap.Logger, opts ingestOptions) (*services, error) {
	db, err := openDatabase(ctx, config, l)
	if err != nil {
		return nil, err
	}

	svc := &services{db: db, metrics: metrics.New(true)}

	static, err := analysis.NewStatic(config.Analysis)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("analysis reference data: %w", err)
	}
	history := postgres.NewHistoryRepository(db)
	svc.risk = analysis.NewRiskAnalyzer(static, static, history, l)
	svc.price = analysis.NewPriceAnalyzer(static, static, history, l)

	budget, err := policy.NewBudgetFilterPolicy(config.Policy.BudgetMarginRatio)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("budget policy: %w", err)
	}
	svc.candidates = policy.NewService(
		postgres.NewFinderRequestRepository(db),
		postgres.NewCandidateRepository(db, l),
		budget,
		l,
	)

	svc.ingest, err = newIngestService(config, postgres.NewHousePlatformRepository(db, l), svc.metrics, l, opts)
	if err != nil {
		db.Close()
		return nil, err
	}

	svc.phone = user.NewPhoneService(postgres.NewUserRepository(db))
	svc.chatbot = newChatbot(ctx, config, l)

	return svc, nil
}

func newIngestService(config *Config, repo houseplatform.Repository, recorder ingest.Recorder, l *zap.Logger, opts ingestOptions) (*ingest.Service, error) {
	excludeFile := opts.ExcludeFile
	if excludeFile == "" {
		excludeFile = config.Ingest.ExcludeFile
	}

	filters := []filtering.Filter{
		filtering.NewDuplicates(),
		filtering.NewStored(&filtering.StoredDeps{
			Repo:     repo,
			DomainID: houseplatform.DomainZigbang,
			Logger:   l,
		}),
	}
	if excludeFile != "" {
		filters = append(filters, filtering.NewExcludeFile(excludeFile))
	}

	client := zigbang.New(l, config.Zigbang.Config)

	svc, err := ingest.NewService(ingest.Deps{
		Converter: zigbang.NewAdapter(client, l),
		Repo:      repo,
		Filters:   filters,
		Recorder:  recorder,
		Logger:    l,
	}, config.Zigbang.RegionFilters)
	if err != nil {
		return nil, fmt.Errorf("ingest service: %w", err)
	}

	return svc, nil
}

// newChatbot returns nil when the chatbot is disabled or cannot be built;
// the rest of the application keeps running.
func newChatbot(ctx context.Context, config *Config, l *zap.Logger) *chatbot.Service {
	if !config.Chatbot.Enabled {
		l.Info("chatbot disabled")
		return nil
	}

	gc := config.Chatbot.Gemini
	if gc == nil {
		gc = &GeminiConfig{}
	}

	key, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gc.APIKey,
		File:  gc.APIKeyFile,
		Env:   geminiKeyEnv,
	})
	if err != nil {
		l.Warn("chatbot unavailable", zap.Error(err))
		return nil
	}

	generator, err := gemini.NewGenerator(ctx, key, gc.Model, l)
	if err != nil {
		l.Warn("chatbot unavailable", zap.Error(err))
		return nil
	}

	return chatbot.NewService(gemini.NewReasoner(generator, l, gc.MaxLogLength), l)
}

package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/abang/internal/analysis"
	"github.com/spigell/abang/internal/httpapi"
	"github.com/spigell/abang/internal/policy"
	"github.com/spigell/abang/internal/postgres"
	"github.com/spigell/abang/internal/zigbang"
)

const (
	app       = "abang"
	envPrefix = "ABANG"
)

type Config struct {
	Database postgres.Config       `mapstructure:"database"`
	HTTP     httpapi.Config        `mapstructure:"http"`
	Zigbang  ZigbangConfig         `mapstructure:"zigbang"`
	Policy   PolicyConfig          `mapstructure:"policy"`
	Ingest   IngestConfig          `mapstructure:"ingest"`
	Analysis analysis.StaticConfig `mapstructure:"analysis"`
	Chatbot  ChatbotConfig         `mapstructure:"chatbot"`
}

type ZigbangConfig struct {
	zigbang.Config `mapstructure:",squash"`
	RegionFilters  []string `mapstructure:"region-filters"`
}

type PolicyConfig struct {
	BudgetMarginRatio float64 `mapstructure:"budget-margin-ratio"`
}

type IngestConfig struct {
	// Schedule enables periodic ingestion in serve mode. Empty disables it.
	Schedule    string `mapstructure:"schedule"`
	ItemIDs     []any  `mapstructure:"item-ids"`
	ExcludeFile string `mapstructure:"exclude-file"`
}

type ChatbotConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "abang is a student housing backend: listing ingestion, scoring and candidate search",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is abang.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", app)
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", app)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max-open-conns", 10)
	v.SetDefault("database.max-idle-conns", 5)
	v.SetDefault("http.addr", httpapi.DefaultAddr)
	v.SetDefault("zigbang.region-filters", []string{})
	v.SetDefault("policy.budget-margin-ratio", policy.DefaultBudgetMarginRatio)
	v.SetDefault("ingest.schedule", "")
	v.SetDefault("chatbot.enabled", false)
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("chatbot.gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// An explicit config must parse; the default one is optional.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ProductionBaseURL is the live Up API; UP_API_BASE_URL points dev and test
// environments at a mock server instead.
const ProductionBaseURL = "https://api.up.com.au/api/v1"

// Config holds application configuration.
type Config struct {
	DatabaseURL         string
	UpToken             string
	UpAPIBaseURL        string
	SyncTimeout         time.Duration
	DefaultLookbackDays int
}

// LoadConfig loads configuration from environment variables and .env file if
// present. Values are consumed here once and passed into constructors; nothing
// reads the environment after startup.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("UP_TOKEN", "")
	viper.SetDefault("UP_API_BASE_URL", ProductionBaseURL)
	viper.SetDefault("SYNC_TIMEOUT", "10m")
	viper.SetDefault("DEFAULT_LOOKBACK_DAYS", 30)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL environment variable not set")
	}

	cfg.UpToken = viper.GetString("UP_TOKEN")
	if cfg.UpToken == "" {
		return nil, fmt.Errorf("UP_TOKEN environment variable not set")
	}

	cfg.UpAPIBaseURL = viper.GetString("UP_API_BASE_URL")
	if cfg.UpAPIBaseURL == ProductionBaseURL {
		log.Println("UP_API_BASE_URL not overridden; using the production Up API.")
	}

	syncTimeoutStr := viper.GetString("SYNC_TIMEOUT")
	syncTimeout, err := time.ParseDuration(syncTimeoutStr)
	if err != nil {
		syncTimeout = 10 * time.Minute
		log.Printf("Warning: Invalid value for SYNC_TIMEOUT ('%s'). Defaulting to %s.\n", syncTimeoutStr, syncTimeout)
	}
	cfg.SyncTimeout = syncTimeout

	cfg.DefaultLookbackDays = viper.GetInt("DEFAULT_LOOKBACK_DAYS")
	if cfg.DefaultLookbackDays <= 0 {
		cfg.DefaultLookbackDays = 30
		log.Println("Warning: Invalid value for DEFAULT_LOOKBACK_DAYS. Defaulting to 30.")
	}

	return cfg, nil
}

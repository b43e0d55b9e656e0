package config

import (
	"fmt"
	"os"

	"github.com/assemned1000/teamgestion-sub000/billing"
)

// Config holds application configuration.
type Config struct {
	Port            string
	DBPath          string
	LogLevel        string
	RateFeedURL     string // empty disables the live feed
	RateRefreshCron string
	DisplayCurrency billing.Currency
}

// New loads configuration from environment variables.
func New() (*Config, error) {
	display, err := billing.ParseCurrencyStrict(getEnv("DISPLAY_CURRENCY", "dzd"))
	if err != nil {
		return nil, fmt.Errorf("DISPLAY_CURRENCY: %w", err)
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "teamgestion.db"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		RateFeedURL:     getEnv("RATE_FEED_URL", ""),
		RateRefreshCron: getEnv("RATE_REFRESH_CRON", "0 6 * * *"),
		DisplayCurrency: display,
	}

	if cfg.DBPath == "" {
		return nil, fmt.Errorf("DB_PATH is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

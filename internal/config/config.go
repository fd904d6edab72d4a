// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"gitlab.com/agrofinance/agrofinance/internal/plan"
)

// Config holds all configuration for the application.
type Config struct {
	DatabaseURL   string
	ListenAddr    string
	LogLevel      string
	LogJSON       bool
	DefaultPlanID string
	AccountName   string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		ListenAddr:    os.Getenv("LISTEN_ADDR"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogJSON:       os.Getenv("LOG_FORMAT") == "json",
		DefaultPlanID: os.Getenv("DEFAULT_PLAN_ID"),
		AccountName:   os.Getenv("ACCOUNT_NAME"),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DefaultPlanID == "" {
		cfg.DefaultPlanID = plan.Free
	}
	if cfg.AccountName == "" {
		cfg.AccountName = "Minha Fazenda"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	if known := plan.Find(c.DefaultPlanID); known.ID != c.DefaultPlanID {
		errs = append(errs, fmt.Sprintf("DEFAULT_PLAN_ID %q is not a known plan", c.DefaultPlanID))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// Package main is the entry point for the Agrofinance cost-tracking service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitlab.com/agrofinance/agrofinance/internal/config"
	"gitlab.com/agrofinance/agrofinance/internal/database"
	"gitlab.com/agrofinance/agrofinance/internal/httpapi"
	"gitlab.com/agrofinance/agrofinance/internal/logger"
	"gitlab.com/agrofinance/agrofinance/internal/repository"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("agrofinance %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.SetLevel(cfg.LogLevel)
	if cfg.LogJSON {
		logger.SetJSON()
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	account, err := repository.NewAccountRepository(pool).GetOrCreateDefault(ctx, cfg.AccountName, cfg.DefaultPlanID)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to resolve account")
	}

	logger.Log.Info().
		Str("account_id", account.ID).
		Str("plan_id", account.PlanID).
		Msg("Database initialized successfully")

	server := httpapi.NewServer(cfg.ListenAddr, pool, account.ID)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error().Err(err).Msg("Shutdown error")
		}
		cancel()
	}()

	logger.Log.Info().Str("addr", cfg.ListenAddr).Msg("Listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal().Err(err).Msg("Server error")
	}
}

/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the proration and valuation engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and read environment configuration
  2. Configure structured logging
  3. Initialize SQLite store
  4. Create API handler with dependencies
  5. Start the rate refresher if a feed URL is configured
  6. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the rate refresh schedule
  4. Close database connection
  5. Exit

ENVIRONMENT:
  PORT               HTTP server port (default: 8080)
  DB_PATH            SQLite database path (default: teamgestion.db)
                     Use ":memory:" for an in-memory database
  LOG_LEVEL          logrus level name (default: INFO)
  DISPLAY_CURRENCY   default display currency (default: dzd)
  RATE_FEED_URL      XML rate feed; empty disables the refresher
  RATE_REFRESH_CRON  refresh schedule (default: "0 6 * * *")

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/assemned1000/teamgestion-sub000/api"
	"github.com/assemned1000/teamgestion-sub000/config"
	"github.com/assemned1000/teamgestion-sub000/rates"
	"github.com/assemned1000/teamgestion-sub000/store/sqlite"
)

func main() {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler and router
	handler := api.NewHandler(store, log, cfg.DisplayCurrency)
	router := api.NewRouter(handler)

	// Optional scheduled rate refresh
	var refresher *api.RateRefresher
	if cfg.RateFeedURL != "" {
		feed := rates.NewFeedClient(cfg.RateFeedURL, log)
		refresher = api.NewRateRefresher(feed, store, log)
		if err := refresher.Start(cfg.RateRefreshCron); err != nil {
			log.Fatalf("failed to start rate refresher: %v", err)
		}
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infof("server starting on http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	if refresher != nil {
		refresher.Stop()
	}

	log.Info("server stopped")
}

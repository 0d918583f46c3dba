/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the books engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env + environment variables)
  2. Configure structured logging
  3. Initialize SQLite store
  4. Build domain service, overdue sweeper, and auth provider
  5. Configure HTTP router
  6. Start server with graceful shutdown

CONFIGURATION (environment variables, see config/config.go):
  BOOKS_ADDR         Listen address (default: :8080)
  BOOKS_DB           SQLite database path (default: books.db)
                     Use ":memory:" for an in-memory database
  BOOKS_ENV          development | production
  BOOKS_LOG_LEVEL    logrus level (default: info)
  BOOKS_JWT_SECRET   Enables bearer-token auth when set
  BOOKS_TOKEN_HOURS  Token lifetime in hours (default: 24)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the overdue sweeper
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

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

	"github.com/sirupsen/logrus"

	"github.com/warp/books-engine/api"
	"github.com/warp/books-engine/auth"
	"github.com/warp/books-engine/books"
	"github.com/warp/books-engine/config"
	"github.com/warp/books-engine/store/sqlite"
)

func main() {
	// Configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	// Logging
	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	// Store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer store.Close()

	// Domain service
	service := books.NewService(store, log)

	// Overdue sweeper
	sweeper := books.NewOverdueSweeper(store, log)
	sweeper.Start()
	defer sweeper.Stop()

	// Auth provider (only when a secret is configured)
	var provider auth.Provider
	if cfg.JWTSecret != "" {
		users := []auth.Credential{
			{
				User:     auth.User{ID: "admin", Email: "admin@books.local", Role: "admin"},
				Password: os.Getenv("BOOKS_ADMIN_PASSWORD"),
			},
		}
		provider = auth.NewJWTProvider(cfg.JWTSecret, time.Duration(cfg.TokenHours)*time.Hour, users)
		log.Info("bearer-token auth enabled")
	} else {
		log.Warn("no JWT secret configured, API is open")
	}

	// Router and server
	handler := api.NewHandler(service, store, provider, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithField("addr", cfg.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server stopped")
}

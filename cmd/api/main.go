package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wonny/stocktracker/internal/api"
	"github.com/wonny/stocktracker/internal/infra/store"
	"github.com/wonny/stocktracker/internal/pkg/config"
	"github.com/wonny/stocktracker/internal/pkg/logger"
	"github.com/wonny/stocktracker/internal/service/seed"
	stocksvc "github.com/wonny/stocktracker/internal/service/stock"
)

const (
	serviceName    = "stocktracker-api"
	serviceVersion = "1.0.0"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:          cfg.Logging.Level,
		Format:         cfg.Logging.Format,
		FileEnabled:    cfg.Logging.FileEnabled,
		FilePath:       cfg.Logging.FilePath,
		RotationSize:   cfg.Logging.RotationSize,
		RetentionDays:  cfg.Logging.RetentionDays,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("version", serviceVersion).
		Str("driver", cfg.Database.Driver).
		Msg("🚀 Starting Stock Tracker API Server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open store and bring the schema up to date
	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer st.Close()

	log.Info().Msg("✅ Database connected")

	applied, err := st.Migrate(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}
	log.Info().Int("applied", applied).Msg("✅ Schema up to date")

	if cfg.Seed.Enabled {
		positions, err := seed.Positions(cfg.Seed.File)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load seed positions")
		}
		if _, err := seed.NewSeeder(st.Stocks).Seed(ctx, positions); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed stocks")
		}
	}

	var accessLogger = log.Logger
	if cfg.Logging.FileEnabled {
		accessLogger = logger.NewAccessLogger(cfg.Logging.FilePath, cfg.Logging.RotationSize, cfg.Logging.RetentionDays)
	}

	router := api.NewRouter(api.Options{
		Backend:        st,
		Stocks:         stocksvc.NewService(st.Stocks),
		Version:        serviceVersion,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AccessLogger:   &accessLogger,
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", addr).
			Strs("allowed_origins", cfg.Server.AllowedOrigins).
			Msg("🎯 API Server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start API server")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("🛑 Shutdown signal received, stopping server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("👋 Stock Tracker API Server stopped")
}

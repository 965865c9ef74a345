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
	"github.com/wonny/stocktracker/internal/client"
	"github.com/wonny/stocktracker/internal/pkg/config"
	"github.com/wonny/stocktracker/internal/pkg/logger"
	"github.com/wonny/stocktracker/internal/web"
)

const (
	serviceName    = "stocktracker-web"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

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

	apiClient := client.New(cfg.Web.APIBaseURL, client.WithTimeout(cfg.Web.ClientTimeout))

	handler, err := web.NewHandler(apiClient, cfg.Web.Currency)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}

	addr := fmt.Sprintf(":%s", cfg.Web.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      web.NewRouter(handler, nil),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("address", addr).
			Str("api", cfg.Web.APIBaseURL).
			Msg("🎯 Web frontend listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start web server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("🛑 Shutdown signal received, stopping web server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Web server shutdown failed")
	}
}

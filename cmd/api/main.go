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

	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/spending-dashboard/internal/api"
	"github.com/dvloznov/spending-dashboard/internal/api/handlers"
	"github.com/dvloznov/spending-dashboard/internal/config"
	"github.com/dvloznov/spending-dashboard/internal/dashboard"
	"github.com/dvloznov/spending-dashboard/internal/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewFromConfig(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	svc, closeSource, err := dashboard.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open transaction source")
	}
	defer closeSource()

	transactionsHandler := handlers.NewTransactionsHandler(svc, cfg.UpstreamHint(), log)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(transactionsHandler, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout*time.Duration(cfg.UpstreamRetries+1) + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("port", cfg.Port).
			Str("data_source", cfg.DataSource).
			Str("database", cfg.TransactionsDatabase).
			Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		closeSource()
		os.Exit(1)
	}

	log.Info().Msg("Server exited")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"masarif/internal/backend"
	"masarif/internal/config"
	apphttp "masarif/internal/http"
	"masarif/internal/ledger"
	applog "masarif/internal/log"
	"masarif/internal/notify"
	"masarif/internal/rates"
	"masarif/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.Setup(applog.ComponentApp)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Fetch the conversion snapshot once at startup. The provider fails
	// open, so an unreachable endpoint leaves an empty table and amounts
	// pass through unconverted.
	provider := rates.NewProvider(cfg.RateEndpoint, cfg.BaseCurrency)
	provider.Fetch(ctx)

	factory := backend.NewFactory(logger)
	result, err := factory.CreateStore(ctx, backend.Config{
		Type:           backend.Type(cfg.DataBackend),
		SQLiteDBPath:   cfg.SQLiteDBPath,
		LedgerFilePath: cfg.LedgerFilePath,
	})
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Storage cleanup failed", "error", err)
			}
		}()
	}

	book, err := ledger.Open(ctx, result.Store)
	if err != nil {
		logger.Error("Failed to load ledger", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	// Reminder publishing is optional: without a broker the service still
	// normalizes and persists, it just cannot notify.
	var publisher services.ReminderPublisher
	if cfg.AMQPURL != "" {
		client, err := notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Reminder publishing disabled", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("Reminder publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	entries := services.NewEntryService(book, provider, publisher, cfg.ReminderRecipient)

	srv := apphttp.NewServer(":"+cfg.Port, entries)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting masarif server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"base_currency", cfg.BaseCurrency)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

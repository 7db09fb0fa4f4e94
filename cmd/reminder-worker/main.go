package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"masarif/internal/config"
	"masarif/internal/export"
	applog "masarif/internal/log"
	"masarif/internal/notify"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.Setup(applog.ComponentWorker)
	logger.Info("Starting reminder-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the reminder worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	// Mirroring reminders to a spreadsheet is optional.
	var exporter *export.SheetExporter
	if cfg.GoogleSpreadsheetID != "" {
		exporter, err = export.NewSheetExporter(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		logger.Info("Google Sheets mirror enabled",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
	} else {
		logger.Info("Google Sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return client.ConsumeReminders(gctx, func(msg *notify.ReminderMessage) error {
			logger.Info("Reminder due",
				applog.FieldEntryID, msg.EntryID,
				applog.FieldEntryName, msg.Name,
				applog.FieldRecipient, msg.Recipient,
				"link", whatsappLink(msg.Recipient, msg.Message))

			if exporter != nil {
				if err := exporter.Append(gctx, *msg); err != nil {
					return fmt.Errorf("mirror reminder: %w", err)
				}
			}
			return nil
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Reminder consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

// whatsappLink builds a click-to-chat URL for manual delivery.
func whatsappLink(recipient, message string) string {
	phone := strings.TrimPrefix(recipient, "+")
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message))
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	ports "fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/sheets/webapp"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting fintrack-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// SQLite journal holding the pending records
	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	// Upstream target: the web-app endpoint, or Google Sheets directly.
	upstream, err := newUpstream(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize upstream client", "error", err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	relay := worker.NewRelayWorker(sqliteRepo, upstream, upstream, cfg.SyncBatchSize)

	// On startup, mirror the catalog if the local cache is empty or stale.
	logger.Info("Checking category cache...")
	if err := relay.SyncCategoriesIfNeeded(ctx); err != nil {
		logger.Error("Failed to sync categories", "error", err)
		// Don't exit - continue with normal operation
	}

	// On startup, relay any pending records that might have been missed.
	logger.Info("Performing startup sync check...")
	if err := relay.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeRecordSync(gctx, func(msg *amqp.RecordSyncMessage) error {
			return relay.HandleSyncMessage(gctx, msg)
		})
	})

	// Periodic sweep for missed messages, plus a daily category refresh.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()

		categoryTicker := time.NewTicker(24 * time.Hour)
		defer categoryTicker.Stop()

		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := relay.ProcessPendingRecords(gctx); err != nil {
					logger.Error("Periodic sync failed", "error", err)
				}
			case <-categoryTicker.C:
				if err := relay.SyncCategoriesIfNeeded(gctx); err != nil {
					logger.Error("Periodic category refresh failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}

// upstreamClient is the combined surface the relay needs.
type upstreamClient interface {
	ports.RecordWriter
	ports.CatalogReader
}

func newUpstream(cfg *config.Config, logger *slog.Logger) (upstreamClient, error) {
	if cfg.EndpointURL != "" {
		cli, err := webapp.New(cfg.EndpointURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Webapp upstream initialized", "endpoint", cfg.EndpointURL)
		return cli, nil
	}

	cli, err := gsheet.NewFromEnv(context.Background())
	if err != nil {
		return nil, err
	}
	logger.Info("Google Sheets upstream initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return cli, nil
}

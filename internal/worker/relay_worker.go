// Package worker relays journaled records from the local SQLite journal to
// the upstream spreadsheet backend and keeps the local category cache fresh.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/sheets"
	"fintrack/internal/storage"
)

const maxCategoryCacheAge = 7 * 24 * time.Hour

// RelayWorker pushes pending journal records upstream and mirrors the
// upstream category catalog into the local cache.
type RelayWorker struct {
	storage   *storage.SQLiteRepository
	writer    sheets.RecordWriter
	catalog   sheets.CatalogReader
	batchSize int
}

func NewRelayWorker(storage *storage.SQLiteRepository, writer sheets.RecordWriter, catalog sheets.CatalogReader, batchSize int) *RelayWorker {
	return &RelayWorker{
		storage:   storage,
		writer:    writer,
		catalog:   catalog,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single record sync message from AMQP.
func (w *RelayWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	jr, err := w.storage.GetRecord(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get record from journal: %w", err)
	}

	if jr.Status == storage.SyncStatusSynced {
		slog.InfoContext(ctx, "Record already synced, skipping", "id", msg.ID)
		return nil
	}

	if err := w.relayRecord(ctx, jr); err != nil {
		return fmt.Errorf("relay record: %w", err)
	}
	return nil
}

// ProcessPendingRecords relays any records that haven't been synced yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *RelayWorker) ProcessPendingRecords(ctx context.Context) error {
	pending, err := w.storage.GetPendingRecords(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending records: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending records", "count", len(pending))

	for _, p := range pending {
		jr, err := w.storage.GetRecord(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get record", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}

		if err := w.relayRecord(ctx, jr); err != nil {
			slog.ErrorContext(ctx, "Failed to relay record", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck relays any pending records found at worker startup, to
// recover from missed AMQP messages or worker downtime.
func (w *RelayWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingRecords(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending records for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending records found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending records on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		jr, err := w.storage.GetRecord(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get record for startup sync",
				"id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			errorCount++
			continue
		}

		if err := w.relayRecord(ctx, jr); err != nil {
			slog.ErrorContext(ctx, "Failed to relay record during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}

		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

// SyncCategoriesIfNeeded mirrors the upstream catalog into the local cache.
// Invalidation: an empty cache always syncs; otherwise the cache refreshes
// once it is older than maxCategoryCacheAge.
func (w *RelayWorker) SyncCategoriesIfNeeded(ctx context.Context) error {
	count, err := w.storage.GetCategoryCount(ctx)
	if err != nil {
		return fmt.Errorf("check category count: %w", err)
	}

	if count == 0 {
		slog.InfoContext(ctx, "No categories in cache, loading from upstream...")
		return w.syncCategories(ctx)
	}

	lastSync, err := w.storage.GetCategoryLastSync(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Could not determine last sync time, keeping current cache", "error", err)
		return nil
	}

	cacheAge := time.Since(lastSync)
	if cacheAge > maxCategoryCacheAge {
		slog.InfoContext(ctx, "Category cache is stale, refreshing from upstream",
			"last_sync", lastSync.Format(time.RFC3339),
			"age", cacheAge.Round(time.Hour))
		return w.syncCategories(ctx)
	}

	slog.InfoContext(ctx, "Category cache is fresh",
		"count", count,
		"last_sync", lastSync.Format(time.RFC3339),
		"age", cacheAge.Round(time.Hour))

	return nil
}

// ForceRefreshCategories replaces the local category cache unconditionally.
func (w *RelayWorker) ForceRefreshCategories(ctx context.Context) error {
	slog.InfoContext(ctx, "Force refreshing categories from upstream")
	return w.syncCategories(ctx)
}

func (w *RelayWorker) syncCategories(ctx context.Context) error {
	entries, err := w.catalog.Categories(ctx)
	if err != nil {
		return fmt.Errorf("load categories from upstream: %w", err)
	}

	if err := w.storage.ReplaceCategories(ctx, entries); err != nil {
		return fmt.Errorf("replace category cache: %w", err)
	}

	slog.InfoContext(ctx, "Categories cached", "count", len(entries))
	return nil
}

func (w *RelayWorker) relayRecord(ctx context.Context, jr *storage.JournaledRecord) error {
	ref, err := w.writer.Append(ctx, jr.Record)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, jr.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", jr.ID, "error", markErr)
		}
		return fmt.Errorf("append upstream: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, jr.ID); err != nil {
		// The relay itself worked, don't fail the message.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", jr.ID, "error", err)
	}

	slog.InfoContext(ctx, "Record relayed upstream",
		"id", jr.ID,
		"upstream_ref", ref,
		"classification", jr.Record.Classification,
		"amount_cents", jr.Record.Amount.Cents)

	return nil
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// JournalService accepts records into the local SQLite journal and notifies
// the relay worker over AMQP. It implements sheets.RecordWriter so the
// submit flow does not know whether it posts upstream or queues locally.
type JournalService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewJournalService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *JournalService {
	return &JournalService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// Append journals the record locally and publishes a sync message.
func (s *JournalService) Append(ctx context.Context, rec core.TransactionRecord) (string, error) {
	// Journal first: fast and durable.
	ref, err := s.storage.Append(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("journal record: %w", err)
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse record ID", "ref", ref, "error", err)
		return ref, nil // the journal write succeeded
	}

	// Non-blocking notification; the periodic sweep picks up lost messages.
	if err := s.publishSyncMessage(ctx, id, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "error", err)
	}

	return ref, nil
}

// Categories serves the locally cached catalog.
func (s *JournalService) Categories(ctx context.Context) ([]core.CategoryEntry, error) {
	return s.storage.Categories(ctx)
}

func (s *JournalService) publishSyncMessage(ctx context.Context, id, version int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishRecordSync(ctx, id, version)
}

// Close closes both storage and AMQP connections.
func (s *JournalService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close journal service: %v", errs)
	}

	return nil
}

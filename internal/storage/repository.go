// Package storage is the local SQLite journal. Records are accepted here
// first and relayed to the upstream spreadsheet by the sync worker; the
// category table is a local cache of the upstream catalog so selectors keep
// working while the spreadsheet is unreachable.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

const (
	SyncStatusPending = "pending"
	SyncStatusSynced  = "synced"
	SyncStatusError   = "sync_error"
)

type SQLiteRepository struct {
	db *sql.DB
}

// JournaledRecord is a stored record together with its journal metadata.
type JournaledRecord struct {
	ID        int64
	Version   int64
	Record    core.TransactionRecord
	Status    string
	CreatedAt time.Time
}

// PendingRecord is the minimal data needed for sync queue messages.
type PendingRecord struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements sheets.RecordWriter by journaling the record as pending.
func (r *SQLiteRepository) Append(ctx context.Context, rec core.TransactionRecord) (string, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO records (date, amount_cents, classification, specific_category,
			subcategory, description, source_wallet, end_wallet, sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Date.ISO(),
		rec.Amount.Cents,
		string(rec.Classification),
		rec.SpecificCategory,
		rec.Subcategory,
		rec.Description,
		rec.SourceWallet,
		rec.EndWallet,
		SyncStatusPending,
	)
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("read insert id: %w", err)
	}

	slog.InfoContext(ctx, "Record journaled",
		"id", id,
		"classification", rec.Classification,
		"amount_cents", rec.Amount.Cents,
		"date", rec.Date.ISO())

	return strconv.FormatInt(id, 10), nil
}

// GetRecord retrieves a single journaled record by ID.
func (r *SQLiteRepository) GetRecord(ctx context.Context, id int64) (*JournaledRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, version, date, amount_cents, classification, specific_category,
			subcategory, description, source_wallet, end_wallet, sync_status, created_at
		FROM records WHERE id = ?`, id)

	jr, err := scanJournaledRecord(row)
	if err != nil {
		return nil, fmt.Errorf("get record by id: %w", err)
	}
	return jr, nil
}

// GetPendingRecords returns journaled records that still need relaying.
func (r *SQLiteRepository) GetPendingRecords(ctx context.Context, limit int) ([]PendingRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version, created_at FROM records
		WHERE sync_status = ? ORDER BY id LIMIT ?`, SyncStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending records: %w", err)
	}
	defer rows.Close()

	var out []PendingRecord
	for rows.Next() {
		var p PendingRecord
		if err := rows.Scan(&p.ID, &p.Version, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending record: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced marks a record as successfully relayed upstream.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE records SET sync_status = ?, version = version + 1 WHERE id = ?`,
		SyncStatusSynced, id); err != nil {
		return fmt.Errorf("mark record synced: %w", err)
	}
	slog.InfoContext(ctx, "Record marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a record as having failed to relay.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE records SET sync_status = ?, version = version + 1 WHERE id = ?`,
		SyncStatusError, id); err != nil {
		return fmt.Errorf("mark record sync error: %w", err)
	}
	slog.WarnContext(ctx, "Record marked with sync error", "id", id)
	return nil
}

// Categories implements sheets.CatalogReader from the local category cache,
// preserving the position recorded at sync time.
func (r *SQLiteRepository) Categories(ctx context.Context) ([]core.CategoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT classification, specific_category, subcategory
		FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("get cached categories: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryEntry
	for rows.Next() {
		var cls, specific, sub string
		if err := rows.Scan(&cls, &specific, &sub); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, core.CategoryEntry{
			Classification:   core.Classification(cls),
			SpecificCategory: specific,
			Subcategory:      sub,
		})
	}
	return out, rows.Err()
}

// ReplaceCategories swaps the whole category cache for the given entries.
func (r *SQLiteRepository) ReplaceCategories(ctx context.Context, entries []core.CategoryEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin category replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("clear category cache: %w", err)
	}

	now := time.Now().UTC()
	for i, e := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories (classification, specific_category, subcategory, position, synced_at)
			VALUES (?, ?, ?, ?, ?)`,
			string(e.Classification), e.SpecificCategory, e.Subcategory, i, now)
		if err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit category replace: %w", err)
	}

	slog.InfoContext(ctx, "Category cache replaced", "count", len(entries))
	return nil
}

// GetCategoryCount returns the number of cached category rows.
func (r *SQLiteRepository) GetCategoryCount(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}

// GetCategoryLastSync returns when the category cache was last replaced.
func (r *SQLiteRepository) GetCategoryLastSync(ctx context.Context) (time.Time, error) {
	var last sql.NullTime
	if err := r.db.QueryRowContext(ctx,
		`SELECT MAX(synced_at) FROM categories`).Scan(&last); err != nil {
		return time.Time{}, fmt.Errorf("get category last sync: %w", err)
	}
	if !last.Valid {
		return time.Time{}, nil
	}
	return last.Time, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJournaledRecord(row rowScanner) (*JournaledRecord, error) {
	var (
		jr      JournaledRecord
		isoDate string
		cls     string
	)
	err := row.Scan(&jr.ID, &jr.Version, &isoDate, &jr.Record.Amount.Cents, &cls,
		&jr.Record.SpecificCategory, &jr.Record.Subcategory, &jr.Record.Description,
		&jr.Record.SourceWallet, &jr.Record.EndWallet, &jr.Status, &jr.CreatedAt)
	if err != nil {
		return nil, err
	}

	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return nil, fmt.Errorf("parse stored date %q: %w", isoDate, err)
	}
	jr.Record.Date = core.Date{Time: t}
	jr.Record.Classification = core.Classification(cls)
	return &jr, nil
}

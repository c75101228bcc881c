// Package postgres provides PostgreSQL implementations of the domain repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/call-detail-billing/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

const callRecordColumns = `id, call_id, source, destination, started_at, ended_at, reference_period, duration, price, is_completed, created_at, updated_at`

// CallRecordRepository implements the callrecord.Repository interface for PostgreSQL
type CallRecordRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewCallRecordRepository creates a new PostgreSQL call record repository
func NewCallRecordRepository(logger *slog.Logger, db *persistence.PostgresDB) callrecord.Repository {
	return &CallRecordRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *CallRecordRepository) WithTx(tx pgx.Tx) callrecord.Repository {
	return &CallRecordRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create inserts a new record and sets its ID
func (r *CallRecordRepository) Create(ctx context.Context, record *callrecord.CallRecord) error {
	query := `
		INSERT INTO call_records (call_id, source, destination, started_at, ended_at, reference_period, duration, price, is_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		record.CallID,
		record.Source,
		record.Destination,
		record.StartedAt,
		record.EndedAt,
		record.ReferencePeriod,
		record.Duration,
		record.Price,
		record.IsCompleted,
		record.CreatedAt,
		record.UpdatedAt,
	).Scan(&record.ID)
	if err != nil {
		r.logger.Error("Failed to create call record", "call_id", record.CallID, "error", err)
		return fmt.Errorf("failed to create call record: %w", err)
	}

	return nil
}

// Update overwrites every mutable column of an existing record
func (r *CallRecordRepository) Update(ctx context.Context, record *callrecord.CallRecord) error {
	query := `
		UPDATE call_records
		SET source = $1, destination = $2, started_at = $3, ended_at = $4, reference_period = $5,
			duration = $6, price = $7, is_completed = $8, updated_at = $9
		WHERE id = $10
	`

	result, err := r.querier.Exec(ctx, query,
		record.Source,
		record.Destination,
		record.StartedAt,
		record.EndedAt,
		record.ReferencePeriod,
		record.Duration,
		record.Price,
		record.IsCompleted,
		record.UpdatedAt,
		record.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update call record", "call_id", record.CallID, "id", record.ID, "error", err)
		return fmt.Errorf("failed to update call record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return callrecord.ErrCallRecordNotFound{CallID: record.CallID}
	}

	return nil
}

// LockForUpdate takes a transaction-scoped advisory lock on callID, which also
// covers calls that have no row yet, then reads the newest row for the call.
// It must run inside a transaction.
func (r *CallRecordRepository) LockForUpdate(ctx context.Context, callID int64) (*callrecord.CallRecord, error) {
	if _, err := r.querier.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, callID); err != nil {
		r.logger.Error("Failed to acquire call lock", "call_id", callID, "error", err)
		return nil, fmt.Errorf("failed to acquire call lock: %w", err)
	}

	query := `
		SELECT ` + callRecordColumns + `
		FROM call_records
		WHERE call_id = $1
		ORDER BY id DESC
		LIMIT 1
		FOR UPDATE
	`

	record, err := scanCallRecord(r.querier.QueryRow(ctx, query, callID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, callrecord.ErrCallRecordNotFound{CallID: callID}
		}
		r.logger.Error("Failed to lock call record", "call_id", callID, "error", err)
		return nil, fmt.Errorf("failed to lock call record: %w", err)
	}

	return record, nil
}

// ListCompleted returns the completed calls of source billed in period, oldest first
func (r *CallRecordRepository) ListCompleted(ctx context.Context, source string, period string) ([]*callrecord.CallRecord, error) {
	query := `
		SELECT ` + callRecordColumns + `
		FROM call_records
		WHERE source = $1 AND reference_period = $2 AND is_completed = TRUE
		ORDER BY started_at ASC, id ASC
	`

	rows, err := r.querier.Query(ctx, query, source, period)
	if err != nil {
		r.logger.Error("Failed to list completed calls", "source", source, "period", period, "error", err)
		return nil, fmt.Errorf("failed to list completed calls: %w", err)
	}
	defer rows.Close()

	records := make([]*callrecord.CallRecord, 0)
	for rows.Next() {
		record, err := scanCallRecord(rows)
		if err != nil {
			r.logger.Error("Failed to scan call record", "error", err)
			return nil, fmt.Errorf("failed to scan call record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over call records", "error", err)
		return nil, fmt.Errorf("error iterating over call records: %w", err)
	}

	return records, nil
}

func scanCallRecord(row pgx.Row) (*callrecord.CallRecord, error) {
	var record callrecord.CallRecord
	err := row.Scan(
		&record.ID,
		&record.CallID,
		&record.Source,
		&record.Destination,
		&record.StartedAt,
		&record.EndedAt,
		&record.ReferencePeriod,
		&record.Duration,
		&record.Price,
		&record.IsCompleted,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

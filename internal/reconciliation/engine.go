// Package reconciliation merges start and end events into call records.
package reconciliation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/call-detail-billing/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// Engine applies call events under a per-call lock so that concurrent halves
// of the same call never overwrite each other.
type Engine struct {
	db            persistence.TxBeginner
	merger        RecordMerger
	outboxManager OutboxManager
	logger        *slog.Logger
}

func NewEngine(db persistence.TxBeginner, merger RecordMerger, outboxManager OutboxManager, logger *slog.Logger) *Engine {
	return &Engine{
		db:            db,
		merger:        merger,
		outboxManager: outboxManager,
		logger:        logger,
	}
}

// MergeEvent stores event and returns the resulting record. A record that
// becomes completed is queued for archiving in the same transaction.
// Nothing is persisted when an error is returned.
func (e *Engine) MergeEvent(ctx context.Context, event callrecord.Event, correlationID string) (*callrecord.CallRecord, error) {
	logger := e.logger
	if correlationID != "" {
		logger = e.logger.With("correlation_id", correlationID)
	}

	logger.Info("Merging call event", "call_id", event.ID(), "type", string(event.Kind()))

	var merged *callrecord.CallRecord
	err := persistence.RunInTx(ctx, e.db, func(tx pgx.Tx) error {
		record, err := e.merger.LockAndMerge(ctx, tx, event)
		if err != nil {
			return err
		}

		if record.IsCompleted {
			if err := e.outboxManager.CreateOutboxEntry(ctx, tx, record, correlationID); err != nil {
				return err
			}
		}

		merged = record
		return nil
	})
	if err != nil {
		if errors.Is(err, callrecord.ErrEndBeforeStart) {
			logger.Warn("Rejected call event ending before its start", "call_id", event.ID())
		} else {
			logger.Error("Failed to merge call event", "call_id", event.ID(), "error", err)
		}
		return nil, err
	}

	logger.Info("Call event merged",
		"call_id", merged.CallID,
		"record_id", merged.ID,
		"is_completed", merged.IsCompleted,
	)
	return merged, nil
}

package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/jackc/pgx/v5"
)

// RecordMergerImpl implements the RecordMerger interface
type RecordMergerImpl struct {
	recordRepo callrecord.Repository
	logger     *slog.Logger
}

// NewRecordMerger creates a new RecordMergerImpl
func NewRecordMerger(recordRepo callrecord.Repository, logger *slog.Logger) RecordMerger {
	return &RecordMergerImpl{
		recordRepo: recordRepo,
		logger:     logger,
	}
}

// LockAndMerge locks the call, applies the event to its current record
// (creating one for the first half seen) and persists the result.
func (m *RecordMergerImpl) LockAndMerge(ctx context.Context, tx pgx.Tx, event callrecord.Event) (*callrecord.CallRecord, error) {
	recordRepoTx := m.recordRepo.WithTx(tx)
	callID := event.ID()

	record, err := recordRepoTx.LockForUpdate(ctx, callID)
	if err != nil {
		if !errors.Is(err, callrecord.ErrCallRecordNotFound{CallID: callID}) {
			return nil, fmt.Errorf("failed to lock call %d: %w", callID, err)
		}
		m.logger.Debug("No record for call yet, starting a new one", "call_id", callID)
		record = callrecord.NewCallRecord(callID)
	}

	if err := record.Apply(event); err != nil {
		return nil, err
	}

	if record.IsNew() {
		if err := recordRepoTx.Create(ctx, record); err != nil {
			return nil, err
		}
		m.logger.Debug("Call record created", "call_id", callID, "record_id", record.ID)
		return record, nil
	}

	if err := recordRepoTx.Update(ctx, record); err != nil {
		return nil, err
	}
	m.logger.Debug("Call record updated", "call_id", callID, "record_id", record.ID, "is_completed", record.IsCompleted)
	return record, nil
}

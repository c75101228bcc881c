package reconciliation

import (
	"context"

	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/jackc/pgx/v5"
)

// RecordMerger locks the record of a call and folds one event into it
type RecordMerger interface {
	LockAndMerge(ctx context.Context, tx pgx.Tx, event callrecord.Event) (*callrecord.CallRecord, error)
}

// OutboxManager announces completed calls from inside the merge transaction
type OutboxManager interface {
	CreateOutboxEntry(ctx context.Context, tx pgx.Tx, record *callrecord.CallRecord, correlationID string) error
}

package reconciliation

import (
	"log/slog"

	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/call-detail-billing/internal/domain/outbox"
	"github.com/call-detail-billing/internal/platform/persistence"
)

// CreateEngine wires an Engine backed by the given repositories
func CreateEngine(
	db persistence.TxBeginner,
	recordRepo callrecord.Repository,
	outboxRepo outbox.Repository,
	logger *slog.Logger,
) *Engine {
	componentLogger := logger.With("component", "reconciliation")
	return NewEngine(
		db,
		NewRecordMerger(recordRepo, componentLogger),
		NewOutboxManager(outboxRepo, componentLogger),
		componentLogger,
	)
}

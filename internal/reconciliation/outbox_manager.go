package reconciliation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/call-detail-billing/internal/domain/outbox"
	"github.com/jackc/pgx/v5"
)

type OutboxManagerImpl struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxManager(outboxRepo outbox.Repository, logger *slog.Logger) OutboxManager {
	return &OutboxManagerImpl{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreateOutboxEntry queues a completed record for the archive
func (m *OutboxManagerImpl) CreateOutboxEntry(ctx context.Context, tx pgx.Tx, record *callrecord.CallRecord, correlationID string) error {
	outboxMessage, err := outbox.NewCallCompletedMessage(record, correlationID)
	if err != nil {
		return fmt.Errorf("failed to create outbox message payload for call %d: %w", record.CallID, err)
	}

	if err := m.outboxRepo.WithTx(tx).Create(ctx, outboxMessage); err != nil {
		return fmt.Errorf("failed to create outbox message for call %d: %w", record.CallID, err)
	}

	m.logger.Info("Outbox message created successfully",
		"call_id", record.CallID,
		"outbox_id", outboxMessage.ID,
	)
	return nil
}

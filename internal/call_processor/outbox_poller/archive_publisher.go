package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/call-detail-billing/internal/domain/archive"
	"github.com/call-detail-billing/internal/domain/outbox"
	"github.com/call-detail-billing/internal/domain/shared"
	"github.com/call-detail-billing/internal/platform/messaging/producers"
)

// ArchivePublisher moves one outbox message into the archive
type ArchivePublisher interface {
	PublishToArchive(ctx context.Context, message *outbox.Message) error
}

// ArchivePublisherImpl implements ArchivePublisher
type ArchivePublisherImpl struct {
	outboxRepo  outbox.Repository
	archiveRepo archive.Repository
	producer    producers.MessagePublisher
	logger      *slog.Logger
}

// NewArchivePublisher creates a new publisher. A nil producer interface archives
// completed calls without announcing them; callers holding a concrete producer
// pointer must convert a nil pointer to a nil interface first.
func NewArchivePublisher(
	outboxRepo outbox.Repository,
	archiveRepo archive.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) ArchivePublisher {
	return &ArchivePublisherImpl{
		outboxRepo:  outboxRepo,
		archiveRepo: archiveRepo,
		producer:    producer,
		logger:      logger,
	}
}

// PublishToArchive upserts the completed call into the archive, announces it
// and marks the message processed. Replays upsert the same document again.
func (p *ArchivePublisherImpl) PublishToArchive(ctx context.Context, message *outbox.Message) error {
	logger := p.logger
	if message.CorrelationID != "" {
		logger = p.logger.With("correlation_id", message.CorrelationID)
	}

	entry, err := p.entryOf(message)
	if err != nil {
		logger.Error("Outbox message does not carry a completed call",
			"outbox_id", message.ID, "call_id", message.CallID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unusable payload in outbox message %d: %w", message.ID, err)
	}

	if err := p.archiveRepo.Upsert(ctx, entry); err != nil {
		var stale archive.ErrStaleEntry
		if errors.As(err, &stale) {
			logger.Warn("Newer copy of the call already archived, not announcing",
				"outbox_id", message.ID, "call_id", entry.CallID)
			return p.markProcessed(ctx, logger, message, entry)
		}
		return fmt.Errorf("failed to archive call %d: %w", entry.CallID, err)
	}
	logger.Info("Call archived", "outbox_id", message.ID, "call_id", entry.CallID)

	if p.producer != nil {
		if err := p.producer.Publish(ctx, strconv.FormatInt(entry.CallID, 10), entry); err != nil {
			return fmt.Errorf("call %d archived, but announcing it failed: %w", entry.CallID, err)
		}
	}

	return p.markProcessed(ctx, logger, message, entry)
}

func (p *ArchivePublisherImpl) markProcessed(ctx context.Context, logger *slog.Logger, message *outbox.Message, entry *archive.Entry) error {
	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		return fmt.Errorf("call %d archived, but failed to mark outbox %d as PROCESSED: %w", entry.CallID, message.ID, err)
	}

	logger.Info("Outbox message marked as PROCESSED", "outbox_id", message.ID, "call_id", entry.CallID)
	return nil
}

func (p *ArchivePublisherImpl) entryOf(message *outbox.Message) (*archive.Entry, error) {
	if message.EventType != shared.OutboxEventCallCompleted {
		return nil, fmt.Errorf("unexpected outbox event type %q", message.EventType)
	}

	record, err := message.CallRecord()
	if err != nil {
		return nil, err
	}
	entry, err := archive.NewEntry(record)
	if err != nil {
		return nil, err
	}
	entry.OutboxID = message.ID
	return entry, nil
}

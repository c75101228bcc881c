package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/call-detail-billing/internal/domain/callrecord"
)

type ProcessingServiceImpl struct {
	merger CallMerger
	logger *slog.Logger
}

func NewProcessingService(merger CallMerger, logger *slog.Logger) ProcessingService {
	return &ProcessingServiceImpl{
		merger: merger,
		logger: logger,
	}
}

// ProcessEvent merges one event. callrecord.ErrEndBeforeStart stays
// reachable through errors.Is so the caller can dead-letter the message.
func (s *ProcessingServiceImpl) ProcessEvent(ctx context.Context, event callrecord.Event, correlationID string) error {
	record, err := s.merger.MergeEvent(ctx, event, correlationID)
	if err != nil {
		return fmt.Errorf("failed to merge %s event of call %d: %w", event.Kind(), event.ID(), err)
	}

	if record.IsCompleted {
		s.logger.Info("Call completed",
			"call_id", record.CallID,
			"duration", *record.Duration,
			"price", *record.Price,
			"reference_period", *record.ReferencePeriod,
		)
	}
	return nil
}

package service

import (
	"context"
	"log/slog"

	"github.com/call-detail-billing/internal/domain/callrecord"
)

// CallServiceImpl implements the CallService interface
type CallServiceImpl struct {
	merger CallMerger
	logger *slog.Logger
}

// NewCallService creates a new call service
func NewCallService(logger *slog.Logger, merger CallMerger) CallService {
	return &CallServiceImpl{
		merger: merger,
		logger: logger,
	}
}

// SubmitEvent merges the event synchronously; the caller learns about
// storage failures and out-of-order halves before responding.
func (s *CallServiceImpl) SubmitEvent(ctx context.Context, event callrecord.Event, correlationID string) error {
	record, err := s.merger.MergeEvent(ctx, event, correlationID)
	if err != nil {
		return err
	}

	if record.IsCompleted {
		s.logger.Debug("Call completed through API",
			"call_id", record.CallID,
			"correlation_id", correlationID,
		)
	}
	return nil
}

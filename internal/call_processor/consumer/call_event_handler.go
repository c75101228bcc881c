package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/call-detail-billing/internal/call_processor/service"
	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/call-detail-billing/internal/domain/shared"
	"github.com/call-detail-billing/internal/platform/correlation"
	"github.com/call-detail-billing/internal/platform/messaging/producers"
	"github.com/call-detail-billing/internal/validation"
	"github.com/segmentio/kafka-go"
)

// CorrelationIDHeader carries the id that ties an event to its logs
const CorrelationIDHeader = correlation.Header

// CallEventHandler handles call events published by the telephony switch
type CallEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewCallEventHandler creates a new handler
func NewCallEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *CallEventHandler {
	return &CallEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage validates and merges one event. Rejected events are parked
// in the DLQ and acknowledged; any other failure leaves the offset uncommitted.
func (h *CallEventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	correlationID := correlationIDOf(msg)
	logger := h.logger.With("correlation_id", correlationID)

	event, err := validation.DecodeEvent(msg.Value)
	if err != nil {
		reason := shared.DLQReasonValidationFailed
		var fieldErr *validation.FieldError
		if errors.As(err, &fieldErr) && fieldErr.Field == validation.NonFieldErrors {
			reason = shared.DLQReasonMalformedPayload
		}
		logger.Warn("Rejected invalid call event",
			"offset", msg.Offset,
			"key", string(msg.Key),
			"error", err,
		)
		return h.deadLetter(ctx, logger, msg, reason, err)
	}

	logger.Info("Received call event",
		"call_id", event.ID(),
		"type", string(event.Kind()),
		"timestamp", event.At().Format(shared.TimestampLayout),
	)

	if err := h.processingService.ProcessEvent(ctx, event, correlationID); err != nil {
		if errors.Is(err, callrecord.ErrEndBeforeStart) {
			return h.deadLetter(ctx, logger, msg, shared.DLQReasonEndBeforeStart, validation.EndBeforeStartError())
		}
		return fmt.Errorf("processing call event %d failed: %w", event.ID(), err)
	}

	logger.Info("Successfully processed call event", "call_id", event.ID())
	return nil
}

func (h *CallEventHandler) deadLetter(ctx context.Context, logger *slog.Logger, msg kafka.Message, reason shared.DLQReason, cause error) error {
	if h.producer == nil {
		logger.Warn("DLQ disabled, dropping rejected call event", "reason", string(reason), "offset", msg.Offset)
		return nil
	}

	if err := h.producer.PublishToDLQ(ctx, msg, reason, cause.Error()); err != nil {
		logger.Error("Failed to publish rejected call event to DLQ",
			"reason", string(reason),
			"dlq_error", err,
		)
		return fmt.Errorf("failed to dead-letter call event at offset %d: %w", msg.Offset, err)
	}
	return nil
}

// correlationIDOf reads the event's correlation header, replacing a missing
// or unstorable id with a fresh one
func correlationIDOf(msg kafka.Message) string {
	for _, header := range msg.Headers {
		if header.Key == CorrelationIDHeader {
			return correlation.Resolve(string(header.Value))
		}
	}
	return correlation.Resolve("")
}

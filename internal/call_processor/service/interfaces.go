package service

import (
	"context"

	"github.com/call-detail-billing/internal/domain/callrecord"
)

// ProcessingService defines the interface for processing inbound call events.
type ProcessingService interface {
	ProcessEvent(ctx context.Context, event callrecord.Event, correlationID string) error
}

// CallMerger folds an event into the stored record of its call
type CallMerger interface {
	MergeEvent(ctx context.Context, event callrecord.Event, correlationID string) (*callrecord.CallRecord, error)
}

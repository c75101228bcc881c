package service

import (
	"context"

	"github.com/call-detail-billing/internal/domain/archive"
	"github.com/call-detail-billing/internal/domain/callrecord"
)

// CallService defines the interface for call event submission
type CallService interface {
	// SubmitEvent merges a validated call event into its call record
	// Returns callrecord.ErrEndBeforeStart if the halves would be out of order
	SubmitEvent(ctx context.Context, event callrecord.Event, correlationID string) error
}

// BillService defines the interface for monthly bill queries
type BillService interface {
	// GetBill validates the query and returns the completed calls of number in period
	// Returns a *validation.FieldError if the query is invalid
	GetBill(ctx context.Context, number, period string) (*Bill, error)
}

// ArchiveService defines the interface for archived call lookups
type ArchiveService interface {
	// GetArchivedCall retrieves a completed call from the archive
	// Returns archive.ErrEntryNotFound if the call has not been archived
	GetArchivedCall(ctx context.Context, callID int64) (*archive.Entry, error)
}

// CallMerger is the reconciliation step behind CallService
type CallMerger interface {
	MergeEvent(ctx context.Context, event callrecord.Event, correlationID string) (*callrecord.CallRecord, error)
}

// CompletedCallLister is the read side of the call record store used for bills
type CompletedCallLister interface {
	ListCompleted(ctx context.Context, source string, period string) ([]*callrecord.CallRecord, error)
}

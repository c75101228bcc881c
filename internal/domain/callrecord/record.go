package callrecord

import (
	"errors"
	"fmt"
	"time"

	"github.com/call-detail-billing/internal/domain/billing"
	"github.com/call-detail-billing/internal/domain/shared"
	"github.com/call-detail-billing/internal/domain/tariff"
)

// Common errors
var (
	ErrEndBeforeStart = errors.New("call end precedes call start")
	ErrCallIDMismatch = errors.New("event belongs to a different call")
)

// CallRecord is the reconciled state of one call. Nil fields are halves that
// have not been reported yet.
type CallRecord struct {
	ID              int64      `json:"id"`
	CallID          int64      `json:"call_id"`
	Source          *string    `json:"source,omitempty"`
	Destination     *string    `json:"destination,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	ReferencePeriod *string    `json:"reference_period,omitempty"`
	Duration        *int64     `json:"duration,omitempty"` // seconds
	Price           *int64     `json:"price,omitempty"`    // cents
	IsCompleted     bool       `json:"is_completed"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewCallRecord creates an empty record awaiting both halves of the call
func NewCallRecord(callID int64) *CallRecord {
	now := time.Now().UTC()
	return &CallRecord{
		CallID:    callID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsNew reports whether the record has not been persisted yet
func (r *CallRecord) IsNew() bool {
	return r.ID == 0
}

// Apply merges an event into the record. The record is left untouched when
// an error is returned.
func (r *CallRecord) Apply(event Event) error {
	if event.ID() != r.CallID {
		return fmt.Errorf("%w: record %d, event %d", ErrCallIDMismatch, r.CallID, event.ID())
	}

	switch e := event.(type) {
	case StartEvent:
		return r.applyStart(e)
	case *StartEvent:
		return r.applyStart(*e)
	case EndEvent:
		return r.applyEnd(e)
	case *EndEvent:
		return r.applyEnd(*e)
	default:
		return fmt.Errorf("%w: %T", shared.ErrInvalidEventType, event)
	}
}

func (r *CallRecord) applyStart(e StartEvent) error {
	startedAt := e.Timestamp.UTC()
	if r.EndedAt != nil && r.EndedAt.Before(startedAt) {
		return ErrEndBeforeStart
	}

	r.Source = &e.Source
	r.Destination = &e.Destination
	r.StartedAt = &startedAt
	r.settle()
	return nil
}

func (r *CallRecord) applyEnd(e EndEvent) error {
	endedAt := e.Timestamp.UTC()
	if r.StartedAt != nil && endedAt.Before(*r.StartedAt) {
		return ErrEndBeforeStart
	}

	period := billing.PeriodOf(endedAt).String()
	r.EndedAt = &endedAt
	r.ReferencePeriod = &period
	r.settle()
	return nil
}

// settle recomputes the derived fields whenever both halves are present.
func (r *CallRecord) settle() {
	r.UpdatedAt = time.Now().UTC()
	if r.StartedAt == nil || r.EndedAt == nil {
		return
	}

	duration := int64(r.EndedAt.Sub(*r.StartedAt) / time.Second)
	price := tariff.ComputePrice(*r.StartedAt, *r.EndedAt)
	r.Duration = &duration
	r.Price = &price
	r.IsCompleted = true
}

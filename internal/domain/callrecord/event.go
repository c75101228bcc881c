package callrecord

import (
	"time"

	"github.com/call-detail-billing/internal/domain/shared"
)

// Event is one half of a call reported by the telephony switch.
// It is either a StartEvent or an EndEvent.
type Event interface {
	ID() int64
	Kind() shared.EventType
	At() time.Time
}

// StartEvent reports that a call was placed
type StartEvent struct {
	CallID      int64     `json:"call_id"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e StartEvent) ID() int64              { return e.CallID }
func (e StartEvent) Kind() shared.EventType { return shared.EventTypeStart }
func (e StartEvent) At() time.Time          { return e.Timestamp }

// EndEvent reports that a call was hung up
type EndEvent struct {
	CallID    int64     `json:"call_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (e EndEvent) ID() int64              { return e.CallID }
func (e EndEvent) Kind() shared.EventType { return shared.EventTypeEnd }
func (e EndEvent) At() time.Time          { return e.Timestamp }

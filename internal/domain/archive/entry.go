package archive

import (
	"time"

	"github.com/call-detail-billing/internal/domain/callrecord"
)

// Entry is a completed call as kept in the long-term archive
type Entry struct {
	CallID          int64     `json:"call_id" bson:"call_id"`
	Source          string    `json:"source" bson:"source"`
	Destination     string    `json:"destination" bson:"destination"`
	StartedAt       time.Time `json:"started_at" bson:"started_at"`
	EndedAt         time.Time `json:"ended_at" bson:"ended_at"`
	ReferencePeriod string    `json:"reference_period" bson:"reference_period"`
	Duration        int64     `json:"duration" bson:"duration"` // seconds
	Price           int64     `json:"price" bson:"price"`       // cents
	ArchivedAt      time.Time `json:"archived_at" bson:"archived_at"`
	// OutboxID is the outbox message the entry was built from. Later merges
	// of the same call always carry a higher id.
	OutboxID int64 `json:"outbox_id" bson:"outbox_id"`
}

// NewEntry snapshots a completed call record
func NewEntry(record *callrecord.CallRecord) (*Entry, error) {
	if !record.IsCompleted || record.StartedAt == nil || record.EndedAt == nil {
		return nil, ErrIncompleteCall{CallID: record.CallID}
	}

	entry := &Entry{
		CallID:     record.CallID,
		StartedAt:  record.StartedAt.UTC(),
		EndedAt:    record.EndedAt.UTC(),
		ArchivedAt: time.Now().UTC(),
	}
	if record.Source != nil {
		entry.Source = *record.Source
	}
	if record.Destination != nil {
		entry.Destination = *record.Destination
	}
	if record.ReferencePeriod != nil {
		entry.ReferencePeriod = *record.ReferencePeriod
	}
	if record.Duration != nil {
		entry.Duration = *record.Duration
	}
	if record.Price != nil {
		entry.Price = *record.Price
	}
	return entry, nil
}

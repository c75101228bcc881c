package outbox

import (
	"encoding/json"
	"time"

	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/call-detail-billing/internal/domain/shared"
)

// Message carries a completed call from the reconciliation transaction to the archive
type Message struct {
	ID            int64                  `json:"id"`
	CallID        int64                  `json:"call_id"`
	EventType     shared.OutboxEventType `json:"event_type"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
	Payload       json.RawMessage        `json:"payload"`
	Status        shared.OutboxStatus    `json:"status"`
	Attempts      int                    `json:"attempts"`
	CreatedAt     time.Time              `json:"created_at"`
	LastAttemptAt *time.Time             `json:"last_attempt_at,omitempty"`
}

// NewCallCompletedMessage snapshots a completed record into a pending message
func NewCallCompletedMessage(record *callrecord.CallRecord, correlationID string) (*Message, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}

	return &Message{
		CallID:        record.CallID,
		EventType:     shared.OutboxEventCallCompleted,
		CorrelationID: correlationID,
		Payload:       payload,
		Status:        shared.OutboxStatusPending,
		Attempts:      0,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// CallRecord decodes the record carried in the payload
func (m *Message) CallRecord() (*callrecord.CallRecord, error) {
	var record callrecord.CallRecord
	if err := json.Unmarshal(m.Payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

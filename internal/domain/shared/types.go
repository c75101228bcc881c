package shared

import "errors"

var (
	ErrInvalidEventType = errors.New("invalid call event type")
)

// EventType identifies which half of a call an event carries
type EventType string

const (
	EventTypeStart EventType = "start"
	EventTypeEnd   EventType = "end"
)

// Wire layouts shared by validation, persistence and presentation
const (
	TimestampLayout = "2006-01-02T15:04:05Z"
	PeriodLayout    = "01/2006"
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)

// OutboxEventType names the event an outbox message announces
type OutboxEventType string

const (
	OutboxEventCallCompleted OutboxEventType = "call.completed"
)

// DLQReason classifies why an inbound call event was dead-lettered
type DLQReason string

const (
	DLQReasonMalformedPayload DLQReason = "MALFORMED_PAYLOAD"
	DLQReasonValidationFailed DLQReason = "VALIDATION_FAILED"
	DLQReasonEndBeforeStart   DLQReason = "END_BEFORE_START"
)

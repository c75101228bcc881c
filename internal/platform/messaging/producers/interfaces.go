package producers

import (
	"context"

	"github.com/call-detail-billing/internal/domain/shared"
	"github.com/segmentio/kafka-go"
)

// MessagePublisher publishes JSON values to a primary topic
type MessagePublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// DeadLetterPublisher parks inbound messages that cannot be reconciled
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, original kafka.Message, reason shared.DLQReason, detail string) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ KafkaWriter = (*kafka.Writer)(nil)

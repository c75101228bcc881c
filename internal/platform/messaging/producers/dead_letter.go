package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/call-detail-billing/internal/config"
	"github.com/call-detail-billing/internal/domain/shared"
	"github.com/segmentio/kafka-go"
)

// Headers stamped on every dead-lettered message
const (
	HeaderErrorReason       = "error_reason"
	HeaderOriginalTopic     = "original_topic"
	HeaderOriginalPartition = "original_partition"
	HeaderOriginalOffset    = "original_offset"
)

type DLQProducer struct {
	logger   *slog.Logger
	writer   KafkaWriter
	dlqTopic string
}

// dlqPayload wraps the untouched original value with the rejection details
type dlqPayload struct {
	OriginalKey   string           `json:"original_key"`
	OriginalValue string           `json:"original_value"`
	Reason        shared.DLQReason `json:"dlq_reason"`
	Detail        string           `json:"detail,omitempty"`
	Timestamp     string           `json:"timestamp"`
}

// NewDLQProducer returns a nil producer if cfg.DLQTopic is empty (DLQ disabled)
func NewDLQProducer(_ context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*DLQProducer, error) {
	if cfg.DLQTopic == "" {
		logger.Info("DLQ topic is not configured. DLQProducer will not be initialized.")
		return nil, nil
	}

	if err := EnsureTopics(logger, cfg, cfg.DLQTopic); err != nil {
		return nil, fmt.Errorf("failed to ensure DLQ topic %s exists: %w", cfg.DLQTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.BrokerList()...),
		Topic:        cfg.DLQTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &DLQProducer{
		logger:   logger,
		writer:   writer,
		dlqTopic: cfg.DLQTopic,
	}, nil
}

// PublishToDLQ writes original to the DLQ keyed as it was, with its origin in the headers
func (p *DLQProducer) PublishToDLQ(ctx context.Context, original kafka.Message, reason shared.DLQReason, detail string) error {
	if p == nil || p.writer == nil {
		return fmt.Errorf("DLQ producer not initialized")
	}

	value, err := json.Marshal(dlqPayload{
		OriginalKey:   string(original.Key),
		OriginalValue: string(original.Value),
		Reason:        reason,
		Detail:        detail,
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal DLQ message value: %w", err)
	}

	msg := kafka.Message{
		Key:   original.Key,
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderErrorReason, Value: []byte(reason)},
			{Key: HeaderOriginalTopic, Value: []byte(original.Topic)},
			{Key: HeaderOriginalPartition, Value: []byte(strconv.Itoa(original.Partition))},
			{Key: HeaderOriginalOffset, Value: []byte(strconv.FormatInt(original.Offset, 10))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message to DLQ",
			"topic", p.dlqTopic,
			"key", string(original.Key),
			"error", err,
		)
		return fmt.Errorf("failed to publish message to DLQ %s: %w", p.dlqTopic, err)
	}

	p.logger.Info("Published message to DLQ",
		"topic", p.dlqTopic,
		"key", string(original.Key),
		"reason", string(reason),
		"original_offset", original.Offset,
	)
	return nil
}

func (p *DLQProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	p.logger.Info("Closing DLQ Kafka message producer", "topic", p.dlqTopic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close dlq kafka writer for topic %s: %w", p.dlqTopic, err)
	}
	return nil
}

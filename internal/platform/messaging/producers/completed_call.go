package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/call-detail-billing/internal/config"
	"github.com/segmentio/kafka-go"
)

// CompletedCallProducer announces archived calls to downstream consumers
type CompletedCallProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewCompletedCallProducer creates the producer and ensures its topic exists
func NewCompletedCallProducer(_ context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*CompletedCallProducer, error) {
	if cfg.CompletedCallsTopic == "" {
		return nil, fmt.Errorf("kafka completed calls topic is not configured")
	}

	if err := EnsureTopics(logger, cfg, cfg.CompletedCallsTopic); err != nil {
		return nil, fmt.Errorf("failed to ensure completed calls topic %s exists: %w", cfg.CompletedCallsTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.BrokerList()...),
		Topic:        cfg.CompletedCallsTopic,
		Balancer:     &kafka.Hash{}, // one call always lands on the same partition
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.MaxWait,
	}

	return &CompletedCallProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.CompletedCallsTopic,
	}, nil
}

// Publish writes value as JSON under key
func (p *CompletedCallProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal completed call: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish completed call",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish completed call to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published completed call",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *CompletedCallProducer) Close() error {
	p.logger.Info("Closing completed call producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close completed call writer for topic %s: %w", p.topic, err)
	}
	return nil
}

package producers

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/call-detail-billing/internal/config"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCompletedCallProducer_RequiresTopic(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	producer, err := NewCompletedCallProducer(context.Background(), logger, &config.KafkaConfig{Brokers: "localhost:9092"})

	assert.Nil(t, producer)
	assert.EqualError(t, err, "kafka completed calls topic is not configured")
}

func TestCompletedCallProducer_Publish(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	t.Run("SuccessfulPublish", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &CompletedCallProducer{logger: logger, writer: mockWriter, topic: "completed_calls"}
		value := map[string]interface{}{"call_id": 70, "price": 54}

		mockWriter.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
			return len(msgs) == 1 &&
				string(msgs[0].Key) == "70" &&
				string(msgs[0].Value) == `{"call_id":70,"price":54}`
		})).Return(nil).Once()

		require.NoError(t, producer.Publish(ctx, "70", value))
		mockWriter.AssertExpectations(t)
	})

	t.Run("PublishReturnsErrorOnWriterError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &CompletedCallProducer{logger: logger, writer: mockWriter, topic: "completed_calls"}
		writerError := errors.New("kafka write error")

		mockWriter.On("WriteMessages", ctx, mock.AnythingOfType("[]kafka.Message")).Return(writerError).Once()

		err := producer.Publish(ctx, "70", map[string]string{"data": "x"})
		assert.ErrorIs(t, err, writerError)
		mockWriter.AssertExpectations(t)
	})

	t.Run("PublishReturnsErrorOnMarshalFailure", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &CompletedCallProducer{logger: logger, writer: mockWriter, topic: "completed_calls"}

		err := producer.Publish(ctx, "70", make(chan int))
		assert.ErrorContains(t, err, "failed to marshal completed call")
		mockWriter.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
	})
}

func TestCompletedCallProducer_Close(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	mockWriter := new(MockKafkaWriter)
	producer := &CompletedCallProducer{logger: logger, writer: mockWriter, topic: "completed_calls"}
	mockWriter.On("Close").Return(nil).Once()

	require.NoError(t, producer.Close())
	mockWriter.AssertExpectations(t)
}

func TestTopicConfigFor(t *testing.T) {
	assert.Equal(t, kafka.TopicConfig{Topic: "t", NumPartitions: 1, ReplicationFactor: 1}, topicConfigFor("t", 0, 0))
	assert.Equal(t, kafka.TopicConfig{Topic: "t", NumPartitions: 6, ReplicationFactor: 3}, topicConfigFor("t", 6, 3))
}

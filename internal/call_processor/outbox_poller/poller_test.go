package outbox_poller

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/call-detail-billing/internal/config"
	"github.com/call-detail-billing/internal/domain/outbox"
	"github.com/call-detail-billing/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestPoller(outboxRepo *MockOutboxRepo, publisher *MockArchivePublisher) *Poller {
	cfg := &config.OutboxConfig{
		PollingInterval:  10 * time.Millisecond,
		BatchSize:        10,
		MaxRetryAttempts: 3,
	}
	return NewPoller(cfg, outboxRepo, publisher, slog.Default())
}

func TestPoller_ProcessPendingMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes every pending message", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		publisher := &MockArchivePublisher{}
		poller := newTestPoller(outboxRepo, publisher)

		first := &outbox.Message{ID: 1, CallID: 70, Status: shared.OutboxStatusPending}
		second := &outbox.Message{ID: 2, CallID: 71, Status: shared.OutboxStatusPending, CorrelationID: "corr"}
		outboxRepo.On("GetPending", ctx, 10).Return([]*outbox.Message{first, second}, nil).Once()
		publisher.On("PublishToArchive", ctx, first).Return(nil).Once()
		publisher.On("PublishToArchive", ctx, second).Return(nil).Once()

		assert.NoError(t, poller.processPendingMessages(ctx))
		publisher.AssertExpectations(t)
		outboxRepo.AssertNotCalled(t, "IncrementAttempts", mock.Anything, mock.Anything)
	})

	t.Run("failure counts an attempt", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		publisher := &MockArchivePublisher{}
		poller := newTestPoller(outboxRepo, publisher)

		message := &outbox.Message{ID: 3, CallID: 72, Attempts: 0}
		outboxRepo.On("GetPending", ctx, 10).Return([]*outbox.Message{message}, nil).Once()
		publisher.On("PublishToArchive", ctx, message).Return(errors.New("mongo unavailable")).Once()
		outboxRepo.On("IncrementAttempts", ctx, int64(3)).Return(nil).Once()

		assert.NoError(t, poller.processPendingMessages(ctx))
		outboxRepo.AssertExpectations(t)
		outboxRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("last attempt marks the message failed", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		publisher := &MockArchivePublisher{}
		poller := newTestPoller(outboxRepo, publisher)

		message := &outbox.Message{ID: 4, CallID: 73, Attempts: 2}
		outboxRepo.On("GetPending", ctx, 10).Return([]*outbox.Message{message}, nil).Once()
		publisher.On("PublishToArchive", ctx, message).Return(errors.New("mongo unavailable")).Once()
		outboxRepo.On("IncrementAttempts", ctx, int64(4)).Return(nil).Once()
		outboxRepo.On("UpdateStatus", ctx, int64(4), shared.OutboxStatusFailedToPublish).Return(nil).Once()

		assert.NoError(t, poller.processPendingMessages(ctx))
		outboxRepo.AssertExpectations(t)
	})

	t.Run("repository failure", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		poller := newTestPoller(outboxRepo, &MockArchivePublisher{})

		outboxRepo.On("GetPending", ctx, 10).Return(nil, errors.New("db error")).Once()

		err := poller.processPendingMessages(ctx)
		assert.ErrorContains(t, err, "failed to get pending outbox messages")
	})
}

func TestPoller_Start(t *testing.T) {
	outboxRepo := &MockOutboxRepo{}
	poller := newTestPoller(outboxRepo, &MockArchivePublisher{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	polled := make(chan struct{}, 1)
	outboxRepo.On("GetPending", mock.Anything, 10).Run(func(mock.Arguments) {
		select {
		case polled <- struct{}{}:
		default:
		}
	}).Return([]*outbox.Message{}, nil)

	done := make(chan struct{})
	go func() {
		poller.Start(ctx)
		close(done)
	}()

	select {
	case <-polled:
	case <-time.After(time.Second):
		t.Fatal("poller never polled the outbox")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}

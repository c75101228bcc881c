package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCallMerger struct {
	mock.Mock
}

func (m *MockCallMerger) MergeEvent(ctx context.Context, event callrecord.Event, correlationID string) (*callrecord.CallRecord, error) {
	args := m.Called(ctx, event, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*callrecord.CallRecord), args.Error(1)
}

// MockProcessingService mocks the ProcessingService interface
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessEvent(ctx context.Context, event callrecord.Event, correlationID string) error {
	args := m.Called(ctx, event, correlationID)
	return args.Error(0)
}

func testEndEvent(callID int64) callrecord.EndEvent {
	return callrecord.EndEvent{CallID: callID, Timestamp: time.Date(2016, time.February, 29, 12, 0, 0, 0, time.UTC)}
}

func TestProcessingService_ProcessEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("partial record", func(t *testing.T) {
		merger := &MockCallMerger{}
		svc := NewProcessingService(merger, slog.Default())
		event := testEndEvent(1)
		record := callrecord.NewCallRecord(1)
		require.NoError(t, record.Apply(event))

		merger.On("MergeEvent", ctx, event, "corr-1").Return(record, nil).Once()

		assert.NoError(t, svc.ProcessEvent(ctx, event, "corr-1"))
		merger.AssertExpectations(t)
	})

	t.Run("completed record", func(t *testing.T) {
		merger := &MockCallMerger{}
		svc := NewProcessingService(merger, slog.Default())
		start := callrecord.StartEvent{CallID: 2, Source: "11987654321", Destination: "11123456789", Timestamp: time.Date(2016, time.February, 29, 12, 0, 0, 0, time.UTC)}
		record := callrecord.NewCallRecord(2)
		require.NoError(t, record.Apply(testEndEvent(2)))
		require.NoError(t, record.Apply(start))

		merger.On("MergeEvent", ctx, start, "").Return(record, nil).Once()

		assert.NoError(t, svc.ProcessEvent(ctx, start, ""))
	})

	t.Run("end before start keeps its identity", func(t *testing.T) {
		merger := &MockCallMerger{}
		svc := NewProcessingService(merger, slog.Default())
		event := testEndEvent(3)

		merger.On("MergeEvent", ctx, event, "").Return(nil, callrecord.ErrEndBeforeStart).Once()

		err := svc.ProcessEvent(ctx, event, "")
		assert.ErrorIs(t, err, callrecord.ErrEndBeforeStart)
		assert.Contains(t, err.Error(), "failed to merge end event of call 3")
	})
}

func TestWorkerPoolProcessingService_ProcessEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the task result", func(t *testing.T) {
		base := &MockProcessingService{}
		workerPoolService, err := NewWorkerPoolProcessingService(base, WorkerPoolConfig{Size: 2}, slog.Default())
		require.NoError(t, err)
		defer workerPoolService.Shutdown()

		event := testEndEvent(10)
		processingErr := errors.New("storage unavailable")
		base.On("ProcessEvent", mock.Anything, event, "corr").Return(nil).Once()
		base.On("ProcessEvent", mock.Anything, event, "corr").Return(processingErr).Once()

		assert.NoError(t, workerPoolService.ProcessEvent(ctx, event, "corr"))
		assert.ErrorIs(t, workerPoolService.ProcessEvent(ctx, event, "corr"), processingErr)
		base.AssertExpectations(t)
	})

	t.Run("bounds concurrency to the pool size", func(t *testing.T) {
		base := &MockProcessingService{}
		workerPoolService, err := NewWorkerPoolProcessingService(base, WorkerPoolConfig{Size: 2}, slog.Default())
		require.NoError(t, err)
		defer workerPoolService.Shutdown()

		var running, peak int32
		base.On("ProcessEvent", mock.Anything, mock.Anything, "").Run(func(mock.Arguments) {
			current := atomic.AddInt32(&running, 1)
			for {
				observed := atomic.LoadInt32(&peak)
				if current <= observed || atomic.CompareAndSwapInt32(&peak, observed, current) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&running, -1)
		}).Return(nil)

		var wg sync.WaitGroup
		for i := int64(0); i < 6; i++ {
			wg.Add(1)
			go func(callID int64) {
				defer wg.Done()
				assert.NoError(t, workerPoolService.ProcessEvent(ctx, testEndEvent(callID), ""))
			}(i + 1)
		}
		wg.Wait()

		assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
		assert.Equal(t, 2, workerPoolService.Capacity())
	})
}

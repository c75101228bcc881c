package service

import (
	"context"
	"log/slog"

	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolProcessingService bounds concurrent merges with an ants pool.
// Each call blocks until its task has run and returns the task's error.
type WorkerPoolProcessingService struct {
	baseService ProcessingService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	baseService ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// ProcessEvent submits the event to the worker pool and waits for the result.
func (s *WorkerPoolProcessingService) ProcessEvent(ctx context.Context, event callrecord.Event, correlationID string) error {
	logger := s.logger
	if correlationID != "" {
		logger = s.logger.With("correlation_id", correlationID)
	}

	logger.Debug("Submitting call event to worker pool", "call_id", event.ID(), "type", string(event.Kind()))

	resultChan := make(chan error, 1)
	err := s.pool.Submit(func() {
		resultChan <- s.baseService.ProcessEvent(ctx, event, correlationID)
	})
	if err != nil {
		logger.Error("Failed to submit call event to worker pool",
			"call_id", event.ID(),
			"error", err,
		)
		return err
	}

	select {
	case err := <-resultChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}

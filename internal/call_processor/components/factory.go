package components

import (
	"log/slog"

	"github.com/call-detail-billing/internal/call_processor/service"
	"github.com/call-detail-billing/internal/config"
	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/call-detail-billing/internal/domain/outbox"
	"github.com/call-detail-billing/internal/platform/persistence"
	"github.com/call-detail-billing/internal/reconciliation"
)

// CreateProcessingService creates a new ProcessingService with all its dependencies.
func CreateProcessingService(
	db persistence.TxBeginner,
	recordRepo callrecord.Repository,
	outboxRepo outbox.Repository,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	engine := reconciliation.CreateEngine(db, recordRepo, outboxRepo, logger)
	baseService := service.NewProcessingService(engine, logger)

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}

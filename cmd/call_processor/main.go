package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/call-detail-billing/internal/call_processor/components"
	"github.com/call-detail-billing/internal/call_processor/consumer"
	"github.com/call-detail-billing/internal/call_processor/outbox_poller"
	"github.com/call-detail-billing/internal/call_processor/service"
	"github.com/call-detail-billing/internal/config"
	"github.com/call-detail-billing/internal/data/mongo"
	"github.com/call-detail-billing/internal/data/postgres"
	"github.com/call-detail-billing/internal/logger"
	"github.com/call-detail-billing/internal/platform/messaging/consumers"
	"github.com/call-detail-billing/internal/platform/messaging/producers"
	"github.com/call-detail-billing/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("call_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Call Processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	callRecordRepo := postgres.NewCallRecordRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	archiveRepo := mongo.NewCallArchiveRepository(log, mongoDB.Database(), cfg.MongoDB.ArchiveCollection)
	if err := archiveRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to ensure archive indexes", "error", err)
		os.Exit(1)
	}

	// Producers ensure their own topics; the consumed one is created here
	if err := producers.EnsureTopics(log, &cfg.Kafka, cfg.Kafka.CallEventsTopic); err != nil {
		log.Error("Failed to ensure Kafka topics", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka consumer
	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	// Initialize Kafka producers
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	completedCallProducer, err := producers.NewCompletedCallProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize completed calls Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize processing service with separated concerns
	processingService := components.CreateProcessingService(
		postgresDB.Pool(),
		callRecordRepo,
		outboxRepo,
		log,
		cfg,
	)

	// dlqProducer is nil when no DLQ topic is configured; keep the interface nil too
	var deadLetters producers.DeadLetterPublisher
	if dlqProducer != nil {
		deadLetters = dlqProducer
	}

	// Initialize call event handler
	callEventHandler := consumer.NewCallEventHandler(
		log,
		processingService,
		deadLetters,
	)

	// Same for the announcer, so a nil producer never reaches the publisher as a typed nil
	var announcer producers.MessagePublisher
	if completedCallProducer != nil {
		announcer = completedCallProducer
	}

	// Initialize outbox poller
	archivePublisher := outbox_poller.NewArchivePublisher(
		outboxRepo,
		archiveRepo,
		announcer,
		log,
	)
	poller := outbox_poller.NewPoller(
		&cfg.Outbox,
		outboxRepo,
		archivePublisher,
		log,
	)

	// Create error channel for service errors
	errChan := make(chan error, 2)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start Kafka consumer; it runs until appCtx is canceled
	log.Info("Starting Kafka consumer",
		"topic", cfg.Kafka.CallEventsTopic,
		"group", cfg.Kafka.ConsumerGroup,
	)
	if err := kafkaConsumer.Subscribe(appCtx, callEventHandler.HandleMessage); err != nil {
		errChan <- fmt.Errorf("kafka consumer error: %w", err)
	}

	// Start outbox poller in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Outbox Poller",
			"interval", cfg.Outbox.PollingInterval.String(),
			"batch_size", cfg.Outbox.BatchSize,
		)
		poller.Start(appCtx)
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Wait for all goroutines to finish
	log.Info("Waiting for services to stop...")
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// Drain the worker pool once no new events can arrive
	if wpService, ok := processingService.(*service.WorkerPoolProcessingService); ok {
		log.Info("Shutting down worker pool", "running_workers", wpService.Running())
		wpService.Shutdown()
	}

	// Close Kafka consumer
	if closeErr := kafkaConsumer.Close(); closeErr != nil {
		log.Error("Error closing Kafka consumer", "error", closeErr)
		err = closeErr
	}

	// Close Kafka producers
	if closeErr := dlqProducer.Close(); closeErr != nil {
		log.Error("Error closing DLQ Kafka producer", "error", closeErr)
		err = closeErr
	}
	if closeErr := completedCallProducer.Close(); closeErr != nil {
		log.Error("Error closing completed calls Kafka producer", "error", closeErr)
		err = closeErr
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Close MongoDB connection
	if closeErr := mongoDB.Close(shutdownCtx); closeErr != nil {
		log.Error("Error closing MongoDB connection", "error", closeErr)
		err = closeErr
	}

	// Final status
	if serviceErr != nil {
		log.Error("Call Processor shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Call Processor shutdown completed with errors")
	} else {
		log.Info("Call Processor shutdown completed successfully")
	}
}

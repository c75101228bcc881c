package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/call-detail-billing/internal/api_gateway"
	"github.com/call-detail-billing/internal/api_gateway/service"
	"github.com/call-detail-billing/internal/config"
	"github.com/call-detail-billing/internal/data/mongo"
	"github.com/call-detail-billing/internal/data/postgres"
	"github.com/call-detail-billing/internal/logger"
	"github.com/call-detail-billing/internal/platform/persistence"
	"github.com/call-detail-billing/internal/reconciliation"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	billingLocation, err := cfg.Billing.TimeLocation()
	if err != nil {
		log.Error("Failed to load billing time zone", "location", cfg.Billing.Location, "error", err)
		os.Exit(1)
	}

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

	// Initialize services
	engine := reconciliation.CreateEngine(postgresDB.Pool(), callRecordRepo, outboxRepo, log)
	callService := service.NewCallService(log, engine)
	billService := service.NewBillService(log, callRecordRepo, billingLocation, nil)
	archiveService := service.NewArchiveService(archiveRepo)

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, callService, billService, archiveService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Stop accepting requests before closing the stores they use
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	postgresDB.Close()

	if closeErr := mongoDB.Close(shutdownCtx); closeErr != nil {
		log.Error("Error closing MongoDB connection", "error", closeErr)
		err = closeErr
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmarin/mailtriage/internal/core"
	"github.com/lmarin/mailtriage/internal/di"
	"github.com/lmarin/mailtriage/internal/processor"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	proc *processor.Processor,
	generator core.ResponseGenerator,
	ledger core.LedgerRepository,
) error {
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Shutting down...")
		cancel()
	}()

	if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Processor stopped with error", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := generator.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close generator", zap.Error(err))
		}
	}
	if closer, ok := ledger.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close ledger", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}

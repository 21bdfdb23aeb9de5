package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"promptpack/cmd"
	"promptpack/pkg/logging"
)

func main() {
	logger, err := logging.Setup(false)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Ctrl-C and SIGTERM cancel the run; in-flight files finish and the
	// partial artifact is discarded.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx, logger); err != nil {
		logger.Error("promptpack execution failed", zap.Error(err))
		logging.Sync(logger)
		os.Exit(1)
	}

	logging.Sync(logger)
}

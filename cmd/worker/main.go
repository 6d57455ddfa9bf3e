// Package main runs the reminder evaluator on a local ticker. It is the
// non-Lambda counterpart of the scheduled worker, used for development and
// self-hosted deployments.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"medremind-backend/infrastructure/config"
	"medremind-backend/infrastructure/di"
	"medremind-backend/infrastructure/scheduler"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	runner := scheduler.NewTickerRunner(container.Evaluator, cfg.EvaluationInterval, container.Logger)

	go func() {
		container.Logger.Info("Starting reminder worker",
			zap.Duration("interval", cfg.EvaluationInterval),
			zap.String("environment", cfg.Environment),
		)
		runner.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	container.Logger.Info("Shutting down reminder worker...")
	cancel()

	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}
}

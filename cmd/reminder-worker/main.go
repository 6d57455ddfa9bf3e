// Package main implements the Lambda handler for the scheduled reminder
// sweep. EventBridge invokes it on the configured schedule; each invocation
// runs one evaluation pass over every registered medication.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"medremind-backend/infrastructure/config"
	"medremind-backend/infrastructure/di"
	"medremind-backend/infrastructure/persistence/dynamodb"
)

// A pass over a large table should finish well inside this window; the
// lock self-expires so a crashed invocation cannot block the schedule.
const passLockDuration = 5 * time.Minute

var container *di.Container

func init() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	log.Println("Reminder worker initialized")
}

// HandleRequest runs one evaluation pass. Returning an error tells the
// Lambda runtime the whole pass failed and should be retried; per-record
// failures are absorbed into the report instead.
func HandleRequest(ctx context.Context, event events.CloudWatchEvent) error {
	container.Logger.Info("Scheduled evaluation triggered",
		zap.String("eventID", event.ID),
		zap.Time("scheduledAt", event.Time),
	)

	ownerID, _ := os.Hostname()
	if ownerID == "" {
		ownerID = "reminder-worker"
	}
	held, err := container.PassLock.Acquire(ctx, ownerID, passLockDuration)
	if err != nil {
		if errors.Is(err, dynamodb.ErrPassInProgress) {
			container.Logger.Info("Skipping pass, another worker holds the lock")
			return nil
		}
		return fmt.Errorf("acquire pass lock: %w", err)
	}
	defer func() {
		if releaseErr := held.Release(context.Background()); releaseErr != nil {
			container.Logger.Warn("Failed to release pass lock", zap.Error(releaseErr))
		}
	}()

	run := func(ctx context.Context) error {
		report, err := container.Evaluator.Run(ctx)
		if err != nil {
			return fmt.Errorf("evaluation pass failed: %w", err)
		}

		container.Logger.Info("Evaluation pass finished",
			zap.Int("evaluated", report.Evaluated),
			zap.Int("emitted", report.Emitted),
			zap.Int("suppressed", report.Suppressed),
			zap.Int("failed", report.Failed),
			zap.Int("dedupFailures", report.DedupFailures),
		)
		return nil
	}

	if container.Config.EnableTracing {
		return container.Tracer.TraceFunction(ctx, "reminder-evaluation", run)
	}
	return run(ctx)
}

func main() {
	lambda.Start(HandleRequest)
}

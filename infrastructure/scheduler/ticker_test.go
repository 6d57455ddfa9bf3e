package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medremind-backend/application/services"
	"medremind-backend/domain/core/entities"
	"medremind-backend/infrastructure/persistence/memory"
	"medremind-backend/pkg/observability"
)

func TestTickerRunnerRunsImmediately(t *testing.T) {
	meds := memory.NewMedicationStore()
	sink := memory.NewNotificationRecorder()
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	med, err := entities.NewMedication("alice@example.com", "Metformin", "500mg",
		"2026-08-01", "2026-09-30", "09:00", "")
	require.NoError(t, err)
	require.NoError(t, meds.Save(context.Background(), med))

	evaluator := services.NewReminderEvaluator(
		meds,
		memory.NewAdherenceLog(),
		sink,
		memory.NewEventRecorder(),
		memory.FixedClock{Instant: now},
		observability.NewMetrics("test", nil),
		zap.NewNop(),
	)

	runner := NewTickerRunner(evaluator, time.Hour, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	runner.Run(ctx)

	// The hour-long interval never fired; the immediate first pass did
	assert.Len(t, sink.Emitted(), 1)
}

func TestTickerRunnerSurvivesFailedPasses(t *testing.T) {
	meds := memory.NewMedicationStore()
	meds.FailScans = context.DeadlineExceeded

	evaluator := services.NewReminderEvaluator(
		meds,
		memory.NewAdherenceLog(),
		memory.NewNotificationRecorder(),
		memory.NewEventRecorder(),
		memory.FixedClock{Instant: time.Now()},
		observability.NewMetrics("test", nil),
		zap.NewNop(),
	)

	runner := NewTickerRunner(evaluator, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Returns only on context cancellation, not on pass errors
	runner.Run(ctx)
}

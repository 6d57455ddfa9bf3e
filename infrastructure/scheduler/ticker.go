// Package scheduler drives periodic evaluation passes outside Lambda.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"medremind-backend/application/services"
)

// TickerRunner runs the evaluator on a fixed interval until the context is
// cancelled. A failed pass is logged and retried on the next tick; the
// runner never stops on pass errors.
type TickerRunner struct {
	evaluator *services.ReminderEvaluator
	interval  time.Duration
	logger    *zap.Logger
}

// NewTickerRunner creates a new ticker runner
func NewTickerRunner(evaluator *services.ReminderEvaluator, interval time.Duration, logger *zap.Logger) *TickerRunner {
	return &TickerRunner{
		evaluator: evaluator,
		interval:  interval,
		logger:    logger,
	}
}

// Run blocks, executing one pass per tick, until ctx is cancelled. The
// first pass runs immediately.
func (r *TickerRunner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.pass(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Ticker runner stopped")
			return
		case <-ticker.C:
			r.pass(ctx)
		}
	}
}

func (r *TickerRunner) pass(ctx context.Context) {
	report, err := r.evaluator.Run(ctx)
	if err != nil {
		r.logger.Error("Evaluation pass failed, will retry next tick", zap.Error(err))
		return
	}

	r.logger.Debug("Evaluation pass finished",
		zap.Int("evaluated", report.Evaluated),
		zap.Int("emitted", report.Emitted),
	)
}

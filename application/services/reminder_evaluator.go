package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"medremind-backend/application/ports"
	"medremind-backend/domain/core/entities"
	"medremind-backend/domain/core/valueobjects"
	"medremind-backend/domain/events"
	pkgerrors "medremind-backend/pkg/errors"
	"medremind-backend/pkg/observability"
)

// Outcome classifies what a single evaluation pass decided for one medication.
type Outcome string

const (
	// OutcomeEmitted means a reminder was delivered to the sink
	OutcomeEmitted Outcome = "emitted"
	// OutcomeInactive means today falls outside the medication's date range,
	// or the range could not be parsed
	OutcomeInactive Outcome = "inactive"
	// OutcomeNotDue means the scheduled time is outside the tolerance window
	OutcomeNotDue Outcome = "not_due"
	// OutcomeSuppressed means a taken event already exists for today
	OutcomeSuppressed Outcome = "suppressed"
	// OutcomeFailed means delivery failed for this medication only
	OutcomeFailed Outcome = "failed"
)

// MedicationResult is the per-medication record of one pass.
type MedicationResult struct {
	MedicationID   string
	MedicationName string
	PatientEmail   string
	Outcome        Outcome
	NotificationID string
	// DedupFailed marks a reminder emitted without a working taken-event
	// check; the outcome stays OutcomeEmitted
	DedupFailed bool
	Err         error
}

// RunReport summarizes one evaluation pass.
type RunReport struct {
	StartedAt     time.Time
	Duration      time.Duration
	Evaluated     int
	Emitted       int
	Suppressed    int
	Failed        int
	DedupFailures int
	Results       []MedicationResult
}

// ReminderEvaluator is the periodic sweep at the heart of the system. Each
// pass loads every medication in one batch, decides per medication whether
// a reminder is owed right now, and pushes owed reminders to the sink.
//
// The evaluator holds no state between passes. Idempotence comes from the
// deterministic notification ID: re-emitting the same dose-slot coalesces
// at the sink instead of duplicating.
type ReminderEvaluator struct {
	medRepo       ports.MedicationRepository
	adherenceRepo ports.AdherenceRepository
	sink          ports.NotificationSink
	publisher     ports.EventPublisher
	clock         ports.Clock
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// NewReminderEvaluator creates a new reminder evaluator
func NewReminderEvaluator(
	medRepo ports.MedicationRepository,
	adherenceRepo ports.AdherenceRepository,
	sink ports.NotificationSink,
	publisher ports.EventPublisher,
	clock ports.Clock,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ReminderEvaluator {
	return &ReminderEvaluator{
		medRepo:       medRepo,
		adherenceRepo: adherenceRepo,
		sink:          sink,
		publisher:     publisher,
		clock:         clock,
		metrics:       metrics,
		logger:        logger,
	}
}

// Run executes one evaluation pass. A failed batch fetch aborts the whole
// pass with an error so the host can reschedule it; every failure after
// the fetch is isolated to its own medication and recorded in the report.
func (s *ReminderEvaluator) Run(ctx context.Context) (*RunReport, error) {
	now := s.clock.Now()
	started := time.Now()

	meds, err := s.medRepo.GetAll(ctx)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("fetch medications", err)
	}

	day := valueobjects.CalendarDateOf(now)
	tick := valueobjects.ClockTimeOf(now)

	results := make([]MedicationResult, len(meds))
	var wg sync.WaitGroup
	for i, med := range meds {
		wg.Add(1)
		go func(i int, med *entities.Medication) {
			defer wg.Done()
			results[i] = s.evaluateOne(ctx, med, day, tick)
		}(i, med)
	}
	// Every sub-evaluation settles before the report is assembled
	wg.Wait()

	sort.Slice(results, func(a, b int) bool {
		return results[a].MedicationID < results[b].MedicationID
	})

	report := &RunReport{
		StartedAt: now,
		Duration:  time.Since(started),
		Evaluated: len(results),
		Results:   results,
	}
	for _, r := range results {
		switch r.Outcome {
		case OutcomeEmitted:
			report.Emitted++
		case OutcomeSuppressed:
			report.Suppressed++
		case OutcomeFailed:
			report.Failed++
		}
		if r.DedupFailed {
			report.DedupFailures++
		}
	}

	s.metrics.RecordEvaluatorPass(ctx, report.Evaluated, report.Emitted, report.Suppressed, report.Failed, report.DedupFailures, report.Duration)

	s.logger.Info("Evaluation pass complete",
		zap.Int("evaluated", report.Evaluated),
		zap.Int("emitted", report.Emitted),
		zap.Int("suppressed", report.Suppressed),
		zap.Int("failed", report.Failed),
		zap.Int("dedupFailures", report.DedupFailures),
		zap.Duration("duration", report.Duration),
	)

	return report, nil
}

func (s *ReminderEvaluator) evaluateOne(ctx context.Context, med *entities.Medication, day valueobjects.CalendarDate, tick valueobjects.ClockTime) MedicationResult {
	res := MedicationResult{
		MedicationID:   med.ID().String(),
		MedicationName: med.Name(),
		PatientEmail:   med.PatientEmail(),
	}

	// Unparseable schedules evaluate to inactive, never to a reminder
	if !med.ActiveOn(day) {
		res.Outcome = OutcomeInactive
		return res
	}
	if !med.DueAt(tick) {
		res.Outcome = OutcomeNotDue
		return res
	}

	taken, err := s.adherenceRepo.HasTakenEvent(ctx, med.PatientEmail(), med.Name(), day.String())
	if err != nil {
		// A broken dedup check must not silence reminders. Remind anyway;
		// a duplicate coalesces at the sink, a missed dose does not.
		s.logger.Warn("Dedup check failed, emitting anyway",
			zap.String("medication_id", res.MedicationID),
			zap.Error(err),
		)
		res.DedupFailed = true
		taken = false
	}
	if taken {
		res.Outcome = OutcomeSuppressed
		return res
	}

	res.NotificationID = med.NotificationID(day)
	notification := ports.Notification{
		ID:        res.NotificationID,
		Title:     "Time to take your medication",
		Body:      fmt.Sprintf("%s, %s", med.Name(), med.Dosage()),
		Recipient: med.PatientEmail(),
	}

	if err := s.sink.Emit(ctx, notification); err != nil {
		s.logger.Error("Failed to deliver reminder",
			zap.String("medication_id", res.MedicationID),
			zap.String("recipient", res.PatientEmail),
			zap.Error(err),
		)
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}

	event := events.NewReminderEmitted(med.ID(), med.Name(), med.PatientEmail(), day.String(), res.NotificationID, s.clock.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish reminder event",
			zap.String("medication_id", res.MedicationID),
			zap.Error(err),
		)
	}

	res.Outcome = OutcomeEmitted
	return res
}

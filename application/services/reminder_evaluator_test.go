package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medremind-backend/application/ports"
	"medremind-backend/domain/core/entities"
	"medremind-backend/domain/core/valueobjects"
	"medremind-backend/infrastructure/persistence/memory"
	"medremind-backend/pkg/observability"
)

// nineAM is the pinned evaluation instant used across the scenarios
var nineAM = time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

type evaluatorFixture struct {
	meds      *memory.MedicationStore
	adherence *memory.AdherenceLog
	sink      *memory.NotificationRecorder
	events    *memory.EventRecorder
	evaluator *ReminderEvaluator
}

func newEvaluatorFixture(t *testing.T, now time.Time) *evaluatorFixture {
	t.Helper()
	f := &evaluatorFixture{
		meds:      memory.NewMedicationStore(),
		adherence: memory.NewAdherenceLog(),
		sink:      memory.NewNotificationRecorder(),
		events:    memory.NewEventRecorder(),
	}
	f.evaluator = NewReminderEvaluator(
		f.meds,
		f.adherence,
		f.sink,
		f.events,
		memory.FixedClock{Instant: now},
		observability.NewMetrics("test", nil),
		zap.NewNop(),
	)
	return f
}

func (f *evaluatorFixture) addMedication(t *testing.T, patient, name, dosage, start, end, timeOfDay string) *entities.Medication {
	t.Helper()
	med, err := entities.NewMedication(patient, name, dosage, start, end, timeOfDay, "")
	require.NoError(t, err)
	require.NoError(t, f.meds.Save(context.Background(), med))
	return med
}

func outcomeFor(report *RunReport, medicationID string) Outcome {
	for _, r := range report.Results {
		if r.MedicationID == medicationID {
			return r.Outcome
		}
	}
	return ""
}

func TestRunEmitsDueReminder(t *testing.T) {
	ctx := context.Background()
	f := newEvaluatorFixture(t, nineAM)
	med := f.addMedication(t, "alice@example.com", "Metformin", "500mg", "2026-08-01", "2026-09-30", "09:00")

	report, err := f.evaluator.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Evaluated)
	assert.Equal(t, 1, report.Emitted)
	assert.Equal(t, 0, report.Suppressed)
	assert.Equal(t, 0, report.Failed)

	emitted := f.sink.Emitted()
	require.Len(t, emitted, 1)
	assert.Equal(t, "Time to take your medication", emitted[0].Title)
	assert.Equal(t, "Metformin, 500mg", emitted[0].Body)
	assert.Equal(t, "alice@example.com", emitted[0].Recipient)
	assert.Equal(t, med.NotificationID(valueobjects.CalendarDateOf(nineAM)), emitted[0].ID)

	require.Len(t, f.events.Events(), 1)
}

func TestRunIsIdempotentAcrossPasses(t *testing.T) {
	ctx := context.Background()
	f := newEvaluatorFixture(t, nineAM)
	f.addMedication(t, "alice@example.com", "Metformin", "500mg", "2026-08-01", "2026-09-30", "09:00")

	_, err := f.evaluator.Run(ctx)
	require.NoError(t, err)
	_, err = f.evaluator.Run(ctx)
	require.NoError(t, err)

	emitted := f.sink.Emitted()
	require.Len(t, emitted, 2)
	// Same dose-slot, same identifier: the second delivery coalesces at
	// the sink instead of stacking
	assert.Equal(t, emitted[0].ID, emitted[1].ID)
}

func TestRunClassifiesOutcomes(t *testing.T) {
	ctx := context.Background()
	f := newEvaluatorFixture(t, nineAM)

	due := f.addMedication(t, "alice@example.com", "Metformin", "500mg", "2026-08-01", "2026-09-30", "09:03")
	notYet := f.addMedication(t, "alice@example.com", "Lisinopril", "10mg", "2026-08-01", "2026-09-30", "21:00")
	expired := f.addMedication(t, "alice@example.com", "Amoxicillin", "250mg", "2026-07-01", "2026-07-14", "09:00")
	inverted := f.addMedication(t, "bob@example.com", "Ibuprofen", "200mg", "2026-09-30", "2026-08-01", "09:00")

	report, err := f.evaluator.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Evaluated)
	assert.Equal(t, OutcomeEmitted, outcomeFor(report, due.ID().String()))
	assert.Equal(t, OutcomeNotDue, outcomeFor(report, notYet.ID().String()))
	assert.Equal(t, OutcomeInactive, outcomeFor(report, expired.ID().String()))
	assert.Equal(t, OutcomeInactive, outcomeFor(report, inverted.ID().String()))

	require.Len(t, f.sink.Emitted(), 1)
}

func TestRunSuppressesTakenDose(t *testing.T) {
	ctx := context.Background()
	f := newEvaluatorFixture(t, nineAM)
	f.addMedication(t, "alice@example.com", "Metformin", "500mg", "2026-08-01", "2026-09-30", "09:00")

	taken, err := entities.NewAdherenceEvent("alice@example.com", "Metformin", true, nineAM.Add(-30*time.Minute))
	require.NoError(t, err)
	require.NoError(t, f.adherence.Append(ctx, taken))

	report, err := f.evaluator.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Suppressed)
	assert.Equal(t, 0, report.Emitted)
	assert.Empty(t, f.sink.Emitted())
}

func TestRunSkippedDoseDoesNotSuppress(t *testing.T) {
	ctx := context.Background()
	f := newEvaluatorFixture(t, nineAM)
	f.addMedication(t, "alice@example.com", "Metformin", "500mg", "2026-08-01", "2026-09-30", "09:00")

	skipped, err := entities.NewAdherenceEvent("alice@example.com", "Metformin", false, nineAM.Add(-30*time.Minute))
	require.NoError(t, err)
	require.NoError(t, f.adherence.Append(ctx, skipped))

	report, err := f.evaluator.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Emitted)
	assert.Equal(t, 0, report.Suppressed)
}

func TestRunDedupFailureEmitsAnyway(t *testing.T) {
	ctx := context.Background()
	f := newEvaluatorFixture(t, nineAM)
	f.addMedication(t, "alice@example.com", "Metformin", "500mg", "2026-08-01", "2026-09-30", "09:00")
	f.adherence.FailQueries = errors.New("provisioned throughput exceeded")

	report, err := f.evaluator.Run(ctx)
	require.NoError(t, err)

	// A broken dedup check fails open: the reminder still goes out, and
	// the pass counts the failed check separately from delivery failures
	assert.Equal(t, 1, report.Emitted)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 1, report.DedupFailures)
	require.Len(t, f.sink.Emitted(), 1)
}

func TestRunBatchFetchFailureAbortsPass(t *testing.T) {
	ctx := context.Background()
	f := newEvaluatorFixture(t, nineAM)
	f.meds.FailScans = errors.New("table scan throttled")

	report, err := f.evaluator.Run(ctx)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Empty(t, f.sink.Emitted())
}

// flakySink delivers normally except for one recipient.
type flakySink struct {
	inner   *memory.NotificationRecorder
	failFor string
}

func (s *flakySink) Emit(ctx context.Context, n ports.Notification) error {
	if n.Recipient == s.failFor {
		return fmt.Errorf("connection gone for %s", n.Recipient)
	}
	return s.inner.Emit(ctx, n)
}

func (s *flakySink) Dismiss(ctx context.Context, recipient, notificationID string) error {
	return s.inner.Dismiss(ctx, recipient, notificationID)
}

func TestRunIsolatesDeliveryFailures(t *testing.T) {
	ctx := context.Background()
	f := newEvaluatorFixture(t, nineAM)
	sink := &flakySink{inner: f.sink, failFor: "bob@example.com"}
	evaluator := NewReminderEvaluator(
		f.meds, f.adherence, sink, f.events,
		memory.FixedClock{Instant: nineAM},
		observability.NewMetrics("test", nil),
		zap.NewNop(),
	)

	okMed := f.addMedication(t, "alice@example.com", "Metformin", "500mg", "2026-08-01", "2026-09-30", "09:00")
	badMed := f.addMedication(t, "bob@example.com", "Lisinopril", "10mg", "2026-08-01", "2026-09-30", "09:00")

	report, err := evaluator.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Emitted)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, OutcomeEmitted, outcomeFor(report, okMed.ID().String()))
	assert.Equal(t, OutcomeFailed, outcomeFor(report, badMed.ID().String()))

	for _, r := range report.Results {
		if r.MedicationID == badMed.ID().String() {
			assert.Error(t, r.Err)
		}
	}

	emitted := f.sink.Emitted()
	require.Len(t, emitted, 1)
	assert.Equal(t, "alice@example.com", emitted[0].Recipient)
}

func TestRunResultsAreSorted(t *testing.T) {
	ctx := context.Background()
	f := newEvaluatorFixture(t, nineAM)
	for i := 0; i < 8; i++ {
		f.addMedication(t, "alice@example.com", fmt.Sprintf("Med%d", i), "1 tablet",
			"2026-08-01", "2026-09-30", "09:00")
	}

	report, err := f.evaluator.Run(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(report.Results))
	for _, r := range report.Results {
		ids = append(ids, r.MedicationID)
	}
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestRunEmptyStore(t *testing.T) {
	f := newEvaluatorFixture(t, nineAM)

	report, err := f.evaluator.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Evaluated)
	assert.Empty(t, report.Results)
}

package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medremind-backend/domain/core/valueobjects"
)

func newTestMedication(t *testing.T, startDate, endDate, timeOfDay string) *Medication {
	t.Helper()
	med, err := NewMedication("alice@example.com", "Metformin", "500mg", startDate, endDate, timeOfDay, "")
	require.NoError(t, err)
	return med
}

func dayOf(t *testing.T, s string) valueobjects.CalendarDate {
	t.Helper()
	d, err := valueobjects.ParseCalendarDate(s)
	require.NoError(t, err)
	return d
}

func tickOf(t *testing.T, s string) valueobjects.ClockTime {
	t.Helper()
	c, err := valueobjects.ParseClockTime(s)
	require.NoError(t, err)
	return c
}

func TestNewMedication(t *testing.T) {
	t.Run("creates medication with creation event", func(t *testing.T) {
		med := newTestMedication(t, "2026-01-01", "2026-12-31", "08:00")

		assert.NotEmpty(t, med.ID().String())
		assert.Equal(t, "Metformin", med.Name())
		assert.Equal(t, "500mg", med.Dosage())
		assert.Equal(t, "alice@example.com", med.PatientEmail())
		assert.Len(t, med.GetUncommittedEvents(), 1)

		med.MarkEventsAsCommitted()
		assert.Empty(t, med.GetUncommittedEvents())
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		cases := []struct {
			name                                                  string
			email, medName, dosage, start, end, timeOfDay, reason string
		}{
			{"empty email", "", "Metformin", "500mg", "2026-01-01", "2026-12-31", "08:00", "patientEmail"},
			{"empty name", "alice@example.com", "", "500mg", "2026-01-01", "2026-12-31", "08:00", "name"},
			{"empty dosage", "alice@example.com", "Metformin", "", "2026-01-01", "2026-12-31", "08:00", "dosage"},
			{"bad start date", "alice@example.com", "Metformin", "500mg", "Jan 1", "2026-12-31", "08:00", "startDate"},
			{"bad end date", "alice@example.com", "Metformin", "500mg", "2026-01-01", "someday", "08:00", "endDate"},
			{"bad time", "alice@example.com", "Metformin", "500mg", "2026-01-01", "2026-12-31", "8am", "timeOfDay"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewMedication(tc.email, tc.medName, tc.dosage, tc.start, tc.end, tc.timeOfDay, "")
				assert.Error(t, err)
			})
		}
	})

	t.Run("accepts inverted date range", func(t *testing.T) {
		// Inversion is handled fail-closed by ActiveOn, not rejected here
		med, err := NewMedication("alice@example.com", "Metformin", "500mg", "2026-12-31", "2026-01-01", "08:00", "")
		require.NoError(t, err)
		assert.False(t, med.ActiveOn(dayOf(t, "2026-06-15")))
	})
}

func TestReconstructMedication(t *testing.T) {
	created := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	t.Run("preserves timestamps and raw schedule literals", func(t *testing.T) {
		med, err := ReconstructMedication(
			valueobjects.NewMedicationID(),
			"alice@example.com", "Metformin", "500mg",
			"not-a-date", "also-not-a-date", "nope", "notes",
			created, updated,
		)
		require.NoError(t, err)
		assert.Equal(t, created, med.CreatedAt())
		assert.Equal(t, updated, med.UpdatedAt())
		assert.Equal(t, "not-a-date", med.StartDate())
		assert.Empty(t, med.GetUncommittedEvents())
	})

	t.Run("still requires identity fields", func(t *testing.T) {
		_, err := ReconstructMedication(valueobjects.NewMedicationID(), "", "Metformin", "500mg",
			"2026-01-01", "2026-12-31", "08:00", "", created, updated)
		assert.Error(t, err)
	})
}

func TestActiveOn(t *testing.T) {
	med := newTestMedication(t, "2026-06-01", "2026-06-30", "08:00")

	assert.True(t, med.ActiveOn(dayOf(t, "2026-06-01")), "start day is inclusive")
	assert.True(t, med.ActiveOn(dayOf(t, "2026-06-30")), "end day is inclusive")
	assert.True(t, med.ActiveOn(dayOf(t, "2026-06-15")))
	assert.False(t, med.ActiveOn(dayOf(t, "2026-05-31")))
	assert.False(t, med.ActiveOn(dayOf(t, "2026-07-01")))

	t.Run("malformed stored dates fail closed", func(t *testing.T) {
		broken, err := ReconstructMedication(valueobjects.NewMedicationID(),
			"alice@example.com", "Metformin", "500mg",
			"garbage", "2026-06-30", "08:00", "", time.Now(), time.Now())
		require.NoError(t, err)
		assert.False(t, broken.ActiveOn(dayOf(t, "2026-06-15")))
	})
}

func TestDueAt(t *testing.T) {
	med := newTestMedication(t, "2026-01-01", "2026-12-31", "09:00")

	assert.True(t, med.DueAt(tickOf(t, "09:00")))
	assert.True(t, med.DueAt(tickOf(t, "08:55")), "lower tolerance bound")
	assert.True(t, med.DueAt(tickOf(t, "09:05")), "upper tolerance bound")
	assert.False(t, med.DueAt(tickOf(t, "08:54")))
	assert.False(t, med.DueAt(tickOf(t, "09:06")))

	t.Run("no wraparound at midnight", func(t *testing.T) {
		early, err := NewMedication("alice@example.com", "Metformin", "500mg",
			"2026-01-01", "2026-12-31", "00:02", "")
		require.NoError(t, err)
		assert.False(t, early.DueAt(tickOf(t, "23:58")))
	})

	t.Run("malformed stored time fails closed", func(t *testing.T) {
		broken, err := ReconstructMedication(valueobjects.NewMedicationID(),
			"alice@example.com", "Metformin", "500mg",
			"2026-01-01", "2026-12-31", "breakfast", "", time.Now(), time.Now())
		require.NoError(t, err)
		assert.False(t, broken.DueAt(tickOf(t, "09:00")))
	})
}

func TestNotificationID(t *testing.T) {
	med := newTestMedication(t, "2026-01-01", "2026-12-31", "09:00")
	day := dayOf(t, "2026-08-30")

	t.Run("stable for the same dose-slot", func(t *testing.T) {
		assert.Equal(t, med.NotificationID(day), med.NotificationID(day))
	})

	t.Run("changes across days", func(t *testing.T) {
		assert.NotEqual(t, med.NotificationID(day), med.NotificationID(dayOf(t, "2026-08-31")))
	})

	t.Run("changes across medications", func(t *testing.T) {
		other := newTestMedication(t, "2026-01-01", "2026-12-31", "09:00")
		assert.NotEqual(t, med.NotificationID(day), other.NotificationID(day))
	})
}

package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medremind-backend/application/queries"
	"medremind-backend/application/services"
	"medremind-backend/domain/core/entities"
	"medremind-backend/infrastructure/persistence/memory"
	pkgerrors "medremind-backend/pkg/errors"
)

type queryFixture struct {
	meds       *memory.MedicationStore
	adherence  *memory.AdherenceLog
	accounts   *memory.AccountStore
	visibility *services.VisibilityService
}

func newQueryFixture(t *testing.T) *queryFixture {
	t.Helper()
	f := &queryFixture{
		meds:      memory.NewMedicationStore(),
		adherence: memory.NewAdherenceLog(),
		accounts:  memory.NewAccountStore(),
	}
	// nil cache keeps every plan resolution live against the stores
	f.visibility = services.NewVisibilityService(f.accounts, f.meds, nil, zap.NewNop())
	return f
}

func (f *queryFixture) seedPatient(t *testing.T, email string, caregivers ...string) {
	t.Helper()
	patient, err := entities.NewAccount(email, entities.RolePatient)
	require.NoError(t, err)
	for _, c := range caregivers {
		require.NoError(t, patient.GrantCaregiver(c))
	}
	require.NoError(t, f.accounts.Create(context.Background(), patient))
}

func (f *queryFixture) seedCaregiver(t *testing.T, email string) {
	t.Helper()
	caregiver, err := entities.NewAccount(email, entities.RoleCaregiver)
	require.NoError(t, err)
	require.NoError(t, f.accounts.Create(context.Background(), caregiver))
}

func (f *queryFixture) seedMedication(t *testing.T, patient, name string) *entities.Medication {
	t.Helper()
	med, err := entities.NewMedication(patient, name, "1 tablet", "2026-01-01", "2026-12-31", "09:00", "")
	require.NoError(t, err)
	require.NoError(t, f.meds.Save(context.Background(), med))
	return med
}

func TestListMedicationsHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("patient lists own medications", func(t *testing.T) {
		f := newQueryFixture(t)
		f.seedPatient(t, "alice@example.com")
		f.seedMedication(t, "alice@example.com", "Metformin")
		f.seedMedication(t, "alice@example.com", "Lisinopril")
		h := NewListMedicationsHandler(f.visibility, zap.NewNop())

		result, err := h.Handle(ctx, queries.ListMedicationsQuery{RequesterEmail: "alice@example.com"})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Total)
		require.Len(t, result.Medications, 2)
		assert.Equal(t, "Lisinopril", result.Medications[0].Name)
		assert.Equal(t, "Metformin", result.Medications[1].Name)
	})

	t.Run("caregiver lists ward medications", func(t *testing.T) {
		f := newQueryFixture(t)
		f.seedCaregiver(t, "carol@example.com")
		f.seedPatient(t, "alice@example.com", "carol@example.com")
		f.seedPatient(t, "bob@example.com")
		f.seedMedication(t, "alice@example.com", "Metformin")
		f.seedMedication(t, "bob@example.com", "Warfarin")
		h := NewListMedicationsHandler(f.visibility, zap.NewNop())

		result, err := h.Handle(ctx, queries.ListMedicationsQuery{RequesterEmail: "carol@example.com"})
		require.NoError(t, err)
		require.Len(t, result.Medications, 1)
		assert.Equal(t, "Metformin", result.Medications[0].Name)
		assert.Equal(t, "alice@example.com", result.Medications[0].PatientEmail)
	})

	t.Run("view carries RFC3339 timestamps", func(t *testing.T) {
		f := newQueryFixture(t)
		f.seedPatient(t, "alice@example.com")
		f.seedMedication(t, "alice@example.com", "Metformin")
		h := NewListMedicationsHandler(f.visibility, zap.NewNop())

		result, err := h.Handle(ctx, queries.ListMedicationsQuery{RequesterEmail: "alice@example.com"})
		require.NoError(t, err)
		_, err = time.Parse(time.RFC3339, result.Medications[0].CreatedAt)
		assert.NoError(t, err)
	})
}

func TestGetMedicationHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("owner reads own medication", func(t *testing.T) {
		f := newQueryFixture(t)
		f.seedPatient(t, "alice@example.com")
		med := f.seedMedication(t, "alice@example.com", "Metformin")
		h := NewGetMedicationHandler(f.meds, f.visibility, zap.NewNop())

		result, err := h.Handle(ctx, queries.GetMedicationQuery{
			MedicationID:   med.ID().String(),
			RequesterEmail: "alice@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "Metformin", result.Medication.Name)
	})

	t.Run("invisible medication is forbidden", func(t *testing.T) {
		f := newQueryFixture(t)
		f.seedPatient(t, "alice@example.com")
		f.seedPatient(t, "bob@example.com")
		med := f.seedMedication(t, "bob@example.com", "Warfarin")
		h := NewGetMedicationHandler(f.meds, f.visibility, zap.NewNop())

		_, err := h.Handle(ctx, queries.GetMedicationQuery{
			MedicationID:   med.ID().String(),
			RequesterEmail: "alice@example.com",
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsForbidden(err))
	})

	t.Run("granted caregiver reads ward medication", func(t *testing.T) {
		f := newQueryFixture(t)
		f.seedCaregiver(t, "carol@example.com")
		f.seedPatient(t, "alice@example.com", "carol@example.com")
		med := f.seedMedication(t, "alice@example.com", "Metformin")
		h := NewGetMedicationHandler(f.meds, f.visibility, zap.NewNop())

		result, err := h.Handle(ctx, queries.GetMedicationQuery{
			MedicationID:   med.ID().String(),
			RequesterEmail: "carol@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "Metformin", result.Medication.Name)
	})
}

func TestAdherenceHistoryHandler(t *testing.T) {
	ctx := context.Background()

	appendEvent := func(t *testing.T, f *queryFixture, patient, med string, at time.Time) {
		t.Helper()
		e, err := entities.NewAdherenceEvent(patient, med, true, at)
		require.NoError(t, err)
		require.NoError(t, f.adherence.Append(ctx, e))
	}

	t.Run("returns newest first", func(t *testing.T) {
		f := newQueryFixture(t)
		f.seedPatient(t, "alice@example.com")
		appendEvent(t, f, "alice@example.com", "Metformin", time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC))
		appendEvent(t, f, "alice@example.com", "Metformin", time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))
		appendEvent(t, f, "alice@example.com", "Metformin", time.Date(2026, 8, 30, 21, 0, 0, 0, time.UTC))
		h := NewAdherenceHistoryHandler(f.adherence, f.visibility, zap.NewNop())

		result, err := h.Handle(ctx, queries.AdherenceHistoryQuery{
			PatientEmail:   "alice@example.com",
			RequesterEmail: "alice@example.com",
		})
		require.NoError(t, err)
		require.Len(t, result.Events, 3)
		assert.Equal(t, "2026-08-30", result.Events[0].Date)
		assert.Equal(t, "21:00", result.Events[0].TimeRecorded)
		assert.Equal(t, "09:00", result.Events[1].TimeRecorded)
		assert.Equal(t, "2026-08-28", result.Events[2].Date)
	})

	t.Run("ungranted requester is forbidden", func(t *testing.T) {
		f := newQueryFixture(t)
		f.seedCaregiver(t, "carol@example.com")
		f.seedPatient(t, "alice@example.com")
		h := NewAdherenceHistoryHandler(f.adherence, f.visibility, zap.NewNop())

		_, err := h.Handle(ctx, queries.AdherenceHistoryQuery{
			PatientEmail:   "alice@example.com",
			RequesterEmail: "carol@example.com",
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsForbidden(err))
	})

	t.Run("granted caregiver reads ward history", func(t *testing.T) {
		f := newQueryFixture(t)
		f.seedCaregiver(t, "carol@example.com")
		f.seedPatient(t, "alice@example.com", "carol@example.com")
		appendEvent(t, f, "alice@example.com", "Metformin", time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))
		h := NewAdherenceHistoryHandler(f.adherence, f.visibility, zap.NewNop())

		result, err := h.Handle(ctx, queries.AdherenceHistoryQuery{
			PatientEmail:   "alice@example.com",
			RequesterEmail: "carol@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
	})
}

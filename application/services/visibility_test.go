package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medremind-backend/domain/core/entities"
	"medremind-backend/infrastructure/persistence/memory"
	"medremind-backend/pkg/cache"
)

type visibilityFixture struct {
	accounts *memory.AccountStore
	meds     *memory.MedicationStore
	service  *VisibilityService
}

func newVisibilityFixture(t *testing.T) *visibilityFixture {
	t.Helper()
	f := &visibilityFixture{
		accounts: memory.NewAccountStore(),
		meds:     memory.NewMedicationStore(),
	}
	f.service = NewVisibilityService(f.accounts, f.meds, cache.NewInMemoryCache(), zap.NewNop())
	return f
}

func (f *visibilityFixture) addPatient(t *testing.T, email string, caregivers ...string) {
	t.Helper()
	patient, err := entities.NewAccount(email, entities.RolePatient)
	require.NoError(t, err)
	for _, c := range caregivers {
		require.NoError(t, patient.GrantCaregiver(c))
	}
	require.NoError(t, f.accounts.Create(context.Background(), patient))
}

func (f *visibilityFixture) addCaregiver(t *testing.T, email string) {
	t.Helper()
	caregiver, err := entities.NewAccount(email, entities.RoleCaregiver)
	require.NoError(t, err)
	require.NoError(t, f.accounts.Create(context.Background(), caregiver))
}

func (f *visibilityFixture) addMedication(t *testing.T, patient, name string) {
	t.Helper()
	med, err := entities.NewMedication(patient, name, "1 tablet", "2026-01-01", "2026-12-31", "09:00", "")
	require.NoError(t, err)
	require.NoError(t, f.meds.Save(context.Background(), med))
}

func TestPlanFor(t *testing.T) {
	ctx := context.Background()

	t.Run("patient sees exactly themselves", func(t *testing.T) {
		f := newVisibilityFixture(t)
		f.addPatient(t, "alice@example.com", "carol@example.com")

		plan, err := f.service.PlanFor(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice@example.com"}, plan.PatientEmails)
	})

	t.Run("caregiver sees granting patients sorted", func(t *testing.T) {
		f := newVisibilityFixture(t)
		f.addCaregiver(t, "carol@example.com")
		f.addPatient(t, "zoe@example.com", "carol@example.com")
		f.addPatient(t, "alice@example.com", "carol@example.com")
		f.addPatient(t, "bob@example.com")

		plan, err := f.service.PlanFor(ctx, "carol@example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice@example.com", "zoe@example.com"}, plan.PatientEmails)
		assert.True(t, plan.Covers("alice@example.com"))
		assert.False(t, plan.Covers("bob@example.com"))
	})

	t.Run("caregiver with no grants gets empty plan", func(t *testing.T) {
		f := newVisibilityFixture(t)
		f.addCaregiver(t, "carol@example.com")

		plan, err := f.service.PlanFor(ctx, "carol@example.com")
		require.NoError(t, err)
		assert.Empty(t, plan.PatientEmails)
	})

	t.Run("unknown requester fails", func(t *testing.T) {
		f := newVisibilityFixture(t)
		_, err := f.service.PlanFor(ctx, "ghost@example.com")
		assert.Error(t, err)
	})
}

func TestVisibleMedications(t *testing.T) {
	ctx := context.Background()

	t.Run("merges ward medications sorted by owner then name", func(t *testing.T) {
		f := newVisibilityFixture(t)
		f.addCaregiver(t, "carol@example.com")
		f.addPatient(t, "zoe@example.com", "carol@example.com")
		f.addPatient(t, "alice@example.com", "carol@example.com")
		f.addMedication(t, "zoe@example.com", "Warfarin")
		f.addMedication(t, "alice@example.com", "Metformin")
		f.addMedication(t, "alice@example.com", "Lisinopril")

		meds, err := f.service.VisibleMedications(ctx, "carol@example.com")
		require.NoError(t, err)
		require.Len(t, meds, 3)
		assert.Equal(t, "Lisinopril", meds[0].Name())
		assert.Equal(t, "Metformin", meds[1].Name())
		assert.Equal(t, "Warfarin", meds[2].Name())
	})

	t.Run("patient never sees another patient's medications", func(t *testing.T) {
		f := newVisibilityFixture(t)
		f.addPatient(t, "alice@example.com")
		f.addPatient(t, "bob@example.com")
		f.addMedication(t, "alice@example.com", "Metformin")
		f.addMedication(t, "bob@example.com", "Warfarin")

		meds, err := f.service.VisibleMedications(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Len(t, meds, 1)
		assert.Equal(t, "Metformin", meds[0].Name())
	})

	t.Run("empty plan yields empty list", func(t *testing.T) {
		f := newVisibilityFixture(t)
		f.addCaregiver(t, "carol@example.com")

		meds, err := f.service.VisibleMedications(ctx, "carol@example.com")
		require.NoError(t, err)
		assert.Empty(t, meds)
	})
}

func TestCanSeePatient(t *testing.T) {
	ctx := context.Background()
	f := newVisibilityFixture(t)
	f.addCaregiver(t, "carol@example.com")
	f.addPatient(t, "alice@example.com", "carol@example.com")
	f.addPatient(t, "bob@example.com")

	t.Run("self is always visible", func(t *testing.T) {
		ok, err := f.service.CanSeePatient(ctx, "alice@example.com", "alice@example.com")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("granted caregiver sees ward", func(t *testing.T) {
		ok, err := f.service.CanSeePatient(ctx, "carol@example.com", "alice@example.com")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ungranted patient is invisible", func(t *testing.T) {
		ok, err := f.service.CanSeePatient(ctx, "carol@example.com", "bob@example.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestPlanForUsesCache(t *testing.T) {
	ctx := context.Background()
	f := newVisibilityFixture(t)
	f.addCaregiver(t, "carol@example.com")
	f.addPatient(t, "alice@example.com", "carol@example.com")

	first, err := f.service.PlanFor(ctx, "carol@example.com")
	require.NoError(t, err)
	require.Equal(t, []string{"alice@example.com"}, first.PatientEmails)

	// A new grant inside the cache window is not visible yet
	f.addPatient(t, "zoe@example.com", "carol@example.com")

	second, err := f.service.PlanFor(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.PatientEmails, second.PatientEmails)
}

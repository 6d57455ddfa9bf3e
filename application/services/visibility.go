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
	"medremind-backend/pkg/cache"
)

// planCacheTTL bounds how stale a caregiver's ward list may be. A fresh
// grant becomes visible within this window.
const planCacheTTL = 30 * time.Second

// VisibilityPlan names the patients whose data a requester may read.
type VisibilityPlan struct {
	// PatientEmails is the set of owners whose medications and adherence
	// history are visible. A patient's plan contains exactly their own
	// email; a caregiver's plan contains every patient that granted them
	// access, and may be empty.
	PatientEmails []string
}

// Covers reports whether the plan includes the given patient.
func (p VisibilityPlan) Covers(patientEmail string) bool {
	for _, e := range p.PatientEmails {
		if e == patientEmail {
			return true
		}
	}
	return false
}

// VisibilityService resolves which patients a requester can see.
type VisibilityService struct {
	accountRepo ports.AccountRepository
	medRepo     ports.MedicationRepository
	planCache   cache.Cache
	logger      *zap.Logger
}

// NewVisibilityService creates a new visibility service. The cache may be
// nil, in which case every plan is resolved from the store.
func NewVisibilityService(
	accountRepo ports.AccountRepository,
	medRepo ports.MedicationRepository,
	planCache cache.Cache,
	logger *zap.Logger,
) *VisibilityService {
	return &VisibilityService{
		accountRepo: accountRepo,
		medRepo:     medRepo,
		planCache:   planCache,
		logger:      logger,
	}
}

// PlanFor resolves the visibility plan for a requester. Patients always
// see themselves; caregivers see the patients that listed them. Caregiver
// plans are cached briefly because the ward lookup is scan-backed.
func (s *VisibilityService) PlanFor(ctx context.Context, requesterEmail string) (VisibilityPlan, error) {
	account, err := s.accountRepo.GetByEmail(ctx, requesterEmail)
	if err != nil {
		return VisibilityPlan{}, fmt.Errorf("failed to resolve requester account: %w", err)
	}

	if account.IsPatient() {
		return VisibilityPlan{PatientEmails: []string{account.Email()}}, nil
	}

	cacheKey := "plan:" + requesterEmail
	if s.planCache != nil {
		if cached, ok := s.planCache.Get(ctx, cacheKey); ok {
			if plan, ok := cached.(VisibilityPlan); ok {
				return plan, nil
			}
		}
	}

	patients, err := s.accountRepo.FindPatientsByCaregiver(ctx, requesterEmail)
	if err != nil {
		return VisibilityPlan{}, fmt.Errorf("failed to resolve ward patients: %w", err)
	}

	emails := make([]string, 0, len(patients))
	for _, p := range patients {
		emails = append(emails, p.Email())
	}
	sort.Strings(emails)

	plan := VisibilityPlan{PatientEmails: emails}
	if s.planCache != nil {
		s.planCache.Set(ctx, cacheKey, plan, planCacheTTL)
	}

	return plan, nil
}

// VisibleMedications loads every medication the requester may see. Ward
// lists are fetched concurrently, one query per patient, and all queries
// settle before the merged result is assembled. The merge is sorted by
// owner then name so output order does not depend on goroutine timing.
func (s *VisibilityService) VisibleMedications(ctx context.Context, requesterEmail string) ([]*entities.Medication, error) {
	plan, err := s.PlanFor(ctx, requesterEmail)
	if err != nil {
		return nil, err
	}

	if len(plan.PatientEmails) == 0 {
		return []*entities.Medication{}, nil
	}

	type result struct {
		meds []*entities.Medication
		err  error
	}

	results := make([]result, len(plan.PatientEmails))
	var wg sync.WaitGroup
	for i, email := range plan.PatientEmails {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			meds, err := s.medRepo.GetByPatient(ctx, email)
			results[i] = result{meds: meds, err: err}
		}(i, email)
	}
	wg.Wait()

	merged := make([]*entities.Medication, 0)
	for i, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("failed to load medications for %s: %w", plan.PatientEmails[i], r.err)
		}
		merged = append(merged, r.meds...)
	}

	sort.Slice(merged, func(a, b int) bool {
		if merged[a].PatientEmail() != merged[b].PatientEmail() {
			return merged[a].PatientEmail() < merged[b].PatientEmail()
		}
		return merged[a].Name() < merged[b].Name()
	})

	return merged, nil
}

// CanSeePatient reports whether the requester may read the given patient's
// data.
func (s *VisibilityService) CanSeePatient(ctx context.Context, requesterEmail, patientEmail string) (bool, error) {
	if requesterEmail == patientEmail {
		return true, nil
	}
	plan, err := s.PlanFor(ctx, requesterEmail)
	if err != nil {
		return false, err
	}
	return plan.Covers(patientEmail), nil
}

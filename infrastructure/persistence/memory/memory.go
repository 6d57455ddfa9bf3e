// Package memory provides in-memory implementations of the persistence
// ports. They back local development and the test suites; semantics mirror
// the DynamoDB implementations, including the absence of any ordering
// promise on reads.
package memory

import (
	"context"
	"sort"
	"sync"

	"medremind-backend/application/ports"
	"medremind-backend/domain/core/entities"
	"medremind-backend/domain/core/valueobjects"
	pkgerrors "medremind-backend/pkg/errors"
)

// MedicationStore is an in-memory ports.MedicationRepository
type MedicationStore struct {
	mu   sync.RWMutex
	meds map[string]*entities.Medication

	// FailScans forces GetAll to fail, for exercising degraded-store
	// behavior in tests
	FailScans error
}

// NewMedicationStore creates an empty medication store
func NewMedicationStore() *MedicationStore {
	return &MedicationStore{meds: make(map[string]*entities.Medication)}
}

// Save persists a medication
func (s *MedicationStore) Save(_ context.Context, med *entities.Medication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meds[med.ID().String()] = med
	return nil
}

// GetByID retrieves a medication by its ID
func (s *MedicationStore) GetByID(_ context.Context, id valueobjects.MedicationID) (*entities.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	med, ok := s.meds[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("medication")
	}
	return med, nil
}

// GetByPatient retrieves all medications owned by a patient
func (s *MedicationStore) GetByPatient(_ context.Context, patientEmail string) ([]*entities.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meds := make([]*entities.Medication, 0)
	for _, med := range s.meds {
		if med.PatientEmail() == patientEmail {
			meds = append(meds, med)
		}
	}
	return meds, nil
}

// GetAll retrieves every medication in one batch
func (s *MedicationStore) GetAll(_ context.Context) ([]*entities.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailScans != nil {
		return nil, s.FailScans
	}
	meds := make([]*entities.Medication, 0, len(s.meds))
	for _, med := range s.meds {
		meds = append(meds, med)
	}
	// Deliberately unordered, like a table scan
	return meds, nil
}

// Delete removes a medication
func (s *MedicationStore) Delete(_ context.Context, id valueobjects.MedicationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meds[id.String()]; !ok {
		return pkgerrors.NewNotFoundError("medication")
	}
	delete(s.meds, id.String())
	return nil
}

// AdherenceLog is an in-memory ports.AdherenceRepository
type AdherenceLog struct {
	mu     sync.RWMutex
	events []*entities.AdherenceEvent

	// FailQueries forces every read to fail, for exercising degraded-store
	// behavior in tests
	FailQueries error
}

// NewAdherenceLog creates an empty adherence log
func NewAdherenceLog() *AdherenceLog {
	return &AdherenceLog{events: make([]*entities.AdherenceEvent, 0)}
}

// Append inserts a new adherence event
func (l *AdherenceLog) Append(_ context.Context, event *entities.AdherenceEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

// HasTakenEvent reports whether a taken=true event exists for the dose-slot
func (l *AdherenceLog) HasTakenEvent(_ context.Context, patientEmail, medicationName, date string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.FailQueries != nil {
		return false, l.FailQueries
	}
	for _, e := range l.events {
		if e.PatientEmail() == patientEmail && e.MedicationName() == medicationName && e.Date() == date && e.Taken() {
			return true, nil
		}
	}
	return false, nil
}

// ListByPatient retrieves all adherence events for a patient
func (l *AdherenceLog) ListByPatient(_ context.Context, patientEmail string) ([]*entities.AdherenceEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.FailQueries != nil {
		return nil, l.FailQueries
	}
	events := make([]*entities.AdherenceEvent, 0)
	for _, e := range l.events {
		if e.PatientEmail() == patientEmail {
			events = append(events, e)
		}
	}
	return events, nil
}

// AccountStore is an in-memory ports.AccountRepository
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*entities.Account
}

// NewAccountStore creates an empty account store
func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string]*entities.Account)}
}

// Save persists an account
func (s *AccountStore) Create(_ context.Context, account *entities.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.Email()]; exists {
		return pkgerrors.NewConflictError("account already registered")
	}
	s.accounts[account.Email()] = account
	return nil
}

func (s *AccountStore) GrantCaregiver(_ context.Context, patientEmail, caregiverEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	patient, ok := s.accounts[patientEmail]
	if !ok {
		return pkgerrors.NewNotFoundError("account")
	}
	if !patient.HasCaregiver(caregiverEmail) {
		return patient.GrantCaregiver(caregiverEmail)
	}
	return nil
}

// GetByEmail retrieves an account by email
func (s *AccountStore) GetByEmail(_ context.Context, email string) (*entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[email]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("account")
	}
	return account, nil
}

// FindPatientsByCaregiver retrieves patients that granted the caregiver
func (s *AccountStore) FindPatientsByCaregiver(_ context.Context, caregiverEmail string) ([]*entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	patients := make([]*entities.Account, 0)
	for _, a := range s.accounts {
		if a.IsPatient() && a.HasCaregiver(caregiverEmail) {
			patients = append(patients, a)
		}
	}
	sort.Slice(patients, func(i, j int) bool {
		return patients[i].Email() < patients[j].Email()
	})
	return patients, nil
}

// ConnectionStore is an in-memory ports.ConnectionRepository
type ConnectionStore struct {
	mu    sync.RWMutex
	conns map[string]ports.Connection
}

// NewConnectionStore creates an empty connection store
func NewConnectionStore() *ConnectionStore {
	return &ConnectionStore{conns: make(map[string]ports.Connection)}
}

// Save registers a connection
func (s *ConnectionStore) Save(_ context.Context, conn ports.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn.ConnectionID] = conn
	return nil
}

// Delete removes a connection
func (s *ConnectionStore) Delete(_ context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, connectionID)
	return nil
}

// ListByRecipient retrieves connections for a recipient
func (s *ConnectionStore) ListByRecipient(_ context.Context, email string) ([]ports.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conns := make([]ports.Connection, 0)
	for _, c := range s.conns {
		if c.Email == email {
			conns = append(conns, c)
		}
	}
	return conns, nil
}

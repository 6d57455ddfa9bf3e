package ports

import (
	"context"
	"time"

	"medremind-backend/domain/core/entities"
	"medremind-backend/domain/core/valueobjects"
	"medremind-backend/domain/events"
)

// MedicationRepository defines the interface for medication persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type MedicationRepository interface {
	// Save persists a medication. Mutation is whole-record replacement.
	Save(ctx context.Context, med *entities.Medication) error

	// GetByID retrieves a medication by its ID
	GetByID(ctx context.Context, id valueobjects.MedicationID) (*entities.Medication, error)

	// GetByPatient retrieves all medications owned by a patient
	GetByPatient(ctx context.Context, patientEmail string) ([]*entities.Medication, error)

	// GetAll retrieves every medication across all patients in one batch.
	// The evaluator scans the whole collection per pass so store round-trips
	// stay O(1) rather than O(users).
	GetAll(ctx context.Context) ([]*entities.Medication, error)

	// Delete removes a medication. Adherence history is not cascaded.
	Delete(ctx context.Context, id valueobjects.MedicationID) error
}

// AdherenceRepository defines the interface for the append-only adherence log
type AdherenceRepository interface {
	// Append inserts a new adherence event. Events are never updated or
	// deleted; concurrent writers may both succeed for the same dose-slot.
	Append(ctx context.Context, event *entities.AdherenceEvent) error

	// HasTakenEvent reports whether at least one event exists for
	// (patient, medication name, date) with taken=true
	HasTakenEvent(ctx context.Context, patientEmail, medicationName, date string) (bool, error)

	// ListByPatient retrieves all adherence events for a patient
	ListByPatient(ctx context.Context, patientEmail string) ([]*entities.AdherenceEvent, error)
}

// AccountRepository defines the interface for user account persistence
type AccountRepository interface {
	// Create persists a new account. The email is the account identity;
	// creating an email that already exists fails with a conflict error,
	// it never replaces the stored record
	Create(ctx context.Context, account *entities.Account) error

	// GetByEmail retrieves an account by its email identity
	GetByEmail(ctx context.Context, email string) (*entities.Account, error)

	// GrantCaregiver adds one caregiver email to the patient's caregiver
	// set as a single atomic write, so concurrent grants from two devices
	// cannot overwrite each other
	GrantCaregiver(ctx context.Context, patientEmail, caregiverEmail string) error

	// FindPatientsByCaregiver retrieves every patient account whose
	// caregiver set contains the given caregiver email
	FindPatientsByCaregiver(ctx context.Context, caregiverEmail string) ([]*entities.Account, error)
}

// Connection is one live WebSocket attachment for a recipient. A recipient
// may hold several at once, one per device.
type Connection struct {
	ConnectionID string
	Email        string
	Endpoint     string
	ConnectedAt  time.Time
}

// ConnectionRepository tracks live WebSocket connections
type ConnectionRepository interface {
	// Save registers a connection
	Save(ctx context.Context, conn Connection) error

	// Delete removes a connection, typically on disconnect or when the
	// gateway reports it gone
	Delete(ctx context.Context, connectionID string) error

	// ListByRecipient retrieves every live connection for a recipient
	ListByRecipient(ctx context.Context, email string) ([]Connection, error)
}

// Notification is the payload handed to the delivery sink
type Notification struct {
	// ID is deterministically derived from (medication id, date) so the
	// sink can coalesce repeated emissions for the same dose-slot
	ID        string
	Title     string
	Body      string
	Recipient string
}

// NotificationSink delivers user-visible alerts. Delivery is fire-and-forget:
// a sink failure is reported to the caller for logging but never escalated.
type NotificationSink interface {
	// Emit delivers one reminder to the recipient's devices
	Emit(ctx context.Context, n Notification) error

	// Dismiss retracts a previously emitted notification, best effort
	Dismiss(ctx context.Context, recipient, notificationID string) error
}

// Clock supplies the current time. Injected so schedule logic is testable
// against fixed instants.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock
type SystemClock struct{}

// Now returns the current local time
func (SystemClock) Now() time.Time { return time.Now() }

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

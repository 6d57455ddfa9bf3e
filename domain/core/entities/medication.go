package entities

import (
	"hash/fnv"
	"strconv"
	"time"

	"medremind-backend/domain/core/valueobjects"
	"medremind-backend/domain/events"
	pkgerrors "medremind-backend/pkg/errors"
)

// ReminderTolerance is the window around the scheduled time-of-day within
// which a dose counts as due.
const ReminderTolerance = 5 // minutes

// Medication is the main entity representing one daily-dose prescription.
// Schedule fields are kept as the raw string literals the store holds:
// the store does not enforce well-formed dates or a non-inverted range, so
// every schedule check parses defensively and fails closed.
type Medication struct {
	// Private fields ensure encapsulation
	id           valueobjects.MedicationID
	name         string
	dosage       string
	patientEmail string
	startDate    string // YYYY-MM-DD, inclusive
	endDate      string // YYYY-MM-DD, inclusive
	timeOfDay    string // HH:MM, 24-hour wall clock
	notes        string
	createdAt    time.Time
	updatedAt    time.Time

	// Domain events that occurred during this entity's lifetime
	events []events.DomainEvent
}

// NewMedication creates a new medication with business rule validation.
// The date range is deliberately NOT checked for inversion: callers may
// persist an inverted range and the schedule logic treats it as never
// active.
func NewMedication(patientEmail, name, dosage, startDate, endDate, timeOfDay, notes string) (*Medication, error) {
	if patientEmail == "" {
		return nil, pkgerrors.NewValidationError("patientEmail cannot be empty")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("medication name cannot be empty")
	}
	if dosage == "" {
		return nil, pkgerrors.NewValidationError("dosage cannot be empty")
	}
	if _, err := valueobjects.ParseCalendarDate(startDate); err != nil {
		return nil, pkgerrors.NewValidationError("startDate must be YYYY-MM-DD")
	}
	if _, err := valueobjects.ParseCalendarDate(endDate); err != nil {
		return nil, pkgerrors.NewValidationError("endDate must be YYYY-MM-DD")
	}
	if _, err := valueobjects.ParseClockTime(timeOfDay); err != nil {
		return nil, pkgerrors.NewValidationError("timeOfDay must be HH:MM")
	}

	now := time.Now()
	med := &Medication{
		id:           valueobjects.NewMedicationID(),
		name:         name,
		dosage:       dosage,
		patientEmail: patientEmail,
		startDate:    startDate,
		endDate:      endDate,
		timeOfDay:    timeOfDay,
		notes:        notes,
		createdAt:    now,
		updatedAt:    now,
		events:       []events.DomainEvent{},
	}

	med.addEvent(events.NewMedicationCreated(med.id, patientEmail, name, now))

	return med, nil
}

// ReconstructMedication rebuilds a medication from repository data with
// preserved timestamps. No schedule validation happens here: records the
// store already holds are accepted as-is and handled fail-closed downstream.
func ReconstructMedication(
	id valueobjects.MedicationID,
	patientEmail, name, dosage, startDate, endDate, timeOfDay, notes string,
	createdAt, updatedAt time.Time,
) (*Medication, error) {
	if patientEmail == "" {
		return nil, pkgerrors.NewValidationError("patientEmail cannot be empty")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("medication name cannot be empty")
	}

	return &Medication{
		id:           id,
		name:         name,
		dosage:       dosage,
		patientEmail: patientEmail,
		startDate:    startDate,
		endDate:      endDate,
		timeOfDay:    timeOfDay,
		notes:        notes,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		events:       []events.DomainEvent{},
	}, nil
}

// ID returns the medication's identity
func (m *Medication) ID() valueobjects.MedicationID {
	return m.id
}

// Name returns the display name
func (m *Medication) Name() string {
	return m.name
}

// Dosage returns the dosage description
func (m *Medication) Dosage() string {
	return m.dosage
}

// PatientEmail returns the owning patient's identity
func (m *Medication) PatientEmail() string {
	return m.patientEmail
}

// StartDate returns the active-from date literal
func (m *Medication) StartDate() string {
	return m.startDate
}

// EndDate returns the active-until date literal (inclusive)
func (m *Medication) EndDate() string {
	return m.endDate
}

// TimeOfDay returns the daily trigger time literal
func (m *Medication) TimeOfDay() string {
	return m.timeOfDay
}

// Notes returns the free-text note
func (m *Medication) Notes() string {
	return m.notes
}

// CreatedAt returns the creation timestamp
func (m *Medication) CreatedAt() time.Time {
	return m.createdAt
}

// UpdatedAt returns the last update timestamp
func (m *Medication) UpdatedAt() time.Time {
	return m.updatedAt
}

// ActiveOn reports whether the medication's treatment range covers the given
// day. The comparison is calendar-date only, both ends inclusive. Any
// unparseable date literal makes the medication inactive: malformed data
// must never produce an alert. An inverted range covers no days.
func (m *Medication) ActiveOn(day valueobjects.CalendarDate) bool {
	from, err := valueobjects.ParseCalendarDate(m.startDate)
	if err != nil {
		return false
	}
	until, err := valueobjects.ParseCalendarDate(m.endDate)
	if err != nil {
		return false
	}
	return day.WithinInclusive(from, until)
}

// DueAt reports whether the given wall-clock time falls within the
// tolerance window around the scheduled time-of-day. Parse failures fail
// closed. The underlying minute distance is raw clock-face subtraction
// without midnight rollover, so a dose at 00:02 is not due at 23:58.
func (m *Medication) DueAt(now valueobjects.ClockTime) bool {
	scheduled, err := valueobjects.ParseClockTime(m.timeOfDay)
	if err != nil {
		return false
	}
	return scheduled.MinutesApart(now) <= ReminderTolerance
}

// NotificationID derives the delivery identifier for this medication's
// dose-slot on the given day. The value is a pure function of
// (medication id, date): every evaluator pass inside the same tolerance
// window produces the identical identifier, letting the delivery sink
// replace rather than stack duplicates.
func (m *Medication) NotificationID(day valueobjects.CalendarDate) string {
	h := fnv.New32a()
	h.Write([]byte(m.id.String()))
	h.Write([]byte(day.String()))
	return strconv.FormatUint(uint64(h.Sum32()), 10)
}

// MarkDeleted records the deletion event. History is not cascaded.
func (m *Medication) MarkDeleted() {
	m.addEvent(events.NewMedicationDeleted(m.id, m.patientEmail, m.name, time.Now()))
}

// GetUncommittedEvents returns events not yet persisted
func (m *Medication) GetUncommittedEvents() []events.DomainEvent {
	return m.events
}

// MarkEventsAsCommitted clears the event list
func (m *Medication) MarkEventsAsCommitted() {
	m.events = []events.DomainEvent{}
}

// addEvent records a domain event
func (m *Medication) addEvent(event events.DomainEvent) {
	m.events = append(m.events, event)
}

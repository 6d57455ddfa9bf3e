package entities

import (
	"time"

	"github.com/google/uuid"

	"medremind-backend/domain/core/valueobjects"
	pkgerrors "medremind-backend/pkg/errors"
)

// AdherenceEvent is one append-only entry in the adherence log: a dose was
// resolved as taken or skipped. The log references medications by
// denormalized name so history survives medication deletion. Multiple
// events may exist for the same (patient, medication, date); "resolved
// today" means at least one of them has Taken=true.
type AdherenceEvent struct {
	id             string
	medicationName string
	patientEmail   string
	date           string // YYYY-MM-DD, the calendar day being resolved
	timeRecorded   string // HH:MM, wall clock when the user responded
	taken          bool
}

// NewAdherenceEvent creates an adherence event stamped with the current
// wall-clock date and time. The stamp records when the user responded,
// not when the dose was scheduled.
func NewAdherenceEvent(patientEmail, medicationName string, taken bool, now time.Time) (*AdherenceEvent, error) {
	if patientEmail == "" {
		return nil, pkgerrors.NewValidationError("patientEmail cannot be empty")
	}
	if medicationName == "" {
		return nil, pkgerrors.NewValidationError("medicationName cannot be empty")
	}

	return &AdherenceEvent{
		id:             uuid.New().String(),
		medicationName: medicationName,
		patientEmail:   patientEmail,
		date:           valueobjects.CalendarDateOf(now).String(),
		timeRecorded:   valueobjects.ClockTimeOf(now).String(),
		taken:          taken,
	}, nil
}

// ReconstructAdherenceEvent rebuilds an event from repository data
func ReconstructAdherenceEvent(id, patientEmail, medicationName, date, timeRecorded string, taken bool) *AdherenceEvent {
	return &AdherenceEvent{
		id:             id,
		medicationName: medicationName,
		patientEmail:   patientEmail,
		date:           date,
		timeRecorded:   timeRecorded,
		taken:          taken,
	}
}

// ID returns the store-assigned identity
func (e *AdherenceEvent) ID() string {
	return e.id
}

// MedicationName returns the denormalized medication name
func (e *AdherenceEvent) MedicationName() string {
	return e.medicationName
}

// PatientEmail returns the owning patient's identity
func (e *AdherenceEvent) PatientEmail() string {
	return e.patientEmail
}

// Date returns the calendar day the event resolves
func (e *AdherenceEvent) Date() string {
	return e.date
}

// TimeRecorded returns the wall-clock time the response was captured
func (e *AdherenceEvent) TimeRecorded() string {
	return e.timeRecorded
}

// Taken reports whether the dose was resolved as taken
func (e *AdherenceEvent) Taken() bool {
	return e.taken
}

package events

import (
	"time"

	"medremind-backend/domain/core/valueobjects"
)

// SourceBackend identifies this service as the source of published events.
const SourceBackend = "medremind.backend"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Medication Events

// MedicationCreated is raised when a patient registers a new medication
type MedicationCreated struct {
	BaseEvent
	MedicationID valueobjects.MedicationID `json:"medication_id"`
	PatientEmail string                    `json:"patient_email"`
	Name         string                    `json:"name"`
}

// NewMedicationCreated creates a MedicationCreated event
func NewMedicationCreated(id valueobjects.MedicationID, patientEmail, name string, timestamp time.Time) MedicationCreated {
	return MedicationCreated{
		BaseEvent: BaseEvent{
			AggregateID: id.String(),
			EventType:   "medication.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		MedicationID: id,
		PatientEmail: patientEmail,
		Name:         name,
	}
}

// MedicationDeleted is raised when a patient removes a medication.
// Adherence history for the medication is deliberately left in place.
type MedicationDeleted struct {
	BaseEvent
	MedicationID valueobjects.MedicationID `json:"medication_id"`
	PatientEmail string                    `json:"patient_email"`
	Name         string                    `json:"name"`
}

// NewMedicationDeleted creates a MedicationDeleted event
func NewMedicationDeleted(id valueobjects.MedicationID, patientEmail, name string, timestamp time.Time) MedicationDeleted {
	return MedicationDeleted{
		BaseEvent: BaseEvent{
			AggregateID: id.String(),
			EventType:   "medication.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		MedicationID: id,
		PatientEmail: patientEmail,
		Name:         name,
	}
}

// Reminder Events

// ReminderEmitted is raised each time the evaluator pushes a dose reminder.
// Repeated passes inside the same tolerance window re-raise the event with
// the same NotificationID so downstream consumers can coalesce.
type ReminderEmitted struct {
	BaseEvent
	MedicationID   valueobjects.MedicationID `json:"medication_id"`
	MedicationName string                    `json:"medication_name"`
	PatientEmail   string                    `json:"patient_email"`
	Date           string                    `json:"date"`
	NotificationID string                    `json:"notification_id"`
}

// NewReminderEmitted creates a ReminderEmitted event
func NewReminderEmitted(id valueobjects.MedicationID, name, patientEmail, date, notificationID string, timestamp time.Time) ReminderEmitted {
	return ReminderEmitted{
		BaseEvent: BaseEvent{
			AggregateID: id.String(),
			EventType:   "reminder.emitted",
			Timestamp:   timestamp,
			Version:     1,
		},
		MedicationID:   id,
		MedicationName: name,
		PatientEmail:   patientEmail,
		Date:           date,
		NotificationID: notificationID,
	}
}

// Adherence Events

// AdherenceRecorded is raised when a dose is resolved as taken or skipped,
// either from a notification response or an in-app action
type AdherenceRecorded struct {
	BaseEvent
	EventID        string `json:"event_id"`
	MedicationName string `json:"medication_name"`
	PatientEmail   string `json:"patient_email"`
	Date           string `json:"date"`
	Taken          bool   `json:"taken"`
}

// NewAdherenceRecorded creates an AdherenceRecorded event
func NewAdherenceRecorded(eventID, medicationName, patientEmail, date string, taken bool, timestamp time.Time) AdherenceRecorded {
	return AdherenceRecorded{
		BaseEvent: BaseEvent{
			AggregateID: eventID,
			EventType:   "adherence.recorded",
			Timestamp:   timestamp,
			Version:     1,
		},
		EventID:        eventID,
		MedicationName: medicationName,
		PatientEmail:   patientEmail,
		Date:           date,
		Taken:          taken,
	}
}

// Account Events

// CaregiverAdded is raised when a patient grants a caregiver visibility
type CaregiverAdded struct {
	BaseEvent
	PatientEmail   string `json:"patient_email"`
	CaregiverEmail string `json:"caregiver_email"`
}

// NewCaregiverAdded creates a CaregiverAdded event
func NewCaregiverAdded(patientEmail, caregiverEmail string, timestamp time.Time) CaregiverAdded {
	return CaregiverAdded{
		BaseEvent: BaseEvent{
			AggregateID: patientEmail,
			EventType:   "account.caregiver_added",
			Timestamp:   timestamp,
			Version:     1,
		},
		PatientEmail:   patientEmail,
		CaregiverEmail: caregiverEmail,
	}
}

package commands

import "errors"

// ResponseKind is the closed set of notification responses
type ResponseKind string

const (
	ResponseTaken   ResponseKind = "taken"
	ResponseSkipped ResponseKind = "skipped"
)

// RecordAdherenceCommand represents a dose resolution: either a response to
// a reminder notification or an in-app mark. The resulting adherence event
// is stamped with the wall-clock time the response arrives, not the time the
// dose was scheduled.
type RecordAdherenceCommand struct {
	PatientEmail   string       `json:"patient_email" validate:"required,email"`
	MedicationName string       `json:"medication_name" validate:"required"`
	NotificationID string       `json:"notification_id"`
	Response       ResponseKind `json:"response" validate:"required,oneof=taken skipped"`
}

// Validate validates the RecordAdherenceCommand
func (c RecordAdherenceCommand) Validate() error {
	if c.PatientEmail == "" {
		return errors.New("patient email is required")
	}
	if c.MedicationName == "" {
		return errors.New("medication name is required")
	}
	if c.Response != ResponseTaken && c.Response != ResponseSkipped {
		return errors.New("response must be taken or skipped")
	}
	return nil
}

// Taken reports whether the response resolves the dose as taken
func (c RecordAdherenceCommand) Taken() bool {
	return c.Response == ResponseTaken
}

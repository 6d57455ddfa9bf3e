package commands

import (
	"errors"
	"regexp"
)

var (
	dateLiteral = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeLiteral = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// CreateMedicationCommand represents the command to register a new medication
// for the issuing patient. StartDate after EndDate is accepted on purpose:
// the store contract tolerates inverted ranges and the evaluator treats them
// as never active.
type CreateMedicationCommand struct {
	PatientEmail string `json:"patient_email" validate:"required,email"`
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Dosage       string `json:"dosage" validate:"required,min=1,max=200"`
	StartDate    string `json:"start_date" validate:"required"`
	EndDate      string `json:"end_date" validate:"required"`
	TimeOfDay    string `json:"time_of_day" validate:"required"`
	Notes        string `json:"notes" validate:"max=1000"`
}

// Validate validates the CreateMedicationCommand
func (c CreateMedicationCommand) Validate() error {
	if c.PatientEmail == "" {
		return errors.New("patient email is required")
	}
	if c.Name == "" {
		return errors.New("medication name is required")
	}
	if c.Dosage == "" {
		return errors.New("dosage is required")
	}
	if !dateLiteral.MatchString(c.StartDate) {
		return errors.New("start date must be YYYY-MM-DD")
	}
	if !dateLiteral.MatchString(c.EndDate) {
		return errors.New("end date must be YYYY-MM-DD")
	}
	if !timeLiteral.MatchString(c.TimeOfDay) {
		return errors.New("time of day must be HH:MM")
	}
	return nil
}

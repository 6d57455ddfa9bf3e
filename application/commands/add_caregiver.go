package commands

import "errors"

// AddCaregiverCommand represents a patient granting a caregiver visibility
// over their medications. The target account must exist and hold the
// caregiver role.
type AddCaregiverCommand struct {
	PatientEmail   string `json:"patient_email" validate:"required,email"`
	CaregiverEmail string `json:"caregiver_email" validate:"required,email"`
}

// Validate validates the AddCaregiverCommand
func (c AddCaregiverCommand) Validate() error {
	if c.PatientEmail == "" {
		return errors.New("patient email is required")
	}
	if c.CaregiverEmail == "" {
		return errors.New("caregiver email is required")
	}
	if c.PatientEmail == c.CaregiverEmail {
		return errors.New("cannot add yourself as caregiver")
	}
	return nil
}

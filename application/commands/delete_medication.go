package commands

import "errors"

// DeleteMedicationCommand represents the command to remove a medication.
// Only the owning patient may delete; adherence history for the medication
// stays in the log.
type DeleteMedicationCommand struct {
	MedicationID   string `json:"medication_id" validate:"required,uuid"`
	RequesterEmail string `json:"requester_email" validate:"required,email"`
}

// Validate validates the DeleteMedicationCommand
func (c DeleteMedicationCommand) Validate() error {
	if c.MedicationID == "" {
		return errors.New("medication ID is required")
	}
	if c.RequesterEmail == "" {
		return errors.New("requester email is required")
	}
	return nil
}

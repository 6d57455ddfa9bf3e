package queries

import "errors"

// GetMedicationQuery retrieves a single medication by ID. The requester
// must be the owning patient or one of the owner's caregivers.
type GetMedicationQuery struct {
	MedicationID   string `json:"medication_id" validate:"required,uuid"`
	RequesterEmail string `json:"requester_email" validate:"required,email"`
}

// Validate validates the GetMedicationQuery
func (q GetMedicationQuery) Validate() error {
	if q.MedicationID == "" {
		return errors.New("medication id is required")
	}
	if q.RequesterEmail == "" {
		return errors.New("requester email is required")
	}
	return nil
}

// GetMedicationResult is the response for GetMedicationQuery
type GetMedicationResult struct {
	Medication MedicationView `json:"medication"`
}

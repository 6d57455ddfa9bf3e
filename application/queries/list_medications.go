package queries

import "errors"

// ListMedicationsQuery retrieves every medication visible to the requester.
// Patients see their own list; caregivers see the merged lists of all
// patients who granted them access.
type ListMedicationsQuery struct {
	RequesterEmail string `json:"requester_email" validate:"required,email"`
}

// Validate validates the ListMedicationsQuery
func (q ListMedicationsQuery) Validate() error {
	if q.RequesterEmail == "" {
		return errors.New("requester email is required")
	}
	return nil
}

// MedicationView is the read model returned for a single medication
type MedicationView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	PatientEmail string `json:"patient_email"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	TimeOfDay    string `json:"time_of_day"`
	Notes        string `json:"notes,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// ListMedicationsResult is the response for ListMedicationsQuery
type ListMedicationsResult struct {
	Medications []MedicationView `json:"medications"`
	Total       int              `json:"total"`
}

package queries

import "errors"

// AdherenceHistoryQuery retrieves the adherence log for a patient,
// newest entries first. Caregivers may read the history of patients
// who granted them access.
type AdherenceHistoryQuery struct {
	PatientEmail   string `json:"patient_email" validate:"required,email"`
	RequesterEmail string `json:"requester_email" validate:"required,email"`
}

// Validate validates the AdherenceHistoryQuery
func (q AdherenceHistoryQuery) Validate() error {
	if q.PatientEmail == "" {
		return errors.New("patient email is required")
	}
	if q.RequesterEmail == "" {
		return errors.New("requester email is required")
	}
	return nil
}

// AdherenceEventView is the read model for one adherence log entry
type AdherenceEventView struct {
	EventID        string `json:"event_id"`
	MedicationName string `json:"medication_name"`
	PatientEmail   string `json:"patient_email"`
	Date           string `json:"date"`
	TimeRecorded   string `json:"time_recorded"`
	Taken          bool   `json:"taken"`
}

// AdherenceHistoryResult is the response for AdherenceHistoryQuery
type AdherenceHistoryResult struct {
	Events []AdherenceEventView `json:"events"`
	Total  int                  `json:"total"`
}

package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// MedicationID is a value object representing a unique medication identifier
// Value objects are immutable and have no identity beyond their value
type MedicationID struct {
	value string
}

// NewMedicationID creates a new random MedicationID
func NewMedicationID() MedicationID {
	return MedicationID{value: uuid.New().String()}
}

// NewMedicationIDFromString creates a MedicationID from an existing string
func NewMedicationIDFromString(id string) (MedicationID, error) {
	if id == "" {
		return MedicationID{}, errors.New("medication ID cannot be empty")
	}
	if !isValidUUID(id) {
		return MedicationID{}, errors.New("medication ID must be a valid UUID")
	}
	return MedicationID{value: id}, nil
}

// String returns the string representation of the MedicationID
func (id MedicationID) String() string {
	return id.value
}

// Equals checks if two MedicationIDs are equal
func (id MedicationID) Equals(other MedicationID) bool {
	return id.value == other.value
}

// IsZero checks if the MedicationID is the zero value
func (id MedicationID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id MedicationID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *MedicationID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("MedicationID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}

// isValidUUID validates if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

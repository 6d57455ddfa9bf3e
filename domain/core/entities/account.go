package entities

import (
	"time"

	pkgerrors "medremind-backend/pkg/errors"
)

// Role is the closed set of account roles. Email identity plus role drives
// every visibility decision in the system.
type Role string

const (
	RolePatient   Role = "patient"
	RoleCaregiver Role = "caregiver"
)

// ParseRole validates a role literal
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePatient, RoleCaregiver:
		return Role(s), nil
	default:
		return "", pkgerrors.NewValidationError("role must be patient or caregiver")
	}
}

// Account represents an application user. Identity is the email address.
// Only patient accounts carry a caregiver set; the caregiver-to-ward
// relation is derived by searching patient accounts, never stored on the
// caregiver's own record.
type Account struct {
	email      string
	role       Role
	caregivers []string
	createdAt  time.Time
}

// NewAccount creates a new account
func NewAccount(email string, role Role) (*Account, error) {
	if email == "" {
		return nil, pkgerrors.NewValidationError("email cannot be empty")
	}
	if role != RolePatient && role != RoleCaregiver {
		return nil, pkgerrors.NewValidationError("role must be patient or caregiver")
	}

	return &Account{
		email:      email,
		role:       role,
		caregivers: []string{},
		createdAt:  time.Now(),
	}, nil
}

// ReconstructAccount rebuilds an account from repository data
func ReconstructAccount(email string, role Role, caregivers []string, createdAt time.Time) *Account {
	if caregivers == nil {
		caregivers = []string{}
	}
	return &Account{
		email:      email,
		role:       role,
		caregivers: caregivers,
		createdAt:  createdAt,
	}
}

// Email returns the account identity
func (a *Account) Email() string {
	return a.email
}

// Role returns the account role
func (a *Account) Role() Role {
	return a.role
}

// IsPatient reports whether this is a patient account
func (a *Account) IsPatient() bool {
	return a.role == RolePatient
}

// IsCaregiver reports whether this is a caregiver account
func (a *Account) IsCaregiver() bool {
	return a.role == RoleCaregiver
}

// Caregivers returns the caregiver emails granted visibility
func (a *Account) Caregivers() []string {
	out := make([]string, len(a.caregivers))
	copy(out, a.caregivers)
	return out
}

// CreatedAt returns the registration timestamp
func (a *Account) CreatedAt() time.Time {
	return a.createdAt
}

// GrantCaregiver adds a caregiver email to a patient account. Granting is
// idempotent; granting on a caregiver account is rejected.
func (a *Account) GrantCaregiver(caregiverEmail string) error {
	if !a.IsPatient() {
		return pkgerrors.NewValidationError("only patient accounts can add caregivers")
	}
	if caregiverEmail == "" {
		return pkgerrors.NewValidationError("caregiver email cannot be empty")
	}
	if caregiverEmail == a.email {
		return pkgerrors.NewValidationError("cannot add yourself as caregiver")
	}
	for _, existing := range a.caregivers {
		if existing == caregiverEmail {
			return nil
		}
	}
	a.caregivers = append(a.caregivers, caregiverEmail)
	return nil
}

// HasCaregiver reports whether the given caregiver has visibility
func (a *Account) HasCaregiver(caregiverEmail string) bool {
	for _, existing := range a.caregivers {
		if existing == caregiverEmail {
			return true
		}
	}
	return false
}

package commands

import "errors"

// RegisterAccountCommand represents new account registration. The identity
// provider has already authenticated the email; this only creates the
// profile record carrying the role.
type RegisterAccountCommand struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=patient caregiver"`
}

// Validate validates the RegisterAccountCommand
func (c RegisterAccountCommand) Validate() error {
	if c.Email == "" {
		return errors.New("email is required")
	}
	if c.Role != "patient" && c.Role != "caregiver" {
		return errors.New("role must be patient or caregiver")
	}
	return nil
}

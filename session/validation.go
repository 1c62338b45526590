package session

import (
	"regexp"
	"strings"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Registration carries the sign-up form fields. ConfirmPassword is checked
// client-side only and never sent to the server.
type Registration struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate applies the client-side rules in a fixed order and reports the
// first violation. The confirmation check only applies when a confirmation
// value was captured, since not every form has the field.
func (r Registration) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return &ValidationError{Field: "firstName", Message: "first name is required"}
	}
	if strings.TrimSpace(r.LastName) == "" {
		return &ValidationError{Field: "lastName", Message: "last name is required"}
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if err := validatePassword(r.Password); err != nil {
		return err
	}
	if r.ConfirmPassword != "" && r.Password != r.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Message: "passwords do not match"}
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Message: "please enter a valid email address"}
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "password too short"}
	}
	return nil
}

// validateLogin checks login fields before any network call. The password
// length rule matches registration: anything shorter can never be a valid
// account password, so there is no point sending it.
func validateLogin(email, password string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	return validatePassword(password)
}

package models

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateEmailFormat checks that email looks like an address
func ValidateEmailFormat(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return &ValidationError{Field: "email", Message: "Invalid email"}
	}
	return nil
}

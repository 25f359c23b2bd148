package models

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or malformed field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrPersonFieldsRequired = &ValidationError{Field: "name,email,address", Message: "Name, email, and address are required"}
	ErrRenameFieldsRequired = &ValidationError{Field: "name,address,newEmail", Message: "Name, address, and newEmail are required"}

	ErrPersonNotFound = errors.New("Person not found")
	ErrPersonConflict = errors.New("A person with this email already exists")
)

// StoreError wraps an unexpected persistence failure
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for signup dates
const DateLayout = "2006-01-02"

// Person is a constituent on the roster, keyed by email
type Person struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Address    string    `json:"address"`
	SignupTime string    `json:"signupTime"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewPerson creates a Person stamped with the current time
func NewPerson(name, email, address, signupTime string) *Person {
	now := time.Now().UTC()
	return &Person{
		Name:       name,
		Email:      email,
		Address:    address,
		SignupTime: signupTime,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// PersonInput is the payload of an upsert
type PersonInput struct {
	Name       string `json:"name" form:"name"`
	Email      string `json:"email" form:"email"`
	Address    string `json:"address" form:"address"`
	SignupTime string `json:"signupTime,omitempty" form:"signupTime"`
}

// Normalize trims every field and lower-cases the email
func (in *PersonInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	in.SignupTime = strings.TrimSpace(in.SignupTime)
}

// Validate checks the required fields. The receiver is expected to be
// normalized already. SignupTime is not checked here since it only matters
// when a new person is created.
func (in *PersonInput) Validate() error {
	if in.Name == "" || in.Email == "" || in.Address == "" {
		return ErrPersonFieldsRequired
	}
	return nil
}

// SignupDate returns the signup date for a new person: today when none was
// supplied, otherwise the supplied value as YYYY-MM-DD.
func (in *PersonInput) SignupDate(today string) (string, error) {
	if in.SignupTime == "" {
		return today, nil
	}
	return ParseSignupTime(in.SignupTime)
}

// RenameRequest is the payload of PUT /people/:email
type RenameRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	NewEmail string `json:"newEmail"`
}

// Normalize trims every field and lower-cases the new email
func (r *RenameRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	r.NewEmail = NormalizeEmail(r.NewEmail)
}

func (r *RenameRequest) Validate() error {
	if r.Name == "" || r.Address == "" || r.NewEmail == "" {
		return ErrRenameFieldsRequired
	}
	return nil
}

// PersonFilter holds inclusive signup date bounds. Empty bounds are open.
type PersonFilter struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// Matches reports whether the signup date falls inside the bounds.
// ISO dates compare correctly as strings.
func (f PersonFilter) Matches(signupTime string) bool {
	if f.StartDate != "" && signupTime < f.StartDate {
		return false
	}
	if f.EndDate != "" && signupTime > f.EndDate {
		return false
	}
	return true
}

// UpsertStatus tells the caller whether an upsert created or updated a record
type UpsertStatus string

const (
	StatusCreated UpsertStatus = "created"
	StatusUpdated UpsertStatus = "updated"
)

// NormalizeEmail makes email comparison case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var signupLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
	"01-02-06",
}

// ParseSignupTime accepts a handful of common date spellings and returns YYYY-MM-DD
func ParseSignupTime(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range signupLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", &ValidationError{Field: "signupTime", Message: "signupTime must be a date in YYYY-MM-DD format"}
}

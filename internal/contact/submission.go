// Package contact implements the contact-form pipeline: validation,
// notification formatting, delivery and the mapping of outcomes to the
// fixed set of responses shown to site visitors.
package contact

import "errors"

var (
	// ErrMissingField is returned when name, email or message is empty or absent.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidEmailFormat is returned when the email is present but not local@domain.tld.
	ErrInvalidEmailFormat = errors.New("invalid email format")
)

// Submission is one contact-form payload as decoded from the request body.
type Submission struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,contactemail"`
	Message string `json:"message" validate:"required"`
}

// ValidatedSubmission is a Submission that passed Validator.Validate.
// The fields are unexported so one cannot be built without validation.
type ValidatedSubmission struct {
	name    string
	email   string
	message string
}

func (v ValidatedSubmission) Name() string    { return v.name }
func (v ValidatedSubmission) Email() string   { return v.email }
func (v ValidatedSubmission) Message() string { return v.message }

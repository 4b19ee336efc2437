package contact

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// emailChar is anything but @ or whitespace. RE2's \s is ASCII only, so
// the remaining Unicode whitespace is listed explicitly.
const emailChar = `[^\s\v\p{Z}\x{FEFF}@]`

// emailPattern requires a local part, an @, and a domain with at least one
// dot, with no whitespace or second @ anywhere.
var emailPattern = regexp.MustCompile(`^` + emailChar + `+@` + emailChar + `+\.` + emailChar + `+$`)

// Validator checks field presence and email shape. Fields are not trimmed:
// a whitespace-only name or message counts as present.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator with the contactemail rule registered.
func NewValidator() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("register contactemail rule: %w", err)
	}
	return &Validator{validate: v}, nil
}

// Validate returns ErrMissingField if any field is empty, otherwise
// ErrInvalidEmailFormat if the email does not match, otherwise the
// validated submission.
func (v *Validator) Validate(s Submission) (ValidatedSubmission, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return ValidatedSubmission{name: s.Name, email: s.Email, message: s.Message}, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidatedSubmission{}, fmt.Errorf("validate submission: %w", err)
	}

	invalidEmail := false
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			return ValidatedSubmission{}, ErrMissingField
		case "contactemail":
			invalidEmail = true
		}
	}
	if invalidEmail {
		return ValidatedSubmission{}, ErrInvalidEmailFormat
	}
	return ValidatedSubmission{}, fmt.Errorf("validate submission: %w", err)
}

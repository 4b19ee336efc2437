package contact

import (
	"errors"
	"net/http"
)

// Messages returned to site visitors. Causes of server-side failures are
// logged and never included.
const (
	MessageMissingField = "All fields are required (Name, Email, Message)"
	MessageInvalidEmail = "Invalid email format"
	MessageSent         = "Message sent successfully!"
	MessageFailed       = "Failed to send message. Please try again later."
)

// Response maps a pipeline result to its HTTP status and visitor-facing message.
func Response(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, MessageSent
	case errors.Is(err, ErrMissingField):
		return http.StatusBadRequest, MessageMissingField
	case errors.Is(err, ErrInvalidEmailFormat):
		return http.StatusBadRequest, MessageInvalidEmail
	default:
		return http.StatusInternalServerError, MessageFailed
	}
}

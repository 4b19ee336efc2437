package provider

import (
	"errors"
	"fmt"
	"strings"

	gosmtp "github.com/emersion/go-smtp"
)

// ProviderError is a transport failure classified as permanent or transient.
type ProviderError struct {
	Provider string
	// StatusCode is the HTTP status or SMTP reply code.
	StatusCode int
	Message    string
	// Permanent indicates the error will not succeed on retry.
	Permanent bool
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.Provider, e.StatusCode, e.Message)
}

// IsPermanent reports whether err is a classified permanent failure.
func IsPermanent(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Permanent
	}
	return false
}

// IsTransient reports whether err may succeed on retry. Unclassified
// errors (network failures, timeouts) are transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return !pe.Permanent
	}
	return true
}

// ClassifyHTTPError creates a ProviderError from an HTTP status code and
// response body. It returns nil for 2xx codes.
func ClassifyHTTPError(providerName string, statusCode int, body string) *ProviderError {
	pe := &ProviderError{
		Provider:   providerName,
		StatusCode: statusCode,
		Message:    body,
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == 400:
		pe.Permanent = matchesAny(body, permanentRequestPatterns)
	case statusCode == 408, statusCode == 429:
		pe.Permanent = false
	case statusCode >= 500:
		pe.Permanent = matchesAny(body, permanentServerPatterns)
	default:
		// 401, 403, 404 and the rest of 4xx will not change on retry.
		pe.Permanent = statusCode >= 400 && statusCode < 500
	}

	return pe
}

// ClassifySMTPError maps an SMTP reply to a ProviderError: 4xx replies are
// transient, 5xx replies permanent. Errors that are not SMTP replies are
// returned unchanged.
func ClassifySMTPError(err error) error {
	var se *gosmtp.SMTPError
	if !errors.As(err, &se) {
		return err
	}
	return &ProviderError{
		Provider:   "smtp",
		StatusCode: se.Code,
		Message:    se.Message,
		Permanent:  se.Code >= 500,
	}
}

var permanentRequestPatterns = []string{
	"invalid recipient",
	"invalid email",
	"does not exist",
	"mailbox not found",
	"recipient rejected",
	"bad request",
	"validation error",
	"invalid address",
}

var permanentServerPatterns = []string{
	"invalid api key",
	"authentication failed",
	"account suspended",
	"account disabled",
	"unauthorized",
}

func matchesAny(body string, patterns []string) bool {
	lower := strings.ToLower(body)
	for _, pattern := range patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

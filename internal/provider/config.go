package provider

import (
	"errors"
	"time"
)

// SMTP TLS modes.
const (
	TLSModeStartTLS = "starttls"
	TLSModeImplicit = "implicit"
	TLSModeNone     = "none"
)

// ProviderConfig holds configuration for a mail provider.
type ProviderConfig struct {
	// Type identifies the provider: "smtp", "sendgrid", "mailgun", "ses", "stdout", "file".
	Type string

	// APIKey authenticates HTTP API providers. For ses it is the access key ID.
	APIKey string
	// SecretKey is the ses secret access key.
	SecretKey string

	// Endpoint overrides the default API URL. For file it is the output directory.
	Endpoint string
	Region   string
	Domain   string

	Timeout time.Duration

	SMTP SMTPSettings
}

// SMTPSettings configures the smtp provider.
type SMTPSettings struct {
	Host               string
	Port               int
	Username           string
	Password           string
	TLSMode            string
	InsecureSkipVerify bool
	// LocalName is the EHLO name for the none and implicit TLS modes.
	LocalName string
}

const defaultTimeout = 30 * time.Second

// Validate checks that required fields are set based on provider type and
// fills in defaults.
func (c *ProviderConfig) Validate() error {
	if c.Type == "" {
		return errors.New("provider type is required")
	}

	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}

	switch c.Type {
	case "smtp":
		if c.SMTP.Host == "" {
			return errors.New("smtp: host is required")
		}
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			return errors.New("smtp: port out of range")
		}
		switch c.SMTP.TLSMode {
		case "":
			c.SMTP.TLSMode = TLSModeStartTLS
		case TLSModeStartTLS, TLSModeImplicit, TLSModeNone:
		default:
			return errors.New("smtp: tls_mode must be starttls, implicit or none")
		}
		if (c.SMTP.Username == "") != (c.SMTP.Password == "") {
			return errors.New("smtp: username and password must be set together")
		}
		if c.SMTP.LocalName == "" {
			c.SMTP.LocalName = "localhost"
		}
	case "sendgrid":
		if c.APIKey == "" {
			return errors.New("sendgrid: api_key is required")
		}
	case "mailgun":
		if c.APIKey == "" {
			return errors.New("mailgun: api_key is required")
		}
		if c.Domain == "" {
			return errors.New("mailgun: domain is required")
		}
	case "ses":
		if c.Region == "" {
			return errors.New("ses: region is required")
		}
		if c.APIKey == "" {
			return errors.New("ses: api_key (access key ID) is required")
		}
		if c.SecretKey == "" {
			return errors.New("ses: secret_key is required")
		}
	case "stdout":
		// No configuration required.
	case "file":
		// Endpoint is the output directory; optional (defaults to ./mail_output).
	default:
		return errors.New("unknown provider type: " + c.Type)
	}

	return nil
}

// Package provider sends contact notifications through a mail transport:
// an SMTP relay, an HTTP email API, or a local development sink.
package provider

import (
	"context"
	"time"
)

// Provider defines the interface for handing a message to a mail transport.
type Provider interface {
	// Send delivers a message and returns the provider's acknowledgement.
	Send(ctx context.Context, msg *Message) (*DeliveryResult, error)
	// GetName returns the provider's identifier (e.g., "smtp", "ses").
	GetName() string
	// HealthCheck verifies the provider is reachable and accepting credentials.
	HealthCheck(ctx context.Context) error
}

// HTTPClient abstracts HTTP operations for testability.
type HTTPClient interface {
	Do(ctx context.Context, req *HTTPRequest) (*HTTPResponse, error)
}

// HTTPRequest represents an outgoing HTTP request.
type HTTPRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// HTTPResponse represents an HTTP response from a provider API.
type HTTPResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// Message is a single outbound email.
type Message struct {
	ID       string
	From     string // bare address
	FromName string // display name for From
	ReplyTo  string
	To       []string
	Subject  string
	Headers  map[string]string
	TextBody string
	HTMLBody string
}

// DeliveryResult contains the outcome of a delivery attempt.
type DeliveryResult struct {
	ProviderMessageID string
	Status            DeliveryStatus
	Timestamp         time.Time
	Metadata          map[string]string
}

// DeliveryStatus represents the outcome reported by a provider.
type DeliveryStatus string

// StatusSent means the provider accepted the message for delivery.
const StatusSent DeliveryStatus = "sent"

// Package delivery hands contact notifications to the configured mail
// provider and reports a single outcome per notification.
package delivery

import (
	"context"
	"errors"
	"time"
)

// ErrDelivery wraps every failure to hand a notification to the provider.
var ErrDelivery = errors.New("notification delivery failed")

// Service delivers one notification.
type Service interface {
	Deliver(ctx context.Context, req *Request) (*Outcome, error)
}

// Request contains the data needed to deliver a notification.
type Request struct {
	// SenderName becomes the From display name.
	SenderName string
	// ReplyTo is the submitter's address.
	ReplyTo   string
	Recipient string
	Subject   string
	TextBody  string
	HTMLBody  string
}

// Outcome describes a successful delivery.
type Outcome struct {
	MessageID         string
	Provider          string
	ProviderMessageID string
	Attempts          int
	Duration          time.Duration
}

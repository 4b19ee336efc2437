package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Cabdinasir64/portfolio-backend/internal/delivery"
	"github.com/Cabdinasir64/portfolio-backend/internal/logger"
	"github.com/Cabdinasir64/portfolio-backend/internal/metrics"
)

// Service runs a submission through validation, formatting and delivery.
type Service struct {
	validator *Validator
	formatter *Formatter
	delivery  delivery.Service
	log       zerolog.Logger
}

// NewService creates a contact Service.
func NewService(v *Validator, f *Formatter, d delivery.Service, log zerolog.Logger) *Service {
	return &Service{
		validator: v,
		formatter: f,
		delivery:  d,
		log:       log,
	}
}

// Submit validates sub and, when valid, delivers a notification for it.
// Validation failures return ErrMissingField or ErrInvalidEmailFormat and
// never reach the provider. Pass the result to Response for the HTTP reply.
func (s *Service) Submit(ctx context.Context, sub Submission) (*delivery.Outcome, error) {
	log := s.log.With().Str("correlation_id", logger.CorrelationIDFromContext(ctx)).Logger()

	valid, err := s.validator.Validate(sub)
	if err != nil {
		metrics.ContactSubmissionsTotal.WithLabelValues(resultLabel(err)).Inc()
		log.Debug().Err(err).Msg("contact submission rejected")
		return nil, err
	}

	n, err := s.formatter.Format(valid)
	if err != nil {
		metrics.ContactSubmissionsTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Msg("failed to format notification")
		return nil, fmt.Errorf("format notification: %w", err)
	}

	outcome, err := s.delivery.Deliver(ctx, &delivery.Request{
		SenderName: n.SenderName,
		ReplyTo:    n.SenderEmail,
		Recipient:  n.Recipient,
		Subject:    n.Subject,
		TextBody:   n.TextBody,
		HTMLBody:   n.HTMLBody,
	})
	if err != nil {
		metrics.ContactSubmissionsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	metrics.ContactSubmissionsTotal.WithLabelValues("sent").Inc()
	return outcome, nil
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrInvalidEmailFormat):
		return "invalid_email"
	default:
		return "failed"
	}
}

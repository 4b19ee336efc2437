package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Cabdinasir64/portfolio-backend/internal/logger"
	"github.com/Cabdinasir64/portfolio-backend/internal/metrics"
	"github.com/Cabdinasir64/portfolio-backend/internal/provider"
)

// Options configures a Gateway.
type Options struct {
	// FromAddress is the envelope and header sender for every notification.
	FromAddress string
	// Timeout bounds one delivery including retries.
	Timeout time.Duration
	// MaxRetries is the number of extra attempts after a transient failure.
	// Zero means a single attempt.
	MaxRetries   int
	RetryBackoff time.Duration
}

const defaultTimeout = 20 * time.Second

// Gateway delivers notifications through a single provider.
type Gateway struct {
	provider provider.Provider
	from     string
	timeout  time.Duration
	retry    *RetryStrategy
	log      zerolog.Logger
}

// NewGateway creates a Gateway sending through p.
func NewGateway(p provider.Provider, opts Options, log zerolog.Logger) *Gateway {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gateway{
		provider: p,
		from:     opts.FromAddress,
		timeout:  timeout,
		retry:    NewRetryStrategy(opts.MaxRetries, opts.RetryBackoff),
		log:      log,
	}
}

var headerSanitizer = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// correlationHeader ties a notification back to the request that produced it.
const correlationHeader = "X-Correlation-ID"

// Deliver sends req and returns the outcome. The send is detached from the
// caller's cancellation and bounded by the configured timeout, so a client
// that disconnects mid-send does not abort it. Failures wrap ErrDelivery.
func (g *Gateway) Deliver(ctx context.Context, req *Request) (*Outcome, error) {
	correlationID := logger.CorrelationIDFromContext(ctx)
	log := g.log.With().
		Str("correlation_id", correlationID).
		Str("provider", g.provider.GetName()).
		Logger()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()

	msg := &provider.Message{
		ID:       uuid.NewString(),
		From:     g.from,
		FromName: headerSanitizer.Replace(req.SenderName),
		ReplyTo:  req.ReplyTo,
		To:       []string{req.Recipient},
		Subject:  headerSanitizer.Replace(req.Subject),
		TextBody: req.TextBody,
		HTMLBody: req.HTMLBody,
	}
	if correlationID != "" {
		msg.Headers = map[string]string{correlationHeader: headerSanitizer.Replace(correlationID)}
	}

	start := time.Now()
	defer func() {
		metrics.MailDeliveryDuration.WithLabelValues(g.provider.GetName()).Observe(time.Since(start).Seconds())
	}()

	for attempt := 0; ; attempt++ {
		result, err := g.provider.Send(ctx, msg)
		if err == nil {
			metrics.MailDeliveryAttemptsTotal.WithLabelValues(g.provider.GetName(), "success").Inc()
			outcome := &Outcome{
				MessageID:         msg.ID,
				Provider:          g.provider.GetName(),
				ProviderMessageID: result.ProviderMessageID,
				Attempts:          attempt + 1,
				Duration:          time.Since(start),
			}
			log.Info().
				Str("message_id", outcome.MessageID).
				Str("provider_message_id", outcome.ProviderMessageID).
				Int("attempts", outcome.Attempts).
				Dur("duration", outcome.Duration).
				Msg("notification delivered")
			return outcome, nil
		}

		transient := provider.IsTransient(err)
		if transient {
			metrics.MailDeliveryAttemptsTotal.WithLabelValues(g.provider.GetName(), "transient").Inc()
		} else {
			metrics.MailDeliveryAttemptsTotal.WithLabelValues(g.provider.GetName(), "permanent").Inc()
		}

		if !transient || !g.retry.ShouldRetry(attempt) {
			log.Error().Err(err).
				Str("message_id", msg.ID).
				Int("attempts", attempt+1).
				Bool("permanent", !transient).
				Msg("notification delivery failed")
			return nil, fmt.Errorf("%w: %w", ErrDelivery, err)
		}

		wait := g.retry.NextBackoff(attempt)
		log.Warn().Err(err).
			Str("message_id", msg.ID).
			Int("attempt", attempt+1).
			Dur("backoff", wait).
			Msg("transient delivery failure, retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error().Err(ctx.Err()).Str("message_id", msg.ID).Msg("delivery timed out while waiting to retry")
			return nil, fmt.Errorf("%w: %w (last error: %v)", ErrDelivery, ctx.Err(), err)
		case <-timer.C:
		}
	}
}

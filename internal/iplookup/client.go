// Package iplookup fetches the service's public IP address from an upstream
// JSON endpoint such as api.ipify.org.
package iplookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/Cabdinasir64/portfolio-backend/internal/metrics"
)

var (
	// ErrUpstreamUnavailable is returned when the upstream answers with a non-2xx status.
	ErrUpstreamUnavailable = errors.New("ip upstream returned an error status")
	// ErrMalformedResponse is returned when a 2xx body is not {"ip": "<non-empty>"}.
	ErrMalformedResponse = errors.New("ip upstream returned a malformed response")
)

// Result is the upstream's answer.
type Result struct {
	IP string `json:"ip"`
}

// Client queries the upstream IP service.
type Client struct {
	http *resty.Client
	url  string
}

// New creates a Client for url. Each lookup is bounded by timeout.
func New(url string, timeout time.Duration, log zerolog.Logger) *Client {
	hc := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{log: log})
	return &Client{http: hc, url: url}
}

// Lookup performs one GET against the upstream. Cancelling ctx aborts it.
func (c *Client) Lookup(ctx context.Context) (Result, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.url)
	if err != nil {
		metrics.IPLookupsTotal.WithLabelValues("failure").Inc()
		return Result{}, fmt.Errorf("ip lookup request: %w", err)
	}

	if !resp.IsSuccess() {
		metrics.IPLookupsTotal.WithLabelValues("upstream_error").Inc()
		return Result{}, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode())
	}

	var res Result
	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		metrics.IPLookupsTotal.WithLabelValues("failure").Inc()
		return Result{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if res.IP == "" {
		metrics.IPLookupsTotal.WithLabelValues("failure").Inc()
		return Result{}, fmt.Errorf("%w: empty ip", ErrMalformedResponse)
	}

	metrics.IPLookupsTotal.WithLabelValues("success").Inc()
	return res, nil
}

// restyLogger routes resty's internal warnings into zerolog.
type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.log.Debug().Msgf(format, v...) }

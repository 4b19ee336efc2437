package delivery

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cabdinasir64/portfolio-backend/internal/logger"
	"github.com/Cabdinasir64/portfolio-backend/internal/provider"
)

// mockProvider implements provider.Provider for testing.
type mockProvider struct {
	name   string
	calls  atomic.Int32
	sendFn func(ctx context.Context, msg *provider.Message) (*provider.DeliveryResult, error)
}

func (m *mockProvider) Send(ctx context.Context, msg *provider.Message) (*provider.DeliveryResult, error) {
	m.calls.Add(1)
	if m.sendFn != nil {
		return m.sendFn(ctx, msg)
	}
	return &provider.DeliveryResult{ProviderMessageID: "mock-id-123", Status: provider.StatusSent}, nil
}

func (m *mockProvider) GetName() string { return m.name }

func (m *mockProvider) HealthCheck(_ context.Context) error { return nil }

func testRequest() *Request {
	return &Request{
		SenderName: "Jane",
		ReplyTo:    "jane@x.com",
		Recipient:  "owner@example.com",
		Subject:    "New Portfolio Message from Jane",
		TextBody:   "Hi",
		HTMLBody:   "<p>Hi</p>",
	}
}

func newTestGateway(p provider.Provider, opts Options) *Gateway {
	if opts.FromAddress == "" {
		opts.FromAddress = "portfolio@example.com"
	}
	return NewGateway(p, opts, zerolog.Nop())
}

func TestGateway_Deliver_Success(t *testing.T) {
	var got *provider.Message
	mp := &mockProvider{name: "mock", sendFn: func(_ context.Context, msg *provider.Message) (*provider.DeliveryResult, error) {
		got = msg
		return &provider.DeliveryResult{ProviderMessageID: "esp-1", Status: provider.StatusSent}, nil
	}}
	g := newTestGateway(mp, Options{})

	outcome, err := g.Deliver(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if outcome.Attempts != 1 || outcome.Provider != "mock" || outcome.ProviderMessageID != "esp-1" {
		t.Errorf("outcome = %+v", outcome)
	}
	if outcome.MessageID == "" || outcome.MessageID != got.ID {
		t.Errorf("MessageID = %q, message ID = %q", outcome.MessageID, got.ID)
	}

	if got.From != "portfolio@example.com" || got.FromName != "Jane" {
		t.Errorf("From = %q <%q>", got.FromName, got.From)
	}
	if got.ReplyTo != "jane@x.com" {
		t.Errorf("ReplyTo = %q", got.ReplyTo)
	}
	if len(got.To) != 1 || got.To[0] != "owner@example.com" {
		t.Errorf("To = %v", got.To)
	}
	if got.TextBody != "Hi" || got.HTMLBody != "<p>Hi</p>" {
		t.Errorf("bodies = %q / %q", got.TextBody, got.HTMLBody)
	}
}

func TestGateway_Deliver_StripsLineBreaksFromHeaders(t *testing.T) {
	var got *provider.Message
	mp := &mockProvider{name: "mock", sendFn: func(_ context.Context, msg *provider.Message) (*provider.DeliveryResult, error) {
		got = msg
		return &provider.DeliveryResult{}, nil
	}}
	g := newTestGateway(mp, Options{})

	req := testRequest()
	req.SenderName = "Jane\r\nBcc: victim@example.com"
	req.Subject = "New Portfolio Message from Jane\r\nBcc: victim@example.com"

	if _, err := g.Deliver(context.Background(), req); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if got.FromName != "Jane Bcc: victim@example.com" {
		t.Errorf("FromName = %q", got.FromName)
	}
	if got.Subject != "New Portfolio Message from Jane Bcc: victim@example.com" {
		t.Errorf("Subject = %q", got.Subject)
	}
}

func TestGateway_Deliver_CorrelationHeader(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		wantHdr map[string]string
	}{
		{"without correlation ID", context.Background(), nil},
		{
			"with correlation ID",
			logger.WithCorrelationID(context.Background(), "req-42"),
			map[string]string{"X-Correlation-ID": "req-42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *provider.Message
			mp := &mockProvider{name: "mock", sendFn: func(_ context.Context, msg *provider.Message) (*provider.DeliveryResult, error) {
				got = msg
				return &provider.DeliveryResult{}, nil
			}}

			if _, err := newTestGateway(mp, Options{}).Deliver(tt.ctx, testRequest()); err != nil {
				t.Fatalf("Deliver() error = %v", err)
			}
			if len(got.Headers) != len(tt.wantHdr) {
				t.Fatalf("Headers = %v, want %v", got.Headers, tt.wantHdr)
			}
			for k, v := range tt.wantHdr {
				if got.Headers[k] != v {
					t.Errorf("Headers[%q] = %q, want %q", k, got.Headers[k], v)
				}
			}
		})
	}
}

func TestGateway_Deliver_PermanentFailureIsNotRetried(t *testing.T) {
	perm := &provider.ProviderError{Provider: "mock", StatusCode: 535, Message: "bad credentials", Permanent: true}
	mp := &mockProvider{name: "mock", sendFn: func(context.Context, *provider.Message) (*provider.DeliveryResult, error) {
		return nil, perm
	}}
	g := newTestGateway(mp, Options{MaxRetries: 3, RetryBackoff: time.Millisecond})

	_, err := g.Deliver(context.Background(), testRequest())
	if !errors.Is(err, ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}
	var pe *provider.ProviderError
	if !errors.As(err, &pe) {
		t.Error("expected cause to be preserved")
	}
	if n := mp.calls.Load(); n != 1 {
		t.Errorf("provider called %d times, want 1", n)
	}
}

func TestGateway_Deliver_SingleAttemptByDefault(t *testing.T) {
	mp := &mockProvider{name: "mock", sendFn: func(context.Context, *provider.Message) (*provider.DeliveryResult, error) {
		return nil, errors.New("connection reset")
	}}
	g := newTestGateway(mp, Options{})

	_, err := g.Deliver(context.Background(), testRequest())
	if !errors.Is(err, ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}
	if n := mp.calls.Load(); n != 1 {
		t.Errorf("provider called %d times, want 1", n)
	}
}

func TestGateway_Deliver_RetriesTransientFailures(t *testing.T) {
	mp := &mockProvider{name: "mock"}
	mp.sendFn = func(context.Context, *provider.Message) (*provider.DeliveryResult, error) {
		if mp.calls.Load() < 3 {
			return nil, &provider.ProviderError{Provider: "mock", StatusCode: 421, Message: "try later"}
		}
		return &provider.DeliveryResult{ProviderMessageID: "esp-3"}, nil
	}
	g := newTestGateway(mp, Options{MaxRetries: 2, RetryBackoff: time.Millisecond})

	outcome, err := g.Deliver(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if outcome.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", outcome.Attempts)
	}
}

func TestGateway_Deliver_RetryBudgetExhausted(t *testing.T) {
	mp := &mockProvider{name: "mock", sendFn: func(context.Context, *provider.Message) (*provider.DeliveryResult, error) {
		return nil, errors.New("timeout")
	}}
	g := newTestGateway(mp, Options{MaxRetries: 2, RetryBackoff: time.Millisecond})

	if _, err := g.Deliver(context.Background(), testRequest()); !errors.Is(err, ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}
	if n := mp.calls.Load(); n != 3 {
		t.Errorf("provider called %d times, want 3", n)
	}
}

func TestGateway_Deliver_DetachedFromCallerCancellation(t *testing.T) {
	mp := &mockProvider{name: "mock", sendFn: func(ctx context.Context, _ *provider.Message) (*provider.DeliveryResult, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &provider.DeliveryResult{}, nil
	}}
	g := newTestGateway(mp, Options{})

	ctx, cancel := context.WithCancel(logger.WithCorrelationID(context.Background(), "corr-1"))
	cancel()

	if _, err := g.Deliver(ctx, testRequest()); err != nil {
		t.Errorf("Deliver() error = %v, want delivery to proceed after caller cancel", err)
	}
}

func TestGateway_Deliver_Timeout(t *testing.T) {
	mp := &mockProvider{name: "mock", sendFn: func(ctx context.Context, _ *provider.Message) (*provider.DeliveryResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	g := newTestGateway(mp, Options{Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := g.Deliver(context.Background(), testRequest())
	if !errors.Is(err, ErrDelivery) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected ErrDelivery wrapping DeadlineExceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("timeout was not applied")
	}
}

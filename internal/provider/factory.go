package provider

import (
	"context"
	"fmt"
)

// NewProvider creates a provider from cfg. The HTTP client is used by the
// sendgrid and mailgun providers; nil selects one with cfg.Timeout.
func NewProvider(ctx context.Context, cfg ProviderConfig, client HTTPClient) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid provider config: %w", err)
	}
	if client == nil {
		client = NewHTTPClient(cfg.Timeout)
	}

	switch cfg.Type {
	case "smtp":
		return NewSMTP(cfg), nil
	case "sendgrid":
		return NewSendGrid(cfg, client), nil
	case "mailgun":
		return NewMailgun(cfg, client), nil
	case "ses":
		return NewSES(ctx, cfg)
	case "stdout":
		return NewStdout(cfg), nil
	case "file":
		return NewFile(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Type)
	}
}

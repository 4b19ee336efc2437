package provider

import (
	"context"
	"strings"
	"testing"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      ProviderConfig
		wantName string
	}{
		{name: "smtp", cfg: ProviderConfig{Type: "smtp", SMTP: SMTPSettings{Host: "smtp.gmail.com", Port: 587}}, wantName: "smtp"},
		{name: "sendgrid", cfg: ProviderConfig{Type: "sendgrid", APIKey: "SG.x"}, wantName: "sendgrid"},
		{name: "mailgun", cfg: ProviderConfig{Type: "mailgun", APIKey: "k", Domain: "mg.example.com"}, wantName: "mailgun"},
		{name: "ses", cfg: ProviderConfig{Type: "ses", Region: "eu-west-1", APIKey: "AKIA", SecretKey: "s"}, wantName: "ses"},
		{name: "stdout", cfg: ProviderConfig{Type: "stdout"}, wantName: "stdout"},
		{name: "file", cfg: ProviderConfig{Type: "file", Endpoint: t.TempDir()}, wantName: "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(context.Background(), tt.cfg, &fakeHTTPClient{})
			if err != nil {
				t.Fatalf("NewProvider() error = %v", err)
			}
			if p.GetName() != tt.wantName {
				t.Errorf("GetName() = %q, want %q", p.GetName(), tt.wantName)
			}
		})
	}
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	_, err := NewProvider(context.Background(), ProviderConfig{Type: "sendgrid"}, nil)
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
	if !strings.Contains(err.Error(), "invalid provider config") {
		t.Errorf("error = %v", err)
	}
}

func TestNewProvider_NilClientUsesDefault(t *testing.T) {
	p, err := NewProvider(context.Background(), ProviderConfig{Type: "sendgrid", APIKey: "SG.x"}, nil)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	sg := p.(*SendGrid)
	if _, ok := sg.client.(*DefaultHTTPClient); !ok {
		t.Errorf("client = %T, want *DefaultHTTPClient", sg.client)
	}
}

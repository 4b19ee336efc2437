package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_ValidConfigFile(t *testing.T) {
	cfg, err := Load("../../config")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("expected API host 0.0.0.0, got %s", cfg.API.Host)
	}
	if cfg.API.Port != 5000 {
		t.Errorf("expected API port 5000, got %d", cfg.API.Port)
	}
	if cfg.API.ReadTimeout != 10*time.Second {
		t.Errorf("expected API read timeout 10s, got %v", cfg.API.ReadTimeout)
	}
	if cfg.API.MaxBodyBytes != 65536 {
		t.Errorf("expected max body bytes 65536, got %d", cfg.API.MaxBodyBytes)
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected cors origins: %v", cfg.API.CORSOrigins)
	}

	if cfg.Mail.Provider != "smtp" {
		t.Errorf("expected mail provider smtp, got %s", cfg.Mail.Provider)
	}
	if cfg.Mail.SMTP.Port != 587 {
		t.Errorf("expected SMTP port 587, got %d", cfg.Mail.SMTP.Port)
	}
	if cfg.Mail.SMTP.TLSMode != "starttls" {
		t.Errorf("expected tls mode starttls, got %s", cfg.Mail.SMTP.TLSMode)
	}
	if cfg.Mail.MaxRetries != 0 {
		t.Errorf("expected single-attempt delivery by default, got max_retries=%d", cfg.Mail.MaxRetries)
	}

	if cfg.IPLookup.UpstreamURL != "https://api.ipify.org?format=json" {
		t.Errorf("unexpected upstream URL: %s", cfg.IPLookup.UpstreamURL)
	}
	if cfg.RateLimit.Limit != 1000 {
		t.Errorf("expected rate limit 1000, got %d", cfg.RateLimit.Limit)
	}
	if cfg.RateLimit.Window != 15*time.Minute {
		t.Errorf("expected rate limit window 15m, got %v", cfg.RateLimit.Window)
	}
	if cfg.RateLimit.Store != "memory" {
		t.Errorf("expected memory store, got %s", cfg.RateLimit.Store)
	}
}

func TestLoad_EnvironmentVariableOverride(t *testing.T) {
	t.Setenv("PORTFOLIO_MAIL_SMTP_PASSWORD", "app-password")
	t.Setenv("PORTFOLIO_IP_LOOKUP_API_KEY", "secret-key")
	t.Setenv("PORTFOLIO_RATE_LIMIT_WINDOW", "1m")

	cfg, err := Load("../../config")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Mail.SMTP.Password != "app-password" {
		t.Errorf("expected smtp password override, got %q", cfg.Mail.SMTP.Password)
	}
	if cfg.IPLookup.APIKey != "secret-key" {
		t.Errorf("expected ip lookup api key override, got %q", cfg.IPLookup.APIKey)
	}
	if cfg.RateLimit.Window != time.Minute {
		t.Errorf("expected window 1m from env, got %v", cfg.RateLimit.Window)
	}
	// Values not overridden still come from the file.
	if cfg.Mail.SMTP.Port != 587 {
		t.Errorf("expected SMTP port 587, got %d", cfg.Mail.SMTP.Port)
	}
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	partialConfig := `
mail:
  provider: stdout
logging:
  level: debug
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(partialConfig), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Mail.Provider != "stdout" {
		t.Errorf("expected provider stdout, got %s", cfg.Mail.Provider)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	if cfg.API.Port != 5000 {
		t.Errorf("expected default API port 5000, got %d", cfg.API.Port)
	}
	if cfg.RateLimit.Limit != 1000 {
		t.Errorf("expected default limit 1000, got %d", cfg.RateLimit.Limit)
	}
}

func TestLoad_MissingConfigFileUsesEnvironment(t *testing.T) {
	t.Setenv("PORTFOLIO_MAIL_RECIPIENT", "owner@example.com")

	cfg, err := Load("/nonexistent/path")
	if err != nil {
		t.Fatalf("expected missing file to be tolerated, got %v", err)
	}
	if cfg.Mail.Recipient != "owner@example.com" {
		t.Errorf("expected recipient from env, got %q", cfg.Mail.Recipient)
	}
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("api: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("expected error for malformed config file, got nil")
	}
}

func validConfig() *Config {
	return &Config{
		API:  APIConfig{Port: 5000},
		Mail: MailConfig{Provider: "smtp", FromAddress: "site@example.com", Recipient: "owner@example.com"},
		IPLookup: IPLookupConfig{
			APIKey:      "secret",
			UpstreamURL: "https://api.ipify.org?format=json",
		},
		RateLimit: RateLimitConfig{Store: "memory", Limit: 1000, Window: 15 * time.Minute},
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidate_MissingSecrets(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing recipient", func(c *Config) { c.Mail.Recipient = "" }, "mail.recipient"},
		{"missing from address", func(c *Config) { c.Mail.FromAddress = "" }, "mail.from_address"},
		{"missing provider", func(c *Config) { c.Mail.Provider = "" }, "mail.provider"},
		{"missing ip api key", func(c *Config) { c.IPLookup.APIKey = "" }, "ip_lookup.api_key"},
		{"negative retries", func(c *Config) { c.Mail.MaxRetries = -1 }, "mail.max_retries"},
		{"zero limit", func(c *Config) { c.RateLimit.Limit = 0 }, "rate_limit.limit"},
		{"zero window", func(c *Config) { c.RateLimit.Window = 0 }, "rate_limit.window"},
		{"unknown store", func(c *Config) { c.RateLimit.Store = "etcd" }, "rate_limit.store"},
		{"redis without addr", func(c *Config) {
			c.RateLimit.Store = "redis"
			c.RateLimit.Redis.Addr = ""
		}, "rate_limit.redis.addr"},
		{"bad port", func(c *Config) { c.API.Port = 70000 }, "api.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Mail.Recipient = ""
	cfg.IPLookup.APIKey = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	msg := err.Error()
	if !strings.Contains(msg, "mail.recipient") || !strings.Contains(msg, "ip_lookup.api_key") {
		t.Errorf("expected both problems reported, got %v", err)
	}
}

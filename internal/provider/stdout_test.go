package provider

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestStdout_Send(t *testing.T) {
	var buf bytes.Buffer
	s := &Stdout{writer: &buf}

	result, err := s.Send(context.Background(), testMessage())
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if result.ProviderMessageID != "stdout-3f1c2d4e" {
		t.Errorf("ProviderMessageID = %q", result.ProviderMessageID)
	}

	out := buf.String()
	for _, want := range []string{
		"From:     Jane Doe <portfolio@example.com>",
		"Reply-To: jane@x.com",
		"To:       owner@example.com",
		"Subject:  New Portfolio Message from Jane Doe",
		"Hi there",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStdout_HealthCheck(t *testing.T) {
	if err := NewStdout(ProviderConfig{}).HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

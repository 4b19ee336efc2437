package provider

import (
	"net/mail"
	"strings"
	"testing"
)

func TestComposeMIME_HTMLOnly(t *testing.T) {
	raw, err := composeMIME(&Message{
		From:     "portfolio@example.com",
		To:       []string{"owner@example.com"},
		Subject:  "Hello",
		HTMLBody: "<p>Hi</p>",
	})
	if err != nil {
		t.Fatalf("composeMIME() error = %v", err)
	}

	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if ct := msg.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if msg.Header.Get("Reply-To") != "" {
		t.Error("Reply-To should be absent when not set")
	}
	if msg.Header.Get("Mime-Version") == "" {
		t.Error("expected Mime-Version header")
	}
}

func TestComposeMIME_MessageID(t *testing.T) {
	raw, err := composeMIME(&Message{
		ID:       "abc-123",
		From:     "portfolio@example.com",
		To:       []string{"owner@example.com"},
		Subject:  "Hello",
		TextBody: "Hi",
	})
	if err != nil {
		t.Fatalf("composeMIME() error = %v", err)
	}

	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if got := msg.Header.Get("Message-ID"); got != "<abc-123@example.com>" {
		t.Errorf("Message-ID = %q", got)
	}
}

func TestDomainOf(t *testing.T) {
	tests := map[string]string{
		"a@example.com": "example.com",
		"no-at-sign":    "localhost",
		"trailing@":     "localhost",
	}
	for in, want := range tests {
		if got := domainOf(in); got != want {
			t.Errorf("domainOf(%q) = %q, want %q", in, got, want)
		}
	}
}

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	sendgridDefaultEndpoint = "https://api.sendgrid.com"
	sendgridSendPath        = "/v3/mail/send"
	sendgridScopesPath      = "/v3/scopes"
)

// SendGrid implements the Provider interface for the SendGrid v3 API.
type SendGrid struct {
	auth     string
	endpoint string
	client   HTTPClient
}

// NewSendGrid creates a SendGrid provider from the given configuration.
func NewSendGrid(cfg ProviderConfig, client HTTPClient) *SendGrid {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = sendgridDefaultEndpoint
	}
	return &SendGrid{
		auth:     "Bearer " + cfg.APIKey,
		endpoint: endpoint,
		client:   client,
	}
}

func (s *SendGrid) GetName() string { return "sendgrid" }

// Send posts the notification to mail/send. SendGrid answers 202 with the
// message ID in the X-Message-Id header.
func (s *SendGrid) Send(ctx context.Context, msg *Message) (*DeliveryResult, error) {
	body, err := json.Marshal(s.buildPayload(msg))
	if err != nil {
		return nil, fmt.Errorf("sendgrid: marshal request: %w", err)
	}

	resp, err := callAPI(ctx, s.client, s.GetName(), "send", &HTTPRequest{
		Method:  http.MethodPost,
		URL:     s.endpoint + sendgridSendPath,
		Headers: map[string]string{"Authorization": s.auth, "Content-Type": "application/json"},
		Body:    body,
	})
	if err != nil {
		return nil, err
	}

	return &DeliveryResult{
		ProviderMessageID: resp.Headers["X-Message-Id"],
		Status:            StatusSent,
		Timestamp:         time.Now(),
		Metadata:          map[string]string{"status_code": strconv.Itoa(resp.StatusCode)},
	}, nil
}

// HealthCheck lists the key's scopes, which fails for revoked or mistyped keys.
func (s *SendGrid) HealthCheck(ctx context.Context) error {
	_, err := callAPI(ctx, s.client, s.GetName(), "health check", &HTTPRequest{
		Method:  http.MethodGet,
		URL:     s.endpoint + sendgridScopesPath,
		Headers: map[string]string{"Authorization": s.auth},
	})
	return err
}

// sendgridPayload matches the SendGrid v3 mail/send JSON schema.
type sendgridPayload struct {
	Personalizations []sendgridPersonalization `json:"personalizations"`
	From             sendgridEmail             `json:"from"`
	ReplyTo          *sendgridEmail            `json:"reply_to,omitempty"`
	Subject          string                    `json:"subject"`
	Content          []sendgridContent         `json:"content"`
	Headers          map[string]string         `json:"headers,omitempty"`
}

type sendgridPersonalization struct {
	To []sendgridEmail `json:"to"`
}

type sendgridEmail struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendgridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (s *SendGrid) buildPayload(msg *Message) sendgridPayload {
	tos := make([]sendgridEmail, len(msg.To))
	for i, addr := range msg.To {
		tos[i] = sendgridEmail{Email: addr}
	}

	// SendGrid requires text/plain before text/html.
	var content []sendgridContent
	if msg.TextBody != "" {
		content = append(content, sendgridContent{Type: "text/plain", Value: msg.TextBody})
	}
	if msg.HTMLBody != "" {
		content = append(content, sendgridContent{Type: "text/html", Value: msg.HTMLBody})
	}

	payload := sendgridPayload{
		Personalizations: []sendgridPersonalization{{To: tos}},
		From:             sendgridEmail{Email: msg.From, Name: msg.FromName},
		Subject:          msg.Subject,
		Content:          content,
		Headers:          msg.Headers,
	}
	if msg.ReplyTo != "" {
		payload.ReplyTo = &sendgridEmail{Email: msg.ReplyTo}
	}
	return payload
}

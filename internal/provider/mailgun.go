package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const mailgunDefaultEndpoint = "https://api.mailgun.net"

// Mailgun implements the Provider interface for the Mailgun messages API.
type Mailgun struct {
	auth     string
	domain   string
	endpoint string
	client   HTTPClient
}

// NewMailgun creates a Mailgun provider from the given configuration.
func NewMailgun(cfg ProviderConfig, client HTTPClient) *Mailgun {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = mailgunDefaultEndpoint
	}
	return &Mailgun{
		auth:     "Basic " + basicAuth("api", cfg.APIKey),
		domain:   cfg.Domain,
		endpoint: endpoint,
		client:   client,
	}
}

func (m *Mailgun) GetName() string { return "mailgun" }

// Send posts the notification as a form to /v3/<domain>/messages.
func (m *Mailgun) Send(ctx context.Context, msg *Message) (*DeliveryResult, error) {
	resp, err := callAPI(ctx, m.client, m.GetName(), "send", &HTTPRequest{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("%s/v3/%s/messages", m.endpoint, m.domain),
		Headers: map[string]string{
			"Authorization": m.auth,
			"Content-Type":  "application/x-www-form-urlencoded",
		},
		Body: []byte(m.buildForm(msg).Encode()),
	})
	if err != nil {
		return nil, err
	}

	// A 2xx body that does not parse still means the message was accepted.
	var accepted mailgunResponse
	_ = json.Unmarshal(resp.Body, &accepted)
	return &DeliveryResult{
		ProviderMessageID: accepted.ID,
		Status:            StatusSent,
		Timestamp:         time.Now(),
		Metadata: map[string]string{
			"message":     accepted.Message,
			"status_code": strconv.Itoa(resp.StatusCode),
		},
	}, nil
}

// HealthCheck fetches the sending domain, which checks the key and the domain together.
func (m *Mailgun) HealthCheck(ctx context.Context) error {
	_, err := callAPI(ctx, m.client, m.GetName(), "health check", &HTTPRequest{
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("%s/v3/domains/%s", m.endpoint, m.domain),
		Headers: map[string]string{"Authorization": m.auth},
	})
	return err
}

type mailgunResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (m *Mailgun) buildForm(msg *Message) url.Values {
	form := url.Values{}
	from := mail.Address{Name: msg.FromName, Address: msg.From}
	form.Set("from", from.String())
	form.Set("to", strings.Join(msg.To, ","))
	form.Set("subject", msg.Subject)
	if msg.TextBody != "" {
		form.Set("text", msg.TextBody)
	}
	if msg.HTMLBody != "" {
		form.Set("html", msg.HTMLBody)
	}
	if msg.ReplyTo != "" {
		form.Set("h:Reply-To", msg.ReplyTo)
	}
	for key, value := range msg.Headers {
		form.Set("h:"+key, value)
	}
	return form
}

func basicAuth(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}

package provider

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesAPI is the subset of the SES v2 client used by the provider.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
	GetAccount(ctx context.Context, params *sesv2.GetAccountInput, optFns ...func(*sesv2.Options)) (*sesv2.GetAccountOutput, error)
}

// SES implements the Provider interface for the AWS SES v2 API.
type SES struct {
	region string
	client sesAPI
}

// NewSES creates an SES provider with static credentials from cfg.
// cfg.Endpoint, when set, overrides the regional endpoint.
func NewSES(ctx context.Context, cfg ProviderConfig) (*SES, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.APIKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("ses: load aws config: %w", err)
	}

	client := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newSESWithClient(cfg.Region, client), nil
}

func newSESWithClient(region string, client sesAPI) *SES {
	return &SES{region: region, client: client}
}

func (s *SES) GetName() string { return "ses" }

// Send delivers a message via SendEmail with simple content.
func (s *SES) Send(ctx context.Context, msg *Message) (*DeliveryResult, error) {
	out, err := s.client.SendEmail(ctx, s.buildInput(msg))
	if err != nil {
		return nil, classifySESError(err)
	}

	return &DeliveryResult{
		ProviderMessageID: aws.ToString(out.MessageId),
		Status:            StatusSent,
		Timestamp:         time.Now(),
		Metadata: map[string]string{
			"region": s.region,
		},
	}, nil
}

// HealthCheck verifies credentials and that sending is enabled for the account.
func (s *SES) HealthCheck(ctx context.Context) error {
	out, err := s.client.GetAccount(ctx, &sesv2.GetAccountInput{})
	if err != nil {
		return fmt.Errorf("ses: health check: %w", err)
	}
	if !out.SendingEnabled {
		return errors.New("ses: sending is disabled for this account")
	}
	return nil
}

func (s *SES) buildInput(msg *Message) *sesv2.SendEmailInput {
	from := mail.Address{Name: msg.FromName, Address: msg.From}
	body := &types.Body{}
	if msg.TextBody != "" {
		body.Text = &types.Content{Data: aws.String(msg.TextBody), Charset: aws.String("UTF-8")}
	}
	if msg.HTMLBody != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTMLBody), Charset: aws.String("UTF-8")}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from.String()),
		Destination:      &types.Destination{ToAddresses: msg.To},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body:    body,
			},
		},
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}
	return input
}

// classifySESError turns SDK response errors into ProviderErrors so the
// retry policy can tell throttling from rejection.
func classifySESError(err error) error {
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		if pe := ClassifyHTTPError("ses", re.HTTPStatusCode(), re.Error()); pe != nil {
			return pe
		}
	}
	return fmt.Errorf("ses: send: %w", err)
}

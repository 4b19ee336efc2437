package provider

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"
)

// SMTP implements the Provider interface by relaying through an SMTP
// submission server with PLAIN authentication.
type SMTP struct {
	addr      string
	host      string
	username  string
	password  string
	tlsMode   string
	tlsConfig *tls.Config
	localName string
	timeout   time.Duration
}

// NewSMTP creates an SMTP provider from the given configuration.
// cfg must have passed Validate.
func NewSMTP(cfg ProviderConfig) *SMTP {
	s := cfg.SMTP
	return &SMTP{
		addr:     net.JoinHostPort(s.Host, strconv.Itoa(s.Port)),
		host:     s.Host,
		username: s.Username,
		password: s.Password,
		tlsMode:  s.TLSMode,
		tlsConfig: &tls.Config{
			ServerName:         s.Host,
			InsecureSkipVerify: s.InsecureSkipVerify,
			MinVersion:         tls.VersionTLS12,
		},
		localName: s.LocalName,
		timeout:   cfg.Timeout,
	}
}

func (s *SMTP) GetName() string { return "smtp" }

// Send composes msg as MIME and submits it in a single SMTP transaction.
func (s *SMTP) Send(ctx context.Context, msg *Message) (*DeliveryResult, error) {
	body, err := composeMIME(msg)
	if err != nil {
		return nil, fmt.Errorf("smtp: %w", err)
	}

	c, release, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := c.SendMail(msg.From, msg.To, bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("smtp: send: %w", ClassifySMTPError(err))
	}
	// The message is accepted once DATA completes; a failed QUIT does not undo that.
	_ = c.Quit()

	return &DeliveryResult{
		ProviderMessageID: msg.ID,
		Status:            StatusSent,
		Timestamp:         time.Now(),
		Metadata: map[string]string{
			"relay": s.addr,
		},
	}, nil
}

// HealthCheck connects, authenticates and issues NOOP.
func (s *SMTP) HealthCheck(ctx context.Context) error {
	c, release, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := c.Noop(); err != nil {
		return fmt.Errorf("smtp: noop: %w", ClassifySMTPError(err))
	}
	return c.Quit()
}

// connect dials the relay, greets it, upgrades to TLS when configured and
// authenticates. The returned release func closes the connection; ctx
// cancellation closes it early.
//
// In STARTTLS mode the client greets as "localhost" before the upgrade and
// localName is not used.
func (s *SMTP) connect(ctx context.Context) (*gosmtp.Client, func(), error) {
	dialer := &net.Dialer{Timeout: s.timeout}

	var (
		conn net.Conn
		err  error
	)
	if s.tlsMode == TLSModeImplicit {
		td := &tls.Dialer{NetDialer: dialer, Config: s.tlsConfig}
		conn, err = td.DialContext(ctx, "tcp", s.addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", s.addr)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("smtp: dial %s: %w", s.addr, err)
	}

	stop := context.AfterFunc(ctx, func() { conn.Close() })

	var c *gosmtp.Client
	if s.tlsMode == TLSModeStartTLS {
		c, err = gosmtp.NewClientStartTLS(conn, s.tlsConfig)
		if err != nil {
			stop()
			conn.Close()
			return nil, nil, fmt.Errorf("smtp: starttls: %w", ClassifySMTPError(err))
		}
	} else {
		c = gosmtp.NewClient(conn)
	}
	c.CommandTimeout = s.timeout
	c.SubmissionTimeout = s.timeout
	release := func() {
		stop()
		c.Close()
	}

	if s.tlsMode != TLSModeStartTLS && s.localName != "" {
		if err := c.Hello(s.localName); err != nil {
			release()
			return nil, nil, fmt.Errorf("smtp: hello: %w", ClassifySMTPError(err))
		}
	}
	if s.username != "" {
		if err := c.Auth(sasl.NewPlainClient("", s.username, s.password)); err != nil {
			release()
			return nil, nil, fmt.Errorf("smtp: auth: %w", ClassifySMTPError(err))
		}
	}

	return c, release, nil
}

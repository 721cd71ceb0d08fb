package email

import (
	"context"
	"crypto/tls"
	"errors"
	"strings"

	"github.com/Alijeyrad/clinica_backend/config"
	"gopkg.in/gomail.v2"
)

// TagHeader carries Message.Tag on the wire.
const TagHeader = "X-Clinica-Notice"

// Client delivers Messages over SMTP. A disabled client accepts every call
// and returns ErrDisabled so callers can tell a dropped message from a
// failed one.
type Client struct {
	cfg    Config
	dialer *gomail.Dialer
}

// NewFromCentral creates a client from central config. appName signs the
// outgoing templates.
func NewFromCentral(cfg config.EmailConfig, appName string) (*Client, error) {
	return New(FromCentralConfig(cfg, appName))
}

func New(cfg Config) (*Client, error) {
	c := &Client{cfg: cfg}
	if !cfg.Enabled {
		return c, nil
	}
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return nil, errors.New("email: smtp host is required when enabled")
	}
	if _, err := (Message{To: []string{cfg.From}}).recipients(); err != nil {
		return nil, errors.New("email: from must be a valid address")
	}
	c.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if cfg.SMTPUseTLS {
		// Port 465 speaks TLS from the first byte; other ports upgrade with STARTTLS.
		c.dialer.SSL = cfg.SMTPPort == 465
		c.dialer.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost, MinVersion: tls.VersionTLS12}
	}
	return c, nil
}

func (c *Client) AppName() string { return c.cfg.AppName }

func (c *Client) Enabled() bool { return c.cfg.Enabled }

// Send delivers m, giving up when ctx ends or the SMTP timeout passes,
// whichever comes first.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.cfg.Enabled {
		return ErrDisabled
	}
	msg, err := c.compose(m)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SMTPTimeout())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return &SendError{Host: c.cfg.SMTPHost, Err: err}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) compose(m Message) (*gomail.Message, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	to, _ := m.recipients()

	msg := gomail.NewMessage()
	msg.SetHeader("From", c.cfg.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", strings.TrimSpace(m.Subject))
	if r := strings.TrimSpace(m.ReplyTo); r != "" {
		msg.SetHeader("Reply-To", r)
	}
	if m.Tag != "" {
		msg.SetHeader(TagHeader, m.Tag)
	}

	switch {
	case m.TextBody != "" && m.HTMLBody != "":
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	case m.HTMLBody != "":
		msg.SetBody("text/html", m.HTMLBody)
	default:
		msg.SetBody("text/plain", m.TextBody)
	}
	return msg, nil
}

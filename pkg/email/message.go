package email

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

var (
	// ErrDisabled is returned by Send when email delivery is switched off.
	ErrDisabled    = errors.New("email is disabled")
	ErrNoRecipient = errors.New("email has no valid recipient")
	ErrNoSubject   = errors.New("email subject is empty")
	ErrNoBody      = errors.New("email has neither a text nor an html body")
)

// Message is one outgoing notification. Tag names the notification kind
// ("appointment.created", "payslip") and travels as a header so bounces and
// mailbox rules can be sorted.
type Message struct {
	To       []string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
	Tag      string
}

// recipients returns the parseable addresses of To, dropping blanks.
func (m Message) recipients() ([]string, error) {
	out := make([]string, 0, len(m.To))
	for _, raw := range m.To {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		addr, err := mail.ParseAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("recipient %q: %w", raw, err)
		}
		out = append(out, addr.String())
	}
	if len(out) == 0 {
		return nil, ErrNoRecipient
	}
	return out, nil
}

// Validate checks the message can be delivered as is.
func (m Message) Validate() error {
	if _, err := m.recipients(); err != nil {
		return err
	}
	if strings.TrimSpace(m.Subject) == "" {
		return ErrNoSubject
	}
	if strings.TrimSpace(m.TextBody) == "" && strings.TrimSpace(m.HTMLBody) == "" {
		return ErrNoBody
	}
	return nil
}

// SendError wraps an SMTP delivery failure.
type SendError struct {
	Host string
	Err  error
}

func (e *SendError) Error() string { return fmt.Sprintf("smtp %s: %v", e.Host, e.Err) }
func (e *SendError) Unwrap() error { return e.Err }

package email

import (
	"context"
	"errors"
	"testing"
)

func TestMessageValidate(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want error
	}{
		{"ok", Message{To: []string{"ana@example.com"}, Subject: "Hi", TextBody: "x"}, nil},
		{"blank recipients", Message{To: []string{" ", ""}, Subject: "Hi", TextBody: "x"}, ErrNoRecipient},
		{"no subject", Message{To: []string{"ana@example.com"}, TextBody: "x"}, ErrNoSubject},
		{"no body", Message{To: []string{"ana@example.com"}, Subject: "Hi"}, ErrNoBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.msg.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	bad := Message{To: []string{"not an address"}, Subject: "Hi", TextBody: "x"}
	if err := bad.Validate(); err == nil {
		t.Error("malformed recipient accepted")
	}
}

func TestDisabledClient(t *testing.T) {
	c, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if c.Enabled() {
		t.Fatal("default config should be disabled")
	}
	if err := c.Send(context.Background(), Message{}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
}

func TestNewRequiresHostAndFrom(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	if _, err := New(cfg); err == nil {
		t.Error("enabled client without host accepted")
	}
	cfg.SMTPHost = "smtp.example.com"
	cfg.From = "nope"
	if _, err := New(cfg); err == nil {
		t.Error("invalid from accepted")
	}
	cfg.From = "Clinica <no-reply@example.com>"
	c, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if c.AppName() != "Clinica" {
		t.Errorf("app name = %q", c.AppName())
	}
	if c.dialer.SSL {
		t.Error("port 587 should use STARTTLS, not implicit TLS")
	}
}

func TestComposeSetsTag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled, cfg.SMTPHost, cfg.From = true, "smtp.example.com", "no-reply@example.com"
	c, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	msg, err := c.compose(Message{To: []string{"ana@example.com"}, Subject: "Hi", TextBody: "x", Tag: "payslip"})
	if err != nil {
		t.Fatal(err)
	}
	if got := msg.GetHeader(TagHeader); len(got) != 1 || got[0] != "payslip" {
		t.Errorf("tag header = %v", got)
	}
}

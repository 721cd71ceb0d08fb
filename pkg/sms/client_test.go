package sms

import (
	"context"
	"errors"
	"testing"

	"github.com/Alijeyrad/clinica_backend/config"
)

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.SMSConfig
		wantErr     bool
		wantEnabled bool
	}{
		{name: "disabled", cfg: config.SMSConfig{}},
		{
			name:    "enabled without api key",
			cfg:     config.SMSConfig{Enabled: true},
			wantErr: true,
		},
		{
			name: "enabled",
			cfg: config.SMSConfig{
				Enabled: true,
				SMSIR:   config.SMSIRConfig{APIKey: "key", SecretKey: "secret", AppointmentTemplateID: "100"},
			},
			wantEnabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewFromConfig(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFromConfig: %v", err)
			}
			if c.IsEnabled() != tt.wantEnabled {
				t.Errorf("IsEnabled = %v, want %v", c.IsEnabled(), tt.wantEnabled)
			}
		})
	}
}

func TestSendDisabledIsNoop(t *testing.T) {
	c, _ := NewFromConfig(config.SMSConfig{})
	if err := c.Send(context.Background(), "", ""); err != nil {
		t.Errorf("disabled send returned %v", err)
	}
}

func TestSendValidatesBeforeDialing(t *testing.T) {
	c, err := NewFromConfig(config.SMSConfig{
		Enabled: true,
		SMSIR:   config.SMSIRConfig{APIKey: "key"},
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := c.Send(ctx, "", "100", Param{Key: "PATIENT", Value: "Ana"}); !errors.Is(err, ErrNoRecipient) {
		t.Errorf("missing phone: err = %v", err)
	}
	if err := c.Send(ctx, "+50255123456", ""); !errors.Is(err, ErrNoTemplate) {
		t.Errorf("missing template: err = %v", err)
	}
}

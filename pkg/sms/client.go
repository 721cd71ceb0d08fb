package sms

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alijeyrad/clinica_backend/config"
	"github.com/arsmn/go-smsir/smsir"
)

var (
	ErrNoRecipient = errors.New("phone number is required")
	ErrNoTemplate  = errors.New("template ID is required")
)

// Param is one named template parameter.
type Param struct {
	Key   string
	Value string
}

// Client sends template messages via sms.ir.
type Client struct {
	client  *smsir.Client
	enabled bool
}

// NewFromConfig creates a new SMS client from the application configuration.
// If SMS is disabled, returns a client that no-ops on all operations.
func NewFromConfig(cfg config.SMSConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{enabled: false}, nil
	}

	if cfg.SMSIR.APIKey == "" {
		return nil, fmt.Errorf("sms.ir API key required when SMS enabled")
	}

	client := smsir.NewClient().WithAuthentication(cfg.SMSIR.APIKey, cfg.SMSIR.SecretKey)

	return &Client{
		client:  client,
		enabled: true,
	}, nil
}

// Send delivers templateID to phone with params filled in. Disabled clients
// return nil without sending.
func (c *Client) Send(ctx context.Context, phone, templateID string, params ...Param) error {
	if !c.enabled {
		return nil
	}
	if phone == "" {
		return ErrNoRecipient
	}
	if templateID == "" {
		return ErrNoTemplate
	}

	req := &smsir.UltraFastSendRequest{
		Mobile:     phone,
		TemplateID: templateID,
		Parameters: make([]smsir.UltraFastParameter, 0, len(params)),
	}
	for _, p := range params {
		req.Parameters = append(req.Parameters, smsir.UltraFastParameter{Key: p.Key, Value: p.Value})
	}

	if _, err := c.client.Verification.UltraFastSend(ctx, req); err != nil {
		return fmt.Errorf("sms.ir send failed: %w", err)
	}
	return nil
}

// IsEnabled returns whether SMS sending is enabled.
func (c *Client) IsEnabled() bool {
	return c.enabled
}

package email

import (
	"time"

	"github.com/Alijeyrad/clinica_backend/config"
)

// Config is the resolved email section. A disabled config still builds a
// Client; Send then reports ErrDisabled.
type Config struct {
	Enabled bool
	// From is the envelope and header sender, e.g. "Clinica <citas@clinica.gt>".
	From    string
	AppName string

	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPUseTLS         bool
	SMTPTimeoutSeconds int
}

// DefaultConfig is a disabled client on the submission port with STARTTLS.
func DefaultConfig() Config {
	return Config{
		SMTPPort:           587,
		SMTPUseTLS:         true,
		SMTPTimeoutSeconds: 30,
		AppName:            "Clinica",
	}
}

func (c Config) SMTPTimeout() time.Duration {
	if c.SMTPTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.SMTPTimeoutSeconds) * time.Second
}

// FromCentralConfig overlays the email section and the clinic name on
// DefaultConfig; unset port and timeout keep their defaults.
func FromCentralConfig(c config.EmailConfig, appName string) Config {
	out := DefaultConfig()
	out.Enabled = c.Enabled
	out.From = c.From
	out.SMTPHost = c.SMTP.Host
	out.SMTPUsername = c.SMTP.Username
	out.SMTPPassword = c.SMTP.Password
	out.SMTPUseTLS = c.SMTP.UseTLS
	if c.SMTP.Port > 0 {
		out.SMTPPort = c.SMTP.Port
	}
	if c.SMTP.TimeoutSeconds > 0 {
		out.SMTPTimeoutSeconds = c.SMTP.TimeoutSeconds
	}
	if appName != "" {
		out.AppName = appName
	}
	return out
}

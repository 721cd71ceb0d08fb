package database

import (
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/Alijeyrad/clinica_backend/config"
)

// Options is the resolved connection setup for one PostgreSQL database.
type Options struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// LogQueries traces statements at debug; SlowQuery is the warn threshold.
	LogQueries bool
	SlowQuery  time.Duration
	// SafeMigrations keeps migrations additive.
	SafeMigrations bool
}

// OptionsFrom resolves a config section, filling pool and logging defaults.
func OptionsFrom(c config.DatabaseConfig) Options {
	o := Options{
		DSN:             DSN(c),
		MaxOpenConns:    c.Pool.MaxOpenConns,
		MaxIdleConns:    c.Pool.MaxIdleConns,
		ConnMaxLifetime: time.Duration(c.Pool.ConnMaxLifetimeMin) * time.Minute,
		LogQueries:      c.Logging.Enabled,
		SlowQuery:       time.Duration(c.Logging.SlowQueryThresholdMs) * time.Millisecond,
		SafeMigrations:  c.Migrations.SafeMode,
	}
	if o.ConnMaxLifetime <= 0 {
		o.ConnMaxLifetime = 5 * time.Minute
	}
	if o.SlowQuery <= 0 {
		o.SlowQuery = 200 * time.Millisecond
	}
	return o
}

// DSN renders a postgres:// URL. Credentials are escaped, so passwords may
// contain spaces or '@'.
func DSN(c config.DatabaseConfig) string {
	port := c.Port
	if port == 0 {
		port = 5432
	}
	q := url.Values{}
	q.Set("sslmode", orDefault(c.SSLMode, "disable"))
	q.Set("application_name", "clinica")

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(orDefault(c.Host, "localhost"), strconv.Itoa(port)),
		Path:     "/" + c.DBName,
		RawQuery: q.Encode(),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else if c.User != "" {
		u.User = url.User(c.User)
	}
	return u.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

package database

import (
	"net/url"
	"testing"
	"time"

	"github.com/Alijeyrad/clinica_backend/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "clinica",
		Password: "p@ss word",
		DBName:   "clinica",
		SSLMode:  "require",
	})
	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("parse %q: %v", dsn, err)
	}
	if u.Host != "db:5433" || u.Path != "/clinica" || u.User.Username() != "clinica" {
		t.Errorf("dsn = %q", dsn)
	}
	if pw, _ := u.User.Password(); pw != "p@ss word" {
		t.Errorf("password = %q", pw)
	}
	if u.Query().Get("sslmode") != "require" || u.Query().Get("application_name") != "clinica" {
		t.Errorf("query = %q", u.RawQuery)
	}

	u, _ = url.Parse(DSN(config.DatabaseConfig{DBName: "x"}))
	if u.Host != "localhost:5432" || u.Query().Get("sslmode") != "disable" || u.User != nil {
		t.Errorf("defaults: %s", u)
	}
}

func TestOptionsFrom(t *testing.T) {
	o := OptionsFrom(config.DatabaseConfig{
		DBName:     "clinica",
		Pool:       config.DatabasePoolConfig{MaxOpenConns: 10},
		Logging:    config.DatabaseLoggingConfig{Enabled: true, SlowQueryThresholdMs: 50},
		Migrations: config.DatabaseMigrationConfig{SafeMode: true},
	})
	if o.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want default 5m", o.ConnMaxLifetime)
	}
	if o.SlowQuery != 50*time.Millisecond || !o.LogQueries || o.MaxOpenConns != 10 || !o.SafeMigrations {
		t.Errorf("options = %+v", o)
	}
	if OptionsFrom(config.DatabaseConfig{}).SlowQuery != 200*time.Millisecond {
		t.Error("slow query default not applied")
	}
}

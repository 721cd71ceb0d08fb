package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestReadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, `
database:
  host: db.internal
  user: clinica
  dbname: clinica
`)

	cfg, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 5432 {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Server.Port != 8080 || cfg.Server.Environment != "development" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Clinic.Location().String() != "America/Guatemala" {
		t.Errorf("location = %s", cfg.Clinic.Location())
	}
	if !cfg.Database.Migrations.SafeMode || cfg.Database.Migrations.AutoMigrate {
		t.Errorf("migrations = %+v", cfg.Database.Migrations)
	}
	if cfg.Authorization.CasbinModelPath != "" {
		t.Errorf("casbin model path = %q, want built-in", cfg.Authorization.CasbinModelPath)
	}
}

func TestReadConfigEnvOverride(t *testing.T) {
	dir := writeConfig(t, "server:\n  port: 8080\n")
	t.Setenv("CLINICA_SERVER_PORT", "9090")

	cfg, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
}

func TestReadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad timezone", "clinic:\n  timezone: Mars/Olympus\n", "clinic.timezone"},
		{"bad environment", "server:\n  environment: qa\n", "Environment"},
		{"short encryption key", "authentication:\n  encryption_key: abcd\n", "EncryptionKey"},
		{"loki without endpoint", "logging:\n  output:\n    loki:\n      enabled: true\n", "Endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadConfig(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

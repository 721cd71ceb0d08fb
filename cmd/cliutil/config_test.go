package cliutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func newCmd(path string, annotations map[string]string) *cobra.Command {
	cmd := &cobra.Command{Use: "x", Annotations: annotations}
	cmd.Flags().String("config", path, "")
	cmd.SetContext(context.Background())
	return cmd
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\ndatabase:\n  host: db\n  user: clinica\n  dbname: clinica\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := newCmd(path, nil)
	if err := Load(cmd); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg, err := Config(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
}

func TestLoadSkipped(t *testing.T) {
	cmd := newCmd(filepath.Join(t.TempDir(), "missing", "config.yaml"), map[string]string{SkipConfig: ""})
	if err := Load(cmd); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := Config(cmd); err == nil {
		t.Error("skipped command reported a config")
	}
}

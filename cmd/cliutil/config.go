// Package cliutil holds state shared by the clinica subcommands.
package cliutil

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/clinica_backend/config"
)

// SkipConfig is set as an annotation on commands that run without a config
// file (gendocs, version).
const SkipConfig = "clinica/skip-config"

type configKey struct{}

// Load reads the config directory named by the root --config flag and
// stores the result on the command context.
func Load(cmd *cobra.Command) error {
	if _, skip := cmd.Annotations[SkipConfig]; skip {
		return nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))
	return nil
}

// Config returns the config stored by Load.
func Config(cmd *cobra.Command) (*config.Config, error) {
	if cmd.Context() != nil {
		if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
			return cfg, nil
		}
	}
	return nil, errors.New("config was not loaded for this command")
}

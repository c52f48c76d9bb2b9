package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/kompox/amlops/config/amlopscfg"
)

const (
	defaultConfigPath  = "amlops.yml"
	defaultEnvFilePath = ".env"
)

// loadConfig builds the effective configuration: .env first (never
// overriding the process environment), then the config file, then the
// environment overlay. Without --config, amlops.yml is read when present.
func loadConfig(cmd *cobra.Command) (*amlopscfg.Root, error) {
	envFile := defaultEnvFilePath
	if f := findFlag(cmd, "env-file"); f != nil {
		envFile = f.Value.String()
	}
	if err := amlopscfg.LoadDotEnv(envFile); err != nil {
		return nil, err
	}

	path := ""
	if f := findFlag(cmd, "config"); f != nil {
		path = f.Value.String()
	}

	cfg := amlopscfg.Default()
	switch {
	case path != "":
		c, err := amlopscfg.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		if _, err := os.Stat(defaultConfigPath); err == nil {
			c, err := amlopscfg.Load(defaultConfigPath)
			if err != nil {
				return nil, err
			}
			cfg = c
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", defaultConfigPath, err)
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

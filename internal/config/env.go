package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds overrides read from MONKEYLOG_* environment variables.
// Unset variables stay nil.
type EnvConfig struct {
	Challenge *int    `env:"MONKEYLOG_CHALLENGE"`
	Jobs      *int    `env:"MONKEYLOG_JOBS"`
	Strict    *bool   `env:"MONKEYLOG_STRICT"`
	Format    *string `env:"MONKEYLOG_FORMAT"`
	Ext       *string `env:"MONKEYLOG_EXT"`
	Open      *string `env:"MONKEYLOG_OPEN"`
	Viewer    *string `env:"MONKEYLOG_VIEWER"`
}

// LoadEnv parses the MONKEYLOG_* environment variables.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// WithEnv returns a copy of c with every set environment value applied.
func (c FileConfig) WithEnv(e EnvConfig) FileConfig {
	override(&c.Tally.Challenge, e.Challenge)
	override(&c.Tally.Jobs, e.Jobs)
	override(&c.Tally.Strict, e.Strict)
	override(&c.Tally.Format, e.Format)
	override(&c.Trace.Ext, e.Ext)
	override(&c.Trace.Open, e.Open)
	override(&c.Trace.Viewer, e.Viewer)
	return c
}

func override[T any](target **T, value *T) {
	if value != nil {
		*target = value
	}
}

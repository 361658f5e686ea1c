// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Tally TallySection `toml:"tally"`
	Trace TraceSection `toml:"trace"`
}

// TallySection maps win-tally settings.
type TallySection struct {
	Challenge *int    `toml:"challenge"`
	Jobs      *int    `toml:"jobs"`
	Strict    *bool   `toml:"strict"`
	Format    *string `toml:"format"`
}

// TraceSection maps session-trace settings.
type TraceSection struct {
	Ext    *string `toml:"ext"`
	Width  *int    `toml:"width"`
	Height *int    `toml:"height"`
	Color  *bool   `toml:"color"`
	Open   *string `toml:"open"`
	Viewer *string `toml:"viewer"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Load reads the config file at path and applies environment overrides.
func Load(path string) (FileConfig, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return FileConfig{}, err
	}
	envCfg, err := LoadEnv()
	if err != nil {
		return FileConfig{}, err
	}
	return cfg.WithEnv(envCfg), nil
}

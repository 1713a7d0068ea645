package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "RV"

// Config holds the resolved command-line, environment and config file
// settings. Keys match the long flag names.
type Config struct {
	File string `mapstructure:"file"`
	Size string `mapstructure:"size"`

	// Display
	Progress bool `mapstructure:"progress"`
	Timer    bool `mapstructure:"timer"`
	ETA      bool `mapstructure:"eta"`
	Rate     bool `mapstructure:"rate"`
	Numeric  bool `mapstructure:"numeric"`
	Quiet    bool `mapstructure:"quiet"`

	// Transfer tuning
	Interval  time.Duration `mapstructure:"interval"`
	ChunkSize int           `mapstructure:"chunk-size"`

	// Logging
	LogFile string `mapstructure:"log-file"`
	Debug   bool   `mapstructure:"debug"`
}

// loadConfig layers flags over RV_* environment variables over the config
// file. An explicit configPath must exist; the default one is optional.
func loadConfig(fs *flag.FlagSet, configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	} else if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// configDir returns the rv config directory.
// Uses XDG_CONFIG_HOME/rv, defaulting to ~/.config/rv.
func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "rv"), nil
}

// Validate checks values the flag parser cannot.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidInterval
	}
	if c.ChunkSize <= 0 {
		return ErrInvalidChunkSize
	}
	if _, err := c.SizeBytes(); err != nil {
		return err
	}
	return nil
}

// SizeBytes parses the size hint, e.g. "700MB", "4GiB" or "1048576".
// An empty size is 0 (unknown).
func (c *Config) SizeBytes() (ByteCount, error) {
	if strings.TrimSpace(c.Size) == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(c.Size)
	if err != nil {
		return 0, fmt.Errorf("invalid --size: %w", err)
	}
	return ByteCount(n), nil
}

// Display returns the display selection from the config.
func (c *Config) Display() Display {
	return Display{
		Progress: c.Progress,
		Timer:    c.Timer,
		ETA:      c.ETA,
		Rate:     c.Rate,
		Numeric:  c.Numeric,
		Quiet:    c.Quiet,
	}
}

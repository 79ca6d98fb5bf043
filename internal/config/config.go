// Package config resolves settings from flags, environment, .env and an optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "GH_MERGE_READY"

	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Config holds the effective settings
type Config struct {
	Host        string `mapstructure:"host"`
	Token       string `mapstructure:"token"`
	Concurrency int    `mapstructure:"concurrency"`
	Format      string `mapstructure:"format"`
	TitleWidth  int    `mapstructure:"title_width"`
	LogLevel    string `mapstructure:"log_level"`
	SearchLimit int    `mapstructure:"search_limit"`
}

// DirFunc returns the config directory path, replaceable in tests.
var DirFunc = defaultDir

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gh-merge-ready"), nil
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("host", "github.com")
	v.SetDefault("token", "")
	v.SetDefault("concurrency", 4)
	v.SetDefault("format", FormatTable)
	v.SetDefault("title_width", 50)
	v.SetDefault("log_level", "warn")
	v.SetDefault("search_limit", 100)
}

// Init prepares v: .env, config file lookup, env binding and defaults.
// cfgFile overrides the default ~/.config/gh-merge-ready/config.yaml.
func Init(v *viper.Viper, cfgFile string) error {
	// .env is optional; values already in the environment win
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if dir, err := DirFunc(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// GITHUB_TOKEN is the conventional variable; GH_MERGE_READY_TOKEN takes precedence
	if err := v.BindEnv("token", EnvPrefix+"_TOKEN", "GITHUB_TOKEN"); err != nil {
		return fmt.Errorf("bind token env: %w", err)
	}

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// Load decodes and validates the settings held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	switch c.Format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", c.Format)
	}
	if c.TitleWidth < 10 {
		return fmt.Errorf("title_width must be at least 10, got %d", c.TitleWidth)
	}
	if c.SearchLimit < 1 || c.SearchLimit > 100 {
		return fmt.Errorf("search_limit must be between 1 and 100, got %d", c.SearchLimit)
	}
	return nil
}

// Package config loads typeshape settings from typeshape.yaml, TYPESHAPE_
// environment variables and command line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"typeshape/internal/logging"
	"typeshape/internal/report"
)

// EnvPrefix prefixes environment variables, e.g. TYPESHAPE_LOG_LEVEL.
const EnvPrefix = "TYPESHAPE"

// Config represents the typeshape configuration.
type Config struct {
	LogLevel  string   `mapstructure:"log_level"`
	Format    string   `mapstructure:"format"`
	NoColor   bool     `mapstructure:"no_color"`
	Patterns  []string `mapstructure:"patterns"`
	Manifests []string `mapstructure:"manifests"`
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level": "log_level",
	"format":    "format",
	"no-color":  "no_color",
}

// Load reads the configuration. An empty path looks for typeshape.yaml in
// the working directory and tolerates its absence; an explicit path must
// exist. Flags that are absent from flags are ignored, flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("format", string(report.FormatTable))
	v.SetDefault("no_color", false)
	v.SetDefault("patterns", []string{})
	v.SetDefault("manifests", []string{})

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("typeshape")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the output format and log level.
func (c *Config) Validate() error {
	if _, err := report.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	return nil
}

// Package config provides configuration management for cmdform using
// Viper, loading from a .cmdform.yml file, CMDFORM_ prefixed environment
// variables, and bound command-line flags.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Forms  FormsConfig  `yaml:"forms" mapstructure:"forms"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

type ServerConfig struct {
	Port int    `yaml:"port" mapstructure:"port"`
	Host string `yaml:"host" mapstructure:"host"`
}

type FormsConfig struct {
	// BasePath is the URL prefix command forms are mounted under.
	BasePath string `yaml:"base_path" mapstructure:"base_path"`

	// SkipPattern is a regexp of flag names omitted from every form.
	SkipPattern string `yaml:"skip_pattern" mapstructure:"skip_pattern"`

	// CSSPath is the stylesheet URL linked from rendered forms. Empty
	// disables the link; the default serves the embedded stylesheet.
	CSSPath string `yaml:"css_path" mapstructure:"css_path"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load builds the configuration from viper's merged sources, applying
// defaults for anything unset.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	if config.Server.Port == 0 {
		config.Server.Port = 8085
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Forms.BasePath == "" {
		config.Forms.BasePath = "/cmd/"
	}
	if config.Forms.CSSPath == "" {
		config.Forms.CSSPath = "/assets/cmdform.css"
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Forms.BasePath == "" || c.Forms.BasePath[0] != '/' {
		return fmt.Errorf("forms base path must start with '/': %q", c.Forms.BasePath)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q (supported: text, json)", c.Log.Format)
	}
	return nil
}

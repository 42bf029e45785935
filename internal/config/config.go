// Package config carries runtime configuration for the pdffill CLI and MCP
// server, sourced from defaults, PDFFILL_* environment variables and command
// line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel    = "info"
	DefaultServerName  = "pdffill"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
)

// Config holds all configuration for pdffill.
type Config struct {
	// LogLevel controls diagnostics verbosity (debug, info, warn, error).
	LogLevel string `validate:"oneof=debug info warn error"`

	// AdobeMode toggles Adobe-compatibility behavior during fills.
	AdobeMode bool

	// PDFDirectory is the directory exposed to MCP clients in serve mode.
	PDFDirectory string `validate:"required"`

	// MaxFileSize caps the size of documents accepted in serve mode.
	MaxFileSize int64 `validate:"min=1"`

	ServerName string `validate:"required"`
	Version    string `validate:"required"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}
	return &Config{
		LogLevel:     DefaultLogLevel,
		AdobeMode:    true,
		PDFDirectory: currentDir,
		MaxFileSize:  DefaultMaxFileSize,
		ServerName:   DefaultServerName,
		Version:      "1.0.0",
	}
}

// Load builds the configuration from defaults and PDFFILL_* environment
// variables. Flag values bound to viper by the CLI override both.
func Load() (*Config, error) {
	cfg := Default()

	viper.SetEnvPrefix("PDFFILL")
	viper.AutomaticEnv()

	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("adobemode", cfg.AdobeMode)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)

	cfg.LogLevel = viper.GetString("loglevel")
	cfg.AdobeMode = viper.GetBool("adobemode")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")

	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{LogLevel: %s, AdobeMode: %t, PDFDirectory: %s, MaxFileSize: %d}",
		c.LogLevel, c.AdobeMode, c.PDFDirectory, c.MaxFileSize)
}

// Package config provides configuration management for boxoffice.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Environment variables (a .env file in the working directory is loaded first)
// 2. Configuration file
// 3. Default values
//
// Credentials are deliberately not required by Validate: each command asks
// for the keys it needs through RequireStripe and RequireAnthropic, so a
// missing key is reported before any network call is made.
//
// Example usage:
//
//	cfg, err := config.NewLoader("").Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.RequireStripe(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"strings"
	"time"
)

// Config represents the complete application configuration.
type Config struct {
	// Payments API settings
	Stripe StripeConfig `yaml:"stripe" json:"stripe"`

	// Language model settings
	Anthropic AnthropicConfig `yaml:"anthropic" json:"anthropic"`

	// Exchange-rate settings
	Rates RatesConfig `yaml:"rates" json:"rates"`

	// Customer export settings
	Export ExportConfig `yaml:"export" json:"export"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// StripeConfig contains payments API settings.
type StripeConfig struct {
	// Secret API key (STRIPE_API_KEY)
	APIKey string `yaml:"api_key" json:"api_key"`

	// Base URL of the dashboard, used to print product links
	DashboardURL string `yaml:"dashboard_url" json:"dashboard_url"`
}

// AnthropicConfig contains language model settings.
type AnthropicConfig struct {
	// API key (ANTHROPIC_API_KEY)
	APIKey string `yaml:"api_key" json:"api_key"`

	// Model used to match show descriptions
	Model string `yaml:"model" json:"model"`

	// Upper bound on the reply length
	MaxTokens int64 `yaml:"max_tokens" json:"max_tokens"`
}

// RatesConfig contains exchange-rate settings.
type RatesConfig struct {
	// Endpoint prefix; the base currency code is appended as the last path element
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Reporting currency for revenue
	BaseCurrency string `yaml:"base_currency" json:"base_currency"`

	// Timeout for the single rate fetch
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// ExportConfig contains customer export settings.
type ExportConfig struct {
	// Directory for customers_<product>_<date>.csv files
	OutputDir string `yaml:"output_dir" json:"output_dir"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output" json:"output"`

	// Log format (text, json)
	Format string `yaml:"format" json:"format"`
}

// Validate checks the non-credential settings.
func (c *Config) Validate() error {
	if c.Anthropic.Model == "" {
		return ErrInvalidModel
	}
	if c.Anthropic.MaxTokens <= 0 {
		return ErrInvalidMaxTokens
	}

	if c.Rates.BaseURL == "" {
		return ErrInvalidRatesURL
	}
	if !isCurrencyCode(c.Rates.BaseCurrency) {
		return ErrInvalidBaseCurrency
	}
	if c.Rates.Timeout <= 0 {
		return ErrInvalidRatesTimeout
	}

	if c.Export.OutputDir == "" {
		return ErrInvalidOutputDir
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// RequireStripe reports ErrMissingStripeKey when no payments key is set.
func (c *Config) RequireStripe() error {
	if strings.TrimSpace(c.Stripe.APIKey) == "" {
		return ErrMissingStripeKey
	}
	return nil
}

// RequireAnthropic reports ErrMissingAnthropicKey when no model key is set.
func (c *Config) RequireAnthropic() error {
	if strings.TrimSpace(c.Anthropic.APIKey) == "" {
		return ErrMissingAnthropicKey
	}
	return nil
}

// Redacted returns a copy with credentials masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	out.Stripe.APIKey = mask(c.Stripe.APIKey)
	out.Anthropic.APIKey = mask(c.Anthropic.APIKey)
	return &out
}

// mask keeps a recognizable prefix of a key.
func mask(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:8] + "****"
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// Default returns a configuration with default values and no credentials.
func Default() *Config {
	return &Config{
		Stripe: StripeConfig{
			DashboardURL: "https://dashboard.stripe.com",
		},
		Anthropic: AnthropicConfig{
			Model:     "claude-sonnet-4-6",
			MaxTokens: 256,
		},
		Rates: RatesConfig{
			BaseURL:      "https://open.er-api.com/v6/latest",
			BaseCurrency: "eur",
			Timeout:      10 * time.Second,
		},
		Export: ExportConfig{
			OutputDir: "data",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
			Format: "text",
		},
	}
}

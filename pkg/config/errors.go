package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrMissingStripeKey is returned when a command needs the payments API
	// and no key was configured.
	ErrMissingStripeKey = errors.New("STRIPE_API_KEY not set. Copy .env.example to .env and add your key")

	// ErrMissingAnthropicKey is returned when a command needs the language
	// model and no key was configured.
	ErrMissingAnthropicKey = errors.New("ANTHROPIC_API_KEY not set. Copy .env.example to .env and add your key")

	// ErrInvalidModel is returned when the language model name is empty.
	ErrInvalidModel = errors.New("invalid anthropic model: must not be empty")

	// ErrInvalidMaxTokens is returned when max tokens is <= 0.
	ErrInvalidMaxTokens = errors.New("invalid anthropic max_tokens: must be > 0")

	// ErrInvalidRatesURL is returned when the exchange-rate base URL is empty.
	ErrInvalidRatesURL = errors.New("invalid rates base_url: must not be empty")

	// ErrInvalidBaseCurrency is returned when the base currency is not a
	// three-letter code.
	ErrInvalidBaseCurrency = errors.New("invalid rates base_currency: must be a three-letter ISO 4217 code")

	// ErrInvalidRatesTimeout is returned when the rate fetch timeout is <= 0.
	ErrInvalidRatesTimeout = errors.New("invalid rates timeout: must be > 0")

	// ErrInvalidOutputDir is returned when the export directory is empty.
	ErrInvalidOutputDir = errors.New("invalid export output_dir: must not be empty")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)

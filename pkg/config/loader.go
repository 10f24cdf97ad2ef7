package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load loads configuration with the following precedence:
	// 1. Environment variables (after loading .env)
	// 2. Configuration file
	// 3. Default values
	//
	// Returns the merged configuration or an error if validation fails.
	Load() (*Config, error)

	// LoadFromFile reads a single YAML file without merging or validation.
	LoadFromFile(path string) (*Config, error)

	// Source returns the config file that Load used, or "" for defaults only.
	Source() string
}

type loader struct {
	configPath string
	envFile    string
	source     string
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, the first existing file of SearchPaths is used.
// An explicit configPath that cannot be read is an error.
func NewLoader(configPath string) Loader {
	return &loader{
		configPath: configPath,
		envFile:    dotEnvFile,
	}
}

// Load implements Loader.Load.
func (l *loader) Load() (*Config, error) {
	cfg := Default()

	configPath := l.configPath
	if configPath == "" {
		configPath = l.findConfigFile()
	}

	if configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			if l.configPath != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
		} else {
			cfg = l.mergeConfigs(cfg, fileCfg)
			l.source = configPath
		}
	}

	// A missing .env is normal; variables already in the environment win.
	_ = godotenv.Load(l.envFile)

	cfg = l.applyEnvVars(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile implements Loader.LoadFromFile.
func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return &cfg, nil
}

// Source implements Loader.Source.
func (l *loader) Source() string {
	return l.source
}

func (l *loader) findConfigFile() string {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// mergeConfigs overlays non-zero file values onto base.
func (l *loader) mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Stripe.APIKey != "" {
		result.Stripe.APIKey = override.Stripe.APIKey
	}
	if override.Stripe.DashboardURL != "" {
		result.Stripe.DashboardURL = override.Stripe.DashboardURL
	}

	if override.Anthropic.APIKey != "" {
		result.Anthropic.APIKey = override.Anthropic.APIKey
	}
	if override.Anthropic.Model != "" {
		result.Anthropic.Model = override.Anthropic.Model
	}
	if override.Anthropic.MaxTokens > 0 {
		result.Anthropic.MaxTokens = override.Anthropic.MaxTokens
	}

	if override.Rates.BaseURL != "" {
		result.Rates.BaseURL = override.Rates.BaseURL
	}
	if override.Rates.BaseCurrency != "" {
		result.Rates.BaseCurrency = strings.ToLower(override.Rates.BaseCurrency)
	}
	if override.Rates.Timeout > 0 {
		result.Rates.Timeout = override.Rates.Timeout
	}

	if override.Export.OutputDir != "" {
		result.Export.OutputDir = override.Export.OutputDir
	}

	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Output != "" {
		result.Logging.Output = override.Logging.Output
	}
	if override.Logging.Format != "" {
		result.Logging.Format = override.Logging.Format
	}

	return &result
}

// applyEnvVars applies environment variable overrides.
//
// Supported environment variables:
//   - STRIPE_API_KEY: payments API secret key
//   - ANTHROPIC_API_KEY: language model API key
//   - BOXOFFICE_OUTPUT_DIR: export directory
//   - BOXOFFICE_BASE_CURRENCY: reporting currency
//   - BOXOFFICE_LOG_LEVEL: log level
func (l *loader) applyEnvVars(cfg *Config) *Config {
	result := *cfg

	if key := strings.TrimSpace(os.Getenv("STRIPE_API_KEY")); key != "" {
		result.Stripe.APIKey = key
	}

	if key := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); key != "" {
		result.Anthropic.APIKey = key
	}

	if dir := os.Getenv("BOXOFFICE_OUTPUT_DIR"); dir != "" {
		result.Export.OutputDir = dir
	}

	if base := os.Getenv("BOXOFFICE_BASE_CURRENCY"); base != "" {
		result.Rates.BaseCurrency = strings.ToLower(base)
	}

	if logLevel := os.Getenv("BOXOFFICE_LOG_LEVEL"); logLevel != "" {
		result.Logging.Level = strings.ToLower(logLevel)
	}

	return &result
}

// Save writes the configuration to a YAML file with 0600 permissions,
// creating parent directories as needed.
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

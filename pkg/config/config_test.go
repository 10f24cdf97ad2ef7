package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the variables the loader reads and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STRIPE_API_KEY",
		"ANTHROPIC_API_KEY",
		"BOXOFFICE_OUTPUT_DIR",
		"BOXOFFICE_BASE_CURRENCY",
		"BOXOFFICE_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "eur", cfg.Rates.BaseCurrency)
	assert.Equal(t, 10*time.Second, cfg.Rates.Timeout)
	assert.Equal(t, "data", cfg.Export.OutputDir)
	assert.Empty(t, cfg.Stripe.APIKey)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid default config", func(c *Config) {}, nil},
		{"empty model", func(c *Config) { c.Anthropic.Model = "" }, ErrInvalidModel},
		{"zero max tokens", func(c *Config) { c.Anthropic.MaxTokens = 0 }, ErrInvalidMaxTokens},
		{"empty rates url", func(c *Config) { c.Rates.BaseURL = "" }, ErrInvalidRatesURL},
		{"bad base currency", func(c *Config) { c.Rates.BaseCurrency = "euro" }, ErrInvalidBaseCurrency},
		{"numeric base currency", func(c *Config) { c.Rates.BaseCurrency = "e1r" }, ErrInvalidBaseCurrency},
		{"zero timeout", func(c *Config) { c.Rates.Timeout = 0 }, ErrInvalidRatesTimeout},
		{"empty output dir", func(c *Config) { c.Export.OutputDir = "" }, ErrInvalidOutputDir},
		{"invalid log level", func(c *Config) { c.Logging.Level = "loud" }, ErrInvalidLogLevel},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRequireCredentials(t *testing.T) {
	cfg := Default()

	assert.ErrorIs(t, cfg.RequireStripe(), ErrMissingStripeKey)
	assert.ErrorIs(t, cfg.RequireAnthropic(), ErrMissingAnthropicKey)

	cfg.Stripe.APIKey = "   "
	assert.ErrorIs(t, cfg.RequireStripe(), ErrMissingStripeKey)

	cfg.Stripe.APIKey = "sk_test_123"
	cfg.Anthropic.APIKey = "sk-ant-123"
	assert.NoError(t, cfg.RequireStripe())
	assert.NoError(t, cfg.RequireAnthropic())
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.Stripe.APIKey = "sk_live_abcdefghijkl"
	cfg.Anthropic.APIKey = "short"

	red := cfg.Redacted()

	assert.Equal(t, "sk_live_****", red.Stripe.APIKey)
	assert.Equal(t, "****", red.Anthropic.APIKey)
	assert.Equal(t, "sk_live_abcdefghijkl", cfg.Stripe.APIKey, "source config must be untouched")
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
		create  bool
		wantErr error
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:   "valid config file",
			create: true,
			content: `
stripe:
  api_key: sk_test_file
anthropic:
  model: claude-haiku
  max_tokens: 512
rates:
  base_url: http://localhost:9999/latest
  base_currency: USD
  timeout: 3s
export:
  output_dir: /tmp/exports
logging:
  level: debug
  format: json
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "sk_test_file", cfg.Stripe.APIKey)
				assert.Equal(t, "https://dashboard.stripe.com", cfg.Stripe.DashboardURL)
				assert.Equal(t, "claude-haiku", cfg.Anthropic.Model)
				assert.EqualValues(t, 512, cfg.Anthropic.MaxTokens)
				assert.Equal(t, "usd", cfg.Rates.BaseCurrency)
				assert.Equal(t, 3*time.Second, cfg.Rates.Timeout)
				assert.Equal(t, "/tmp/exports", cfg.Export.OutputDir)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "stderr", cfg.Logging.Output)
			},
		},
		{
			name:    "invalid yaml",
			create:  true,
			content: `invalid: yaml: content: [`,
			wantErr: ErrInvalidYAML,
		},
		{
			name:    "non-existent file",
			wantErr: ErrConfigNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filePath := filepath.Join(tmpDir, tt.name+".yaml")
			if tt.create {
				require.NoError(t, os.WriteFile(filePath, []byte(tt.content), 0600))
			}

			l := NewLoader(filePath)
			cfg, err := l.Load()

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, filePath, l.Source())
			tt.check(t, cfg)
		})
	}
}

func TestEnvVarOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STRIPE_API_KEY", " sk_test_env ")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")
	t.Setenv("BOXOFFICE_OUTPUT_DIR", "/env/out")
	t.Setenv("BOXOFFICE_BASE_CURRENCY", "GBP")
	t.Setenv("BOXOFFICE_LOG_LEVEL", "DEBUG")

	cfg, err := NewLoader("").Load()
	require.NoError(t, err)

	assert.Equal(t, "sk_test_env", cfg.Stripe.APIKey)
	assert.Equal(t, "sk-ant-env", cfg.Anthropic.APIKey)
	assert.Equal(t, "/env/out", cfg.Export.OutputDir)
	assert.Equal(t, "gbp", cfg.Rates.BaseCurrency)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestDotEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STRIPE_API_KEY=sk_test_dotenv\n"), 0600))

	l := &loader{envFile: envFile}
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "sk_test_dotenv", cfg.Stripe.APIKey)
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("STRIPE_API_KEY", "sk_test_process")
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STRIPE_API_KEY=sk_test_dotenv\n"), 0600))

	l := &loader{envFile: envFile}
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "sk_test_process", cfg.Stripe.APIKey)
}

func TestSave(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Logging.Level = "debug"
	cfg.Export.OutputDir = "exports"

	require.NoError(t, Save(cfg, configPath))

	loaded, err := NewLoader(configPath).Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", loaded.Logging.Level)
	assert.Equal(t, "exports", loaded.Export.OutputDir)
}

func TestSaveRejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Rates.Timeout = 0

	err := Save(cfg, filepath.Join(t.TempDir(), "config.yaml"))
	assert.ErrorIs(t, err, ErrInvalidRatesTimeout)
}

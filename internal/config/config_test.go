package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "gemini-1.5-flash",
			Timeout:     time.Minute,
			Temperature: 0.2,
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:          true,
				FailureThreshold: 0.6,
			},
		},
		Server: ServerConfig{Port: "8080"},
		App: AppConfig{
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text"},
			MaxRequestSize:   1024,
			MaxTextChars:     200_000,
			RequestTimeout:   time.Minute,
		},
		Document: DocumentConfig{FetchTimeout: time.Second, MaxDocumentSize: 1024},
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("INTERVIEWLENS_AI_APIKEY", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  logLevel: debug\n"), 0o600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.AI.Model)
	assert.InDelta(t, 0.2, cfg.AI.Temperature, 0.0001)
	assert.Equal(t, 0, cfg.AI.MaxRetries)
	assert.Equal(t, 200_000, cfg.App.MaxTextChars)
	assert.Equal(t, 90*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Empty(t, cfg.AI.APIKey, "a missing key must not fail loading")
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
}

func TestLoadConfigAPIKeySources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9000\"\n"), 0o600))

	t.Run("legacy variable", func(t *testing.T) {
		t.Setenv("INTERVIEWLENS_AI_APIKEY", "")
		t.Setenv("GEMINI_API_KEY", " legacy-key ")

		cfg, err := LoadConfigFrom(path)
		require.NoError(t, err)
		assert.Equal(t, "legacy-key", cfg.AI.APIKey)
		assert.Equal(t, "9000", cfg.Server.Port)
	})

	t.Run("prefixed variable wins", func(t *testing.T) {
		t.Setenv("INTERVIEWLENS_AI_APIKEY", "primary-key")
		t.Setenv("GEMINI_API_KEY", "legacy-key")

		cfg, err := LoadConfigFrom(path)
		require.NoError(t, err)
		assert.Equal(t, "primary-key", cfg.AI.APIKey)
	})
}

func TestLoadConfigRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai: [unclosed"), 0o600))

	_, err := LoadConfigFrom(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing api key is allowed", mutate: func(c *Config) { c.AI.APIKey = "" }},
		{name: "unknown provider", mutate: func(c *Config) { c.AI.Provider = "openai" }, wantErr: true},
		{name: "zero ai timeout", mutate: func(c *Config) { c.AI.Timeout = 0 }, wantErr: true},
		{name: "temperature too high", mutate: func(c *Config) { c.AI.Temperature = 3 }, wantErr: true},
		{name: "negative retries", mutate: func(c *Config) { c.AI.MaxRetries = -1 }, wantErr: true},
		{name: "bad failure threshold", mutate: func(c *Config) { c.AI.CircuitBreaker.FailureThreshold = 1.5 }, wantErr: true},
		{name: "breaker disabled ignores threshold", mutate: func(c *Config) {
			c.AI.CircuitBreaker = CircuitBreakerConfig{}
		}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "zero request timeout", mutate: func(c *Config) { c.App.RequestTimeout = 0 }, wantErr: true},
		{name: "zero text budget", mutate: func(c *Config) { c.App.MaxTextChars = 0 }, wantErr: true},
		{name: "unsupported default format", mutate: func(c *Config) { c.App.DefaultFormat = "xml" }, wantErr: true},
		{name: "zero fetch timeout", mutate: func(c *Config) { c.Document.FetchTimeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
// Gemini key precedence, highest first:
// 1. Vault (vault.secrets.geminiKey)
// 2. Config file / INTERVIEWLENS_AI_APIKEY
// 3. Legacy GEMINI_API_KEY environment variable
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Document      DocumentConfig      `mapstructure:"document"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig holds the report generator settings
type AIConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	APIKey      string        `mapstructure:"apiKey"`
	BaseURL     string        `mapstructure:"baseURL"` // optional API endpoint override
	MaxRetries  int           `mapstructure:"maxRetries"`
	Temperature float32       `mapstructure:"temperature"`

	// RequestsPerMinute paces outbound model calls. Zero disables pacing.
	RequestsPerMinute int `mapstructure:"requestsPerMinute"`

	// PromptFile optionally overrides the built-in prompt template and is
	// reloaded when the file changes.
	PromptFile        string        `mapstructure:"promptFile"`
	PromptReloadDelay time.Duration `mapstructure:"promptReloadDelay"`

	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // allowed while half-open
	Interval         time.Duration `mapstructure:"interval"`         // closed-state count reset
	Timeout          time.Duration `mapstructure:"timeout"`          // open to half-open
	MinRequests      uint32        `mapstructure:"minRequests"`      // before the ratio is considered
	FailureThreshold float64       `mapstructure:"failureThreshold"` // 0.0-1.0
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`
	CORS         CORSConfig    `mapstructure:"cors"`
}

// CORSConfig controls which browser origins may call the API
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
	MaxAge         int      `mapstructure:"maxAge"`
}

// AppConfig holds settings shared by the server and the CLI
type AppConfig struct {
	LogLevel         string        `mapstructure:"logLevel"`
	DefaultFormat    string        `mapstructure:"defaultFormat"`
	SupportedFormats []string      `mapstructure:"supportedFormats"`
	MaxRequestSize   int64         `mapstructure:"maxRequestSize"`
	MaxTextChars     int           `mapstructure:"maxTextChars"`
	RequestTimeout   time.Duration `mapstructure:"requestTimeout"`
}

// DocumentConfig controls how referenced documents are fetched
type DocumentConfig struct {
	FetchTimeout    time.Duration `mapstructure:"fetchTimeout"`
	MaxDocumentSize int64         `mapstructure:"maxDocumentSize"`
	S3              S3Config      `mapstructure:"s3"`
}

// S3Config configures the s3:// document source
type S3Config struct {
	Enabled      bool   `mapstructure:"enabled"`
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`
	UsePathStyle bool   `mapstructure:"usePathStyle"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

type MetricsConfig struct {
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

type ConsoleConfig struct {
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig toggles the service-specific instruments
type CustomMetricsConfig struct {
	AIOperations AIOperationsMetricsConfig `mapstructure:"aiOperations"`
	Analyses     AnalysesMetricsConfig     `mapstructure:"analyses"`
}

type AIOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
}

type AnalysesMetricsConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	TrackDocuments bool `mapstructure:"trackDocuments"`
}

type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

type HealthCheckConfig struct {
	AIModelCheckTimeout time.Duration `mapstructure:"aiModelCheckTimeout"`
}

// LoadConfig loads configuration from the default search paths,
// environment variables and defaults.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("")
}

// LoadConfigFrom loads configuration like LoadConfig but reads the given
// file instead of searching for config.yaml when path is non-empty.
func LoadConfigFrom(path string) (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("INTERVIEWLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/interviewlens/")
		v.AddConfigPath("$HOME/.interviewlens")
		v.AddConfigPath(".")
	}

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks structural settings. A missing Gemini key is not a
// configuration error: it is reported per request so the server can
// still start, serve health checks and report the problem to callers.
func (c *Config) Validate() error {
	if c.AI.Provider != "gemini" {
		return fmt.Errorf("unsupported AI provider: %s", c.AI.Provider)
	}
	if c.AI.Model == "" {
		return fmt.Errorf("AI model is required")
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("AI temperature must be between 0 and 2, got %v", c.AI.Temperature)
	}
	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("AI maxRetries cannot be negative")
	}
	if c.AI.RequestsPerMinute < 0 {
		return fmt.Errorf("AI requestsPerMinute cannot be negative")
	}
	if cb := c.AI.CircuitBreaker; cb.Enabled && (cb.FailureThreshold <= 0 || cb.FailureThreshold > 1) {
		return fmt.Errorf("circuit breaker failureThreshold must be in (0, 1], got %v", cb.FailureThreshold)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.App.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.App.MaxTextChars <= 0 {
		return fmt.Errorf("maxTextChars must be positive")
	}
	if c.App.MaxRequestSize <= 0 {
		return fmt.Errorf("maxRequestSize must be positive")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if c.Document.FetchTimeout <= 0 {
		return fmt.Errorf("document fetchTimeout must be positive")
	}
	if c.Document.MaxDocumentSize <= 0 {
		return fmt.Errorf("document maxDocumentSize must be positive")
	}

	return nil
}

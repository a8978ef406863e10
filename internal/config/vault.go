package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"interviewlens/internal/errors"

	"github.com/hashicorp/vault/api"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool         `mapstructure:"enabled"`
	Address   string       `mapstructure:"address"`
	Token     string       `mapstructure:"token"`
	TokenFile string       `mapstructure:"tokenFile"`
	Namespace string       `mapstructure:"namespace"`
	Secrets   VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets defines where secrets live in Vault (KV v2 paths)
type VaultSecrets struct {
	GeminiKey string `mapstructure:"geminiKey"` // expects an "api_key" field
}

// VaultClient wraps the Vault API client
type VaultClient struct {
	client *api.Client
	logger *errors.Logger
}

// VaultSecret is a secret read from Vault's KV v2 engine
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// NewVaultClient connects to Vault and verifies it is reachable.
// Returns nil, nil when Vault is disabled.
func NewVaultClient(cfg VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	vaultConfig := api.DefaultConfig()
	if cfg.Address != "" {
		vaultConfig.Address = cfg.Address
	}
	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	token, err := resolveVaultToken(cfg)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vault at %s: %w", cfg.Address, err)
	}
	logger.Info("Connected to Vault",
		"address", cfg.Address,
		"version", health.Version,
		"sealed", health.Sealed)

	return &VaultClient{client: client, logger: logger}, nil
}

func resolveVaultToken(cfg VaultConfig) (string, error) {
	token := cfg.Token
	if token == "" && cfg.TokenFile != "" {
		tokenBytes, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(tokenBytes))
	}
	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	return token, nil
}

// GetSecretV2 reads a KV v2 secret
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}

	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}

	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}
	metadata, ok := secret.Data["metadata"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'metadata' field)", path)
	}
	version, err := parseVersionValue(metadata["version"], path)
	if err != nil {
		return nil, err
	}

	return &VaultSecret{Data: data, Version: version}, nil
}

// parseVersionValue accepts the version shapes the Vault API has been
// observed to return. The api client decodes with UseNumber, so
// json.Number is the usual one.
func parseVersionValue(versionRaw any, path string) (int64, error) {
	switch v := versionRaw.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case json.Number:
		version, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("could not parse secret version at %s: %w", path, err)
		}
		return version, nil
	case string:
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse secret version at %s: %w", path, err)
		}
		return version, nil
	default:
		return 0, fmt.Errorf("unexpected type for version at %s: %T", path, versionRaw)
	}
}

// GetStringSecret reads a single string field from a KV v2 secret
func (vc *VaultClient) GetStringSecret(path, key string) (string, error) {
	secret, err := vc.GetSecretV2(path)
	if err != nil {
		return "", err
	}
	value, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	strValue, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string in secret %s", key, path)
	}

	vc.logger.Debug("String secret retrieved from Vault",
		"path", path,
		"key", key,
		"masked_value", maskSecret(strValue),
		"version", secret.Version)

	return strValue, nil
}

func maskSecret(value string) string {
	switch {
	case len(value) > 8:
		return value[:4] + "****" + value[len(value)-4:]
	case value != "":
		return "****"
	default:
		return ""
	}
}

// ApplyVaultSecrets overlays secrets from Vault onto cfg. It is a no-op
// when Vault is disabled.
func ApplyVaultSecrets(cfg *Config, logger *errors.Logger) error {
	if !cfg.Vault.Enabled {
		logger.Debug("Vault integration disabled, skipping secret loading")
		return nil
	}

	client, err := NewVaultClient(cfg.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}

	path := cfg.Vault.Secrets.GeminiKey
	if path == "" {
		return nil
	}

	geminiKey, err := client.GetStringSecret(path, "api_key")
	if err != nil {
		return fmt.Errorf("failed to load Gemini API key from vault: %w", err)
	}
	if geminiKey == "" {
		logger.Warn("Empty Gemini API key found in Vault", "path", path)
		return nil
	}

	cfg.AI.APIKey = geminiKey
	logger.Info("Gemini API key loaded from Vault", "path", path)
	return nil
}

package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// legacyAPIKeyEnv is the variable older deployments set for the Gemini key
const legacyAPIKeyEnv = "GEMINI_API_KEY"

func (c *Config) applyFallbacks() {
	if c.AI.APIKey == "" {
		c.AI.APIKey = strings.TrimSpace(os.Getenv(legacyAPIKeyEnv))
	}
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

func (c *Config) logConfigurationSources(configFileUsed string) {
	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: none (defaults and environment)")
	}

	envVars := []string{
		"INTERVIEWLENS_AI_APIKEY",
		"INTERVIEWLENS_AI_MODEL",
		"INTERVIEWLENS_SERVER_HOST",
		"INTERVIEWLENS_SERVER_PORT",
		"INTERVIEWLENS_APP_LOGLEVEL",
		"INTERVIEWLENS_VAULT_ENABLED",
		legacyAPIKeyEnv,
	}
	for _, envVar := range envVars {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(envVar), "key") {
			value = "***MASKED***"
		}
		log.Printf("[CONFIG]   %s=%s", envVar, value)
	}

	apiKeyState := "***NOT SET***"
	if c.AI.APIKey != "" {
		apiKeyState = "***CONFIGURED***"
	}
	log.Printf("[CONFIG] AI: provider=%s model=%s key=%s", c.AI.Provider, c.AI.Model, apiKeyState)
	log.Printf("[CONFIG] Server: %s:%s, request timeout %s", c.Server.Host, c.Server.Port, c.App.RequestTimeout)
	log.Printf("[CONFIG] Vault enabled: %t, observability enabled: %t", c.Vault.Enabled, c.Observability.Enabled)
}

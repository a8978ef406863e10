package config

import (
	"time"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.timeout", 75*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.baseURL", "")
	v.SetDefault("ai.maxRetries", 0) // single attempt; callers resubmit
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.requestsPerMinute", 0)
	v.SetDefault("ai.promptFile", "")
	v.SetDefault("ai.promptReloadDelay", time.Second)

	v.SetDefault("ai.circuitBreaker.enabled", true)
	v.SetDefault("ai.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.circuitBreaker.failureThreshold", 0.6)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 120*time.Second) // must outlive app.requestTimeout
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.cors.allowedOrigins", []string{"*"})
	v.SetDefault("server.cors.maxAge", 300)

	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxRequestSize", 4*1024*1024)
	v.SetDefault("app.maxTextChars", 200_000)
	v.SetDefault("app.requestTimeout", 90*time.Second)

	v.SetDefault("document.fetchTimeout", 30*time.Second)
	v.SetDefault("document.maxDocumentSize", 20*1024*1024)
	v.SetDefault("document.s3.enabled", false)
	v.SetDefault("document.s3.region", "us-east-1")
	v.SetDefault("document.s3.endpoint", "")
	v.SetDefault("document.s3.usePathStyle", false)

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.geminiKey", "")

	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "interviewlens")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.customMetrics.aiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackTokenUsage", true)
	v.SetDefault("observability.customMetrics.analyses.enabled", true)
	v.SetDefault("observability.customMetrics.analyses.trackDocuments", true)
	v.SetDefault("observability.console.prettyPrint", true)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
	v.SetDefault("observability.healthCheck.aiModelCheckTimeout", 10*time.Second)
}

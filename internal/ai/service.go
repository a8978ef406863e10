package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"interviewlens/internal/config"
	"interviewlens/internal/errors"
	"interviewlens/internal/observability"
)

// Service generates report text from a prompt. A service built without an
// API key still constructs; every Generate call then fails with
// MISSING_GEMINI_API_KEY so the server can start and report it per request.
type Service struct {
	Provider Provider
	config   config.AIConfig
	om       *observability.Manager
	logger   *errors.Logger
	initErr  error
}

// NewService creates the provider named by cfg.Provider
func NewService(ctx context.Context, cfg config.AIConfig, modelCheck time.Duration, om *observability.Manager, logger *errors.Logger) (*Service, error) {
	s := &Service{config: cfg, om: om, logger: logger}

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"temperature", cfg.Temperature,
		"timeout", cfg.Timeout,
		"max_retries", cfg.MaxRetries,
		"requests_per_minute", cfg.RequestsPerMinute)

	if strings.TrimSpace(cfg.APIKey) == "" {
		s.initErr = errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"Gemini API key is not configured", nil)
		logger.Warn("AI API key not configured; analyses will fail until it is set")
		return s, nil
	}

	switch cfg.Provider {
	case "gemini":
		provider, err := NewGeminiProvider(ctx, cfg, modelCheck, logger)
		if err != nil {
			return nil, err
		}
		s.Provider = provider
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	return s, nil
}

// NewServiceWithProvider wraps an existing provider
func NewServiceWithProvider(p Provider, om *observability.Manager, logger *errors.Logger) *Service {
	return &Service{Provider: p, om: om, logger: logger}
}

// Generate returns the model's raw text for prompt
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	if s.initErr != nil {
		return "", s.initErr
	}

	var text string
	err := s.om.TrackAIOperation(ctx, generateOperation, func(ctx context.Context) *observability.AIOperationResult {
		gen, err := s.Provider.Generate(ctx, prompt)
		if err != nil {
			return &observability.AIOperationResult{Error: err}
		}
		text = gen.Text
		return &observability.AIOperationResult{TokenUsage: gen.TokenUsage}
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	if s.initErr != nil {
		return &ModelInfo{Name: s.config.Model, Error: s.initErr.Error()}
	}
	return s.Provider.GetModelInfo(ctx)
}

// Stats exposes provider statistics for the stats endpoint
func (s *Service) Stats() map[string]any {
	if s.initErr != nil {
		return map[string]any{"configured": false}
	}
	stats := s.Provider.Stats()
	stats["configured"] = true
	return stats
}

func (s *Service) Close() error {
	if s.Provider == nil {
		return nil
	}
	return s.Provider.Close()
}

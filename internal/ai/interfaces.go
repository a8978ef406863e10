package ai

import (
	"context"

	"interviewlens/internal/observability"
)

// Provider is a generative model backend
type Provider interface {
	Generate(ctx context.Context, prompt string) (*Generation, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Stats() map[string]any
	Close() error
}

// Generation is the raw model output for one prompt
type Generation struct {
	Text       string
	TokenUsage *TokenUsage
}

type TokenUsage = observability.TokenUsage

// ModelInfo describes the configured model's availability
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

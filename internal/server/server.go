package server

import (
	"context"
	"time"

	"interviewlens/internal/ai"
	"interviewlens/internal/config"
	"interviewlens/internal/errors"
	"interviewlens/internal/observability"
	"interviewlens/internal/types"
)

// Analyzer runs one analysis request
type Analyzer interface {
	Analyze(ctx context.Context, req types.AnalysisRequest) (*types.Report, error)
}

// ModelStatus reports the AI backend's health for /health and /stats
type ModelStatus interface {
	GetModelInfo(ctx context.Context) *ai.ModelInfo
	Stats() map[string]any
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	analyzer Analyzer
	models   ModelStatus
	om       *observability.Manager
	Logger   *errors.Logger
}

// NewServer wires the analyzer and model status into a server configured from cfg
func NewServer(cfg *config.Config, version string, analyzer Analyzer, models ModelStatus, om *observability.Manager, logger *errors.Logger) *Server {
	return &Server{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		AppConfig:      cfg,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxRequestSize,
		analyzer:       analyzer,
		models:         models,
		om:             om,
		Logger:         logger,
	}
}

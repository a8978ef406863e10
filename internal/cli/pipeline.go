package cli

import (
	"context"
	"fmt"

	"interviewlens/internal/ai"
	"interviewlens/internal/analysis"
	"interviewlens/internal/common"
	"interviewlens/internal/config"
	"interviewlens/internal/document"
	"interviewlens/internal/errors"
	"interviewlens/internal/observability"
)

// pipeline is the analyzer plus everything that has to be released with it
type pipeline struct {
	analyzer *analysis.Analyzer
	ai       *ai.Service
	watcher  *config.PromptWatcher
}

// pipelineOptions tweak wiring that differs between serve and analyze
type pipelineOptions struct {
	// localFiles registers a file:// fetcher so CLI paths can be resolved
	localFiles bool
	// watchPrompt reloads ai.promptFile on change
	watchPrompt bool
}

func newPipeline(ctx context.Context, cfg *config.Config, om *observability.Manager, logger *errors.Logger, opts pipelineOptions) (*pipeline, error) {
	aiService, err := ai.NewService(ctx, cfg.AI, cfg.Observability.HealthCheck.AIModelCheckTimeout, om, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI service: %w", err)
	}

	router := document.NewSchemeRouter()
	httpFetcher := document.NewHTTPFetcher(cfg.Document.FetchTimeout, cfg.Document.MaxDocumentSize)
	router.Register("http", httpFetcher).Register("https", httpFetcher)
	if cfg.Document.S3.Enabled {
		s3Fetcher, err := document.NewS3Fetcher(ctx, cfg.Document.S3, cfg.Document.MaxDocumentSize)
		if err != nil {
			_ = aiService.Close()
			return nil, fmt.Errorf("failed to create S3 fetcher: %w", err)
		}
		router.Register("s3", s3Fetcher)
	}
	if opts.localFiles {
		router.Register("file", common.NewFileProcessor(logger, cfg.Document.MaxDocumentSize))
	}
	resolver := document.NewResolver(router, document.NewContentExtractor(), om, logger)

	promptText := ""
	if cfg.AI.PromptFile != "" {
		promptText, err = config.LoadPromptFile(cfg.AI.PromptFile)
		if err != nil {
			_ = aiService.Close()
			return nil, err
		}
		logger.Info("Loaded prompt template", "file", cfg.AI.PromptFile)
	}
	prompts, err := analysis.NewPromptBuilder(promptText)
	if err != nil {
		_ = aiService.Close()
		return nil, fmt.Errorf("invalid prompt template: %w", err)
	}

	p := &pipeline{
		ai: aiService,
		analyzer: analysis.NewAnalyzer(resolver, aiService, prompts, analysis.Options{
			MaxTextChars:   cfg.App.MaxTextChars,
			RequestTimeout: cfg.App.RequestTimeout,
		}, om, logger),
	}

	if opts.watchPrompt && cfg.AI.PromptFile != "" {
		p.watcher = config.NewPromptWatcher(cfg.AI.PromptFile, cfg.AI.PromptReloadDelay, prompts.SetTemplate, logger)
		if err := p.watcher.Start(); err != nil {
			// The template loaded above keeps serving.
			logger.Warn("Prompt hot reload disabled", "error", err)
			p.watcher = nil
		}
	}
	return p, nil
}

func (p *pipeline) Close() error {
	if p.watcher != nil {
		_ = p.watcher.Stop()
	}
	return p.ai.Close()
}

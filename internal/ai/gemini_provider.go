package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"interviewlens/internal/config"
	"interviewlens/internal/errors"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const generateOperation = "generate_report"

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	config         config.AIConfig
	modelCheck     time.Duration
	limiter        *rate.Limiter
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *errors.Logger
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates the client once; it is reused across requests.
func NewGeminiProvider(ctx context.Context, cfg config.AIConfig, modelCheck time.Duration, logger *errors.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	if modelCheck <= 0 {
		modelCheck = 10 * time.Second
	}

	return &GeminiProvider{
		client:         client,
		config:         cfg,
		modelCheck:     modelCheck,
		limiter:        limiter,
		circuitBreaker: NewAICircuitBreaker("Generate", cfg.CircuitBreaker, logger),
		modelBreaker:   NewModelCircuitBreaker("Generate", cfg.CircuitBreaker, logger),
		logger:         logger,
	}, nil
}

// Generate sends one prompt and returns the model's raw text. An empty
// reply fails with AI_NO_RESPONSE.
func (g *GeminiProvider) Generate(ctx context.Context, prompt string) (*Generation, error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(g.config.Temperature)),
		attribute.Int("input.prompt_length", len(prompt)),
	)

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, g.classify(ctx, err)
		}
	}

	genCfg := g.generateConfig()
	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, func(attemptCtx context.Context) (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(attemptCtx, g.config.Model, genai.Text(prompt), genCfg)
		})
	})
	if err != nil {
		return nil, g.classify(ctx, err)
	}

	text := ""
	if result != nil {
		text = result.Text()
	}
	if text == "" {
		return nil, errors.NewAIError(errors.ErrCodeAINoResponse, "Model returned no text", nil).
			WithContext("model", g.config.Model)
	}

	gen := &Generation{Text: text, TokenUsage: extractTokenUsage(result)}
	span.SetAttributes(attribute.Int("output.text_length", len(text)))
	return gen, nil
}

func (g *GeminiProvider) generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.config.Temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   reportSchema(),
	}
}

// executeWithRetry bounds each attempt by the configured timeout and backs
// off exponentially between retryable failures.
func (g *GeminiProvider) executeWithRetry(ctx context.Context, fn func(context.Context) (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	attempt := 0
	operation := func() (*genai.GenerateContentResponse, error) {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()

		resp, err := fn(attemptCtx)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil || !isRetryableError(err) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = 30 * time.Second
	var b backoff.BackOff = backoff.WithMaxRetries(policy, uint64(g.config.MaxRetries))

	resp, err := backoff.RetryNotifyWithData(operation, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		g.logger.Warn("Retrying AI operation",
			"operation", generateOperation,
			"attempt", attempt,
			"max_retries", g.config.MaxRetries,
			"wait", wait.String(),
			"error", err.Error())
	})
	if err != nil {
		return nil, err
	}
	if attempt > 1 {
		g.logger.Info("AI operation succeeded after retry",
			"operation", generateOperation,
			"total_attempts", attempt)
	}
	return resp, nil
}

// classify turns a transport or breaker failure into its wire code
func (g *GeminiProvider) classify(ctx context.Context, err error) error {
	switch {
	case isBreakerRejection(err):
		return errors.NewAIError(errors.ErrCodeAIUnavailable, "AI service temporarily unavailable", err)
	case stderrors.Is(ctx.Err(), context.DeadlineExceeded), stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewNetworkError(errors.ErrCodeRequestTimeout, "AI request timed out", err)
	default:
		return errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to generate content", err).
			WithContext("model", g.config.Model)
	}
}

// isRetryableError reports transient network and upstream failures
func isRetryableError(err error) bool {
	if err == nil || stderrors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		return retryableStatus(apiErr.Code)
	}

	var genaiErr genai.APIError
	if stderrors.As(err, &genaiErr) {
		return retryableStatus(genaiErr.Code)
	}
	var genaiErrPtr *genai.APIError
	if stderrors.As(err, &genaiErrPtr) {
		return retryableStatus(genaiErrPtr.Code)
	}

	return false
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, g.modelCheck)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.DisplayName
	modelInfo.Version = model.Version
	return modelInfo
}

// Stats returns circuit breaker statistics
func (g *GeminiProvider) Stats() map[string]any {
	return map[string]any{
		"model":           g.config.Model,
		"ai_operations":   g.circuitBreaker.GetStats(),
		"overall_healthy": g.circuitBreaker.IsHealthy(),
	}
}

// Close is a no-op; the genai client holds no long-lived streams here.
func (g *GeminiProvider) Close() error {
	return nil
}

func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

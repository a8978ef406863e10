package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the service-specific instruments
type Metrics struct {
	AIProcessingTime  metric.Float64Histogram
	AIRequestCount    metric.Int64Counter
	AIErrorCount      metric.Int64Counter
	AITokenUsage      metric.Int64Counter
	Analyses          metric.Int64Counter
	AnalysisDuration  metric.Float64Histogram
	DocumentsResolved metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.AIProcessingTime, err = meter.Float64Histogram(
		"interviewlens_ai_processing_duration_seconds",
		metric.WithDescription("Time spent waiting on the generative model"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}
	if m.AIRequestCount, err = meter.Int64Counter(
		"interviewlens_ai_requests_total",
		metric.WithDescription("Generative model calls"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI request count metric: %w", err)
	}
	if m.AIErrorCount, err = meter.Int64Counter(
		"interviewlens_ai_errors_total",
		metric.WithDescription("Failed generative model calls"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI error count metric: %w", err)
	}
	if m.AITokenUsage, err = meter.Int64Counter(
		"interviewlens_ai_tokens_total",
		metric.WithDescription("Tokens consumed by generative model calls"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}
	if m.Analyses, err = meter.Int64Counter(
		"interviewlens_analyses_total",
		metric.WithDescription("Completed analysis requests by outcome"),
	); err != nil {
		return nil, fmt.Errorf("failed to create analyses metric: %w", err)
	}
	if m.AnalysisDuration, err = meter.Float64Histogram(
		"interviewlens_analysis_duration_seconds",
		metric.WithDescription("End-to-end analysis latency"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create analysis duration metric: %w", err)
	}
	if m.DocumentsResolved, err = meter.Int64Counter(
		"interviewlens_documents_resolved_total",
		metric.WithDescription("Subject inputs resolved, by source and outcome"),
	); err != nil {
		return nil, fmt.Errorf("failed to create documents resolved metric: %w", err)
	}

	return m, nil
}

// TokenUsage is the token accounting reported by the model
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// AIOperationResult is what an instrumented AI call reports back
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// TrackAIOperation runs fn inside an "ai.<operation>" span and records
// duration, outcome and token usage.
func (om *Manager) TrackAIOperation(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult) error {
	ctx, span := om.Tracer("interviewlens.ai").Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	if result == nil {
		result = &AIOperationResult{}
	}
	duration := time.Since(start).Seconds()

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", result.Error == nil),
	}
	span.SetAttributes(attrs...)
	if result.TokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", result.TokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", result.TokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", result.TokenUsage.TotalTokens),
		)
	}
	if result.Error != nil {
		span.RecordError(result.Error)
		span.SetStatus(codes.Error, result.Error.Error())
	}

	if om == nil || om.metrics == nil || !om.cfg.CustomMetrics.AIOperations.Enabled {
		return result.Error
	}

	m := om.metrics
	opt := metric.WithAttributes(attrs...)
	if om.cfg.CustomMetrics.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration, opt)
	}
	m.AIRequestCount.Add(ctx, 1, opt)
	if result.Error != nil {
		m.AIErrorCount.Add(ctx, 1, opt)
	}
	if result.TokenUsage != nil && om.cfg.CustomMetrics.AIOperations.TrackTokenUsage {
		for _, tt := range []struct {
			tokenType string
			value     int64
		}{
			{"input", result.TokenUsage.InputTokens},
			{"output", result.TokenUsage.OutputTokens},
		} {
			m.AITokenUsage.Add(ctx, tt.value, metric.WithAttributes(
				attribute.String("operation", operation),
				attribute.String("token_type", tt.tokenType),
			))
		}
	}

	return result.Error
}

// RecordAnalysis counts one finished analysis. errorCode is empty on success.
func (om *Manager) RecordAnalysis(ctx context.Context, errorCode string, elapsed time.Duration) {
	if om == nil || om.metrics == nil || !om.cfg.CustomMetrics.Analyses.Enabled {
		return
	}
	outcome := errorCode
	if outcome == "" {
		outcome = "OK"
	}
	opt := metric.WithAttributes(
		attribute.String("error_code", outcome),
		attribute.Bool("success", errorCode == ""),
	)
	om.metrics.Analyses.Add(ctx, 1, opt)
	om.metrics.AnalysisDuration.Record(ctx, elapsed.Seconds(), opt)
}

// RecordDocumentResolved counts one subject resolution
func (om *Manager) RecordDocumentResolved(ctx context.Context, source, outcome string) {
	if om == nil || om.metrics == nil || !om.cfg.CustomMetrics.Analyses.TrackDocuments {
		return
	}
	om.metrics.DocumentsResolved.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	))
}

package analysis

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime/debug"
	"time"

	"interviewlens/internal/errors"
	"interviewlens/internal/observability"
	"interviewlens/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ContentResolver turns a request into the three plain-text subjects
type ContentResolver interface {
	ResolveAll(ctx context.Context, req types.AnalysisRequest) (types.ResolvedContent, error)
}

// Generator returns the model's raw text for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options bounds one analysis
type Options struct {
	MaxTextChars   int
	RequestTimeout time.Duration
}

// Analyzer runs one request through resolve, validate, generate and decode.
// It holds no per-request state and is safe for concurrent use.
type Analyzer struct {
	resolver  ContentResolver
	generator Generator
	prompts   *PromptBuilder
	opts      Options
	om        *observability.Manager
	logger    *errors.Logger
}

func NewAnalyzer(resolver ContentResolver, generator Generator, prompts *PromptBuilder, opts Options, om *observability.Manager, logger *errors.Logger) *Analyzer {
	return &Analyzer{
		resolver:  resolver,
		generator: generator,
		prompts:   prompts,
		opts:      opts,
		om:        om,
		logger:    logger,
	}
}

// Analyze produces a validated report or an error carrying exactly one code
func (a *Analyzer) Analyze(ctx context.Context, req types.AnalysisRequest) (report *types.Report, err error) {
	start := time.Now()
	if a.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.RequestTimeout)
		defer cancel()
	}

	ctx, span := a.om.Tracer("interviewlens.analysis").Start(ctx, "analysis.analyze")
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("Recovered panic during analysis", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			report, err = nil, errors.NewInternalError(errors.ErrCodeServerError, "Unexpected failure", fmt.Errorf("panic: %v", r))
		}
		code := errors.CodeOf(err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, code)
		}
		span.SetAttributes(attribute.String("error_code", code))
		span.End()
		a.om.RecordAnalysis(ctx, code, time.Since(start))
	}()

	var raw types.ResolvedContent
	if err := a.stage(ctx, "resolve", func(ctx context.Context) (err error) {
		raw, err = a.resolver.ResolveAll(ctx, req)
		return err
	}); err != nil {
		return nil, err
	}

	content, err := Validate(raw, a.opts.MaxTextChars)
	if err != nil {
		return nil, err
	}

	prompt, err := a.prompts.Build(content)
	if err != nil {
		return nil, err
	}

	var text string
	if err := a.stage(ctx, "generate", func(ctx context.Context) (err error) {
		text, err = a.generator.Generate(ctx, prompt)
		return err
	}); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, errors.NewAIError(errors.ErrCodeAINoResponse, "Model returned no text", nil)
	}

	if err := a.stage(ctx, "decode", func(context.Context) error {
		generic, err := Decode(text)
		if err != nil {
			a.logger.Debug("Undecodable model output", "raw_length", len(text), "raw", text)
			return err
		}
		report, err = ValidateReport(generic)
		if err != nil {
			a.logger.Debug("Model output failed schema validation", "violations", Violations(err))
		}
		return err
	}); err != nil {
		return nil, err
	}

	return report, nil
}

// stage runs fn in its own span. Failures after the request deadline has
// passed are reported as REQUEST_TIMEOUT whatever the stage said.
func (a *Analyzer) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := a.om.Tracer("interviewlens.analysis").Start(ctx, "analysis."+name)
	defer span.End()

	err := fn(ctx)
	if err == nil {
		return nil
	}
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.HasCode(err, errors.ErrCodeRequestTimeout) {
		err = errors.NewNetworkError(errors.ErrCodeRequestTimeout,
			fmt.Sprintf("Analysis timed out during %s", name), err)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, errors.CodeOf(err))
	return err
}

package ai

import (
	"context"
	stderrors "errors"
	"fmt"

	"interviewlens/internal/config"
	"interviewlens/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// AICircuitBreaker guards content generation calls. A nil breaker runs
// calls unguarded.
type AICircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
}

// ModelCircuitBreaker guards model metadata lookups used by health checks
type ModelCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.Model]
}

// NewAICircuitBreaker returns nil when the breaker is disabled
func NewAICircuitBreaker(name string, cfg config.CircuitBreakerConfig, logger *errors.Logger) *AICircuitBreaker {
	if !cfg.Enabled {
		return nil
	}

	settings := breakerSettings(fmt.Sprintf("AI-%s", name), cfg, logger)
	settings.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureThreshold
	}

	return &AICircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](settings),
	}
}

// NewModelCircuitBreaker trips more leniently than the generation breaker
func NewModelCircuitBreaker(name string, cfg config.CircuitBreakerConfig, logger *errors.Logger) *ModelCircuitBreaker {
	if !cfg.Enabled {
		return nil
	}

	settings := breakerSettings(fmt.Sprintf("AI-Model-%s", name), cfg, logger)
	settings.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 5 && failureRatio >= 0.8
	}

	return &ModelCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[*genai.Model](settings),
	}
}

func breakerSettings(name string, cfg config.CircuitBreakerConfig, logger *errors.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		// A caller that gave up says nothing about the upstream's health.
		IsSuccessful: func(err error) bool {
			return err == nil || stderrors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger == nil {
				return
			}
			logger.Warn("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"failure_threshold", cfg.FailureThreshold)
		},
	}
}

func (cb *AICircuitBreaker) Execute(fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	if cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

func (cb *ModelCircuitBreaker) ExecuteModel(fn func() (*genai.Model, error)) (*genai.Model, error) {
	if cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// GetStats reports the breaker's name, state and counts
func (cb *AICircuitBreaker) GetStats() map[string]any {
	if cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy is true unless the breaker is open or half-open
func (cb *AICircuitBreaker) IsHealthy() bool {
	if cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}

// isBreakerRejection reports whether err came from the breaker refusing a call
func isBreakerRejection(err error) bool {
	return stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests)
}

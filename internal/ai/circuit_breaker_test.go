package ai

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"interviewlens/internal/config"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func testBreakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      2,
		FailureThreshold: 0.5,
	}
}

func TestDisabledBreakerIsNil(t *testing.T) {
	cfg := testBreakerConfig()
	cfg.Enabled = false

	cb := NewAICircuitBreaker("Generate", cfg, nil)
	assert.Nil(t, cb)
	assert.True(t, cb.IsHealthy())
	assert.Equal(t, false, cb.GetStats()["enabled"])

	called := false
	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		called = true
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	cb := NewAICircuitBreaker("Generate", testBreakerConfig(), nil)
	require.NotNil(t, cb)
	assert.Equal(t, "AI-Generate", cb.GetStats()["name"])

	boom := stderrors.New("upstream down")
	for range 2 {
		_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	}

	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		t.Fatal("call should be rejected while open")
		return nil, nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.True(t, isBreakerRejection(err))
	assert.False(t, cb.IsHealthy())
	assert.Equal(t, "open", cb.GetStats()["state"])
}

func TestBreakerIgnoresCanceledCalls(t *testing.T) {
	cb := NewAICircuitBreaker("Generate", testBreakerConfig(), nil)

	for range 5 {
		_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) { return nil, context.Canceled })
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.True(t, cb.IsHealthy())
}

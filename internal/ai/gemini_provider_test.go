package ai

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"interviewlens/internal/config"
	"interviewlens/internal/errors"
	"interviewlens/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// fakeGemini answers generateContent calls with the queued replies in order.
// A reply with status 0 is served as a successful candidate.
type fakeGemini struct {
	replies []fakeReply
	calls   atomic.Int32
	prompts chan string
}

type fakeReply struct {
	status int
	text   string
	delay  time.Duration
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, ":generateContent") {
		http.NotFound(w, r)
		return
	}
	n := int(f.calls.Add(1)) - 1
	reply := f.replies[min(n, len(f.replies)-1)]

	var body struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if f.prompts != nil && len(body.Contents) > 0 && len(body.Contents[0].Parts) > 0 {
		select {
		case f.prompts <- body.Contents[0].Parts[0].Text:
		default:
		}
	}

	if reply.delay > 0 {
		select {
		case <-time.After(reply.delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if reply.status != 0 {
		w.WriteHeader(reply.status)
		fmt.Fprintf(w, `{"error":{"code":%d,"message":"fake failure","status":"UNAVAILABLE"}}`, reply.status)
		return
	}

	candidates := []map[string]any{}
	if reply.text != "" {
		candidates = append(candidates, map[string]any{
			"content": map[string]any{
				"role":  "model",
				"parts": []map[string]any{{"text": reply.text}},
			},
			"finishReason": "STOP",
		})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": candidates,
		"usageMetadata": map[string]any{
			"promptTokenCount":     12,
			"candidatesTokenCount": 34,
			"totalTokenCount":      46,
		},
	})
}

func testAIConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		Provider:    "gemini",
		Model:       "gemini-1.5-flash",
		Timeout:     5 * time.Second,
		APIKey:      "test-key",
		BaseURL:     baseURL + "/",
		Temperature: 0.2,
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			MinRequests:      2,
			FailureThreshold: 0.5,
		},
	}
}

func newTestProvider(t *testing.T, fake *fakeGemini, mutate func(*config.AIConfig)) *GeminiProvider {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := testAIConfig(srv.URL)
	if mutate != nil {
		mutate(&cfg)
	}
	p, err := NewGeminiProvider(context.Background(), cfg, time.Second, errors.NewDiscardLogger())
	require.NoError(t, err)
	return p
}

func TestGenerateReturnsModelText(t *testing.T) {
	fake := &fakeGemini{
		replies: []fakeReply{{text: `{"basic_info":{}}`}},
		prompts: make(chan string, 1),
	}
	p := newTestProvider(t, fake, nil)

	gen, err := p.Generate(context.Background(), "describe the interview")
	require.NoError(t, err)
	assert.Equal(t, `{"basic_info":{}}`, gen.Text)
	require.NotNil(t, gen.TokenUsage)
	assert.Equal(t, int64(12), gen.TokenUsage.InputTokens)
	assert.Equal(t, int64(34), gen.TokenUsage.OutputTokens)
	assert.Equal(t, "describe the interview", <-fake.prompts)
}

func TestGenerateEmptyReplyIsNoResponse(t *testing.T) {
	p := newTestProvider(t, &fakeGemini{replies: []fakeReply{{}}}, nil)

	_, err := p.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAINoResponse, errors.CodeOf(err))
}

func TestGenerateUpstreamFailure(t *testing.T) {
	fake := &fakeGemini{replies: []fakeReply{{status: http.StatusBadRequest}}}
	p := newTestProvider(t, fake, nil)

	_, err := p.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAIServiceFailed))
	assert.Equal(t, errors.ErrCodeServerError, errors.CodeOf(err))
	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestGenerateRetriesTransientFailures(t *testing.T) {
	fake := &fakeGemini{replies: []fakeReply{
		{status: http.StatusServiceUnavailable},
		{text: `{"ok":true}`},
	}}
	p := newTestProvider(t, fake, func(cfg *config.AIConfig) { cfg.MaxRetries = 1 })

	gen, err := p.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, gen.Text)
	assert.Equal(t, int32(2), fake.calls.Load())
}

func TestGenerateAttemptTimeout(t *testing.T) {
	fake := &fakeGemini{replies: []fakeReply{{text: "late", delay: 2 * time.Second}}}
	p := newTestProvider(t, fake, func(cfg *config.AIConfig) { cfg.Timeout = 50 * time.Millisecond })

	_, err := p.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRequestTimeout, errors.CodeOf(err))
}

func TestGenerateOpenBreakerIsUnavailable(t *testing.T) {
	fake := &fakeGemini{replies: []fakeReply{{status: http.StatusInternalServerError}}}
	p := newTestProvider(t, fake, nil)

	for range 2 {
		_, err := p.Generate(context.Background(), "prompt")
		require.Error(t, err)
	}

	_, err := p.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeAIUnavailable, errors.CodeOf(err))
	assert.Equal(t, int32(2), fake.calls.Load())
	assert.Equal(t, false, p.Stats()["overall_healthy"])
}

type tempNetError struct{}

func (tempNetError) Error() string   { return "connection reset" }
func (tempNetError) Timeout() bool   { return false }
func (tempNetError) Temporary() bool { return true }

var _ net.Error = tempNetError{}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"network", fmt.Errorf("dial: %w", tempNetError{}), true},
		{"googleapi 503", &googleapi.Error{Code: http.StatusServiceUnavailable}, true},
		{"googleapi 400", &googleapi.Error{Code: http.StatusBadRequest}, false},
		{"genai 429", genai.APIError{Code: http.StatusTooManyRequests}, true},
		{"genai 404", genai.APIError{Code: http.StatusNotFound}, false},
		{"plain", stderrors.New("bad prompt"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestServiceWithoutKeyFailsPerCall(t *testing.T) {
	cfg := testAIConfig("http://unused")
	cfg.APIKey = "  "

	svc, err := NewService(context.Background(), cfg, time.Second, nil, errors.NewDiscardLogger())
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeMissingAPIKey, errors.CodeOf(err))
	assert.Equal(t, false, svc.Stats()["configured"])
	assert.False(t, svc.GetModelInfo(context.Background()).Available)
	assert.NoError(t, svc.Close())
}

func TestServiceRejectsUnknownProvider(t *testing.T) {
	cfg := testAIConfig("http://unused")
	cfg.Provider = "other"

	_, err := NewService(context.Background(), cfg, time.Second, nil, errors.NewDiscardLogger())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfig))
}

func TestServiceGenerateTracksOperation(t *testing.T) {
	srv := httptest.NewServer(&fakeGemini{replies: []fakeReply{{text: "{}"}}})
	defer srv.Close()

	om, err := observability.NewManager(config.ObservabilityConfig{Enabled: false}, "test")
	require.NoError(t, err)

	svc, err := NewService(context.Background(), testAIConfig(srv.URL), time.Second, om, errors.NewDiscardLogger())
	require.NoError(t, err)

	text, err := svc.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "{}", text)
	assert.Equal(t, true, svc.Stats()["configured"])
}

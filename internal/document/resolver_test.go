package document

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"interviewlens/internal/errors"
	"interviewlens/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu    sync.Mutex
	docs  map[string][]byte
	fail  map[string]error
	delay map[string]time.Duration
	calls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, ref)
	delay := f.delay[ref]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.fail[ref]; ok {
		return nil, err
	}
	data, ok := f.docs[ref]
	if !ok {
		return nil, &StatusError{StatusCode: http.StatusNotFound}
	}
	return data, nil
}

type passthroughExtractor struct{}

func (passthroughExtractor) Extract(_ context.Context, data []byte) (string, error) {
	if strings.HasPrefix(string(data), "%BROKEN") {
		return "", fmt.Errorf("cannot parse")
	}
	return string(data), nil
}

func newTestResolver(f Fetcher) *Resolver {
	return NewResolver(f, passthroughExtractor{}, nil, errors.NewDiscardLogger())
}

func TestResolveInlineOnly(t *testing.T) {
	f := &fakeFetcher{}
	r := newTestResolver(f)

	for i := 0; i < 3; i++ {
		text, err := r.Resolve(context.Background(), "  Senior Backend Engineer \n", "")
		require.NoError(t, err)
		assert.Equal(t, "Senior Backend Engineer", text)
	}
	assert.Empty(t, f.calls, "inline text must not touch the network")
}

func TestResolveConcatenatesInlineFirst(t *testing.T) {
	f := &fakeFetcher{docs: map[string][]byte{"https://cdn.example.com/cv.pdf": []byte("5 years Go\n")}}
	r := newTestResolver(f)

	text, err := r.Resolve(context.Background(), "Note: prefers remote", "https://cdn.example.com/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Note: prefers remote\n5 years Go", text)

	text, err = r.Resolve(context.Background(), "", "https://cdn.example.com/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "5 years Go", text)
}

func TestResolveErrorKinds(t *testing.T) {
	f := &fakeFetcher{
		docs: map[string][]byte{"https://cdn.example.com/broken.pdf": []byte("%BROKEN")},
		fail: map[string]error{"https://cdn.example.com/reset.pdf": fmt.Errorf("connection reset")},
	}
	r := newTestResolver(f)

	tests := []struct {
		ref  string
		code string
	}{
		{"https://cdn.example.com/missing.pdf", errors.ErrCodeDocumentFetchFailed},
		{"https://cdn.example.com/reset.pdf", errors.ErrCodeDocumentFetchFailed},
		{"https://cdn.example.com/broken.pdf", errors.ErrCodeDocumentParseFailed},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), "inline", tt.ref)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestResolveDeadlineIsTimeout(t *testing.T) {
	f := &fakeFetcher{
		docs:  map[string][]byte{"https://slow.example.com/a.pdf": []byte("x")},
		delay: map[string]time.Duration{"https://slow.example.com/a.pdf": time.Second},
	}
	r := newTestResolver(f)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := r.Resolve(ctx, "", "https://slow.example.com/a.pdf")
	assert.Equal(t, errors.ErrCodeRequestTimeout, errors.CodeOf(err))
}

func TestResolveAll(t *testing.T) {
	f := &fakeFetcher{docs: map[string][]byte{"s3://uploads/transcript.txt": []byte("Q: Tell me about yourself")}}
	r := newTestResolver(f)

	content, err := r.ResolveAll(context.Background(), types.AnalysisRequest{
		JDText:           "Senior Backend Engineer",
		ResumeText:       " 5 years Go ",
		TranscriptPdfURL: "s3://uploads/transcript.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, types.ResolvedContent{
		JobDescription: "Senior Backend Engineer",
		Resume:         "5 years Go",
		Transcript:     "Q: Tell me about yourself",
	}, content)
}

func TestResolveAllReportsFirstSubjectInOrder(t *testing.T) {
	// The transcript fails fast, the job description fails slowly: the job
	// description must still be the reported failure.
	f := &fakeFetcher{
		docs:  map[string][]byte{"https://cdn.example.com/jd.pdf": []byte("%BROKEN")},
		delay: map[string]time.Duration{"https://cdn.example.com/jd.pdf": 30 * time.Millisecond},
	}
	r := newTestResolver(f)

	_, err := r.ResolveAll(context.Background(), types.AnalysisRequest{
		JDPdfURL:         "https://cdn.example.com/jd.pdf",
		ResumeText:       "resume",
		TranscriptPdfURL: "https://cdn.example.com/missing.pdf",
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDocumentParseFailed, errors.CodeOf(err))

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "jd", appErr.Context["subject"])
}

func TestResolveAllCancelsLaterSubjectsOnFailure(t *testing.T) {
	f := &fakeFetcher{
		docs: map[string][]byte{
			"https://cdn.example.com/resume.pdf":     []byte("5 years Go"),
			"https://cdn.example.com/transcript.pdf": []byte("Q: Tell me about yourself"),
		},
		delay: map[string]time.Duration{
			"https://cdn.example.com/resume.pdf":     5 * time.Second,
			"https://cdn.example.com/transcript.pdf": 5 * time.Second,
		},
	}
	r := newTestResolver(f)

	start := time.Now()
	_, err := r.ResolveAll(context.Background(), types.AnalysisRequest{
		JDPdfURL:         "https://cdn.example.com/missing-jd.pdf",
		ResumePdfURL:     "https://cdn.example.com/resume.pdf",
		TranscriptPdfURL: "https://cdn.example.com/transcript.pdf",
	})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second, "slow fetches should be cancelled")
	assert.Equal(t, errors.ErrCodeDocumentFetchFailed, errors.CodeOf(err))

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "jd", appErr.Context["subject"])
}

func TestResolveAllOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/resume.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("5 years Go"))
	}))
	t.Cleanup(srv.Close)

	router := NewSchemeRouter().
		Register("http", NewHTTPFetcher(time.Second, 1024)).
		Register("https", NewHTTPFetcher(time.Second, 1024))
	r := NewResolver(router, NewContentExtractor(), nil, errors.NewDiscardLogger())

	content, err := r.ResolveAll(context.Background(), types.AnalysisRequest{
		JDText:         "jd",
		ResumePdfURL:   srv.URL + "/resume.txt",
		TranscriptText: "transcript",
	})
	require.NoError(t, err)
	assert.Equal(t, "5 years Go", content.Resume)

	_, err = r.ResolveAll(context.Background(), types.AnalysisRequest{
		JDPdfURL:       srv.URL + "/gone.pdf",
		ResumeText:     "resume",
		TranscriptText: "transcript",
	})
	assert.Equal(t, errors.ErrCodeDocumentFetchFailed, errors.CodeOf(err))
}

func TestRedactRef(t *testing.T) {
	assert.Equal(t, "https://bucket.example.com/cv.pdf",
		redactRef("https://user:pw@bucket.example.com/cv.pdf?X-Amz-Signature=secret"))
	assert.Equal(t, "s3://uploads/cv.pdf", redactRef("s3://uploads/cv.pdf"))
}

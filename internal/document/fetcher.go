package document

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Fetcher retrieves the raw bytes behind a document reference
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// StatusError is returned when the document host answers with a non-2xx status
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("document host returned status %d", e.StatusCode)
}

// HTTPFetcher fetches http(s) references
type HTTPFetcher struct {
	client  *http.Client
	maxSize int64
}

// NewHTTPFetcher creates a fetcher with an instrumented transport. Bodies
// larger than maxSize are rejected.
func NewHTTPFetcher(timeout time.Duration, maxSize int64) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		maxSize: maxSize,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}
	return readLimited(resp.Body, f.maxSize)
}

func readLimited(r io.Reader, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("document exceeds %d bytes", maxSize)
	}
	return data, nil
}

// SchemeRouter dispatches references to a Fetcher by URL scheme
type SchemeRouter struct {
	fetchers map[string]Fetcher
}

func NewSchemeRouter() *SchemeRouter {
	return &SchemeRouter{fetchers: make(map[string]Fetcher)}
}

// Register routes scheme (case-insensitive) to f
func (sr *SchemeRouter) Register(scheme string, f Fetcher) *SchemeRouter {
	sr.fetchers[strings.ToLower(scheme)] = f
	return sr
}

func (sr *SchemeRouter) Fetch(ctx context.Context, ref string) ([]byte, error) {
	scheme, err := refScheme(ref)
	if err != nil {
		return nil, err
	}
	f, ok := sr.fetchers[scheme]
	if !ok {
		return nil, fmt.Errorf("unsupported document reference scheme %q", scheme)
	}
	return f.Fetch(ctx, ref)
}

func refScheme(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid document reference: %w", err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("document reference %q has no scheme", ref)
	}
	return strings.ToLower(u.Scheme), nil
}

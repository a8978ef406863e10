package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.pdf":
			_, _ = w.Write([]byte("%PDF-1.4 body"))
		case "/large.pdf":
			_, _ = w.Write(bytes.Repeat([]byte("a"), 64))
		case "/slow.pdf":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte("late"))
		case "/forbidden.pdf":
			w.WriteHeader(http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	f := NewHTTPFetcher(100*time.Millisecond, 32)
	ctx := context.Background()

	data, err := f.Fetch(ctx, srv.URL+"/ok.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))

	_, err = f.Fetch(ctx, srv.URL+"/missing.pdf")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)

	_, err = f.Fetch(ctx, srv.URL+"/forbidden.pdf")
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)

	_, err = f.Fetch(ctx, srv.URL+"/large.pdf")
	assert.ErrorContains(t, err, "exceeds 32 bytes")

	_, err = f.Fetch(ctx, srv.URL+"/slow.pdf")
	assert.Error(t, err)
}

func TestSchemeRouter(t *testing.T) {
	httpFake := &fakeFetcher{docs: map[string][]byte{"https://a.example.com/x": []byte("http")}}
	s3Fake := &fakeFetcher{docs: map[string][]byte{"S3://bucket/key": []byte("s3")}}
	router := NewSchemeRouter().Register("https", httpFake).Register("S3", s3Fake)

	data, err := router.Fetch(context.Background(), "https://a.example.com/x")
	require.NoError(t, err)
	assert.Equal(t, "http", string(data))

	data, err = router.Fetch(context.Background(), "S3://bucket/key")
	require.NoError(t, err)
	assert.Equal(t, "s3", string(data))

	for _, ref := range []string{"ftp://host/file.pdf", "/local/path.pdf", "://broken"} {
		_, err := router.Fetch(context.Background(), ref)
		assert.Error(t, err, ref)
	}
}

type fakeS3 struct {
	objects map[string]string
	input   *s3.GetObjectInput
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = params
	body, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, fmt.Errorf("NoSuchKey")
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
	}, nil
}

func TestS3Fetcher(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"uploads/candidates/42/resume.pdf": "resume bytes",
		"uploads/huge.pdf":                 strings.Repeat("x", 100),
	}}
	f := NewS3FetcherWithClient(client, 64)

	data, err := f.Fetch(context.Background(), "s3://uploads/candidates/42/resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "resume bytes", string(data))
	assert.Equal(t, "candidates/42/resume.pdf", aws.ToString(client.input.Key))

	_, err = f.Fetch(context.Background(), "s3://uploads/absent.pdf")
	assert.ErrorContains(t, err, "NoSuchKey")

	_, err = f.Fetch(context.Background(), "s3://uploads/huge.pdf")
	assert.ErrorContains(t, err, "exceeds 64 bytes")
}

func TestParseS3Ref(t *testing.T) {
	bucket, key, err := parseS3Ref("s3://my-bucket/path/to/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "path/to/doc.pdf", key)

	for _, ref := range []string{"s3://bucket-only", "s3:///key", "https://bucket/key"} {
		_, _, err := parseS3Ref(ref)
		assert.Error(t, err, ref)
	}
}

package document

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"interviewlens/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client the fetcher needs
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher fetches s3://bucket/key references
type S3Fetcher struct {
	client  S3API
	maxSize int64
}

// NewS3Fetcher builds a client from the default AWS credential chain
func NewS3Fetcher(ctx context.Context, cfg config.S3Config, maxSize int64) (*S3Fetcher, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewS3FetcherWithClient(client, maxSize), nil
}

func NewS3FetcherWithClient(client S3API, maxSize int64) *S3Fetcher {
	return &S3Fetcher{client: client, maxSize: maxSize}
}

func (f *S3Fetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	bucket, key, err := parseS3Ref(ref)
	if err != nil {
		return nil, err
	}

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object bucket=%s key=%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	if out.ContentLength != nil && *out.ContentLength > f.maxSize {
		return nil, fmt.Errorf("document exceeds %d bytes", f.maxSize)
	}
	return readLimited(out.Body, f.maxSize)
}

func parseS3Ref(ref string) (bucket, key string, err error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 reference: %w", err)
	}
	if !strings.EqualFold(u.Scheme, "s3") {
		return "", "", fmt.Errorf("not an s3 reference: %s", ref)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("s3 reference must be s3://bucket/key, got %s", ref)
	}
	return u.Host, key, nil
}

package document

import (
	"context"
	stderrors "errors"
	"net/url"
	"strings"

	"interviewlens/internal/errors"
	"interviewlens/internal/observability"
	"interviewlens/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// Resolver turns a subject's inline text and optional document reference
// into its plain text.
type Resolver struct {
	fetcher   Fetcher
	extractor Extractor
	om        *observability.Manager
	logger    *errors.Logger
}

func NewResolver(fetcher Fetcher, extractor Extractor, om *observability.Manager, logger *errors.Logger) *Resolver {
	return &Resolver{
		fetcher:   fetcher,
		extractor: extractor,
		om:        om,
		logger:    logger,
	}
}

// Resolve returns trim(inline) when ref is empty, otherwise
// trim(inline + "\n" + extracted text of ref). Inline text comes first so
// short manual notes precede bulk document content.
func (r *Resolver) Resolve(ctx context.Context, inline, ref string) (string, error) {
	if ref == "" {
		r.om.RecordDocumentResolved(ctx, "inline", "ok")
		return strings.TrimSpace(inline), nil
	}

	source := referenceSource(ref)
	ctx, span := r.om.Tracer("interviewlens.document").Start(ctx, "document.resolve")
	defer span.End()
	span.SetAttributes(attribute.String("document.source", source))

	text, err := r.fetchAndExtract(ctx, ref)
	if err != nil {
		code := errors.CodeOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, code)
		r.om.RecordDocumentResolved(ctx, source, code)
		return "", err
	}

	span.SetAttributes(attribute.Int("document.text_length", len(text)))
	r.om.RecordDocumentResolved(ctx, source, "ok")
	return strings.TrimSpace(inline + "\n" + text), nil
}

func (r *Resolver) fetchAndExtract(ctx context.Context, ref string) (string, error) {
	data, err := r.fetcher.Fetch(ctx, ref)
	if err != nil {
		if timeoutErr := contextError(ctx, err); timeoutErr != nil {
			return "", timeoutErr
		}
		return "", errors.NewNetworkError(errors.ErrCodeDocumentFetchFailed,
			"failed to fetch document", err).WithContext("document_ref", redactRef(ref))
	}

	text, err := r.extractor.Extract(ctx, data)
	if err != nil {
		if timeoutErr := contextError(ctx, err); timeoutErr != nil {
			return "", timeoutErr
		}
		return "", errors.NewIOError(errors.ErrCodeDocumentParseFailed,
			"failed to extract document text", err).
			WithContext("document_ref", redactRef(ref)).
			WithContext("document_bytes", len(data))
	}
	return text, nil
}

// contextError maps a failure caused by the request deadline to
// REQUEST_TIMEOUT so it is not blamed on the document.
func contextError(ctx context.Context, err error) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewNetworkError(errors.ErrCodeRequestTimeout, "request deadline exceeded while resolving document", err)
	}
	if stderrors.Is(ctx.Err(), context.Canceled) {
		return errors.NewInternalError(errors.ErrCodeServerError, "request cancelled while resolving document", err)
	}
	return nil
}

// ResolveAll resolves the three subjects concurrently. When several fail,
// the first in Subjects order is reported so the error code is stable.
// A failure cancels only the subjects after it; earlier ones may still
// fail and take precedence.
func (r *Resolver) ResolveAll(ctx context.Context, req types.AnalysisRequest) (types.ResolvedContent, error) {
	inputs := req.Inputs()
	var texts [len(inputs)]string
	var errs [len(inputs)]error

	var ctxs [len(inputs)]context.Context
	var cancels [len(inputs)]context.CancelFunc
	for i := range inputs {
		ctxs[i], cancels[i] = context.WithCancel(ctx)
		defer cancels[i]()
	}

	var g errgroup.Group
	for i, in := range inputs {
		g.Go(func() error {
			texts[i], errs[i] = r.Resolve(ctxs[i], in.Inline, in.Ref)
			if errs[i] != nil {
				for _, cancel := range cancels[i+1:] {
					cancel()
				}
			}
			return errs[i]
		})
	}
	if g.Wait() == nil {
		var content types.ResolvedContent
		for i, in := range inputs {
			content.Set(in.Subject, texts[i])
		}
		return content, nil
	}

	for i, in := range inputs {
		if errs[i] == nil {
			continue
		}
		if appErr, ok := errors.AsAppError(errs[i]); ok {
			appErr.WithContext("subject", in.Subject.String())
		}
		return types.ResolvedContent{}, errs[i]
	}
	return types.ResolvedContent{}, errors.NewInternalError(errors.ErrCodeServerError, "document resolution failed", nil)
}

func referenceSource(ref string) string {
	scheme, err := refScheme(ref)
	if err != nil {
		return "invalid"
	}
	return scheme
}

// redactRef drops query strings, which often carry signed-URL credentials
func redactRef(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return "<invalid>"
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"interviewlens/internal/errors"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestIDFrom returns the request ID stored by the middleware, if any
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// requestIDMiddleware keeps a caller-supplied X-Request-Id or mints one
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// recoverMiddleware turns a handler panic into a SERVER_ERROR response
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err := errors.NewInternalError(errors.ErrCodeServerError, "Handler panicked", fmt.Errorf("panic: %v", rec))
				s.Logger.LogError(err, "Recovered panic",
					"request_id", RequestIDFrom(r.Context()),
					"path", r.URL.Path,
					"stack", string(debug.Stack()))
				writeErrorCode(w, errors.ErrCodeServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

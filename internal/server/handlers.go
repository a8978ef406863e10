package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"interviewlens/internal/errors"
	"interviewlens/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var statusByCode = map[string]int{
	errors.ErrCodeMethodNotAllowed:    http.StatusMethodNotAllowed,
	errors.ErrCodeInvalidRequest:      http.StatusBadRequest,
	errors.ErrCodeDocumentFetchFailed: http.StatusBadRequest,
	errors.ErrCodeDocumentParseFailed: http.StatusBadRequest,
	errors.ErrCodeMissingContent:      http.StatusBadRequest,
	errors.ErrCodeMissingAPIKey:       http.StatusInternalServerError,
	errors.ErrCodeAINoResponse:        http.StatusInternalServerError,
	errors.ErrCodeAIInvalidJSON:       http.StatusInternalServerError,
	errors.ErrCodeAISchemaViolation:   http.StatusInternalServerError,
	errors.ErrCodeAIUnavailable:       http.StatusServiceUnavailable,
	errors.ErrCodeRequestTimeout:      http.StatusGatewayTimeout,
	errors.ErrCodeServerError:         http.StatusInternalServerError,
}

// statusFor maps a wire code to its HTTP status
func statusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// handleAnalyze is the POST /api/analyze endpoint
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeErrorCode(w, errors.ErrCodeMethodNotAllowed)
		return
	}

	ctx := r.Context()
	start := time.Now()
	logger := s.Logger.With("request_id", RequestIDFrom(ctx))

	req, err := s.decodeRequest(w, r)
	if err != nil {
		logger.Info("Rejected analysis request", "error", err.Error())
		writeErrorCode(w, errors.ErrCodeInvalidRequest)
		return
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Int("request.jd_length", len(req.JDText)),
		attribute.Int("request.resume_length", len(req.ResumeText)),
		attribute.Int("request.transcript_length", len(req.TranscriptText)),
		attribute.Bool("request.jd_document", req.JDPdfURL != ""),
		attribute.Bool("request.resume_document", req.ResumePdfURL != ""),
		attribute.Bool("request.transcript_document", req.TranscriptPdfURL != ""),
	)

	report, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		code := errors.CodeOf(err)
		status := statusFor(code)
		if status >= http.StatusInternalServerError {
			logger.LogError(err, "Analysis failed", "error_code", code, "duration", time.Since(start).String())
		} else {
			logger.Info("Analysis rejected", "error_code", code, "error", err.Error())
		}
		writeErrorCode(w, code)
		return
	}

	logger.Info("Analysis completed", "duration", time.Since(start).String())
	writeJSON(w, http.StatusOK, types.AnalysisResponse{Analysis: report})
}

// decodeRequest reads the JSON body. An empty body is an empty request,
// which later fails validation as missing content.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (types.AnalysisRequest, error) {
	var req types.AnalysisRequest

	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			return req, stderrors.New("content-type must be application/json")
		}
	}

	if s.MaxRequestSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		if stderrors.Is(err, io.EOF) {
			return types.AnalysisRequest{}, nil
		}
		return types.AnalysisRequest{}, err
	}
	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		return types.AnalysisRequest{}, stderrors.New("unexpected data after JSON body")
	}
	return req, nil
}

// healthHandler reports model availability and breaker state
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeErrorCode(w, errors.ErrCodeMethodNotAllowed)
		return
	}

	modelInfo := s.models.GetModelInfo(r.Context())
	response := map[string]any{
		"status":          "healthy",
		"service":         "interviewlens",
		"version":         s.Version,
		"ai_model":        modelInfo,
		"circuit_breaker": s.models.Stats(),
	}

	status := http.StatusOK
	if modelInfo == nil || !modelInfo.Available {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// statsHandler exposes limits and AI backend statistics
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeErrorCode(w, errors.ErrCodeMethodNotAllowed)
		return
	}

	app := s.AppConfig.App
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "interviewlens",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"max_text_chars":         app.MaxTextChars,
			"request_timeout":        app.RequestTimeout.String(),
		},
		"ai": s.models.Stats(),
	})
}

func writeErrorCode(w http.ResponseWriter, code string) {
	writeJSON(w, statusFor(code), types.ErrorResponse{ErrorCode: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

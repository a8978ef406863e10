package errors

// Wire codes returned to API callers in the errorCode field
const (
	ErrCodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeDocumentFetchFailed = "PDF_FETCH_FAILED"
	ErrCodeDocumentParseFailed = "PDF_PARSE_FAILED"
	ErrCodeMissingContent      = "MISSING_CONTENT"
	ErrCodeMissingAPIKey       = "MISSING_GEMINI_API_KEY"
	ErrCodeAINoResponse        = "AI_NO_RESPONSE"
	ErrCodeAIInvalidJSON       = "AI_INVALID_JSON"
	ErrCodeAISchemaViolation   = "AI_SCHEMA_VIOLATION"
	ErrCodeAIUnavailable       = "AI_UNAVAILABLE"
	ErrCodeRequestTimeout      = "REQUEST_TIMEOUT"
	ErrCodeServerError         = "SERVER_ERROR"
)

// Internal codes, logged but reported to callers as SERVER_ERROR
const (
	ErrCodeAIServiceFailed = "AI_SERVICE_FAILED"
	ErrCodeFileNotFound    = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable = "FILE_NOT_READABLE"
	ErrCodeInvalidFormat   = "INVALID_FORMAT"
	ErrCodeInvalidConfig   = "INVALID_CONFIG"
)

var wireCodes = map[string]struct{}{
	ErrCodeMethodNotAllowed:    {},
	ErrCodeInvalidRequest:      {},
	ErrCodeDocumentFetchFailed: {},
	ErrCodeDocumentParseFailed: {},
	ErrCodeMissingContent:      {},
	ErrCodeMissingAPIKey:       {},
	ErrCodeAINoResponse:        {},
	ErrCodeAIInvalidJSON:       {},
	ErrCodeAISchemaViolation:   {},
	ErrCodeAIUnavailable:       {},
	ErrCodeRequestTimeout:      {},
	ErrCodeServerError:         {},
}

// IsWireCode reports whether code may be sent to API callers verbatim
func IsWireCode(code string) bool {
	_, ok := wireCodes[code]
	return ok
}

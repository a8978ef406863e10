package analysis

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"interviewlens/internal/errors"
)

// Decode recovers a JSON object from raw model output. The whole trimmed
// text is tried first; failing that, the span from the first '{' to the
// last '}'. Numbers are kept as json.Number.
func Decode(raw string) (map[string]any, error) {
	text := strings.TrimSpace(raw)
	if obj, ok := parseObject(text); ok {
		return obj, nil
	}

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first == -1 || last == -1 || last <= first {
		return nil, invalidJSON("no JSON object found in model output")
	}

	if obj, ok := parseObject(text[first : last+1]); ok {
		return obj, nil
	}
	return nil, invalidJSON("model output is not valid JSON")
}

// parseObject strictly parses s as a single JSON object with nothing after it
func parseObject(s string) (map[string]any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, false
	}

	obj, ok := v.(map[string]any)
	return obj, ok
}

func invalidJSON(msg string) error {
	return errors.NewAIError(errors.ErrCodeAIInvalidJSON, msg, nil)
}

// encodeGeneric re-serializes a decoded value, preserving json.Number text
func encodeGeneric(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package analysis

import (
	"strings"
	"unicode/utf8"

	"interviewlens/internal/errors"
	"interviewlens/internal/types"
)

// Validate trims each subject, clamps it to maxChars runes and fails with
// MISSING_CONTENT when any subject ends up empty. Clamping never fails.
func Validate(raw types.ResolvedContent, maxChars int) (types.ResolvedContent, error) {
	var out types.ResolvedContent
	var missing []string

	for _, s := range types.Subjects {
		text := strings.TrimSpace(clamp(strings.TrimSpace(raw.Get(s)), maxChars))
		if text == "" {
			missing = append(missing, s.String())
		}
		out.Set(s, text)
	}

	if len(missing) > 0 {
		return types.ResolvedContent{}, errors.NewValidationError(errors.ErrCodeMissingContent,
			"Job description, resume and transcript are all required", nil).
			WithContext("subjects", missing)
	}
	return out, nil
}

// clamp truncates s to at most limit runes without splitting a UTF-8 sequence.
// A non-positive limit disables clamping.
func clamp(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

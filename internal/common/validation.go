package common

import (
	"fmt"
	"slices"
	"strings"

	"interviewlens/internal/errors"
)

// ResolveOutputFormat applies the default when format is empty and checks
// the result against the configured formats. Matching ignores case; the
// canonical lowercase name is returned.
func ResolveOutputFormat(format, defaultFormat string, supportedFormats []string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = strings.ToLower(defaultFormat)
	}

	if len(supportedFormats) == 0 || slices.Contains(supportedFormats, format) {
		return format, nil
	}

	return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("unsupported output format %q, supported: %s", format, strings.Join(supportedFormats, ", ")), nil).
		WithContext("supported_formats", supportedFormats)
}

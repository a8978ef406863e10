package common

import (
	"testing"

	"interviewlens/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}

	tests := []struct {
		name          string
		format        string
		defaultFormat string
		supported     []string
		want          string
		wantErr       bool
	}{
		{name: "explicit", format: "markdown", defaultFormat: "json", supported: supported, want: "markdown"},
		{name: "default applied", format: "", defaultFormat: "text", supported: supported, want: "text"},
		{name: "case folded", format: " JSON ", defaultFormat: "text", supported: supported, want: "json"},
		{name: "unknown", format: "xml", defaultFormat: "json", supported: supported, wantErr: true},
		{name: "bad default", format: "", defaultFormat: "yaml", supported: supported, wantErr: true},
		{name: "no restriction configured", format: "xml", supported: nil, want: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveOutputFormat(tt.format, tt.defaultFormat, tt.supported)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidFormat))
				assert.Contains(t, err.Error(), "json, text, markdown")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

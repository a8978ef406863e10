package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4"), 0600))

	assert.NoError(t, ValidateInputFile(file))
	assert.Error(t, ValidateInputFile(""))
	assert.Error(t, ValidateInputFile(dir))
	assert.ErrorContains(t, ValidateInputFile(filepath.Join(dir, "missing.txt")), "does not exist")
}

func TestValidateOutputFileCreatesDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "reports", "out.md")
	require.NoError(t, ValidateOutputFile(out))
	_, err := os.Stat(filepath.Dir(out))
	assert.NoError(t, err)
}

func TestIsDocumentFile(t *testing.T) {
	assert.True(t, IsDocumentFile("jd.PDF"))
	assert.True(t, IsDocumentFile("notes.md"))
	assert.False(t, IsDocumentFile("photo.png"))
}

func TestIsRemoteRef(t *testing.T) {
	assert.True(t, IsRemoteRef("https://files.example.com/jd.pdf"))
	assert.True(t, IsRemoteRef("s3://bucket/key.pdf"))
	assert.False(t, IsRemoteRef("./jd.pdf"))
	assert.False(t, IsRemoteRef("C:/docs/jd.pdf"))
	assert.False(t, IsRemoteRef("file:///tmp/jd.pdf"))
}

func TestFileRef(t *testing.T) {
	ref, err := FileRef("jd.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "file:///"))
	assert.True(t, strings.HasSuffix(ref, "/jd.pdf"))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "20.0 MB", FormatFileSize(20<<20))
}

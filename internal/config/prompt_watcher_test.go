package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"interviewlens/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPromptFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "prompt.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{{.Schema}}"), 0o600))
	content, err := LoadPromptFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{{.Schema}}", content)

	empty := filepath.Join(dir, "empty.tmpl")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = LoadPromptFile(empty)
	assert.Error(t, err)

	_, err = LoadPromptFile(filepath.Join(dir, "missing.tmpl"))
	assert.Error(t, err)
}

func TestPromptWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	var mu sync.Mutex
	var seen []string
	watcher := NewPromptWatcher(path, 20*time.Millisecond, func(content string) error {
		mu.Lock()
		defer mu.Unlock()
		if strings.Contains(content, "broken") {
			return fmt.Errorf("rejected")
		}
		seen = append(seen, content)
		return nil
	}, errors.NewDiscardLogger())

	require.NoError(t, watcher.Start())
	t.Cleanup(func() { _ = watcher.Stop() })
	assert.Error(t, watcher.Start(), "second start must fail")

	// mtime resolution on some filesystems is coarse
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o600))
	future := time.Now().Add(time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1 && seen[0] == "v2"
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, watcher.Stop())
	require.NoError(t, watcher.Stop())
}

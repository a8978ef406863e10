package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"interviewlens/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// LoadPromptFile reads a prompt template file
func LoadPromptFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %s: %w", path, err)
	}
	if len(content) == 0 {
		return "", fmt.Errorf("prompt file %s is empty", path)
	}
	return string(content), nil
}

// PromptWatcher reloads a prompt template file when it changes on disk.
// The callback decides whether the new content is usable; on error the
// previous template stays active.
type PromptWatcher struct {
	mu sync.Mutex

	path          string
	debounceDelay time.Duration
	debounceTimer *time.Timer
	fsWatcher     *fsnotify.Watcher
	lastModTime   time.Time

	stopChan   chan struct{}
	reloadChan chan struct{}
	onChange   func(content string) error
	logger     *errors.Logger
	running    bool
}

// NewPromptWatcher creates a watcher for path. Start must be called to begin watching.
func NewPromptWatcher(path string, debounceDelay time.Duration, onChange func(string) error, logger *errors.Logger) *PromptWatcher {
	if debounceDelay <= 0 {
		debounceDelay = time.Second
	}
	return &PromptWatcher{
		path:          filepath.Clean(path),
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onChange:      onChange,
		logger:        logger,
	}
}

// Start begins watching. The parent directory is watched too so editors
// that replace the file by rename are picked up.
func (pw *PromptWatcher) Start() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.running {
		return fmt.Errorf("prompt watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(pw.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(pw.path), err)
	}
	if stat, err := os.Stat(pw.path); err == nil {
		pw.lastModTime = stat.ModTime()
	}

	pw.fsWatcher = watcher
	pw.running = true
	go pw.watchLoop()

	pw.logger.Info("Prompt file watcher started", "file", pw.path, "debounce_delay", pw.debounceDelay)
	return nil
}

// Stop stops watching. Safe to call more than once.
func (pw *PromptWatcher) Stop() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.running {
		return nil
	}
	close(pw.stopChan)
	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	pw.running = false
	return pw.fsWatcher.Close()
}

func (pw *PromptWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-pw.fsWatcher.Events:
			if !ok {
				return
			}
			if pw.shouldProcessEvent(event) {
				pw.scheduleReload()
			}

		case err, ok := <-pw.fsWatcher.Errors:
			if !ok {
				return
			}
			pw.logger.LogError(err, "Prompt file watcher error")

		case <-pw.reloadChan:
			pw.reload()

		case <-pw.stopChan:
			return
		}
	}
}

func (pw *PromptWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != pw.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (pw *PromptWatcher) scheduleReload() {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	pw.debounceTimer = time.AfterFunc(pw.debounceDelay, func() {
		select {
		case pw.reloadChan <- struct{}{}:
		default:
		}
	})
}

func (pw *PromptWatcher) reload() {
	stat, err := os.Stat(pw.path)
	if err != nil {
		pw.logger.Warn("Prompt file unavailable, keeping current template", "file", pw.path, "error", err)
		return
	}
	if !stat.ModTime().After(pw.lastModTime) {
		return
	}
	pw.lastModTime = stat.ModTime()

	content, err := LoadPromptFile(pw.path)
	if err == nil {
		err = pw.onChange(content)
	}
	if err != nil {
		pw.logger.Warn("Prompt reload rejected, keeping current template", "file", pw.path, "error", err)
		return
	}
	pw.logger.Info("Prompt template reloaded", "file", pw.path)
}

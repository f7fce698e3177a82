package server

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"fastresume/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// PromptSource is the set of prompt files a watcher keeps fresh.
// *config.PromptStore implements it.
type PromptSource interface {
	Files() []string
	Reload(path string) (string, error)
}

// PromptWatcher reloads prompt files into a PromptSource when they change
// on disk. Bursts of events within the debounce delay cause one reload.
type PromptWatcher struct {
	mu sync.RWMutex

	source      PromptSource
	files       []string
	lastModTime map[string]time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer
	pending       map[string]struct{}

	stopChan   chan struct{}
	reloadChan chan struct{}

	// onReload is called after every reload attempt with the operation the
	// file feeds.
	onReload func(operation string, err error)
	logger   *errors.Logger

	running     bool
	reloadCount int
}

// NewPromptWatcher watches every file source currently tracks.
func NewPromptWatcher(source PromptSource, debounceDelay time.Duration, onReload func(string, error), logger *errors.Logger) *PromptWatcher {
	if debounceDelay <= 0 {
		debounceDelay = time.Second
	}
	return &PromptWatcher{
		source:        source,
		files:         source.Files(),
		lastModTime:   make(map[string]time.Time),
		debounceDelay: debounceDelay,
		pending:       make(map[string]struct{}),
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onReload:      onReload,
		logger:        logger,
	}
}

// Start begins watching. Watching nothing is not an error.
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
	pw.fsWatcher = watcher

	for _, file := range pw.files {
		if stat, err := os.Stat(file); err == nil {
			pw.lastModTime[file] = stat.ModTime()
		}
		// Editors and config management replace files by rename, so the
		// directory is watched rather than the file.
		dir := filepath.Dir(file)
		if err := pw.fsWatcher.Add(dir); err != nil {
			pw.logger.Warn("Failed to watch prompt directory", "directory", dir, "error", err)
		}
	}

	pw.running = true
	go pw.watchLoop()

	pw.logger.Info("Prompt file watcher started",
		"files", pw.files,
		"debounce_delay", pw.debounceDelay)
	return nil
}

// Stop stops the watcher. Stopping a stopped watcher is a no-op.
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

	if err := pw.fsWatcher.Close(); err != nil {
		pw.logger.LogError(err, "Failed to close file system watcher")
		return err
	}

	pw.logger.Info("Prompt file watcher stopped")
	return nil
}

func (pw *PromptWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-pw.fsWatcher.Events:
			if !ok {
				return
			}
			if file, watched := pw.watchedFile(event); watched {
				pw.scheduleReload(file)
			}

		case err, ok := <-pw.fsWatcher.Errors:
			if !ok {
				return
			}
			pw.logger.LogError(err, "File watcher error")

		case <-pw.reloadChan:
			pw.reloadPending()

		case <-pw.stopChan:
			return
		}
	}
}

// watchedFile maps a directory event back to a tracked prompt file.
func (pw *PromptWatcher) watchedFile(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Chmod) == 0 {
		return "", false
	}
	name := filepath.Clean(event.Name)
	if slices.Contains(pw.files, name) {
		return name, true
	}
	return "", false
}

func (pw *PromptWatcher) scheduleReload(file string) {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	pw.pending[file] = struct{}{}
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

func (pw *PromptWatcher) reloadPending() {
	pw.mu.Lock()
	files := make([]string, 0, len(pw.pending))
	for file := range pw.pending {
		if pw.hasFileChanged(file) {
			files = append(files, file)
		}
		delete(pw.pending, file)
	}
	pw.mu.Unlock()

	slices.Sort(files)
	for _, file := range files {
		operation, err := pw.source.Reload(file)
		if err != nil {
			pw.logger.LogError(err, "Failed to reload prompt file, keeping previous prompt", "file", file)
		} else {
			pw.logger.Info("Prompt file reloaded", "file", file, "operation", operation)
		}

		pw.mu.Lock()
		pw.reloadCount++
		pw.mu.Unlock()

		if pw.onReload != nil {
			pw.onReload(operation, err)
		}
	}
}

// hasFileChanged compares the modification time with the last one seen.
// Callers hold pw.mu.
func (pw *PromptWatcher) hasFileChanged(file string) bool {
	stat, err := os.Stat(file)
	if err != nil {
		return false
	}
	last, seen := pw.lastModTime[file]
	if !seen || !stat.ModTime().Equal(last) {
		pw.lastModTime[file] = stat.ModTime()
		return true
	}
	return false
}

// IsRunning returns whether the watcher is currently running
func (pw *PromptWatcher) IsRunning() bool {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	return pw.running
}

// WatchedFiles returns the prompt files being watched.
func (pw *PromptWatcher) WatchedFiles() []string {
	return slices.Clone(pw.files)
}

// ReloadCount returns how many reloads have been attempted.
func (pw *PromptWatcher) ReloadCount() int {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	return pw.reloadCount
}

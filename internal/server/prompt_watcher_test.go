package server

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fastresume/internal/config"
)

type recordingSource struct {
	mu       sync.Mutex
	files    []string
	reloaded []string
}

func (r *recordingSource) Files() []string { return r.files }

func (r *recordingSource) Reload(path string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reloaded = append(r.reloaded, path)
	return config.OperationAnalyze, nil
}

func (r *recordingSource) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reloaded)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestPromptWatcherReloadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analyze_system.txt")
	if err := os.WriteFile(path, []byte("You are a recruiter."), 0o600); err != nil {
		t.Fatal(err)
	}

	source := &recordingSource{files: []string{path}}
	var mu sync.Mutex
	var operations []string
	pw := NewPromptWatcher(source, 20*time.Millisecond, func(op string, err error) {
		mu.Lock()
		defer mu.Unlock()
		operations = append(operations, op)
	}, testLogger())

	if err := pw.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = pw.Stop() }()
	if !pw.IsRunning() {
		t.Fatal("watcher should be running")
	}

	// Push the modification time forward so the change is visible even on
	// filesystems with coarse timestamps.
	later := time.Now().Add(2 * time.Second)
	if err := os.WriteFile(path, []byte("You are a strict recruiter."), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 3*time.Second, func() bool { return source.count() > 0 }) {
		t.Fatal("prompt file was not reloaded")
	}
	if pw.ReloadCount() < 1 {
		t.Errorf("reload count = %d", pw.ReloadCount())
	}
	mu.Lock()
	defer mu.Unlock()
	if len(operations) == 0 || operations[0] != config.OperationAnalyze {
		t.Errorf("callback operations = %v", operations)
	}
}

func TestPromptWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "predict_user.txt")
	if err := os.WriteFile(watched, []byte("prompt"), 0o600); err != nil {
		t.Fatal(err)
	}

	source := &recordingSource{files: []string{watched}}
	pw := NewPromptWatcher(source, 10*time.Millisecond, nil, testLogger())
	if err := pw.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = pw.Stop() }()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("unrelated"), 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if n := source.count(); n != 0 {
		t.Errorf("unrelated file triggered %d reloads", n)
	}
}

func TestPromptWatcherStartStop(t *testing.T) {
	pw := NewPromptWatcher(&recordingSource{}, 0, nil, testLogger())
	if pw.debounceDelay != time.Second {
		t.Errorf("default debounce = %v, want 1s", pw.debounceDelay)
	}
	if err := pw.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := pw.Start(); err == nil {
		t.Error("second Start should fail")
	}
	if err := pw.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if err := pw.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
	if pw.IsRunning() {
		t.Error("watcher still running after Stop")
	}
}

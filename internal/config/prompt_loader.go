package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// PromptKind is either the system instruction or the user prompt template.
type PromptKind string

const (
	PromptSystem PromptKind = "system"
	PromptUser   PromptKind = "user"
)

// LoadedPrompts holds prompt text read from files for one operation. Empty
// fields mean no file was configured.
type LoadedPrompts struct {
	System string
	User   string
}

type promptSource struct {
	operation string
	kind      PromptKind
}

// PromptStore holds file-loaded prompts and remembers which file feeds which
// prompt so a watcher can reload it.
type PromptStore struct {
	mu      sync.RWMutex
	prompts map[string]LoadedPrompts
	sources map[string]promptSource
}

func NewPromptStore() *PromptStore {
	return &PromptStore{
		prompts: make(map[string]LoadedPrompts),
		sources: make(map[string]promptSource),
	}
}

var loadedPrompts = NewPromptStore()

// Prompts returns the process-wide prompt store filled by LoadConfig.
func Prompts() *PromptStore {
	return loadedPrompts
}

// GetPromptsForOperation returns a copy of the file-loaded prompts of operation.
func GetPromptsForOperation(operation string) LoadedPrompts {
	return loadedPrompts.Get(operation)
}

func (s *PromptStore) Get(operation string) LoadedPrompts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prompts[operation]
}

func (s *PromptStore) set(operation string, kind PromptKind, content string) {
	p := s.prompts[operation]
	switch kind {
	case PromptSystem:
		p.System = content
	case PromptUser:
		p.User = content
	}
	s.prompts[operation] = p
}

// LoadFile reads path and stores it as the kind prompt of operation.
func (s *PromptStore) LoadFile(operation string, kind PromptKind, path string) error {
	absPath, content, err := readPromptFile(path, kind, operation)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(operation, kind, content)
	s.sources[absPath] = promptSource{operation: operation, kind: kind}
	return nil
}

// Files lists the absolute paths of every loaded prompt file.
func (s *PromptStore) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	files := make([]string, 0, len(s.sources))
	for path := range s.sources {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// Reload re-reads a previously loaded file and returns the operation it feeds.
// On error the previous prompt text is kept.
func (s *PromptStore) Reload(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	src, ok := s.sources[absPath]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("prompt file %s is not tracked", absPath)
	}

	_, content, err := readPromptFile(absPath, src.kind, src.operation)
	if err != nil {
		return src.operation, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(src.operation, src.kind, content)
	return src.operation, nil
}

func readPromptFile(path string, kind PromptKind, operation string) (string, string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", kind, operation, path, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", fmt.Errorf("%s %s prompt file not found: %s", kind, operation, absPath)
		}
		return "", "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", kind, operation, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", "", fmt.Errorf("%s %s prompt file '%s' is empty", kind, operation, absPath)
	}

	log.Printf("[CONFIG] Loaded %s %s prompt from file: %s (%d characters)", kind, operation, absPath, len(trimmed))
	return absPath, trimmed, nil
}

type promptFile struct {
	operation string
	kind      PromptKind
	path      string
}

func (c *Config) promptFiles() []promptFile {
	var files []promptFile
	for _, op := range Operations {
		p := c.AI.operation(op).Prompts
		if p.SystemFile != "" {
			files = append(files, promptFile{op, PromptSystem, p.SystemFile})
		}
		if p.UserFile != "" {
			files = append(files, promptFile{op, PromptUser, p.UserFile})
		}
	}
	return files
}

// validatePromptFiles reports every missing prompt file at once.
func (c *Config) validatePromptFiles() error {
	var problems []string
	for _, f := range c.promptFiles() {
		absPath, err := filepath.Abs(f.path)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid path for %s %s prompt: %s", f.kind, f.operation, f.path))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			problems = append(problems, fmt.Sprintf("%s %s prompt file not found: %s", f.kind, f.operation, absPath))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}

func (c *Config) loadPromptsFromFiles() error {
	return c.loadPromptsInto(loadedPrompts)
}

func (c *Config) loadPromptsInto(store *PromptStore) error {
	files := c.promptFiles()
	for _, f := range files {
		if err := store.LoadFile(f.operation, f.kind, f.path); err != nil {
			return err
		}
	}
	if len(files) == 0 {
		log.Println("[CONFIG] No custom prompt files configured - using inline or built-in prompts")
	} else {
		log.Printf("[CONFIG] Total custom prompt files loaded: %d", len(files))
	}
	return nil
}

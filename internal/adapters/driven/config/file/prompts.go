package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore serves prompt templates from a directory of .txt files,
// falling back to the built-in templates when a file is missing.
//
// Nothing is written to disk until the first Load.
type PromptStore struct {
	mu       sync.RWMutex
	dir      string
	cache    map[string]string
	initOnce sync.Once
	initErr  error
}

//nolint:lll // prompt text is kept on one line per paragraph
var defaultPrompts = map[string]string{
	driven.PromptAnswer: `Use the following pieces of context to provide a concise and straight answer to the question. Do not repeat the context verbatim. Focus on summarizing the key points and providing a clear response.

Context: {context}

Question: {question}

Helpful Answer:`,
}

// DefaultPrompt returns the built-in template for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// NewPromptStore creates a prompt store rooted at dir.
// An empty dir means ~/.capstone/prompts.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".capstone", "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Load returns the template for name.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.seed)
	if s.initErr != nil {
		if p, ok := defaultPrompts[name]; ok {
			return p, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	p, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return p, nil
	}

	p, err := s.read(name)
	if err != nil {
		if def, ok := defaultPrompts[name]; ok {
			return def, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		p = cached
	} else {
		s.cache[name] = p
	}
	s.mu.Unlock()
	return p, nil
}

// Reload drops cached templates.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}
	for name, content := range defaultPrompts {
		if err := writeIfMissing(filepath.Join(s.dir, name+".txt"), content); err != nil {
			s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
			return
		}
	}
	if err := writeIfMissing(filepath.Join(s.dir, "README.md"), readme); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0600)
}

const readme = "# Capstone Prompts\n\n" +
	"Templates used when turning retrieved context into an answer.\n\n" +
	"## Files\n\n" +
	"- `rag_answer.txt` - answer prompt. `{context}` is replaced with the retrieved\n" +
	"  chunks and `{question}` with the question.\n\n" +
	"Edits take effect on the next command. Delete a file to restore the default.\n"

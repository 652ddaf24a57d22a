// Package filesystem reads documents from a local directory tree.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
	"github.com/aswinpillai2222/Ai-Capstone/internal/logger"
)

var _ driven.DocumentSource = (*Connector)(nil)

// SourceType identifies this connector.
const SourceType = "filesystem"

// DefaultInclude matches every PDF below the root.
var DefaultInclude = []string{"**/*.pdf"}

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("filesystem: connector closed")

// Connector lists files under a root directory that match include patterns.
type Connector struct {
	rootPath string
	include  []string

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// New creates a connector rooted at rootPath. With no include patterns
// DefaultInclude is used.
func New(rootPath string, include ...string) *Connector {
	if len(include) == 0 {
		include = DefaultInclude
	}
	return &Connector{rootPath: rootPath, include: include}
}

// Type returns "filesystem".
func (c *Connector) Type() string {
	return SourceType
}

// Root returns the directory being read.
func (c *Connector) Root() string {
	return c.rootPath
}

// Include returns the include patterns.
func (c *Connector) Include() []string {
	return c.include
}

// Validate checks that the root exists and is a directory.
func (c *Connector) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.checkRoot()
}

func (c *Connector) checkRoot() error {
	info, err := os.Stat(c.rootPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("root path does not exist: %s", c.rootPath)
	}
	if err != nil {
		return fmt.Errorf("stat root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path is not a directory: %s", c.rootPath)
	}
	for _, p := range c.include {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: bad include pattern %q", domain.ErrInvalidInput, p)
		}
	}
	return nil
}

// List streams every matching file in path order. Unreadable files are
// reported on the error channel and skipped.
func (c *Connector) List(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, 16)

	go func() {
		defer close(docs)
		defer close(errs)

		if err := c.checkRoot(); err != nil {
			errs <- err
			return
		}
		paths, err := c.matches()
		if err != nil {
			errs <- err
			return
		}

		for _, rel := range paths {
			if ctx.Err() != nil {
				return
			}
			doc, err := c.read(rel)
			if err != nil {
				select {
				case errs <- err:
				default:
					logger.Warn("%v", err)
				}
				continue
			}
			select {
			case docs <- *doc:
			case <-ctx.Done():
				return
			}
		}
	}()

	return docs, errs
}

// matches globs every include pattern and returns the sorted union of
// regular, non-hidden files as slash-separated paths relative to the root.
func (c *Connector) matches() ([]string, error) {
	fsys := os.DirFS(c.rootPath)
	seen := make(map[string]struct{})
	for _, pattern := range c.include {
		found, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, rel := range found {
			if isHidden(rel) {
				continue
			}
			info, err := fs.Stat(fsys, rel)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			seen[rel] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for rel := range seen {
		out = append(out, rel)
	}
	sort.Strings(out)
	return out, nil
}

// read loads one file. rel is slash-separated and relative to the root.
func (c *Connector) read(rel string) (*domain.RawDocument, error) {
	abs := filepath.Join(c.rootPath, filepath.FromSlash(rel))
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", abs, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}
	if full, err := filepath.Abs(abs); err == nil {
		abs = full
	}

	name := path.Base(rel)
	return &domain.RawDocument{
		ID:       DocumentID(rel),
		URI:      abs,
		MIMEType: detectMIMEType(name),
		Content:  content,
		Metadata: map[string]any{
			"filename":  name,
			"extension": strings.TrimPrefix(strings.ToLower(path.Ext(name)), "."),
			"size":      info.Size(),
			"modified":  info.ModTime().UTC().Format(time.RFC3339),
		},
	}, nil
}

// Watch reports created, updated and deleted files until ctx is done.
// Directories created while watching are added to the watch list.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if err := c.checkRoot(); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addTree(watcher, c.rootPath); err != nil {
		watcher.Close()
		return nil, err
	}
	c.watcher = watcher

	changes := make(chan domain.RawDocumentChange)
	go func() {
		defer close(changes)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHidden(event.Name) {
						if err := addTree(watcher, event.Name); err != nil {
							logger.Warn("watch %s: %v", event.Name, err)
						}
						continue
					}
				}
				change := c.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher: %v", err)
			}
		}
	}()

	return changes, nil
}

// handleFsEvent converts an fsnotify event into a change, or nil when the
// event is irrelevant.
func (c *Connector) handleFsEvent(event fsnotify.Event) *domain.RawDocumentChange {
	rel, err := filepath.Rel(c.rootPath, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}
	rel = filepath.ToSlash(rel)
	if isHidden(rel) || !c.included(rel) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.RawDocumentChange{
			Type: domain.ChangeDeleted,
			Document: domain.RawDocument{
				ID:       DocumentID(rel),
				URI:      event.Name,
				MIMEType: detectMIMEType(path.Base(rel)),
			},
		}
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return nil
		}
		doc, err := c.read(rel)
		if err != nil {
			logger.Warn("%v", err)
			return nil
		}
		doc.URI = event.Name
		changeType := domain.ChangeUpdated
		if event.Has(fsnotify.Create) {
			changeType = domain.ChangeCreated
		}
		return &domain.RawDocumentChange{Type: changeType, Document: *doc}
	default:
		return nil
	}
}

func (c *Connector) included(rel string) bool {
	for _, p := range c.include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Close stops any active watcher. It is safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

// addTree watches dir and every non-hidden directory below it.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// DocumentID derives the stable document ID from a slash-separated path
// relative to the source root: the path without its extension.
func DocumentID(rel string) string {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	return strings.TrimSuffix(rel, path.Ext(rel))
}

// isHidden reports whether any element of p starts with a dot.
func isHidden(p string) bool {
	for _, part := range strings.FieldsFunc(filepath.ToSlash(p), func(r rune) bool { return r == '/' }) {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

var mimeFallbacks = map[string]string{
	".pdf":      "application/pdf",
	".txt":      "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
}

// detectMIMEType maps a file name to a MIME type without parameters.
func detectMIMEType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return "text/plain"
	}
	if m, ok := mimeFallbacks[ext]; ok {
		return m
	}
	if m := mime.TypeByExtension(ext); m != "" {
		if i := strings.IndexByte(m, ';'); i >= 0 {
			m = m[:i]
		}
		return strings.TrimSpace(m)
	}
	return "application/octet-stream"
}

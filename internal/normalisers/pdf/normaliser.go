// Package pdf extracts text from PDF files with poppler's pdftotext.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
)

var _ driven.Normaliser = (*Normaliser)(nil)

const toolName = "pdftotext"

// ErrPDFToolNotFound is returned when pdftotext is not on PATH.
var ErrPDFToolNotFound = fmt.Errorf("%w: pdftotext not found in PATH", domain.ErrExtractorUnavailable)

// maxTitleLen rejects lines that are too long to be a heading.
const maxTitleLen = 200

// CommandRunner runs an external program and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// Normaliser converts PDF bytes to text.
type Normaliser struct {
	runner CommandRunner
	// lookPath is only consulted for the real runner.
	lookPath func(string) (string, error)
}

// New creates a normaliser that shells out to pdftotext.
func New() *Normaliser {
	return &Normaliser{runner: execRunner{}, lookPath: exec.LookPath}
}

// NewWithRunner creates a normaliser with a custom runner.
func NewWithRunner(r CommandRunner) *Normaliser {
	return &Normaliser{runner: r}
}

// CheckAvailable reports whether pdftotext can be found.
func CheckAvailable() error {
	if _, err := exec.LookPath(toolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions tells the user how to get pdftotext.
func InstallInstructions() string {
	return `pdftotext is required to read PDF files. It ships with poppler:
  macOS:          brew install poppler
  Debian/Ubuntu:  sudo apt install poppler-utils
  Fedora:         sudo dnf install poppler-utils`
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise writes the PDF to a temp file and reads pdftotext's output.
// A PDF with no extractable text yields a document with empty Content.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if n.lookPath != nil {
		if _, err := n.lookPath(toolName); err != nil {
			return nil, ErrPDFToolNotFound
		}
	}

	tmp, err := os.CreateTemp("", "capstone-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw.Content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	out, err := n.runner.Run(ctx, toolName, "-enc", "UTF-8", tmp.Name(), "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed for %s: %w", raw.URI, err)
	}
	text := string(out)

	meta := copyMetadata(raw.Metadata)
	if meta == nil {
		meta = make(map[string]any)
	}
	meta["mime_type"] = raw.MIMEType
	meta["format"] = "pdf"

	title, _ := meta["title"].(string)
	if title == "" {
		title = extractTitle(text, raw.URI)
	}

	return &driven.NormaliseResult{
		Document: domain.Document{
			ID:         raw.ID,
			URI:        raw.URI,
			Title:      title,
			Content:    text,
			Metadata:   meta,
			IngestedAt: time.Now(),
		},
	}, nil
}

// extractTitle returns the first short non-blank line of content, or a
// title derived from the file name.
func extractTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && len(line) <= maxTitleLen {
			return line
		}
	}
	name := strings.TrimSuffix(filepath.Base(uri), filepath.Ext(uri))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// IsToolMissing reports whether err came from a missing pdftotext.
func IsToolMissing(err error) bool {
	return errors.Is(err, ErrPDFToolNotFound)
}

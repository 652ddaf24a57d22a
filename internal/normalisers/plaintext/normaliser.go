// Package plaintext passes text files through unchanged. It lets a source
// directory mix notes with PDFs.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
)

var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/plain", "text/markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5
}

// Normalise copies the bytes into Content. Invalid UTF-8 sequences are
// replaced so that the chunker always sees valid text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := string(raw.Content)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "�")
	}

	meta := make(map[string]any, len(raw.Metadata)+1)
	for k, v := range raw.Metadata {
		meta[k] = v
	}
	meta["mime_type"] = raw.MIMEType

	return &driven.NormaliseResult{
		Document: domain.Document{
			ID:         raw.ID,
			URI:        raw.URI,
			Title:      title(raw),
			Content:    content,
			Metadata:   meta,
			IngestedAt: time.Now(),
		},
	}, nil
}

func title(raw *domain.RawDocument) string {
	if t, ok := raw.Metadata["title"].(string); ok && t != "" {
		return t
	}
	name := strings.TrimSuffix(filepath.Base(raw.URI), filepath.Ext(raw.URI))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

package filesystem

import (
	"path/filepath"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
)

var _ driven.SourceResolver = Resolver{}

// Resolver maps a document ID back to the absolute path of its file.
type Resolver struct {
	Root string

	// Ext is appended to the ID. Defaults to ".pdf".
	Ext string
}

// Resolve returns the absolute file path for documentID.
func (r Resolver) Resolve(documentID string) string {
	ext := r.Ext
	if ext == "" {
		ext = ".pdf"
	}
	p := filepath.Join(r.Root, filepath.FromSlash(documentID)+ext)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

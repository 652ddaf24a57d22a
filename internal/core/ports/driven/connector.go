package driven

import (
	"context"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

// DocumentSource delivers raw documents for ingestion.
type DocumentSource interface {
	// Type returns the source type identifier (e.g. "filesystem").
	Type() string

	// Root returns the location the source reads from.
	Root() string

	// Validate checks the source is readable.
	Validate(ctx context.Context) error

	// List streams every matching document. The error channel is closed
	// when listing completes; per-file errors do not stop the listing.
	List(ctx context.Context) (<-chan domain.RawDocument, <-chan error)

	// Watch listens for changes until ctx is cancelled.
	Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error)

	// Close releases resources.
	Close() error
}

// SourceResolver maps a document ID to the canonical reference shown
// to users (a URL or a file path).
type SourceResolver interface {
	Resolve(documentID string) string
}

package driving

import (
	"context"
	"time"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

// DocumentService manages ingested documents.
type DocumentService interface {
	// List returns all ingested documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// GetDetails returns metadata for display.
	GetDetails(ctx context.Context, documentID string) (*DocumentDetails, error)

	// Remove deletes a document and its index entries.
	Remove(ctx context.Context, documentID string) error
}

// DocumentDetails provides a standardised view of document metadata.
type DocumentDetails struct {
	ID         string
	Title      string
	URI        string
	Source     string
	ChunkCount int
	IngestedAt time.Time

	// Metadata contains flattened key-value pairs for display.
	Metadata map[string]string
}

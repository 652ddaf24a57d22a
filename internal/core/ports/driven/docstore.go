package driven

import (
	"context"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

// DocumentStore persists ingested document records.
type DocumentStore interface {
	// SaveDocument creates or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents ordered by ID.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document record.
	DeleteDocument(ctx context.Context, id string) error
}

// IngestRunStore records ingestion runs.
type IngestRunStore interface {
	SaveRun(ctx context.Context, run *domain.IngestRun) error

	// LatestRun returns the most recent run, or domain.ErrNotFound.
	LatestRun(ctx context.Context) (*domain.IngestRun, error)
}

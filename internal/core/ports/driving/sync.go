package driving

import (
	"context"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

// Ingestor feeds documents from a source into the vector index.
type Ingestor interface {
	// IngestAll processes every document the source lists.
	IngestAll(ctx context.Context) (*domain.IngestRun, error)

	// IngestChange applies one watched change (create, update or delete).
	IngestChange(ctx context.Context, change domain.RawDocumentChange) error

	// Watch applies source changes until ctx is cancelled.
	Watch(ctx context.Context) error
}

// PaperFetcher downloads papers and their metadata into the source directory.
type PaperFetcher interface {
	Fetch(ctx context.Context, q domain.PaperQuery) (*domain.FetchReport, error)
}

package driven

import (
	"context"
	"io"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

// PaperCatalogue searches paper metadata.
type PaperCatalogue interface {
	// Search returns every paper matching q, newest first, honouring MaxPapers.
	Search(ctx context.Context, q domain.PaperQuery) ([]domain.Paper, error)
}

// PaperDownloader retrieves a paper's PDF.
type PaperDownloader interface {
	// Download streams the PDF of the paper. Callers close the reader.
	Download(ctx context.Context, paper domain.Paper) (io.ReadCloser, error)
}

// PaperManifest persists metadata of fetched papers next to the PDFs.
type PaperManifest interface {
	Load() ([]domain.Paper, error)
	Save(papers []domain.Paper) error
}

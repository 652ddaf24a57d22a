package arxiv

import (
	"path"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
)

var _ driven.SourceResolver = Resolver{}

// PDFBaseURL prefixes paper IDs in citations.
const PDFBaseURL = "https://arxiv.org/pdf/"

// Resolver cites documents as arXiv PDF links. Document IDs are the PDF
// file names, so only the base name is used.
type Resolver struct{}

// Resolve returns https://arxiv.org/pdf/{id}.
func (Resolver) Resolve(documentID string) string {
	return PDFBaseURL + path.Base(documentID)
}

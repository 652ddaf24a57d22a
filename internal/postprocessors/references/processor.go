// Package references strips the bibliography from paper text before chunking.
package references

import (
	"context"
	"regexp"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

// DefaultMinPosition ignores headings in the first half of a document,
// where "References" is more likely a word in the prose.
const DefaultMinPosition = 0.5

var heading = regexp.MustCompile(`(?mi)^\s*(?:\d+\.?\s*)?(?:references|bibliography)\s*$`)

// Processor removes everything from the last references heading onwards.
type Processor struct {
	minPosition float64
}

// Option configures the processor.
type Option func(*Processor)

// WithMinPosition sets the fraction of the text before which headings are ignored.
func WithMinPosition(f float64) Option {
	return func(p *Processor) {
		if f >= 0 && f < 1 {
			p.minPosition = f
		}
	}
}

// New creates the processor.
func New(opts ...Option) *Processor {
	p := &Processor{minPosition: DefaultMinPosition}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "references"
}

// Process trims doc.Content in place and passes chunks through.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	doc.Content = p.Trim(doc.Content)
	return chunks, nil
}

// Trim returns content without its trailing bibliography.
func (p *Processor) Trim(content string) string {
	matches := heading.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return content
	}
	last := matches[len(matches)-1]
	if float64(last[0]) < p.minPosition*float64(len(content)) {
		return content
	}
	return content[:last[0]]
}

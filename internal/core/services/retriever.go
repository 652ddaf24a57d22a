package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driving"
	"github.com/aswinpillai2222/Ai-Capstone/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.Retriever = (*RetrieverService)(nil)

// RetrieverService embeds a query, searches the index and keeps the hits
// within the distance threshold.
type RetrieverService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	resolver driven.SourceResolver
	defaults domain.RetrievalSettings
}

// NewRetrieverService creates a retriever. A nil resolver cites documents
// by ID. A negative max distance falls back to 1.2 and a non-positive k to 3;
// a max distance of zero is kept.
func NewRetrieverService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	resolver driven.SourceResolver,
	defaults domain.RetrievalSettings,
) *RetrieverService {
	if defaults.MaxDistance < 0 {
		defaults.MaxDistance = domain.DefaultMaxDistance
	}
	if defaults.K <= 0 {
		defaults.K = domain.DefaultK
	}
	return &RetrieverService{
		embedder: embedder,
		index:    index,
		resolver: resolver,
		defaults: defaults,
	}
}

// Retrieve returns the chunks within opts.MaxDistance (inclusive) of the
// query, nearest first, and one related source per distinct document in
// first-seen order. Nothing within the threshold is an empty outcome.
func (s *RetrieverService) Retrieve(
	ctx context.Context, query string, opts domain.RetrieveOptions,
) (*domain.RetrievalOutcome, error) {
	logger.Section("Retrieval")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if (opts.MaxDistance != nil && *opts.MaxDistance < 0) || opts.K < 0 {
		return nil, fmt.Errorf("%w: max distance and k must not be negative", domain.ErrInvalidInput)
	}

	maxDistance := s.defaults.MaxDistance
	if opts.MaxDistance != nil {
		maxDistance = *opts.MaxDistance
	}
	k := opts.K
	if k == 0 {
		k = s.defaults.K
	}
	logger.Debug("Query: %q, k=%d, max distance=%.3f", query, k, maxDistance)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	outcome := Filter(hits, maxDistance, s.resolve)
	logger.Debug("Kept %d of %d hits from %d sources", len(outcome.Chunks), len(hits), len(outcome.RelatedSources))
	return outcome, nil
}

// Filter keeps hits with Distance <= maxDistance in their given order and
// maps each distinct document to resolve(documentID), first-seen order.
func Filter(hits []domain.QueryHit, maxDistance float64, resolve func(string) string) *domain.RetrievalOutcome {
	outcome := &domain.RetrievalOutcome{
		Chunks:         []string{},
		RelatedSources: []string{},
		Hits:           []domain.QueryHit{},
	}

	seen := make(map[string]bool)
	for _, hit := range hits {
		if hit.Distance > maxDistance {
			logger.Debug("  drop %s (%.3f)", hit.ID, hit.Distance)
			continue
		}
		logger.Debug("  keep %s (%.3f)", hit.ID, hit.Distance)
		outcome.Chunks = append(outcome.Chunks, hit.Text)
		outcome.Hits = append(outcome.Hits, hit)

		if seen[hit.DocumentID] {
			continue
		}
		seen[hit.DocumentID] = true
		outcome.RelatedSources = append(outcome.RelatedSources, resolve(hit.DocumentID))
	}
	return outcome
}

func (s *RetrieverService) resolve(documentID string) string {
	if s.resolver == nil {
		return documentID
	}
	return s.resolver.Resolve(documentID)
}

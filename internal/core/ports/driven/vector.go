package driven

import (
	"context"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

// VectorIndex stores chunk vectors and answers nearest-neighbour queries.
//
// Search on an index that has never received an Upsert (not even an empty
// one) fails with domain.ErrStoreNotInitialized. After that, an index with
// no entries returns an empty result.
type VectorIndex interface {
	// Upsert inserts or replaces entries by ID. A replaced entry keeps its
	// original insertion rank. Vectors must all share one dimension.
	Upsert(ctx context.Context, entries []domain.IndexEntry) error

	// Search returns at most k hits ordered by ascending distance under
	// Metric, ties broken by insertion order.
	Search(ctx context.Context, vector []float32, k int) ([]domain.QueryHit, error)

	// ReplaceDocument swaps all entries of documentID for entries as one
	// atomic step. Every entry must belong to documentID. On error the
	// previous entries are left in place.
	ReplaceDocument(ctx context.Context, documentID string, entries []domain.IndexEntry) error

	// DeleteDocument removes every entry of a document.
	DeleteDocument(ctx context.Context, documentID string) error

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Metric returns the distance function in use.
	Metric() domain.DistanceMetric

	// Close releases resources.
	Close() error
}

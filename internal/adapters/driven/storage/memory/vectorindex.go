package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/viant/vec/search"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a brute-force in-memory driven.VectorIndex.
// Entries live in a slice in insertion order; an upsert of an existing ID
// replaces the entry in place.
type VectorIndex struct {
	mu          sync.RWMutex
	metric      domain.DistanceMetric
	entries     []domain.IndexEntry
	positions   map[string]int
	dims        int
	initialized bool
}

// NewVectorIndex creates an index using metric. An invalid metric falls back to l2.
func NewVectorIndex(metric domain.DistanceMetric) *VectorIndex {
	if !metric.IsValid() {
		metric = domain.MetricL2
	}
	return &VectorIndex{
		metric:    metric,
		positions: make(map[string]int),
	}
}

// Upsert inserts or replaces entries by ID. The batch is validated before
// anything is written.
func (v *VectorIndex) Upsert(_ context.Context, entries []domain.IndexEntry) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	dims, err := v.check(entries)
	if err != nil {
		return err
	}
	v.insert(entries, dims)
	return nil
}

// ReplaceDocument swaps the entries of documentID under one lock. A batch
// that fails validation leaves the index untouched.
func (v *VectorIndex) ReplaceDocument(_ context.Context, documentID string, entries []domain.IndexEntry) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	dims, err := v.check(entries)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.DocumentID != documentID {
			return fmt.Errorf("%w: entry %s belongs to %q, not %q",
				domain.ErrInvalidInput, e.ID, e.DocumentID, documentID)
		}
	}
	v.remove(documentID)
	v.insert(entries, dims)
	return nil
}

// check validates a batch and returns the index dimension after it.
func (v *VectorIndex) check(entries []domain.IndexEntry) (int, error) {
	dims := v.dims
	for _, e := range entries {
		if e.ID == "" || len(e.Vector) == 0 {
			return 0, fmt.Errorf("%w: entry %q has no id or vector", domain.ErrInvalidInput, e.ID)
		}
		if dims == 0 {
			dims = len(e.Vector)
		}
		if len(e.Vector) != dims {
			return 0, fmt.Errorf("%w: entry %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, e.ID, len(e.Vector), dims)
		}
	}
	return dims, nil
}

func (v *VectorIndex) insert(entries []domain.IndexEntry, dims int) {
	for _, e := range entries {
		e.Vector = append([]float32(nil), e.Vector...)
		if pos, ok := v.positions[e.ID]; ok {
			v.entries[pos] = e
			continue
		}
		v.positions[e.ID] = len(v.entries)
		v.entries = append(v.entries, e)
	}
	v.dims = dims
	v.initialized = true
}

// Search returns the k nearest entries by ascending distance, ties in
// insertion order.
func (v *VectorIndex) Search(_ context.Context, vector []float32, k int) ([]domain.QueryHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if !v.initialized {
		return nil, domain.ErrStoreNotInitialized
	}
	if v.dims > 0 && len(vector) != v.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(vector), v.dims)
	}

	query := search.Float32s(vector)
	queryMag := query.Magnitude()

	hits := make([]domain.QueryHit, 0, len(v.entries))
	for _, e := range v.entries {
		if e.Vector == nil {
			continue
		}
		hits = append(hits, domain.QueryHit{
			ID:         e.ID,
			Text:       e.Text,
			DocumentID: e.DocumentID,
			Sequence:   e.Sequence,
			Distance:   v.distance(query, queryMag, e.Vector),
		})
	}

	// Stable sort keeps insertion order among equal distances.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (v *VectorIndex) distance(query search.Float32s, queryMag float32, vec []float32) float64 {
	if v.metric == domain.MetricCosine {
		mag := search.Float32s(vec).Magnitude()
		if queryMag == 0 || mag == 0 {
			return 1
		}
		return float64(query.CosineDistanceWithMagnitude(vec, queryMag, mag))
	}
	d := float64(query.EuclideanDistance(vec))
	return d * d
}

// DeleteDocument removes every entry of a document. Remaining entries keep
// their relative order.
func (v *VectorIndex) DeleteDocument(_ context.Context, documentID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.remove(documentID)
	return nil
}

func (v *VectorIndex) remove(documentID string) {
	kept := v.entries[:0]
	for _, e := range v.entries {
		if e.DocumentID != documentID {
			kept = append(kept, e)
		}
	}
	v.entries = kept
	v.positions = make(map[string]int, len(kept))
	for i, e := range kept {
		v.positions[e.ID] = i
	}
}

// Count returns the number of stored entries.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries), nil
}

// Metric returns the distance function in use.
func (v *VectorIndex) Metric() domain.DistanceMetric {
	return v.metric
}

// Close is a no-op.
func (v *VectorIndex) Close() error {
	return nil
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aswinpillai2222/Ai-Capstone/internal/adapters/driven/storage/memory"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

var defaultRetrieval = domain.DefaultAppSettings().Retrieval

func hit(doc string, seq int, distance float64) domain.QueryHit {
	return domain.QueryHit{
		ID:         domain.ChunkID(doc, seq),
		Text:       doc + " text " + domain.ChunkID(doc, seq),
		DocumentID: doc,
		Sequence:   seq,
		Distance:   distance,
	}
}

func TestRetrieverService_ThresholdFilter(t *testing.T) {
	index := &fakeIndex{hits: []domain.QueryHit{hit("2501.00001v1", 0, 0.8), hit("2501.00002v1", 3, 1.5)}}
	svc := NewRetrieverService(&fakeEmbedder{}, index, stubResolver{}, defaultRetrieval)

	outcome, err := svc.Retrieve(context.Background(), "what is rag?", domain.RetrieveOptions{MaxDistance: domain.Distance(1.2)})
	require.NoError(t, err)

	assert.Equal(t, []string{"2501.00001v1 text 2501.00001v1-0"}, outcome.Chunks)
	assert.Equal(t, []string{"https://example.org/2501.00001v1"}, outcome.RelatedSources)
	require.Len(t, outcome.Hits, 1)
	assert.InDelta(t, 0.8, outcome.Hits[0].Distance, 1e-9)
}

func TestRetrieverService_Defaults(t *testing.T) {
	index := &fakeIndex{hits: []domain.QueryHit{
		hit("a", 0, 0.1), hit("a", 1, 1.2), hit("b", 0, 1.2000001), hit("c", 0, 0.2),
	}}
	svc := NewRetrieverService(&fakeEmbedder{}, index, nil, defaultRetrieval)

	outcome, err := svc.Retrieve(context.Background(), "query", domain.RetrieveOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, index.gotK)
	// The threshold is inclusive; hits past k never reach the filter.
	assert.Len(t, outcome.Chunks, 2)
	assert.Equal(t, []string{"a"}, outcome.RelatedSources)
}

func TestRetrieverService_ZeroMaxDistance(t *testing.T) {
	hits := []domain.QueryHit{hit("a", 0, 0), hit("b", 0, 0.9)}

	t.Run("from settings", func(t *testing.T) {
		index := &fakeIndex{hits: hits}
		svc := NewRetrieverService(&fakeEmbedder{}, index, nil, domain.RetrievalSettings{MaxDistance: 0, K: 3})

		outcome, err := svc.Retrieve(context.Background(), "query", domain.RetrieveOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"a text a-0"}, outcome.Chunks)
		assert.Equal(t, []string{"a"}, outcome.RelatedSources)
	})

	t.Run("per call overrides settings", func(t *testing.T) {
		index := &fakeIndex{hits: hits}
		svc := NewRetrieverService(&fakeEmbedder{}, index, nil, defaultRetrieval)

		outcome, err := svc.Retrieve(context.Background(), "query", domain.RetrieveOptions{MaxDistance: domain.Distance(0)})
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, outcome.RelatedSources)
		require.Len(t, outcome.Hits, 1)
		assert.Zero(t, outcome.Hits[0].Distance)
	})

	t.Run("nothing exact is empty", func(t *testing.T) {
		index := &fakeIndex{hits: []domain.QueryHit{hit("b", 0, 0.9)}}
		svc := NewRetrieverService(&fakeEmbedder{}, index, nil, domain.RetrievalSettings{K: 3})

		outcome, err := svc.Retrieve(context.Background(), "query", domain.RetrieveOptions{})
		require.NoError(t, err)
		assert.True(t, outcome.IsEmpty())
	})
}

func TestRetrieverService_NegativeSettingFallsBack(t *testing.T) {
	index := &fakeIndex{hits: []domain.QueryHit{hit("a", 0, 1.1), hit("b", 0, 1.3)}}
	svc := NewRetrieverService(&fakeEmbedder{}, index, nil, domain.RetrievalSettings{MaxDistance: -1})

	outcome, err := svc.Retrieve(context.Background(), "query", domain.RetrieveOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, index.gotK)
	assert.Equal(t, []string{"a"}, outcome.RelatedSources)
}

func TestRetrieverService_SourcesDeduplicatedInFirstSeenOrder(t *testing.T) {
	index := &fakeIndex{hits: []domain.QueryHit{
		hit("b", 2, 0.1), hit("a", 0, 0.2), hit("b", 0, 0.3), hit("c", 1, 0.4), hit("a", 4, 0.5),
	}}
	svc := NewRetrieverService(&fakeEmbedder{}, index, nil, domain.RetrievalSettings{MaxDistance: 1, K: 10})

	outcome, err := svc.Retrieve(context.Background(), "query", domain.RetrieveOptions{})
	require.NoError(t, err)

	assert.Len(t, outcome.Chunks, 5)
	assert.Equal(t, []string{"b", "a", "c"}, outcome.RelatedSources)
}

func TestRetrieverService_NothingRelevantIsEmptyOutcome(t *testing.T) {
	index := &fakeIndex{hits: []domain.QueryHit{hit("a", 0, 2.5), hit("b", 0, 3)}}
	svc := NewRetrieverService(&fakeEmbedder{}, index, nil, defaultRetrieval)

	outcome, err := svc.Retrieve(context.Background(), "unrelated", domain.RetrieveOptions{})
	require.NoError(t, err)
	assert.True(t, outcome.IsEmpty())
	assert.Empty(t, outcome.RelatedSources)
}

func TestRetrieverService_EmptyIndex(t *testing.T) {
	index := memory.NewVectorIndex(domain.MetricL2)
	require.NoError(t, index.Upsert(context.Background(), nil))
	svc := NewRetrieverService(&fakeEmbedder{}, index, nil, defaultRetrieval)

	outcome, err := svc.Retrieve(context.Background(), "anything", domain.RetrieveOptions{})
	require.NoError(t, err)
	assert.True(t, outcome.IsEmpty())
}

func TestRetrieverService_NeverWrittenIndex(t *testing.T) {
	svc := NewRetrieverService(&fakeEmbedder{}, memory.NewVectorIndex(domain.MetricL2), nil, defaultRetrieval)

	_, err := svc.Retrieve(context.Background(), "anything", domain.RetrieveOptions{})
	assert.ErrorIs(t, err, domain.ErrStoreNotInitialized)
}

func TestRetrieverService_AgainstMemoryIndex(t *testing.T) {
	ctx := context.Background()
	index := memory.NewVectorIndex(domain.MetricL2)
	require.NoError(t, index.Upsert(ctx, []domain.IndexEntry{
		{ID: "x-0", Vector: []float32{1, 0}, Text: "near", DocumentID: "x"},
		{ID: "y-0", Vector: []float32{0, 1}, Text: "tied", DocumentID: "y"},
		{ID: "z-0", Vector: []float32{5, 5}, Text: "far", DocumentID: "z"},
	}))
	embedder := &fakeEmbedder{vectors: map[string][]float32{"query": {1, 0}}}
	svc := NewRetrieverService(embedder, index, nil, defaultRetrieval)

	outcome, err := svc.Retrieve(ctx, "query", domain.RetrieveOptions{MaxDistance: domain.Distance(2)})
	require.NoError(t, err)

	// Squared L2: near 0, tied 2, far 41.
	assert.Equal(t, []string{"near", "tied"}, outcome.Chunks)
	assert.Equal(t, []string{"x", "y"}, outcome.RelatedSources)
}

func TestRetrieverService_Errors(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		opts    domain.RetrieveOptions
		index   *fakeIndex
		embed   *fakeEmbedder
		wantErr error
	}{
		{"empty query", "  ", domain.RetrieveOptions{}, &fakeIndex{}, &fakeEmbedder{}, domain.ErrInvalidInput},
		{"negative distance", "q", domain.RetrieveOptions{MaxDistance: domain.Distance(-1)}, &fakeIndex{}, &fakeEmbedder{}, domain.ErrInvalidInput},
		{"negative k", "q", domain.RetrieveOptions{K: -1}, &fakeIndex{}, &fakeEmbedder{}, domain.ErrInvalidInput},
		{"embedding fails", "poison", domain.RetrieveOptions{}, &fakeIndex{}, &fakeEmbedder{failOn: "poison"}, errBoom},
		{"search fails", "q", domain.RetrieveOptions{}, &fakeIndex{err: domain.ErrDimensionMismatch}, &fakeEmbedder{}, domain.ErrDimensionMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRetrieverService(tt.embed, tt.index, nil, defaultRetrieval)
			_, err := svc.Retrieve(context.Background(), tt.query, tt.opts)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFilter_KeepsOrder(t *testing.T) {
	hits := []domain.QueryHit{hit("a", 0, 0.5), hit("b", 0, 0.5), hit("a", 1, 0.9)}
	outcome := Filter(hits, 0.5, func(id string) string { return "doc:" + id })

	assert.Equal(t, []string{"a text a-0", "b text b-0"}, outcome.Chunks)
	assert.Equal(t, []string{"doc:a", "doc:b"}, outcome.RelatedSources)
}

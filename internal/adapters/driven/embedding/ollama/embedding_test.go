package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

// fakeVector derives a stable 3-dim vector from text.
func fakeVector(text string) []float64 {
	return []float64{float64(len(text)), float64(strings.Count(text, "a")), 1}
}

func newServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"models":[]}`))
		case "/api/embed":
			if calls != nil {
				atomic.AddInt32(calls, 1)
			}
			var req embedRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			resp := embedResponse{}
			for _, in := range req.Input {
				resp.Embeddings = append(resp.Embeddings, fakeVector(in))
			}
			_ = json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultBatchSize, svc.batchSize)
	assert.NoError(t, svc.Close())
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	srv := newServer(t, nil)
	defer srv.Close()
	svc := NewEmbeddingService(Config{BaseURL: srv.URL, Dimensions: 3})

	texts := []string{"a", "banana", "cab"}
	vectors, err := svc.EmbedBatch(context.Background(), texts)

	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for i, text := range texts {
		want := fakeVector(text)
		assert.Equal(t, []float32{float32(want[0]), float32(want[1]), float32(want[2])}, vectors[i])
	}
}

func TestEmbedBatch_Deterministic(t *testing.T) {
	srv := newServer(t, nil)
	defer srv.Close()
	svc := NewEmbeddingService(Config{BaseURL: srv.URL, Dimensions: 3})

	first, err := svc.EmbedBatch(context.Background(), []string{"same text"})
	require.NoError(t, err)
	second, err := svc.Embed(context.Background(), "same text")
	require.NoError(t, err)

	assert.Equal(t, first[0], second)
}

func TestEmbedBatch_SplitsIntoBatches(t *testing.T) {
	var calls int32
	srv := newServer(t, &calls)
	defer srv.Close()
	svc := NewEmbeddingService(Config{BaseURL: srv.URL, Dimensions: 3, BatchSize: 2})

	vectors, err := svc.EmbedBatch(context.Background(), []string{"a", "aa", "aaa", "aaaa", "aaaaa"})

	require.NoError(t, err)
	assert.Len(t, vectors, 5)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, float32(5), vectors[4][0])
}

func TestEmbedBatch_Empty(t *testing.T) {
	svc := NewEmbeddingService(Config{BaseURL: "http://127.0.0.1:0"})

	vectors, err := svc.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestEmbedBatch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()
	svc := NewEmbeddingService(Config{BaseURL: srv.URL})

	_, err := svc.EmbedBatch(context.Background(), []string{"x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingFailure)
	assert.Contains(t, err.Error(), "model not found")
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[1,2,3]]}`))
	}))
	defer srv.Close()
	svc := NewEmbeddingService(Config{BaseURL: srv.URL, Dimensions: 3})

	_, err := svc.EmbedBatch(context.Background(), []string{"x", "y"})

	assert.ErrorIs(t, err, domain.ErrEmbeddingFailure)
}

func TestEmbedBatch_DimensionMismatch(t *testing.T) {
	srv := newServer(t, nil)
	defer srv.Close()
	svc := NewEmbeddingService(Config{BaseURL: srv.URL, Dimensions: 384})

	_, err := svc.EmbedBatch(context.Background(), []string{"x"})

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestPing(t *testing.T) {
	srv := newServer(t, nil)
	defer srv.Close()

	assert.NoError(t, NewEmbeddingService(Config{BaseURL: srv.URL}).Ping(context.Background()))

	srv.Close()
	err := NewEmbeddingService(Config{BaseURL: srv.URL}).Ping(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInvalidInput, ErrUnsupportedType, ErrInvalidChunkConfig,
		ErrStoreNotInitialized, ErrEmbeddingFailure, ErrDimensionMismatch,
		ErrEmbeddingUnavailable, ErrLLMUnavailable, ErrRateLimited, ErrExtractorUnavailable,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("search chunks: %w", ErrStoreNotInitialized)

	assert.ErrorIs(t, wrapped, ErrStoreNotInitialized)
	assert.NotErrorIs(t, wrapped, ErrNotFound)
	assert.Contains(t, wrapped.Error(), "vector store not initialized")
}

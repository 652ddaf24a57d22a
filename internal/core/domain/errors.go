package domain

import "errors"

// Domain errors. Callers match them with errors.Is; adapters wrap them
// with context using fmt.Errorf("...: %w", err).
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no normaliser handles a document's MIME type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidChunkConfig indicates a negative size or overlap >= chunk size.
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

	// ErrStoreNotInitialized indicates a search against an index that has
	// never been written to.
	ErrStoreNotInitialized = errors.New("vector store not initialized")

	// ErrEmbeddingFailure indicates the embedding model call failed.
	ErrEmbeddingFailure = errors.New("embedding failed")

	// ErrDimensionMismatch indicates a vector whose length differs from the
	// vectors already stored in the index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the generator is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrRateLimited indicates a remote API asked us to slow down.
	ErrRateLimited = errors.New("rate limited")

	// ErrExtractorUnavailable indicates the external text extraction tool is missing.
	ErrExtractorUnavailable = errors.New("text extractor unavailable")
)

package domain

import (
	"strconv"
	"time"
)

// Document is the extracted text of one ingested file.
type Document struct {
	// ID is stable across re-ingestion: the file path relative to the source
	// root, slash separated, without extension (e.g. "2501.01234v1").
	ID string

	// URI is the original location of the file.
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the extracted text before cleaning and chunking.
	Content string

	// ChunkCount is the number of chunks produced at ingestion.
	ChunkCount int

	// Metadata contains extractor-specific key-value pairs.
	Metadata map[string]any

	// IngestedAt is when the document was last ingested.
	IngestedAt time.Time
}

// Chunk is a bounded substring of a document's normalised text.
type Chunk struct {
	// ID is ChunkID(DocumentID, Sequence).
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Sequence is the 0-based position within the document.
	Sequence int

	// Text is the chunk content.
	Text string

	// Embedding is filled in by the ingest service before indexing.
	Embedding []float32
}

// ChunkID derives the index entry ID for a document position.
// Re-ingesting the same document and position yields the same ID.
func ChunkID(documentID string, sequence int) string {
	return documentID + "-" + strconv.Itoa(sequence)
}

// NewChunks builds chunks for a document from already split texts.
func NewChunks(documentID string, texts []string) []Chunk {
	if len(texts) == 0 {
		return nil
	}
	chunks := make([]Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = Chunk{
			ID:         ChunkID(documentID, i),
			DocumentID: documentID,
			Sequence:   i,
			Text:       text,
		}
	}
	return chunks
}

// Package domain defines the core entities of the retrieval pipeline.
//
// This package is the innermost layer of the hexagonal architecture and
// imports only the standard library:
//
//   - Document: extracted text of one ingested file
//   - Chunk: a bounded, overlapping slice of a document's normalised text
//   - IndexEntry / QueryHit: what the vector index stores and returns
//   - RetrievalOutcome: filtered chunks plus deduplicated source references
//   - Paper: arXiv metadata for downloaded PDFs
//   - AppSettings: typed configuration with defaults
//
// All other packages depend on domain, never the reverse.
package domain

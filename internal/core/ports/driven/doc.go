// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Write path
//
//   - DocumentSource: lists and watches files to ingest
//   - NormaliserRegistry / Normaliser: extract text from raw bytes
//   - PostProcessorPipeline / PostProcessor: chunk extracted text
//   - EmbeddingService: turns chunk texts into vectors
//   - VectorIndex: persists chunks and vectors
//   - DocumentStore / IngestRunStore: document bookkeeping
//
// # Read path
//
//   - EmbeddingService, VectorIndex: similarity search
//   - SourceResolver: document ID to canonical reference
//   - PromptStore: answer template
//   - LLMService: generator. Optional; retrieval works without it.
//
// # Papers
//
//   - PaperCatalogue, PaperDownloader, PaperManifest: arXiv fetch
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven

// Package sqlite provides the persistent vector index and document store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. One database file holds:
//
//   - VectorIndex: chunk text, vectors and insertion order
//   - DocumentStore: ingested document records
//   - IngestRunStore: ingestion history
//
// # Distance
//
// Search is brute force inside SQLite. The scalar functions vec_l2 (squared
// Euclidean) and vec_cosine (1 - cosine similarity) are registered with the
// driver and computed with github.com/viant/vec/search.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory, so a store can be reopened without external files.
//
// # Data Location
//
// By default, the database is stored at ~/.capstone/data/index.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. SQLite in WAL mode serialises
// writers and lets readers proceed.
package sqlite

// Package services implements the driving port interfaces.
// Services hold the pipeline logic and orchestrate calls to driven ports
// (adapters): ingest, retrieval, answering, paper fetch, documents and
// settings.
package services

// Package driving defines what the CLI and the MCP server call into:
// ingestion and watching, paper fetch, retrieval, answering, document
// inspection and settings.
//
// Implementations live in internal/core/services.
package driving

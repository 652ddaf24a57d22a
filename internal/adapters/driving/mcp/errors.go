// Package mcp provides an MCP (Model Context Protocol) server adapter for capstone.
// It lets AI assistants retrieve from and ask questions about the indexed papers.
package mcp

import "errors"

// ErrMissingRetriever is returned when the retriever is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever is required")

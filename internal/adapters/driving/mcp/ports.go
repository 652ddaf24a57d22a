package mcp

import (
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Retriever backs the retrieve tool.
	Retriever driving.Retriever

	// Answerer backs the ask tool. Optional.
	Answerer driving.Answerer

	// Documents backs the document resources. Optional.
	Documents driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	return nil
}

package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query       string   `json:"query" jsonschema:"the question or topic to retrieve passages for"`
	MaxDistance *float64 `json:"max_distance,omitempty" jsonschema:"drop passages farther than this from the query (default from settings; 0 keeps exact matches)"`
	K           int      `json:"k,omitempty" jsonschema:"number of nearest passages to search (default from settings)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Chunks         []ChunkOutput `json:"chunks"`
	RelatedSources []string      `json:"related_sources"`
	Count          int           `json:"count"`
}

// ChunkOutput is one retrieved passage.
type ChunkOutput struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id"`
	Distance   float64 `json:"distance"`
	Text       string  `json:"text"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question    string   `json:"question" jsonschema:"the question to answer from the indexed papers"`
	MaxDistance *float64 `json:"max_distance,omitempty" jsonschema:"drop passages farther than this from the question (default from settings; 0 keeps exact matches)"`
	K           int      `json:"k,omitempty" jsonschema:"number of nearest passages to search (default from settings)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
	Grounded bool     `json:"grounded"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve the passages of the indexed papers closest to a query, with their sources",
	}, s.handleRetrieve)

	if s.ports.Answerer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question from the indexed papers and list the papers used",
		}, s.handleAsk)
	}
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	outcome, err := s.ports.Retriever.Retrieve(ctx, input.Query, domain.RetrieveOptions{
		MaxDistance: input.MaxDistance,
		K:           input.K,
	})
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Chunks:         make([]ChunkOutput, len(outcome.Hits)),
		RelatedSources: outcome.RelatedSources,
		Count:          len(outcome.Hits),
	}
	if output.RelatedSources == nil {
		output.RelatedSources = []string{}
	}
	for i, h := range outcome.Hits {
		output.Chunks[i] = ChunkOutput{
			ID:         h.ID,
			DocumentID: h.DocumentID,
			Distance:   h.Distance,
			Text:       h.Text,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Answerer.Ask(ctx, input.Question, domain.RetrieveOptions{
		MaxDistance: input.MaxDistance,
		K:           input.K,
	})
	if err != nil {
		return nil, AskOutput{}, err
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	return nil, AskOutput{
		Answer:   answer.Text,
		Sources:  sources,
		Grounded: answer.Grounded,
	}, nil
}

package driving

import (
	"context"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

// Retriever finds the chunks relevant to a query.
type Retriever interface {
	// Retrieve embeds the query, searches the index and keeps hits within
	// opts.MaxDistance. No relevant context is an empty outcome, not an error.
	Retrieve(ctx context.Context, query string, opts domain.RetrieveOptions) (*domain.RetrievalOutcome, error)
}

// Answerer answers questions from retrieved context.
type Answerer interface {
	// Ask returns domain.NoInformationResponse without calling the generator
	// when retrieval finds nothing.
	Ask(ctx context.Context, question string, opts domain.RetrieveOptions) (*domain.Answer, error)
}

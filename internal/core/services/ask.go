package services

import (
	"context"
	"fmt"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driving"
	"github.com/aswinpillai2222/Ai-Capstone/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.Answerer = (*AskService)(nil)

// AskService answers questions: retrieve, assemble, generate.
type AskService struct {
	retriever driving.Retriever
	assembler *PromptAssembler
	llm       driven.LLMService
	opts      driven.GenerateOptions
}

// NewAskService creates an ask service. llm may be nil, in which case
// only questions without relevant context can be answered.
func NewAskService(
	retriever driving.Retriever,
	assembler *PromptAssembler,
	llm driven.LLMService,
	opts driven.GenerateOptions,
) *AskService {
	return &AskService{
		retriever: retriever,
		assembler: assembler,
		llm:       llm,
		opts:      opts,
	}
}

// Ask returns domain.NoInformationResponse without calling the generator
// when retrieval finds nothing within the threshold.
func (s *AskService) Ask(ctx context.Context, question string, opts domain.RetrieveOptions) (*domain.Answer, error) {
	outcome, err := s.retriever.Retrieve(ctx, question, opts)
	if err != nil {
		return nil, err
	}

	if outcome.IsEmpty() {
		logger.Debug("No relevant context; skipping generation")
		return &domain.Answer{Text: domain.NoInformationResponse, Sources: []string{}}, nil
	}

	if s.llm == nil {
		return nil, fmt.Errorf("%w: configure llm.provider to answer questions", domain.ErrLLMUnavailable)
	}

	prompt, err := s.assembler.Assemble(question, outcome.Chunks)
	if err != nil {
		return nil, err
	}

	logger.Section("Generation")
	logger.Debug("Model: %s, prompt: %d chars", s.llm.ModelName(), len(prompt))
	text, err := s.llm.Generate(ctx, prompt, s.opts)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Text:     text,
		Sources:  outcome.RelatedSources,
		Grounded: true,
	}, nil
}

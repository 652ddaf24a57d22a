package services

import (
	"fmt"
	"strings"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
)

// PromptAssembler renders retrieved context and a question into the
// answer prompt.
type PromptAssembler struct {
	prompts driven.PromptStore
}

// NewPromptAssembler creates an assembler reading the rag_answer template.
func NewPromptAssembler(prompts driven.PromptStore) *PromptAssembler {
	return &PromptAssembler{prompts: prompts}
}

// Assemble joins chunks with newlines and substitutes them and the question
// for the template's {context} and {question} placeholders. Other text,
// including literal % signs, is left as written. It refuses an empty
// context; callers answer with domain.NoInformationResponse instead.
func (a *PromptAssembler) Assemble(question string, chunks []string) (string, error) {
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: no context to assemble", domain.ErrInvalidInput)
	}

	template, err := a.prompts.Load(driven.PromptAnswer)
	if err != nil {
		return "", fmt.Errorf("load prompt: %w", err)
	}
	for _, p := range []string{driven.PlaceholderContext, driven.PlaceholderQuestion} {
		if !strings.Contains(template, p) {
			return "", fmt.Errorf("%w: prompt %s is missing %s", domain.ErrInvalidInput, driven.PromptAnswer, p)
		}
	}

	r := strings.NewReplacer(
		driven.PlaceholderContext, strings.Join(chunks, "\n"),
		driven.PlaceholderQuestion, question,
	)
	return r.Replace(template), nil
}

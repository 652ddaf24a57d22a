package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aswinpillai2222/Ai-Capstone/internal/adapters/driven/config/file"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
)

func TestPromptAssembler_Assemble(t *testing.T) {
	a := NewPromptAssembler(stubPrompts{template: "Context: {context}\n\nQuestion: {question}\n\nHelpful Answer:"})

	prompt, err := a.Assemble("What is RAG?", []string{"first chunk", "second chunk"})
	require.NoError(t, err)
	assert.Equal(t, "Context: first chunk\nsecond chunk\n\nQuestion: What is RAG?\n\nHelpful Answer:", prompt)
}

func TestPromptAssembler_DefaultTemplate(t *testing.T) {
	template, ok := file.DefaultPrompt(driven.PromptAnswer)
	require.True(t, ok)
	a := NewPromptAssembler(stubPrompts{template: template})

	prompt, err := a.Assemble("Why?", []string{"Because."})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Context: Because.")
	assert.Contains(t, prompt, "Question: Why?")
	assert.NotContains(t, prompt, "%!")
}

func TestPromptAssembler_Errors(t *testing.T) {
	t.Run("no chunks", func(t *testing.T) {
		a := NewPromptAssembler(stubPrompts{template: "{context} {question}"})
		_, err := a.Assemble("q", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("store error", func(t *testing.T) {
		a := NewPromptAssembler(stubPrompts{err: errBoom})
		_, err := a.Assemble("q", []string{"c"})
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("missing question placeholder", func(t *testing.T) {
		a := NewPromptAssembler(stubPrompts{template: "Only {context}"})
		_, err := a.Assemble("q", []string{"c"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing context placeholder", func(t *testing.T) {
		a := NewPromptAssembler(stubPrompts{template: "Question: {question}"})
		_, err := a.Assemble("q", []string{"c"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestPromptAssembler_LiteralText(t *testing.T) {
	a := NewPromptAssembler(stubPrompts{template: "Be 100% sure. %s is not a verb here.\n{context}\nQ: {question}"})

	prompt, err := a.Assemble("Is 50% enough?", []string{"Recall rose 20%.", "{question} stays literal in context"})
	require.NoError(t, err)
	assert.Equal(t,
		"Be 100% sure. %s is not a verb here.\nRecall rose 20%.\n{question} stays literal in context\nQ: Is 50% enough?",
		prompt)
	assert.NotContains(t, prompt, "%!")
}

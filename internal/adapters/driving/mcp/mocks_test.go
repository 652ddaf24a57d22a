package mcp

import (
	"context"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driving"
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	outcome *domain.RetrievalOutcome
	err     error
	query   string
	opts    domain.RetrieveOptions
}

func (m *mockRetriever) Retrieve(
	_ context.Context,
	query string,
	opts domain.RetrieveOptions,
) (*domain.RetrievalOutcome, error) {
	m.query = query
	m.opts = opts
	return m.outcome, m.err
}

// mockAnswerer is a mock implementation of driving.Answerer.
type mockAnswerer struct {
	answer   *domain.Answer
	err      error
	question string
}

func (m *mockAnswerer) Ask(_ context.Context, question string, _ domain.RetrieveOptions) (*domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	details   *driving.DocumentDetails
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) GetDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	return m.details, m.err
}

func (m *mockDocumentService) Remove(_ context.Context, _ string) error {
	return m.err
}

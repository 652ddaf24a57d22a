package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid document URI",
			uri:      "capstone://documents/2501.00001v1",
			expected: "2501.00001v1",
		},
		{
			name:     "nested document ID",
			uri:      "capstone://documents/2025/01/2501.00001v1",
			expected: "2025/01/2501.00001v1",
		},
		{
			name:     "invalid prefix",
			uri:      "file://documents/doc-456",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractDocumentID(tt.uri))
		})
	}
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}}, "test")
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("capstone://documents"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns documents", func(t *testing.T) {
		docs := &mockDocumentService{documents: []domain.Document{
			{ID: "2501.00001v1", Title: "Retrieval for All", URI: "/papers/2501.00001v1.pdf", ChunkCount: 12},
			{ID: "2501.00002v1", Title: "Chunking", URI: "/papers/2501.00002v1.pdf", ChunkCount: 3},
		}}
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}, Documents: docs}, "test")
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("capstone://documents"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var got []map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "2501.00001v1", got[0]["id"])
		assert.Equal(t, "Retrieval for All", got[0]["title"])
		assert.InDelta(t, 12, got[0]["chunk_count"], 0)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		docs := &mockDocumentService{err: errors.New("database locked")}
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}, Documents: docs}, "test")
		require.NoError(t, err)

		_, err = server.handleDocumentsResource(ctx, makeReadResourceRequest("capstone://documents"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})
}

func TestServer_handleDocumentContentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}}, "test")
		require.NoError(t, err)

		_, err = server.handleDocumentContentResource(ctx, makeReadResourceRequest("capstone://documents/doc-123"))
		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}, Documents: &mockDocumentService{}}, "test")
		require.NoError(t, err)

		_, err = server.handleDocumentContentResource(ctx, makeReadResourceRequest("capstone://invalid/uri"))
		require.Error(t, err)
	})

	t.Run("returns content successfully", func(t *testing.T) {
		docs := &mockDocumentService{document: &domain.Document{
			ID:      "doc-123",
			Content: "Abstract\n\nWe study retrieval.",
		}}
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}, Documents: docs}, "test")
		require.NoError(t, err)

		result, err := server.handleDocumentContentResource(ctx, makeReadResourceRequest("capstone://documents/doc-123"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "Abstract\n\nWe study retrieval.", result.Contents[0].Text)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	})

	t.Run("returns error on get failure", func(t *testing.T) {
		docs := &mockDocumentService{err: domain.ErrNotFound}
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}, Documents: docs}, "test")
		require.NoError(t, err)

		_, err = server.handleDocumentContentResource(ctx, makeReadResourceRequest("capstone://documents/doc-123"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "getting document content")
	})
}

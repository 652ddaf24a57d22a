package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages ingested documents.
type DocumentService struct {
	docStore driven.DocumentStore
	index    driven.VectorIndex
	resolver driven.SourceResolver
}

// NewDocumentService creates a new document service. resolver may be nil.
func NewDocumentService(
	docStore driven.DocumentStore,
	index driven.VectorIndex,
	resolver driven.SourceResolver,
) *DocumentService {
	return &DocumentService{
		docStore: docStore,
		index:    index,
		resolver: resolver,
	}
}

// List returns all ingested documents ordered by ID.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// GetDetails returns metadata for display.
func (s *DocumentService) GetDetails(ctx context.Context, documentID string) (*driving.DocumentDetails, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	source := doc.URI
	if s.resolver != nil {
		source = s.resolver.Resolve(doc.ID)
	}

	// Flatten metadata to string map
	metadata := make(map[string]string, len(doc.Metadata))
	for key, value := range doc.Metadata {
		metadata[key] = fmt.Sprintf("%v", value)
	}

	return &driving.DocumentDetails{
		ID:         doc.ID,
		Title:      doc.Title,
		URI:        doc.URI,
		Source:     source,
		ChunkCount: doc.ChunkCount,
		IngestedAt: doc.IngestedAt,
		Metadata:   metadata,
	}, nil
}

// MetadataKeys returns the metadata keys of details in sorted order.
func MetadataKeys(details *driving.DocumentDetails) []string {
	keys := make([]string, 0, len(details.Metadata))
	for k := range details.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Remove deletes a document and its index entries.
func (s *DocumentService) Remove(ctx context.Context, documentID string) error {
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return err
	}
	if err := s.index.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete index entries: %w", err)
	}
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

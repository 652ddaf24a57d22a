package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driving"
	"github.com/aswinpillai2222/Ai-Capstone/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// DefaultEmbedBatch is the number of chunks sent per embedding request.
const DefaultEmbedBatch = 32

// IngestService runs documents through extract, chunk, embed and upsert.
type IngestService struct {
	source   driven.DocumentSource
	registry driven.NormaliserRegistry
	pipeline driven.PostProcessorPipeline
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	docStore driven.DocumentStore
	runStore driven.IngestRunStore

	batchSize int
	now       func() time.Time
}

// NewIngestService creates an ingest service. runStore may be nil.
func NewIngestService(
	source driven.DocumentSource,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	docStore driven.DocumentStore,
	runStore driven.IngestRunStore,
) *IngestService {
	return &IngestService{
		source:    source,
		registry:  registry,
		pipeline:  pipeline,
		embedder:  embedder,
		index:     index,
		docStore:  docStore,
		runStore:  runStore,
		batchSize: DefaultEmbedBatch,
		now:       time.Now,
	}
}

// IngestAll processes every document the source lists. A document that
// fails is logged and counted; the run continues with the next one.
// Documents that disappeared from the source since the last run are
// removed, unless listing reported errors.
//
//nolint:gocognit // Orchestration loop over two channels
func (s *IngestService) IngestAll(ctx context.Context) (*domain.IngestRun, error) {
	logger.Section("Ingest")

	if err := s.source.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate source: %w", err)
	}

	run := &domain.IngestRun{
		ID:         uuid.NewString(),
		SourcePath: s.source.Root(),
		StartedAt:  s.now(),
	}
	logger.Info("Ingesting %s", run.SourcePath)

	seen := make(map[string]bool)
	listErrors := 0
	docsCh, errsCh := s.source.List(ctx)

loop:
	for {
		select {
		case <-ctx.Done():
			return run, ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			listErrors++
			run.Failed++
			logger.Warn("%v", err)

		case raw, ok := <-docsCh:
			if !ok {
				break loop
			}
			seen[raw.ID] = true

			logger.Debug("Processing: %s", raw.URI)
			chunks, err := s.processOne(ctx, &raw)
			if err != nil {
				run.Failed++
				logger.Warn("Failed to ingest %s: %v", raw.URI, err)
				continue
			}
			run.Documents++
			run.Chunks += chunks
		}
	}

	// Errors still buffered when the documents end.
	if errsCh != nil {
		for err := range errsCh {
			listErrors++
			run.Failed++
			logger.Warn("%v", err)
		}
	}

	if listErrors == 0 {
		removed, err := s.prune(ctx, seen)
		if err != nil {
			logger.Warn("Failed to prune removed documents: %v", err)
		}
		run.Removed = removed
	}

	run.FinishedAt = s.now()
	if s.runStore != nil {
		if err := s.runStore.SaveRun(ctx, run); err != nil {
			return run, fmt.Errorf("save ingest run: %w", err)
		}
	}

	logger.Info("Ingest complete: %d documents, %d chunks, %d failed, %d removed",
		run.Documents, run.Chunks, run.Failed, run.Removed)
	return run, nil
}

// IngestChange applies one watched change.
func (s *IngestService) IngestChange(ctx context.Context, change domain.RawDocumentChange) error {
	switch change.Type {
	case domain.ChangeCreated, domain.ChangeUpdated:
		logger.Debug("Processing %s: %s", change.Type, change.Document.URI)
		chunks, err := s.processOne(ctx, &change.Document)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", change.Document.ID, err)
		}
		logger.Info("Indexed %s (%d chunks)", change.Document.ID, chunks)
		return nil

	case domain.ChangeDeleted:
		logger.Debug("Deleting: %s", change.Document.URI)
		if err := s.removeDocument(ctx, change.Document.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("remove %s: %w", change.Document.ID, err)
		}
		logger.Info("Removed %s", change.Document.ID)
		return nil

	default:
		return fmt.Errorf("%w: unknown change type %d", domain.ErrInvalidInput, change.Type)
	}
}

// Watch applies source changes until ctx is cancelled. Failed changes
// are logged and do not stop watching.
func (s *IngestService) Watch(ctx context.Context) error {
	changes, err := s.source.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch source: %w", err)
	}

	logger.Info("Watching %s", s.source.Root())
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			if err := s.IngestChange(ctx, change); err != nil {
				logger.Warn("%v", err)
			}
		}
	}
}

// processOne extracts, chunks, embeds and indexes a document. It returns
// the number of chunks written. Empty text yields zero chunks and the
// document is still recorded.
func (s *IngestService) processOne(ctx context.Context, raw *domain.RawDocument) (int, error) {
	// 1. NORMALISE (produces Document with Content)
	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("normalise: %w", err)
	}
	doc := result.Document
	if doc.ID == "" {
		doc.ID = raw.ID
	}

	// 2. RUN POST-PROCESSOR PIPELINE (produces Chunks)
	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return 0, fmt.Errorf("post-process: %w", err)
	}

	// 3. GENERATE EMBEDDINGS
	if err := s.embed(ctx, chunks); err != nil {
		return 0, err
	}

	// 4. REPLACE INDEX ENTRIES
	// Stale entries from a longer previous version must not survive. On
	// failure the previous entries and document record stay as they were.
	entries := make([]domain.IndexEntry, len(chunks))
	for i, c := range chunks {
		entries[i] = domain.EntryFromChunk(c)
	}
	if err := s.index.ReplaceDocument(ctx, doc.ID, entries); err != nil {
		return 0, fmt.Errorf("replace index entries: %w", err)
	}

	// 5. SAVE TO DOCUMENT STORE
	doc.ChunkCount = len(chunks)
	doc.IngestedAt = s.now()
	if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
		return 0, fmt.Errorf("save document: %w", err)
	}

	if len(chunks) == 0 {
		logger.Debug("%s: no text extracted", doc.ID)
	}
	return len(chunks), nil
}

// embed fills in chunk embeddings batch by batch, preserving order.
func (s *IngestService) embed(ctx context.Context, chunks []domain.Chunk) error {
	batch := s.batchSize
	if batch <= 0 {
		batch = DefaultEmbedBatch
	}

	for start := 0; start < len(chunks); start += batch {
		end := min(start+batch, len(chunks))
		texts := make([]string, end-start)
		for i := range texts {
			texts[i] = chunks[start+i].Text
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("%w: got %d vectors for %d chunks", domain.ErrEmbeddingFailure, len(vectors), len(texts))
		}
		for i, v := range vectors {
			chunks[start+i].Embedding = v
		}
	}
	return nil
}

// prune removes stored documents that the source no longer lists.
func (s *IngestService) prune(ctx context.Context, seen map[string]bool) (int, error) {
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return 0, fmt.Errorf("list documents: %w", err)
	}

	removed := 0
	for _, doc := range docs {
		if seen[doc.ID] {
			continue
		}
		if err := s.removeDocument(ctx, doc.ID); err != nil {
			return removed, err
		}
		logger.Debug("Removed %s", doc.ID)
		removed++
	}
	return removed, nil
}

func (s *IngestService) removeDocument(ctx context.Context, id string) error {
	if err := s.index.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete index entries: %w", err)
	}
	if err := s.docStore.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

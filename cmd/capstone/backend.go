package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aswinpillai2222/Ai-Capstone/internal/adapters/driven/ai"
	"github.com/aswinpillai2222/Ai-Capstone/internal/adapters/driven/config/file"
	"github.com/aswinpillai2222/Ai-Capstone/internal/adapters/driven/storage/sqlite"
	"github.com/aswinpillai2222/Ai-Capstone/internal/adapters/driving/cli"
	"github.com/aswinpillai2222/Ai-Capstone/internal/connectors/arxiv"
	"github.com/aswinpillai2222/Ai-Capstone/internal/connectors/filesystem"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driving"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/services"
	"github.com/aswinpillai2222/Ai-Capstone/internal/logger"
	"github.com/aswinpillai2222/Ai-Capstone/internal/normalisers"
	"github.com/aswinpillai2222/Ai-Capstone/internal/normalisers/pdf"
	"github.com/aswinpillai2222/Ai-Capstone/internal/normalisers/plaintext"
	"github.com/aswinpillai2222/Ai-Capstone/internal/postprocessors"
)

var _ cli.Backend = (*backend)(nil)

// backend wires adapters into services. The index, the AI adapters and
// the prompt store are opened on first use and shared by later calls.
type backend struct {
	home     string
	settings *services.SettingsService

	mu      sync.Mutex
	store   *sqlite.Store
	ai      *ai.Services
	prompts *file.PromptStore
	closers []func() error
}

func newBackend(home string) (*backend, error) {
	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return &backend{
		home:     home,
		settings: services.NewSettingsService(configStore, ai.NewConfigValidator()),
	}, nil
}

// Close releases everything opened so far.
func (b *backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	if b.ai != nil {
		b.ai.Close()
	}
	if b.store != nil {
		errs = append(errs, b.store.Close())
	}
	return errors.Join(errs...)
}

func (b *backend) Settings() (driving.SettingsService, error) {
	return b.settings, nil
}

func (b *backend) Documents(_ context.Context) (driving.DocumentService, error) {
	settings, err := b.settings.Get()
	if err != nil {
		return nil, err
	}
	store, err := b.openStore(settings)
	if err != nil {
		return nil, err
	}
	return services.NewDocumentService(store.DocumentStore(), store.VectorIndex(), sourceResolver(settings.Source.Path)), nil
}

func (b *backend) Retriever(ctx context.Context) (driving.Retriever, error) {
	r, _, err := b.retriever(ctx)
	return r, err
}

func (b *backend) Answerer(ctx context.Context) (driving.Answerer, error) {
	r, settings, err := b.retriever(ctx)
	if err != nil {
		return nil, err
	}
	aiServices, err := b.openAI(ctx, settings)
	if err != nil {
		return nil, err
	}
	prompts, err := b.openPrompts()
	if err != nil {
		return nil, err
	}

	return services.NewAskService(
		r,
		services.NewPromptAssembler(prompts),
		aiServices.LLM,
		driven.GenerateOptions{
			MaxTokens:   settings.LLM.MaxTokens,
			Temperature: settings.LLM.Temperature,
		},
	), nil
}

func (b *backend) Ingestor(ctx context.Context, dir string) (driving.Ingestor, error) {
	settings, err := b.settings.Get()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = settings.Source.Path
	}

	if err := pdf.CheckAvailable(); err != nil {
		logger.Warn("%v\n%s", err, pdf.InstallInstructions())
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := postprocessors.Build(registry, b.settings.GetPipelineConfig())
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	store, err := b.openStore(settings)
	if err != nil {
		return nil, err
	}
	aiServices, err := b.openAI(ctx, settings)
	if err != nil {
		return nil, err
	}

	source := filesystem.New(dir, settings.Source.Include...)
	b.mu.Lock()
	b.closers = append(b.closers, source.Close)
	b.mu.Unlock()

	return services.NewIngestService(
		source,
		normalisers.NewRegistry(pdf.New(), plaintext.New()),
		pipeline,
		aiServices.Embedding,
		store.VectorIndex(),
		store.DocumentStore(),
		store.IngestRunStore(),
	), nil
}

func (b *backend) Fetcher(ctx context.Context, dir string) (driving.PaperFetcher, error) {
	if dir == "" {
		settings, err := b.settings.Get()
		if err != nil {
			return nil, err
		}
		dir = settings.Source.Path
	}

	downloader, err := arxiv.NewDownloader(ctx, arxiv.DefaultBucket)
	if err != nil {
		return nil, err
	}
	return services.NewFetchService(arxiv.NewClient(), downloader, arxiv.NewManifest(dir), dir), nil
}

func (b *backend) retriever(ctx context.Context) (*services.RetrieverService, *domain.AppSettings, error) {
	settings, err := b.settings.Get()
	if err != nil {
		return nil, nil, err
	}
	store, err := b.openStore(settings)
	if err != nil {
		return nil, nil, err
	}
	aiServices, err := b.openAI(ctx, settings)
	if err != nil {
		return nil, nil, err
	}

	r := services.NewRetrieverService(
		aiServices.Embedding,
		store.VectorIndex(),
		sourceResolver(settings.Source.Path),
		settings.Retrieval,
	)
	return r, settings, nil
}

func (b *backend) openStore(settings *domain.AppSettings) (*sqlite.Store, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.store != nil {
		return b.store, nil
	}

	dataDir := settings.Index.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(b.home, "data")
	}
	store, err := sqlite.NewStore(dataDir, sqlite.WithMetric(settings.Index.Metric))
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	logger.Debug("Index: %s", store.Path())
	b.store = store
	return store, nil
}

func (b *backend) openAI(ctx context.Context, settings *domain.AppSettings) (*ai.Services, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ai != nil {
		return b.ai, nil
	}

	svc, err := ai.Init(ctx, settings)
	if err != nil {
		return nil, err
	}
	for _, w := range svc.Warnings {
		logger.Warn("%s", w)
	}
	b.ai = svc
	return svc, nil
}

func (b *backend) openPrompts() (*file.PromptStore, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.prompts != nil {
		return b.prompts, nil
	}

	prompts, err := file.NewPromptStore(filepath.Join(b.home, "prompts"))
	if err != nil {
		return nil, err
	}
	b.prompts = prompts
	return prompts, nil
}

// sourceResolver cites papers fetched from arXiv by their arXiv link and
// any other document by its file path.
func sourceResolver(dir string) driven.SourceResolver {
	if _, err := os.Stat(filepath.Join(dir, arxiv.ManifestFile)); err == nil {
		return arxiv.Resolver{}
	}
	return filesystem.Resolver{Root: dir}
}

package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint. Empty means the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector size the model produces.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds generator configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty means the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// MaxTokens caps the generated answer length.
	MaxTokens int

	// Temperature is the sampling temperature.
	Temperature float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings controls how documents are split.
type ChunkingSettings struct {
	// Size is the maximum chunk length in characters.
	Size int

	// Overlap is the maximum shared tail between consecutive chunks.
	Overlap int
}

// Validate checks 0 <= Overlap < Size.
func (c ChunkingSettings) Validate() error {
	if c.Size <= 0 || c.Overlap < 0 || c.Overlap >= c.Size {
		return ErrInvalidChunkConfig
	}
	return nil
}

// RetrievalSettings controls the similarity search.
type RetrievalSettings struct {
	// MaxDistance drops hits farther than this from the query. Zero keeps
	// exact matches only.
	MaxDistance float64

	// K is the number of nearest neighbours requested from the index.
	K int
}

// IndexSettings controls the persistent vector index.
type IndexSettings struct {
	// Metric is the distance function used for search.
	Metric DistanceMetric

	// DataDir holds index.db. Empty means ~/.capstone/data.
	DataDir string
}

// SourceSettings describes the document source directory.
type SourceSettings struct {
	// Path is the directory holding documents.
	Path string

	// Include lists doublestar patterns relative to Path.
	Include []string
}

// ArxivSettings drives the paper fetcher.
type ArxivSettings struct {
	// Query is the arXiv search expression (e.g. "cat:cs.CL").
	Query string

	// StartDate and EndDate bound the submission date, inclusive.
	StartDate time.Time
	EndDate   time.Time

	// PageSize is the number of results per API request (max 300).
	PageSize int

	// MaxPapers caps the total number of papers fetched. Zero means no cap.
	MaxPapers int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Index     IndexSettings
	Source    SourceSettings
	Arxiv     ArxivSettings
}

// Default retrieval parameters.
const (
	DefaultChunkSize   = 1024
	DefaultOverlap     = 200
	DefaultMaxDistance = 1.2
	DefaultK           = 3
	ArxivMaxPageSize   = 300
)

// DefaultAppSettings returns settings that work with a local Ollama.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      "all-minilm",
			Dimensions: 384,
		},
		LLM: LLMSettings{
			Provider:    AIProviderOllama,
			Model:       "llama3.2",
			MaxTokens:   512,
			Temperature: 0.1,
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultOverlap,
		},
		Retrieval: RetrievalSettings{
			MaxDistance: DefaultMaxDistance,
			K:           DefaultK,
		},
		Index: IndexSettings{
			Metric: MetricL2,
		},
		Source: SourceSettings{
			Path:    "./pdfs",
			Include: []string{"**/*.pdf"},
		},
		Arxiv: ArxivSettings{
			Query:    "cat:cs.CL",
			PageSize: ArxivMaxPageSize,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// New processors can be added without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns a pipeline that only chunks.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": DefaultChunkSize,
				"overlap":    DefaultOverlap,
			},
		},
	}
}

// PipelineConfigFor builds the pipeline config from chunk settings.
func PipelineConfigFor(processors []string, chunking ChunkingSettings) PipelineConfig {
	cfg := DefaultPipelineConfig()
	if len(processors) > 0 {
		cfg.Processors = processors
	}
	cfg.ProcessorConfigs["chunker"] = map[string]any{
		"chunk_size": chunking.Size,
		"overlap":    chunking.Overlap,
	}
	return cfg
}

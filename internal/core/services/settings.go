package services

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedDimensions  = "embedding.dimensions"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyLLMMaxTokens     = "llm.max_tokens"
	keyLLMTemperature   = "llm.temperature"
	keyChunkSize        = "chunking.size"
	keyChunkOverlap     = "chunking.overlap"
	keyMaxDistance      = "retrieval.max_distance"
	keyTopK             = "retrieval.k"
	keyIndexMetric      = "index.metric"
	keyIndexDataDir     = "index.data_dir"
	keySourcePath       = "source.path"
	keySourceInclude    = "source.include"
	keyArxivQuery       = "arxiv.query"
	keyArxivStart       = "arxiv.start_date"
	keyArxivEnd         = "arxiv.end_date"
	keyArxivPageSize    = "arxiv.page_size"
	keyArxivMaxPapers   = "arxiv.max_papers"
	keyPipeline         = "pipeline.processors"
	keyProviderAPIKeyNS = "api_keys."
)

// DateLayout is the format of arxiv.start_date and arxiv.end_date.
const DateLayout = "2006-01-02"

// apiKeyEnv names the environment variable consulted when no key is stored.
var apiKeyEnv = map[domain.AIProvider]string{
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings. Unset keys take their
// default; empty API keys fall back to the provider key and then the
// environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:      s.getString(keyEmbedModel, ""),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.getInt(keyEmbedDimensions, 0),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:       s.getString(keyLLMModel, ""),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			MaxTokens:   s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
			Temperature: s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap: s.getInt(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			MaxDistance: s.getFloat(keyMaxDistance, defaults.Retrieval.MaxDistance),
			K:           s.getInt(keyTopK, defaults.Retrieval.K),
		},
		Index: domain.IndexSettings{
			Metric:  s.getMetric(defaults.Index.Metric),
			DataDir: s.configStore.GetString(keyIndexDataDir),
		},
		Source: domain.SourceSettings{
			Path:    s.getString(keySourcePath, defaults.Source.Path),
			Include: s.getStringSlice(keySourceInclude, defaults.Source.Include),
		},
		Arxiv: domain.ArxivSettings{
			Query:     s.getString(keyArxivQuery, defaults.Arxiv.Query),
			StartDate: s.getDate(keyArxivStart),
			EndDate:   s.getDate(keyArxivEnd),
			PageSize:  s.getInt(keyArxivPageSize, defaults.Arxiv.PageSize),
			MaxPapers: s.getInt(keyArxivMaxPapers, defaults.Arxiv.MaxPapers),
		},
	}

	// Model defaults follow the provider, not the default provider.
	if settings.Embedding.Model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}
	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}
	if settings.Embedding.Dimensions == 0 {
		settings.Embedding.Dimensions = domain.EmbeddingDimensions()[settings.Embedding.Model]
	}
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.providerAPIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.providerAPIKey(settings.LLM.Provider)
	}

	return settings, nil
}

// Save persists application settings. API keys are only written when set.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDimensions, settings.Embedding.Dimensions},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMMaxTokens, settings.LLM.MaxTokens},
		{keyLLMTemperature, settings.LLM.Temperature},
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyMaxDistance, settings.Retrieval.MaxDistance},
		{keyTopK, settings.Retrieval.K},
		{keyIndexMetric, settings.Index.Metric.String()},
		{keyIndexDataDir, settings.Index.DataDir},
		{keySourcePath, settings.Source.Path},
		{keySourceInclude, settings.Source.Include},
		{keyArxivQuery, settings.Arxiv.Query},
		{keyArxivStart, formatDate(settings.Arxiv.StartDate)},
		{keyArxivEnd, formatDate(settings.Arxiv.EndDate)},
		{keyArxivPageSize, settings.Arxiv.PageSize},
		{keyArxivMaxPapers, settings.Arxiv.MaxPapers},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return s.configStore.Save()
}

// Set parses value for key, stores it and saves the config file.
//
//nolint:gocyclo // One case per settings key
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var stored any
	switch key {
	case keyEmbedProvider:
		p := domain.AIProvider(value)
		if !slices.Contains(domain.AllEmbeddingProviders(), p) {
			return fmt.Errorf("%w: provider %q does not support embeddings", domain.ErrInvalidInput, value)
		}
		stored = value

	case keyLLMProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, value)
		}
		stored = value

	case keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey,
		keyLLMModel, keyLLMBaseURL, keyLLMAPIKey,
		keyIndexDataDir, keySourcePath, keyArxivQuery:
		stored = value

	case keyEmbedDimensions, keyLLMMaxTokens, keyArxivMaxPapers:
		n, err := parseInt(key, value, 0)
		if err != nil {
			return err
		}
		stored = n

	case keyTopK:
		n, err := parseInt(key, value, 1)
		if err != nil {
			return err
		}
		stored = n

	case keyArxivPageSize:
		n, err := parseInt(key, value, 1)
		if err != nil {
			return err
		}
		if n > domain.ArxivMaxPageSize {
			return fmt.Errorf("%w: %s must be at most %d", domain.ErrInvalidInput, key, domain.ArxivMaxPageSize)
		}
		stored = n

	case keyChunkSize, keyChunkOverlap:
		n, err := parseInt(key, value, 0)
		if err != nil {
			return err
		}
		current, _ := s.Get()
		chunking := current.Chunking
		if key == keyChunkSize {
			chunking.Size = n
		} else {
			chunking.Overlap = n
		}
		if err := chunking.Validate(); err != nil {
			return fmt.Errorf("%w: size %d, overlap %d", err, chunking.Size, chunking.Overlap)
		}
		stored = n

	case keyMaxDistance, keyLLMTemperature:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		stored = f

	case keyIndexMetric:
		if !domain.DistanceMetric(value).IsValid() {
			return fmt.Errorf("%w: metric must be l2 or cosine", domain.ErrInvalidInput)
		}
		stored = value

	case keyArxivStart, keyArxivEnd:
		if value != "" {
			if _, err := time.Parse(DateLayout, value); err != nil {
				return fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrInvalidInput, key)
			}
		}
		stored = value

	case keySourceInclude, keyPipeline:
		stored = splitList(value)

	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return s.configStore.Save()
}

// Keys lists the settings accepted by Set.
func (s *SettingsService) Keys() []string {
	return []string{
		keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey, keyEmbedDimensions,
		keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey, keyLLMMaxTokens, keyLLMTemperature,
		keyChunkSize, keyChunkOverlap,
		keyMaxDistance, keyTopK,
		keyIndexMetric, keyIndexDataDir,
		keySourcePath, keySourceInclude,
		keyArxivQuery, keyArxivStart, keyArxivEnd, keyArxivPageSize, keyArxivMaxPapers,
		keyPipeline,
	}
}

// SetAPIKey stores the key of a cloud provider. Sections using that
// provider pick it up unless they carry their own api_key.
func (s *SettingsService) SetAPIKey(provider domain.AIProvider, apiKey string) error {
	if !provider.RequiresAPIKey() {
		return fmt.Errorf("%w: %s does not use an API key", domain.ErrInvalidInput, provider)
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("%w: empty API key", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(keyProviderAPIKeyNS+provider.String(), apiKey); err != nil {
		return fmt.Errorf("save api key: %w", err)
	}
	return s.configStore.Save()
}

// Validate checks the current settings for consistency.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if err := settings.Chunking.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("chunking: %w", err))
	}
	if settings.Retrieval.K < 1 {
		errs = append(errs, fmt.Errorf("%w: retrieval.k must be positive", domain.ErrInvalidInput))
	}
	if settings.Retrieval.MaxDistance < 0 {
		errs = append(errs, fmt.Errorf("%w: retrieval.max_distance must not be negative", domain.ErrInvalidInput))
	}
	if !settings.Index.Metric.IsValid() {
		errs = append(errs, fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidInput, settings.Index.Metric))
	}
	if !settings.Embedding.IsConfigured() {
		errs = append(errs, fmt.Errorf("%w: embedding provider %q is not configured",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider))
	}
	if !settings.Arxiv.StartDate.IsZero() && !settings.Arxiv.EndDate.IsZero() &&
		settings.Arxiv.EndDate.Before(settings.Arxiv.StartDate) {
		errs = append(errs, fmt.Errorf("%w: arxiv.end_date is before arxiv.start_date", domain.ErrInvalidInput))
	}
	return errors.Join(errs...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// GetPipelineConfig returns the post-processor pipeline configuration.
// The chunker always takes its size and overlap from the chunking section.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	settings, _ := s.Get()
	cfg := domain.PipelineConfigFor(s.configStore.GetStringSlice(keyPipeline), settings.Chunking)

	for _, name := range cfg.Processors {
		if name == "chunker" {
			continue
		}
		extra := s.loadProcessorConfig("pipeline." + name + ".")
		if len(extra) == 0 {
			continue
		}
		existing := cfg.ProcessorConfigs[name]
		if existing == nil {
			existing = make(map[string]any)
		}
		for k, v := range extra {
			existing[k] = v
		}
		cfg.ProcessorConfigs[name] = existing
	}
	return cfg
}

// loadProcessorConfig loads config keys with a given prefix into a map.
func (s *SettingsService) loadProcessorConfig(prefix string) map[string]any {
	cfg := make(map[string]any)
	for _, key := range []string{"min_position"} {
		if val, exists := s.configStore.Get(prefix + key); exists {
			cfg[key] = val
		}
	}
	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) providerAPIKey(p domain.AIProvider) string {
	if !p.RequiresAPIKey() {
		return ""
	}
	if key := s.configStore.GetString(keyProviderAPIKeyNS + p.String()); key != "" {
		return key
	}
	if env, ok := apiKeyEnv[p]; ok && s.lookupEnv != nil {
		if key, ok := s.lookupEnv(env); ok {
			return strings.TrimSpace(key)
		}
	}
	return ""
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if val := s.configStore.GetStringSlice(key); len(val) > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getDate(key string) time.Time {
	val := s.configStore.GetString(key)
	if val == "" {
		return time.Time{}
	}
	t, err := time.Parse(DateLayout, val)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getMetric(defaultVal domain.DistanceMetric) domain.DistanceMetric {
	metric := domain.DistanceMetric(s.configStore.GetString(keyIndexMetric))
	if !metric.IsValid() {
		return defaultVal
	}
	return metric
}

func parseInt(key, value string, minVal int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < minVal {
		return 0, fmt.Errorf("%w: %s must be an integer >= %d", domain.ErrInvalidInput, key, minVal)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

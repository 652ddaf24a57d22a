// Package ai builds embedding and LLM adapters from settings.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/aswinpillai2222/Ai-Capstone/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/aswinpillai2222/Ai-Capstone/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/aswinpillai2222/Ai-Capstone/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/aswinpillai2222/Ai-Capstone/internal/adapters/driven/llm/ollama"
	openaillm "github.com/aswinpillai2222/Ai-Capstone/internal/adapters/driven/llm/openai"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
)

// pingTimeout bounds connectivity checks.
const pingTimeout = 5 * time.Second

// Services holds the AI adapters the application runs with.
type Services struct {
	Embedding driven.EmbeddingService
	LLM       driven.LLMService

	// Warnings lists non-fatal problems, such as an unreachable LLM.
	Warnings []string
}

// Close releases all adapters.
func (s *Services) Close() {
	if s.Embedding != nil {
		_ = s.Embedding.Close()
	}
	if s.LLM != nil {
		_ = s.LLM.Close()
	}
}

// Init creates the embedding and LLM services from settings. The embedding
// service is required; an LLM problem only adds a warning so that retrieval
// keeps working.
func Init(ctx context.Context, settings *domain.AppSettings) (*Services, error) {
	emb, err := CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return nil, err
	}
	if emb == nil {
		return nil, fmt.Errorf("%w: embedding provider %q is not configured",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}

	out := &Services{Embedding: emb}
	llm, err := CreateAndValidateLLMService(ctx, &settings.LLM)
	switch {
	case err != nil:
		out.Warnings = append(out.Warnings, err.Error())
	case llm == nil:
		out.Warnings = append(out.Warnings, "no LLM configured; answers are unavailable")
	default:
		out.LLM = llm
	}
	return out, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and pings it.
func CreateAndValidateEmbeddingService(
	ctx context.Context, settings *domain.EmbeddingSettings,
) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'capstone settings set embedding.provider ...' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	if err := ping(ctx, svc.Ping); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and pings it.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	if err := ping(ctx, svc.Ping); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// ValidateEmbeddingConfig builds a throwaway service and pings it.
func ValidateEmbeddingConfig(ctx context.Context, settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(ctx, svc.Ping)
}

// ValidateLLMConfig builds a throwaway service and pings it.
func ValidateLLMConfig(ctx context.Context, settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(settings)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(ctx, svc.Ping)
}

// CreateEmbeddingService returns nil when the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, nil
	}
	if settings.Provider == domain.AIProviderAnthropic {
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")
	}
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: embeddingDimensions(settings, ollamaembed.DefaultDimensions),
		}), nil
	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: embeddingDimensions(settings, 0),
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService returns nil when the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil
	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// embeddingDimensions prefers the explicit setting, then the known model
// table, then fallback.
func embeddingDimensions(settings *domain.EmbeddingSettings, fallback int) int {
	if settings.Dimensions > 0 {
		return settings.Dimensions
	}
	if d := domain.EmbeddingDimensions()[settings.Model]; d > 0 {
		return d
	}
	return fallback
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}

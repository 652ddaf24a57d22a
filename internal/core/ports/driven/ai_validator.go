package driven

import "github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"

// AIConfigValidator validates AI provider configurations by testing
// connectivity to the underlying services.
type AIConfigValidator interface {
	// ValidateEmbedding returns nil if the configuration is valid.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM returns nil if the configuration is valid or not configured.
	ValidateLLM(config *domain.LLMSettings) error
}

package driving

import "github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single dot-separated key after validating the value.
	Set(key, value string) error

	// Keys lists the keys accepted by Set.
	Keys() []string

	// SetAPIKey stores the API key of a provider.
	SetAPIKey(provider domain.AIProvider, apiKey string) error

	// Validate checks the current settings for consistency.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig pings the configured LLM provider.
	ValidateLLMConfig() error
}

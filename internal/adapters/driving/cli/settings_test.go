package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.input))
		})
	}
}

func TestSettingsShowCmd(t *testing.T) {
	settings := newMockSettings()
	settings.settings.Embedding = domain.EmbeddingSettings{
		Provider:   domain.AIProviderOpenAI,
		Model:      "text-embedding-3-small",
		APIKey:     "sk-1234567890abcdef",
		Dimensions: 1536,
	}
	settings.settings.Arxiv.StartDate = date("2025-01-01")

	for _, args := range [][]string{{"settings"}, {"settings", "show"}} {
		out, err := run(t, &mockBackend{settings: settings}, nil, args...)
		require.NoError(t, err)

		assert.Contains(t, out, "OpenAI (cloud)")
		assert.Contains(t, out, "API Key: sk-1...cdef")
		assert.NotContains(t, out, "sk-1234567890abcdef")
		assert.Contains(t, out, "Size: 1024")
		assert.Contains(t, out, "Max distance: 1.2")
		assert.Contains(t, out, "Dates: 2025-01-01 to *")
		assert.Contains(t, out, "Configuration is valid.")
	}
}

func TestSettingsShowCmd_InvalidConfig(t *testing.T) {
	settings := newMockSettings()
	settings.validateErr = domain.ErrInvalidChunkConfig

	out, err := run(t, &mockBackend{settings: settings}, nil, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
}

func TestSettingsSetCmd(t *testing.T) {
	settings := newMockSettings()

	out, err := run(t, &mockBackend{settings: settings}, nil, "settings", "set", "chunking.size", "800")
	require.NoError(t, err)
	assert.Equal(t, "800", settings.set["chunking.size"])
	assert.Contains(t, out, "chunking.size = 800")

	out, err = run(t, &mockBackend{settings: settings}, nil, "settings", "set", "llm.api_key", "sk-abcdefghijklmnop")
	require.NoError(t, err)
	assert.Contains(t, out, "llm.api_key = sk-a...mnop")
}

func TestSettingsSetCmd_Rejected(t *testing.T) {
	settings := newMockSettings()
	settings.setErr = domain.ErrInvalidChunkConfig

	_, err := run(t, &mockBackend{settings: settings}, nil, "settings", "set", "chunking.overlap", "5000")
	assert.ErrorIs(t, err, domain.ErrInvalidChunkConfig)
}

func TestSettingsKeysCmd(t *testing.T) {
	out, err := run(t, &mockBackend{settings: newMockSettings()}, nil, "settings", "keys")
	require.NoError(t, err)
	assert.Equal(t, "chunking.size\nretrieval.k\n", out)
}

func TestSettingsSetKeyCmd(t *testing.T) {
	settings := newMockSettings()

	out, err := run(t, &mockBackend{settings: settings}, strings.NewReader("sk-abcdefghijklmnop\n"), "settings", "set-key", "openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-abcdefghijklmnop", settings.apiKeys[domain.AIProviderOpenAI])
	assert.NotContains(t, out, "sk-abcdefghijklmnop")
}

func TestSettingsSetKeyCmd_Errors(t *testing.T) {
	_, err := run(t, &mockBackend{settings: newMockSettings()}, strings.NewReader("key\n"), "settings", "set-key", "ollama")
	assert.Error(t, err)

	_, err = run(t, &mockBackend{settings: newMockSettings()}, strings.NewReader("\n"), "settings", "set-key", "anthropic")
	assert.Error(t, err)
}

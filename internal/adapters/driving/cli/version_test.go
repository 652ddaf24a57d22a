package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aswinpillai2222/Ai-Capstone/internal/logger"
)

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := run(t, &mockBackend{}, nil, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "capstone version test-version-1.0.0")
}

func TestVersionCmd_NeedsNoBackend(t *testing.T) {
	out, err := run(t, &mockBackend{}, nil, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "capstone version")
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := NewRootCmd(&mockBackend{})
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"ingest", "watch", "fetch", "retrieve", "ask", "documents", "settings", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_LogLevelFlags(t *testing.T) {
	t.Cleanup(func() { logger.SetLevel(logger.LevelInfo) })

	_, err := run(t, &mockBackend{}, nil, "--verbose", "version")
	require.NoError(t, err)
	assert.Equal(t, logger.LevelDebug, logger.GetLevel())

	_, err = run(t, &mockBackend{}, nil, "--quiet", "version")
	require.NoError(t, err)
	assert.Equal(t, logger.LevelQuiet, logger.GetLevel())

	_, err = run(t, &mockBackend{}, nil, "--quiet", "--verbose", "version")
	assert.Error(t, err)
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	_, err := run(t, &mockBackend{}, nil, "search", "foo")
	assert.Error(t, err)
}

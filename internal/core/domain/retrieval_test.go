package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetrievalOutcome_IsEmpty(t *testing.T) {
	var nilOutcome *RetrievalOutcome
	assert.True(t, nilOutcome.IsEmpty())
	assert.True(t, (&RetrievalOutcome{}).IsEmpty())
	assert.False(t, (&RetrievalOutcome{Chunks: []string{"x"}}).IsEmpty())
}

func TestIngestRun_Duration(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Zero(t, IngestRun{StartedAt: start}.Duration())
	assert.Equal(t, 90*time.Second, IngestRun{StartedAt: start, FinishedAt: start.Add(90 * time.Second)}.Duration())
}

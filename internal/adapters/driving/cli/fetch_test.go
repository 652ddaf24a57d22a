package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

func TestFetchCmd_UsesSettings(t *testing.T) {
	settings := newMockSettings()
	settings.settings.Arxiv = domain.ArxivSettings{
		Query:     "cat:cs.IR",
		StartDate: date("2025-01-01"),
		EndDate:   date("2025-01-31"),
		PageSize:  100,
		MaxPapers: 10,
	}
	fetcher := &mockFetcher{report: &domain.FetchReport{Found: 3, Downloaded: 2, Skipped: 1}}
	backend := &mockBackend{settings: settings, fetcher: fetcher}

	out, err := run(t, backend, nil, "fetch")
	require.NoError(t, err)

	assert.Equal(t, domain.PaperQuery{
		Query:     "cat:cs.IR",
		StartDate: date("2025-01-01"),
		EndDate:   date("2025-01-31"),
		PageSize:  100,
		MaxPapers: 10,
	}, fetcher.query)
	assert.Empty(t, backend.fetchDir)
	assert.Contains(t, out, "Found 3 papers: 2 downloaded, 1 already present")
	assert.NotContains(t, out, "Failed")
}

func TestFetchCmd_FlagsOverride(t *testing.T) {
	fetcher := &mockFetcher{report: &domain.FetchReport{Found: 1, Failed: 1}}
	backend := &mockBackend{settings: newMockSettings(), fetcher: fetcher}

	out, err := run(t, backend, nil, "fetch",
		"--query", "all:retrieval",
		"--from", "2024-12-01",
		"--to", "2024-12-02",
		"--max", "5",
		"--page-size", "50",
		"--dir", "/tmp/pdfs",
	)
	require.NoError(t, err)

	assert.Equal(t, "all:retrieval", fetcher.query.Query)
	assert.Equal(t, date("2024-12-01"), fetcher.query.StartDate)
	assert.Equal(t, date("2024-12-02"), fetcher.query.EndDate)
	assert.Equal(t, 5, fetcher.query.MaxPapers)
	assert.Equal(t, 50, fetcher.query.PageSize)
	assert.Equal(t, "/tmp/pdfs", backend.fetchDir)
	assert.Contains(t, out, "Failed: 1")
}

func TestFetchCmd_ReportsPartialRunOnError(t *testing.T) {
	fetcher := &mockFetcher{
		report: &domain.FetchReport{Found: 4, Downloaded: 1},
		err:    domain.ErrRateLimited,
	}

	out, err := run(t, &mockBackend{settings: newMockSettings(), fetcher: fetcher}, nil, "fetch")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Contains(t, out, "Found 4 papers: 1 downloaded")
}

func TestBuildPaperQuery_Errors(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.ArxivSettings
		opts     fetchOptions
		wantErr  string
	}{
		{
			name:    "no query",
			opts:    fetchOptions{},
			wantErr: "no arXiv query",
		},
		{
			name:     "bad from",
			settings: domain.ArxivSettings{Query: "q"},
			opts:     fetchOptions{from: "01/02/2025"},
			wantErr:  "invalid --from",
		},
		{
			name:     "bad to",
			settings: domain.ArxivSettings{Query: "q"},
			opts:     fetchOptions{to: "yesterday"},
			wantErr:  "invalid --to",
		},
		{
			name:     "reversed range",
			settings: domain.ArxivSettings{Query: "q"},
			opts:     fetchOptions{from: "2025-02-01", to: "2025-01-01"},
			wantErr:  "before",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildPaperQuery(tt.settings, &tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFetchCmd_InvalidFlagsSkipFetcher(t *testing.T) {
	backend := &mockBackend{settings: newMockSettings(), fetcher: &mockFetcher{}}

	_, err := run(t, backend, nil, "fetch", "--from", "not-a-date")
	assert.Error(t, err)
	assert.Empty(t, backend.fetcher.query.Query)
}

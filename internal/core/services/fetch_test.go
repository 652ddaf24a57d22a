package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

func TestFetchService_Fetch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pdfs")
	catalogue := &fakeCatalogue{papers: []domain.Paper{
		{ID: "2501.00001v1", Title: "One"},
		{ID: "2501.00002v1", Title: "Two"},
		{ID: "2501.00003v1", Title: "Missing"},
	}}
	downloader := &fakeDownloader{files: map[string]string{
		"2501.00001v1": "%PDF one",
		"2501.00002v1": "%PDF two",
	}}
	manifest := &fakeManifest{}
	svc := NewFetchService(catalogue, downloader, manifest, dir)

	q := domain.PaperQuery{Query: "cat:cs.CL", MaxPapers: 3}
	report, err := svc.Fetch(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, q, catalogue.query)
	assert.Equal(t, &domain.FetchReport{Found: 3, Downloaded: 2, Failed: 1}, report)

	data, err := os.ReadFile(filepath.Join(dir, "2501.00001v1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF one", string(data))
	assert.NoFileExists(t, filepath.Join(dir, "2501.00003v1.pdf"))

	require.Len(t, manifest.papers, 2)
	assert.Equal(t, "2501.00001v1.pdf", manifest.papers[0].File)
	assert.Equal(t, "2501.00002v1", manifest.papers[1].ID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files left behind")
}

func TestFetchService_SkipsExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2501.00001v1.pdf"), []byte("%PDF cached"), 0644))

	downloader := &fakeDownloader{files: map[string]string{"2501.00001v1": "%PDF fresh"}}
	svc := NewFetchService(
		&fakeCatalogue{papers: []domain.Paper{{ID: "2501.00001v1"}}},
		downloader,
		&fakeManifest{},
		dir,
	)

	report, err := svc.Fetch(context.Background(), domain.PaperQuery{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Downloaded)
	assert.Empty(t, downloader.calls)

	data, err := os.ReadFile(filepath.Join(dir, "2501.00001v1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF cached", string(data))
}

func TestFetchService_MergesManifest(t *testing.T) {
	manifest := &fakeManifest{papers: []domain.Paper{
		{ID: "2412.00009v1", Title: "Earlier", File: "2412.00009v1.pdf"},
		{ID: "2501.00001v1", Title: "Stale title", File: "2501.00001v1.pdf"},
	}}
	svc := NewFetchService(
		&fakeCatalogue{papers: []domain.Paper{{ID: "2501.00001v1", Title: "Fresh title"}}},
		&fakeDownloader{files: map[string]string{"2501.00001v1": "%PDF"}},
		manifest,
		t.TempDir(),
	)

	_, err := svc.Fetch(context.Background(), domain.PaperQuery{Query: "q"})
	require.NoError(t, err)

	require.Len(t, manifest.papers, 2)
	assert.Equal(t, "Earlier", manifest.papers[0].Title)
	assert.Equal(t, "Fresh title", manifest.papers[1].Title)
}

func TestFetchService_UnreadableManifestIsReplaced(t *testing.T) {
	manifest := &fakeManifest{loadErr: errBoom}
	svc := NewFetchService(
		&fakeCatalogue{papers: []domain.Paper{{ID: "2501.00001v1"}}},
		&fakeDownloader{files: map[string]string{"2501.00001v1": "%PDF"}},
		manifest,
		t.TempDir(),
	)

	_, err := svc.Fetch(context.Background(), domain.PaperQuery{Query: "q"})
	require.NoError(t, err)
	assert.Len(t, manifest.papers, 1)
}

func TestFetchService_SearchErrors(t *testing.T) {
	t.Run("nothing found", func(t *testing.T) {
		svc := NewFetchService(&fakeCatalogue{err: domain.ErrRateLimited}, &fakeDownloader{}, &fakeManifest{}, t.TempDir())
		_, err := svc.Fetch(context.Background(), domain.PaperQuery{Query: "q"})
		assert.ErrorIs(t, err, domain.ErrRateLimited)
	})

	t.Run("partial results are still downloaded", func(t *testing.T) {
		manifest := &fakeManifest{}
		svc := NewFetchService(
			&fakeCatalogue{papers: []domain.Paper{{ID: "2501.00001v1"}}, err: domain.ErrRateLimited},
			&fakeDownloader{files: map[string]string{"2501.00001v1": "%PDF"}},
			manifest,
			t.TempDir(),
		)
		report, err := svc.Fetch(context.Background(), domain.PaperQuery{Query: "q"})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Downloaded)
		assert.Len(t, manifest.papers, 1)
	})
}

func TestFetchService_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	manifest := &fakeManifest{}
	downloader := &fakeDownloader{files: map[string]string{"2501.00001v1": "%PDF"}}
	svc := NewFetchService(&fakeCatalogue{papers: []domain.Paper{{ID: "2501.00001v1"}}}, downloader, manifest, t.TempDir())

	report, err := svc.Fetch(ctx, domain.PaperQuery{Query: "q"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Downloaded)
	assert.Empty(t, downloader.calls)
	assert.Equal(t, 1, manifest.saves)
}

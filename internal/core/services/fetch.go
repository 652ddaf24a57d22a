package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driving"
	"github.com/aswinpillai2222/Ai-Capstone/internal/logger"
)

// Ensure FetchService implements the interface.
var _ driving.PaperFetcher = (*FetchService)(nil)

// FetchService downloads papers into the source directory and records
// their metadata in the manifest.
type FetchService struct {
	catalogue  driven.PaperCatalogue
	downloader driven.PaperDownloader
	manifest   driven.PaperManifest
	dir        string
}

// NewFetchService creates a fetch service writing PDFs into dir.
func NewFetchService(
	catalogue driven.PaperCatalogue,
	downloader driven.PaperDownloader,
	manifest driven.PaperManifest,
	dir string,
) *FetchService {
	return &FetchService{
		catalogue:  catalogue,
		downloader: downloader,
		manifest:   manifest,
		dir:        dir,
	}
}

// Fetch searches the catalogue and downloads every paper not already on
// disk. A failed download is logged and counted. The manifest keeps the
// papers of earlier runs and is written even when ctx is cancelled.
func (s *FetchService) Fetch(ctx context.Context, q domain.PaperQuery) (*domain.FetchReport, error) {
	logger.Section("Fetch")

	papers, err := s.catalogue.Search(ctx, q)
	if err != nil && len(papers) == 0 {
		return nil, fmt.Errorf("search papers: %w", err)
	}
	if err != nil {
		logger.Warn("Search stopped early after %d papers: %v", len(papers), err)
	}

	report := &domain.FetchReport{Found: len(papers)}
	logger.Info("Found %d papers", len(papers))

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return report, fmt.Errorf("create %s: %w", s.dir, err)
	}

	var fetched []domain.Paper
	var ctxErr error
	for i, paper := range papers {
		if ctxErr = ctx.Err(); ctxErr != nil {
			break
		}

		paper.File = paper.ID + ".pdf"
		path := filepath.Join(s.dir, paper.File)
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			logger.Debug("[%d/%d] %s already downloaded", i+1, len(papers), paper.ID)
			report.Skipped++
			fetched = append(fetched, paper)
			continue
		}

		logger.Info("[%d/%d] Downloading %s", i+1, len(papers), paper.ID)
		if err := s.download(ctx, paper, path); err != nil {
			report.Failed++
			logger.Warn("Failed to download %s: %v", paper.ID, err)
			continue
		}
		report.Downloaded++
		fetched = append(fetched, paper)
	}

	if err := s.writeManifest(fetched); err != nil {
		return report, err
	}

	logger.Info("Fetch complete: %d downloaded, %d skipped, %d failed",
		report.Downloaded, report.Skipped, report.Failed)
	return report, ctxErr
}

// download writes the PDF to a temporary file and renames it into place
// so an interrupted download never looks complete.
func (s *FetchService) download(ctx context.Context, paper domain.Paper, path string) (err error) {
	body, err := s.downloader.Download(ctx, paper)
	if err != nil {
		return err
	}
	defer body.Close()

	tmp, err := os.CreateTemp(s.dir, ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", paper.File, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", paper.File, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", paper.File, err)
	}
	return nil
}

// writeManifest merges fetched papers into the existing manifest; newer
// metadata replaces older entries with the same ID.
func (s *FetchService) writeManifest(fetched []domain.Paper) error {
	existing, err := s.manifest.Load()
	if err != nil {
		logger.Warn("Ignoring unreadable manifest: %v", err)
		existing = nil
	}

	index := make(map[string]int, len(existing))
	merged := append([]domain.Paper(nil), existing...)
	for i, p := range merged {
		index[p.ID] = i
	}
	for _, p := range fetched {
		if i, ok := index[p.ID]; ok {
			merged[i] = p
			continue
		}
		index[p.ID] = len(merged)
		merged = append(merged, p)
	}

	if err := s.manifest.Save(merged); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}

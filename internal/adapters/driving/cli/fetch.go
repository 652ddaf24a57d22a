package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

// dateLayout is the format of --from and --to.
const dateLayout = "2006-01-02"

type fetchOptions struct {
	query     string
	from      string
	to        string
	maxPapers int
	pageSize  int
	dir       string
}

func newFetchCmd(backend Backend) *cobra.Command {
	opts := &fetchOptions{}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download arXiv papers into the source directory",
		Long: `Searches the arXiv API and downloads the PDF of every match from the
public arXiv bucket. Papers already on disk are skipped. Paper metadata
is kept in _arxiv_papers.yaml next to the PDFs.

Flags override the arxiv.* settings.`,
		Example: `  capstone fetch --query "cat:cs.CL" --from 2025-01-01 --to 2025-01-07
  capstone fetch --query "all:retrieval" --max 20 --dir ./pdfs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd, backend, opts)
		},
	}

	cmd.Flags().StringVar(&opts.query, "query", "", "arXiv search expression")
	cmd.Flags().StringVar(&opts.from, "from", "", "earliest submission date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.to, "to", "", "latest submission date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.maxPapers, "max", 0, "maximum number of papers (0 = arxiv.max_papers)")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "results per API request (0 = arxiv.page_size)")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "download directory (default source.path)")
	return cmd
}

func runFetch(cmd *cobra.Command, backend Backend, opts *fetchOptions) error {
	settingsService, err := backend.Settings()
	if err != nil {
		return err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	q, err := buildPaperQuery(settings.Arxiv, opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	fetcher, err := backend.Fetcher(ctx, opts.dir)
	if err != nil {
		return err
	}

	report, err := fetcher.Fetch(ctx, q)
	if report != nil {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Found %d papers: %d downloaded, %d already present\n",
			report.Found, report.Downloaded, report.Skipped)
		if report.Failed > 0 {
			fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("  Failed: %d", report.Failed)))
		}
	}
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	return nil
}

// buildPaperQuery applies the flags on top of the arxiv settings.
func buildPaperQuery(s domain.ArxivSettings, opts *fetchOptions) (domain.PaperQuery, error) {
	q := domain.PaperQuery{
		Query:     s.Query,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		PageSize:  s.PageSize,
		MaxPapers: s.MaxPapers,
	}

	if opts.query != "" {
		q.Query = opts.query
	}
	if opts.from != "" {
		t, err := time.Parse(dateLayout, opts.from)
		if err != nil {
			return q, fmt.Errorf("invalid --from date %q: expected YYYY-MM-DD", opts.from)
		}
		q.StartDate = t
	}
	if opts.to != "" {
		t, err := time.Parse(dateLayout, opts.to)
		if err != nil {
			return q, fmt.Errorf("invalid --to date %q: expected YYYY-MM-DD", opts.to)
		}
		q.EndDate = t
	}
	if opts.maxPapers > 0 {
		q.MaxPapers = opts.maxPapers
	}
	if opts.pageSize > 0 {
		q.PageSize = opts.pageSize
	}

	if q.Query == "" {
		return q, errors.New("no arXiv query: pass --query or run 'capstone settings set arxiv.query <expr>'")
	}
	if !q.StartDate.IsZero() && !q.EndDate.IsZero() && q.EndDate.Before(q.StartDate) {
		return q, errors.New("--to is before --from")
	}
	return q, nil
}

// Package cli implements the capstone command line.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driving"
	"github.com/aswinpillai2222/Ai-Capstone/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// Backend builds the driving ports on first use, so commands that only
// touch settings run without a reachable embedding provider.
type Backend interface {
	Settings() (driving.SettingsService, error)
	Documents(ctx context.Context) (driving.DocumentService, error)
	Retriever(ctx context.Context) (driving.Retriever, error)
	Answerer(ctx context.Context) (driving.Answerer, error)

	// Ingestor and Fetcher use the configured source directory when dir
	// is empty.
	Ingestor(ctx context.Context, dir string) (driving.Ingestor, error)
	Fetcher(ctx context.Context, dir string) (driving.PaperFetcher, error)
}

type rootOptions struct {
	verbose bool
	quiet   bool
}

// NewRootCmd returns the capstone command tree.
func NewRootCmd(backend Backend) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "capstone",
		Short: "Ask questions about a folder of research papers",
		Long: `Capstone indexes a directory of PDFs into a local vector index and
answers questions from the passages closest to the question.

Typical flow:
  capstone fetch --query "cat:cs.CL" --from 2025-01-01 --to 2025-01-31
  capstone ingest
  capstone ask "What is retrieval augmented generation?"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			switch {
			case opts.verbose:
				logger.SetLevel(logger.LevelDebug)
			case opts.quiet:
				logger.SetLevel(logger.LevelQuiet)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "show pipeline steps")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print errors")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		newIngestCmd(backend),
		newWatchCmd(backend),
		newFetchCmd(backend),
		newRetrieveCmd(backend),
		newAskCmd(backend),
		newDocumentCmd(backend),
		newSettingsCmd(backend),
		newMCPCmd(backend),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, backend Backend) error {
	return NewRootCmd(backend).ExecuteContext(ctx)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

func newIngestCmd(backend Backend) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [dir]",
		Short: "Index the papers in a directory",
		Long: `Extracts the text of every matching file, splits it into overlapping
chunks, embeds the chunks and writes them to the vector index.

Re-ingesting replaces a document's chunks. Documents whose files are gone
are removed from the index. Without a directory, source.path is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ingestor, err := backend.Ingestor(ctx, firstArg(args))
			if err != nil {
				return err
			}

			run, err := ingestor.IngestAll(ctx)
			if err != nil {
				return fmt.Errorf("ingest failed: %w", err)
			}
			printRun(cmd.OutOrStdout(), run)
			return nil
		},
	}
}

func newWatchCmd(backend Backend) *cobra.Command {
	var skipInitial bool
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Keep the index in sync with a directory",
		Long: `Ingests the directory once, then re-ingests files as they are created or
changed and drops deleted ones until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ingestor, err := backend.Ingestor(ctx, firstArg(args))
			if err != nil {
				return err
			}

			if !skipInitial {
				run, err := ingestor.IngestAll(ctx)
				if err != nil {
					return fmt.Errorf("ingest failed: %w", err)
				}
				printRun(cmd.OutOrStdout(), run)
			}

			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Watching for changes. Press Ctrl-C to stop."))
			if err := ingestor.Watch(ctx); err != nil {
				return fmt.Errorf("watch failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipInitial, "skip-initial", false, "do not ingest before watching")
	return cmd
}

func printRun(w io.Writer, run *domain.IngestRun) {
	fmt.Fprintf(w, "Ingested %d documents (%d chunks) from %s\n", run.Documents, run.Chunks, run.SourcePath)
	if run.Removed > 0 {
		fmt.Fprintf(w, "  Removed: %d\n", run.Removed)
	}
	if run.Failed > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("  Failed:  %d (run with --verbose for details)", run.Failed)))
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDocumentCmd(backend Backend) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"document", "docs"},
		Short:   "Manage ingested documents",
		Long:    `List, inspect or remove ingested documents.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List ingested documents",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runDocumentList(cmd, backend)
			},
		},
		&cobra.Command{
			Use:   "show [doc-id]",
			Short: "Show document metadata",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runDocumentShow(cmd, backend, args[0])
			},
		},
		&cobra.Command{
			Use:   "remove [doc-id]",
			Short: "Remove a document and its chunks from the index",
			Long: `Removes a document and its chunks from the index. The file itself is left
in place, so the next ingest adds it again unless it is deleted.`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runDocumentRemove(cmd, backend, args[0])
			},
		},
	)
	return cmd
}

func runDocumentList(cmd *cobra.Command, backend Backend) error {
	ctx := cmd.Context()
	svc, err := backend.Documents(ctx)
	if err != nil {
		return err
	}

	docs, err := svc.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(docs) == 0 {
		fmt.Fprintln(out, "No documents ingested. Run 'capstone ingest' first.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCHUNKS\tTITLE")
	for i := range docs {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", docs[i].ID, docs[i].ChunkCount, docs[i].Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTotal: %d documents\n", len(docs))
	return nil
}

func runDocumentShow(cmd *cobra.Command, backend Backend, docID string) error {
	ctx := cmd.Context()
	svc, err := backend.Documents(ctx)
	if err != nil {
		return err
	}

	details, err := svc.GetDetails(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document details: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Document: %s\n\n", details.ID)
	fmt.Fprintf(out, "  Title:     %s\n", details.Title)
	fmt.Fprintf(out, "  Source:    %s\n", details.Source)
	fmt.Fprintf(out, "  File:      %s\n", details.URI)
	fmt.Fprintf(out, "  Chunks:    %d\n", details.ChunkCount)
	if !details.IngestedAt.IsZero() {
		fmt.Fprintf(out, "  Ingested:  %s\n", details.IngestedAt.Format("2006-01-02 15:04:05"))
	}

	if len(details.Metadata) > 0 {
		keys := make([]string, 0, len(details.Metadata))
		for k := range details.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintln(out, "\n  Metadata:")
		for _, k := range keys {
			fmt.Fprintf(out, "    %s: %s\n", k, details.Metadata[k])
		}
	}
	return nil
}

func runDocumentRemove(cmd *cobra.Command, backend Backend, docID string) error {
	ctx := cmd.Context()
	svc, err := backend.Documents(ctx)
	if err != nil {
		return err
	}

	if err := svc.Remove(ctx, docID); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Document %s removed from index.\n", docID)
	return nil
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

// snippetLength caps the chunk text printed per hit.
const snippetLength = 240

type retrieveOptions struct {
	maxDistance float64
	k           int
	json        bool
}

// addRetrievalFlags registers the flags shared by retrieve and ask.
func addRetrievalFlags(cmd *cobra.Command, maxDistance *float64, k *int) {
	cmd.Flags().Float64Var(maxDistance, "max-distance", 0, "drop chunks farther than this (default retrieval.max_distance)")
	cmd.Flags().IntVarP(k, "top-k", "k", 0, "number of nearest chunks to search (0 = retrieval.k)")
}

// retrievalOptions passes --max-distance on only when it was given, so an
// explicit 0 keeps exact matches instead of meaning the setting.
func retrievalOptions(cmd *cobra.Command, maxDistance float64, k int) domain.RetrieveOptions {
	ro := domain.RetrieveOptions{K: k}
	if cmd.Flags().Changed("max-distance") {
		ro.MaxDistance = domain.Distance(maxDistance)
	}
	return ro
}

func newRetrieveCmd(backend Backend) *cobra.Command {
	opts := &retrieveOptions{}
	cmd := &cobra.Command{
		Use:   "retrieve [query]",
		Short: "Show the chunks retrieved for a query",
		Long: `Embeds the query, searches the vector index and prints the chunks within
the distance threshold together with their related sources. No answer is
generated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRetrieve(cmd, backend, opts, strings.Join(args, " "))
		},
	}
	addRetrievalFlags(cmd, &opts.maxDistance, &opts.k)
	cmd.Flags().BoolVar(&opts.json, "json", false, "output the result as JSON")
	return cmd
}

func runRetrieve(cmd *cobra.Command, backend Backend, opts *retrieveOptions, query string) error {
	ctx := cmd.Context()
	retriever, err := backend.Retriever(ctx)
	if err != nil {
		return err
	}

	outcome, err := retriever.Retrieve(ctx, query, retrievalOptions(cmd, opts.maxDistance, opts.k))
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	if opts.json {
		return outputRetrieveJSON(cmd.OutOrStdout(), query, outcome)
	}
	outputRetrieveTable(cmd.OutOrStdout(), outcome)
	return nil
}

type retrieveJSON struct {
	Query          string      `json:"query"`
	Chunks         []chunkJSON `json:"chunks"`
	RelatedSources []string    `json:"related_sources"`
}

type chunkJSON struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id"`
	Sequence   int     `json:"sequence"`
	Distance   float64 `json:"distance"`
	Text       string  `json:"text"`
}

func outputRetrieveJSON(w io.Writer, query string, outcome *domain.RetrievalOutcome) error {
	out := retrieveJSON{
		Query:          query,
		Chunks:         make([]chunkJSON, len(outcome.Hits)),
		RelatedSources: outcome.RelatedSources,
	}
	if out.RelatedSources == nil {
		out.RelatedSources = []string{}
	}
	for i, h := range outcome.Hits {
		out.Chunks[i] = chunkJSON{
			ID:         h.ID,
			DocumentID: h.DocumentID,
			Sequence:   h.Sequence,
			Distance:   h.Distance,
			Text:       h.Text,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func outputRetrieveTable(w io.Writer, outcome *domain.RetrievalOutcome) {
	if outcome.IsEmpty() {
		fmt.Fprintln(w, "No relevant chunks found.")
		return
	}

	for i, h := range outcome.Hits {
		fmt.Fprintf(w, "[%d] %s %s\n", i+1, h.ID, mutedStyle.Render(fmt.Sprintf("(distance %.4f)", h.Distance)))
		fmt.Fprintf(w, "    %s\n\n", snippet(h.Text, snippetLength))
	}
	printSources(w, outcome.RelatedSources)
}

func printSources(w io.Writer, sources []string) {
	if len(sources) == 0 {
		return
	}
	fmt.Fprintln(w, headingStyle.Render("Related sources:"))
	for _, s := range sources {
		fmt.Fprintf(w, "  - %s\n", sourceStyle.Render(s))
	}
}

// snippet flattens whitespace and truncates text to n runes.
func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

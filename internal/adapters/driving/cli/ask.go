package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driving"
)

type askOptions struct {
	maxDistance float64
	k           int
}

func newAskCmd(backend Backend) *cobra.Command {
	opts := &askOptions{}
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a question from the indexed papers",
		Long: `Retrieves the chunks closest to the question and asks the configured LLM
to answer from them. When nothing in the index is close enough the LLM is
not called and a fixed "no information" reply is printed.

Without a question, reads one question per line until "exit" or end of input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			answerer, err := backend.Answerer(cmd.Context())
			if err != nil {
				return err
			}
			ro := retrievalOptions(cmd, opts.maxDistance, opts.k)
			if len(args) > 0 {
				return askOnce(cmd, answerer, strings.Join(args, " "), ro)
			}
			return askLoop(cmd, answerer, ro)
		},
	}
	addRetrievalFlags(cmd, &opts.maxDistance, &opts.k)
	return cmd
}

func askOnce(cmd *cobra.Command, answerer driving.Answerer, question string, ro domain.RetrieveOptions) error {
	answer, err := answerer.Ask(cmd.Context(), question, ro)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}
	printAnswer(cmd.OutOrStdout(), answer)
	return nil
}

// askLoop answers questions read line by line. A failed question is
// reported and the loop continues.
func askLoop(cmd *cobra.Command, answerer driving.Answerer, ro domain.RetrieveOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()
	interactive := isTerminal(in)

	if interactive {
		fmt.Fprintln(out, mutedStyle.Render(`Ask a question about your papers. Type "exit" to quit.`))
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, promptStyle.Render("> "))
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		switch question {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		answer, err := answerer.Ask(ctx, question, ro)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render(fmt.Sprintf("Error: %v", err)))
			continue
		}
		printAnswer(out, answer)
		fmt.Fprintln(out)
	}
}

func printAnswer(w io.Writer, answer *domain.Answer) {
	fmt.Fprintln(w, answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Fprintln(w)
		printSources(w, answer.Sources)
	}
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

func newSettingsCmd(backend Backend) *cobra.Command {
	show := func(cmd *cobra.Command, _ []string) error {
		return runSettingsShow(cmd, backend)
	}

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage application settings",
		Long: `View and change providers, chunking, retrieval and source settings.

Settings are stored in ~/.capstone/config.toml.`,
		Args: cobra.NoArgs,
		RunE: show,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current settings",
			Args:  cobra.NoArgs,
			RunE:  show,
		},
		&cobra.Command{
			Use:   "set [key] [value]",
			Short: "Change one setting",
			Long: `Change one setting. Lists take comma-separated values and dates use
YYYY-MM-DD. Run 'capstone settings keys' for the accepted keys.`,
			Example: `  capstone settings set embedding.provider openai
  capstone settings set chunking.size 800
  capstone settings set source.include "**/*.pdf,**/*.txt"`,
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSettingsSet(cmd, backend, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List the settings that can be changed",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				svc, err := backend.Settings()
				if err != nil {
					return err
				}
				for _, k := range svc.Keys() {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "set-key [provider]",
			Short: "Store the API key of a cloud provider",
			Long: `Store the API key of openai or anthropic. The key is read from the
terminal without echo, or from standard input when piped.`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSettingsSetKey(cmd, backend, domain.AIProvider(args[0]))
			},
		},
	)
	return cmd
}

func runSettingsShow(cmd *cobra.Command, backend Backend) error {
	svc, err := backend.Settings()
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Current Settings")
	fmt.Fprintln(out, "================")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Embedding]")
	fmt.Fprintf(out, "  Provider: %s\n", settings.Embedding.Provider.Description())
	fmt.Fprintf(out, "  Model: %s\n", settings.Embedding.Model)
	fmt.Fprintf(out, "  Dimensions: %d\n", settings.Embedding.Dimensions)
	printEndpoint(out, settings.Embedding.Provider, settings.Embedding.BaseURL, settings.Embedding.APIKey)
	fmt.Fprintf(out, "  Status: %s\n\n", configuredStatus(settings.Embedding.IsConfigured()))

	fmt.Fprintln(out, "[LLM]")
	fmt.Fprintf(out, "  Provider: %s\n", settings.LLM.Provider.Description())
	fmt.Fprintf(out, "  Model: %s\n", settings.LLM.Model)
	fmt.Fprintf(out, "  Max tokens: %d\n", settings.LLM.MaxTokens)
	fmt.Fprintf(out, "  Temperature: %.2f\n", settings.LLM.Temperature)
	printEndpoint(out, settings.LLM.Provider, settings.LLM.BaseURL, settings.LLM.APIKey)
	fmt.Fprintf(out, "  Status: %s\n\n", configuredStatus(settings.LLM.IsConfigured()))

	fmt.Fprintln(out, "[Chunking]")
	fmt.Fprintf(out, "  Size: %d\n", settings.Chunking.Size)
	fmt.Fprintf(out, "  Overlap: %d\n\n", settings.Chunking.Overlap)

	fmt.Fprintln(out, "[Retrieval]")
	fmt.Fprintf(out, "  Max distance: %g\n", settings.Retrieval.MaxDistance)
	fmt.Fprintf(out, "  K: %d\n\n", settings.Retrieval.K)

	fmt.Fprintln(out, "[Index]")
	fmt.Fprintf(out, "  Metric: %s\n", settings.Index.Metric)
	fmt.Fprintf(out, "  Data dir: %s\n\n", orDefault(settings.Index.DataDir))

	fmt.Fprintln(out, "[Source]")
	fmt.Fprintf(out, "  Path: %s\n", settings.Source.Path)
	fmt.Fprintf(out, "  Include: %s\n\n", strings.Join(settings.Source.Include, ", "))

	fmt.Fprintln(out, "[arXiv]")
	fmt.Fprintf(out, "  Query: %s\n", orUnset(settings.Arxiv.Query))
	fmt.Fprintf(out, "  Dates: %s to %s\n", formatDate(settings.Arxiv.StartDate), formatDate(settings.Arxiv.EndDate))
	fmt.Fprintf(out, "  Page size: %d\n", settings.Arxiv.PageSize)
	fmt.Fprintf(out, "  Max papers: %d\n\n", settings.Arxiv.MaxPapers)

	if err := svc.Validate(); err != nil {
		fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("Warning: %v", err)))
		fmt.Fprintln(out, "Run 'capstone settings set <key> <value>' to fix configuration issues.")
	} else {
		fmt.Fprintln(out, "Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, backend Backend, key, value string) error {
	svc, err := backend.Settings()
	if err != nil {
		return err
	}
	if err := svc.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if strings.HasSuffix(key, "api_key") {
		shown = maskAPIKey(value)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, shown)
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, backend Backend, provider domain.AIProvider) error {
	if !provider.RequiresAPIKey() {
		return fmt.Errorf("%s does not use an API key", provider)
	}

	svc, err := backend.Settings()
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if isTerminal(in) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Enter %s API key: ", provider)
	}
	apiKey := readPassword(in)
	if isTerminal(in) {
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if apiKey == "" {
		return errors.New("API key is required")
	}

	if err := svc.SetAPIKey(provider, apiKey); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stored %s API key %s\n", provider, maskAPIKey(apiKey))
	return nil
}

func printEndpoint(w io.Writer, provider domain.AIProvider, baseURL, apiKey string) {
	if provider.IsLocal() || baseURL != "" {
		fmt.Fprintf(w, "  Base URL: %s\n", orDefault(baseURL))
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			fmt.Fprintf(w, "  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			fmt.Fprintf(w, "  API Key: (not set)\n")
		}
	}
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "*"
	}
	return t.Format(dateLayout)
}

// readPassword reads a line without echo when in is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	input, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

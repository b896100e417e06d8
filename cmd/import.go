package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dadao-education/unicatalog/internal/catalog"
	"github.com/dadao-education/unicatalog/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var provider string
	var model string
	var chunkSize int
	var delay time.Duration
	var assumeYes bool
	var reportDir string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Normalize raw records with an LLM and merge them into the catalog",
		Long: `Reads raw scraped records, sends them to the LLM in chunks, merges the
recognized universities and asks for confirmation before committing.

FILE may be .json (an array, an object with a "data" array, or a single
object), .jsonl, or .parquet. Use "-" to read pasted JSON from stdin.`,
		Example: `  # Import a scrape dump with Gemini
  unicatalog import ./scraped.json

  # Use a local Ollama model and skip the confirmation prompt
  unicatalog import ./scraped.jsonl --provider ollama --yes

  # Keep a YAML report of the run
  unicatalog import ./pages.parquet --report ./reports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("provider") {
				cfg.Provider = provider
				cfg.Model = ""
			}
			if cmd.Flags().Changed("model") {
				cfg.Model = model
			}
			if cmd.Flags().Changed("chunk-size") {
				cfg.ChunkSize = chunkSize
			}
			if cmd.Flags().Changed("delay") {
				cfg.Delay = delay
			}
			if cmd.Flags().Changed("report") {
				cfg.ReportDir = reportDir
			}

			if args[0] == "-" && !assumeYes {
				return fmt.Errorf("reading records from stdin requires --yes")
			}
			source, err := sourceFor(cmd, args[0])
			if err != nil {
				return err
			}

			repo, closeFn, err := openCatalog(cmd.Context(), cfg, opts.ephemeral)
			if err != nil {
				return err
			}
			defer closeFn()

			pipeline, resolvedModel, err := newPipeline(cfg, repo)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			run, err := pipeline.Start(source)
			if err != nil {
				return err
			}
			run.Reporter.OnEntry(func(e importer.Entry) {
				fmt.Fprintln(out, e.String())
			})

			slog.Info("Starting import", "source", run.Source, "provider", cfg.Provider, "model", resolvedModel, "chunk_size", cfg.ChunkSize)
			execErr := pipeline.Execute(cmd.Context(), run)

			if execErr == nil {
				printPreview(out, run)
				confirmed := assumeYes
				if !confirmed {
					confirmed, err = confirm(cmd.InOrStdin(), out, fmt.Sprintf("Commit %d universities to the catalog?", len(run.Result())))
					if err != nil {
						return err
					}
				}

				if confirmed {
					result, err := pipeline.Commit(cmd.Context(), run)
					if err != nil && !errors.Is(err, catalog.ErrPersist) {
						return err
					}
					fmt.Fprintf(out, "\n✅ %d added, %d updated, catalog now has %d universities\n", result.Added, result.Updated, repo.Len())
					execErr = err
				} else if err := pipeline.Discard(run); err != nil {
					return err
				}
			}

			if cfg.ReportDir != "" {
				report := importer.NewRunReport(run, importer.ReportConfig{
					Provider:    cfg.Provider,
					Model:       resolvedModel,
					Temperature: cfg.Temperature,
					ChunkSize:   cfg.ChunkSize,
					Delay:       cfg.Delay,
				})
				path, err := importer.SaveReport(cfg.ReportDir, report)
				if err != nil {
					slog.Error("Unable to save run report", "err", err)
				} else {
					fmt.Fprintf(out, "Run report saved to: %s\n", path)
				}
			}

			return execErr
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "gemini", "LLM provider (gemini, openai, or ollama)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to provider's default)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", importer.DefaultChunkSize, "Raw records per LLM request")
	cmd.Flags().DurationVar(&delay, "delay", 800*time.Millisecond, "Pause after each LLM request")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Commit without asking")
	cmd.Flags().StringVar(&reportDir, "report", "", "Directory to write a YAML run report to")

	return cmd
}

func sourceFor(cmd *cobra.Command, arg string) (importer.Source, error) {
	if arg != "-" {
		return importer.NewLoader(arg), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return importer.TextSource(data), nil
}

func printPreview(out io.Writer, run *importer.Run) {
	fmt.Fprintln(out, "\nRecognized universities:")
	for _, u := range run.Result() {
		programs := 0
		for _, d := range u.Departments {
			programs += len(d.Programs)
		}
		fmt.Fprintf(out, "  %s (%s): %d departments, %d programs\n", u.NameCN, u.NameEN, len(u.Departments), programs)
	}
	if run.Outcome() == importer.OutcomePartialFailure {
		fmt.Fprintln(out, "⚠️  Some chunks failed; see the log above")
	}
}

// confirm asks a yes/no question on in. Anything but y/yes is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

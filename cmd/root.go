package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dadao-education/unicatalog/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every subcommand
type rootOptions struct {
	configPath string
	dbPath     string
	ephemeral  bool
	verbose    bool
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "unicatalog",
		Short: "Study-abroad catalog with LLM-powered bulk import",
		Long: `Unicatalog maintains a catalog of universities, departments and programs.

Raw scraped records are normalized in chunks by an LLM, merged, previewed,
and committed to the catalog only after confirmation.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.PersistentFlags().BoolVar(&opts.ephemeral, "ephemeral", false, "Keep the catalog in memory only")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newCatalogCmd(opts))
	cmd.AddCommand(newServeCmd(opts))

	return cmd
}

func (o *rootOptions) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	return cfg, nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/triagekit/dupdetect/internal/config"
	"github.com/triagekit/dupdetect/internal/deduplication"
)

var rootCmd = &cobra.Command{
	Use:   "dupdetect",
	Short: "Detect duplicate issue reports with batch cosine similarity",
	Long: `dupdetect decides whether newly filed issue reports duplicate already-open issues.

It normalizes issue text, weights titles double, fits one TF-IDF model per
batch over unigrams and bigrams, and classifies each new issue against the
open candidates with a single batched cosine-similarity computation. Results
include a bounded similarity score, a confidence score, human-readable
similarity reasons, and a recommendation.

Configuration precedence: flags > config file (--config) > DUP_* environment
variables > built-in defaults.

Examples:
  dupdetect sample --existing existing.json --new new.json
  dupdetect check --new new.json --existing existing.json
  dupdetect check --new new.json --db tracker.db --threshold 0.6 --show-similar 3
  dupdetect similar --new new.json --existing existing.json --top-k 5
  dupdetect validate existing.json`,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress messages")
}

// loadEngineConfig resolves the engine configuration from environment
// variables and the optional config file. Flag overrides are applied by the
// individual commands.
func loadEngineConfig(cmd *cobra.Command) (deduplication.Config, *config.File, error) {
	cfg, err := deduplication.ConfigFromEnv()
	if err != nil {
		return cfg, nil, err
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return cfg, nil, nil
	}

	file, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	if err := file.Apply(&cfg); err != nil {
		return cfg, nil, err
	}
	return cfg, file, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/triagekit/dupdetect/internal/ai"
	"github.com/triagekit/dupdetect/internal/config"
	"github.com/triagekit/dupdetect/internal/corpus"
	"github.com/triagekit/dupdetect/internal/deduplication"
	"github.com/triagekit/dupdetect/internal/storage"
	"github.com/triagekit/dupdetect/internal/types"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Classify new issues as duplicates of existing open issues",
	Long: `Check classifies each new issue against the open issues in the corpus.

New issues are read from the --new JSON file. Existing issues come from the
--existing JSON file, the --db SQLite database, or both. Every new issue in
the batch produces exactly one result.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("new", "", "JSON file with new issues to check (required)")
	checkCmd.Flags().String("existing", "", "JSON file with existing issues")
	checkCmd.Flags().String("db", "", "SQLite database with existing issues")
	checkCmd.Flags().Float64("threshold", 0, "Similarity threshold for duplicate classification (0.0-1.0)")
	checkCmd.Flags().Float64("confidence-threshold", 0, "Confidence threshold for high-confidence reporting (0.0-1.0)")
	checkCmd.Flags().Int("show-similar", 0, "Also list the top N most similar issues per new issue")
	checkCmd.Flags().String("method", "cosine", "Detection method: cosine or ai")
	checkCmd.Flags().String("model", "", "Model for --method ai (default from DUP_AI_MODEL)")
	checkCmd.Flags().String("format", "text", "Output format: text or json")
	checkCmd.Flags().StringP("output", "o", "", "Write output to file instead of stdout")
	_ = checkCmd.MarkFlagRequired("new")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, fileCfg, err := loadEngineConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyThresholdFlags(cmd, &cfg); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q (expected text or json)", format)
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	if quiet {
		log.SetOutput(io.Discard)
	}

	newPath, _ := cmd.Flags().GetString("new")
	newIssues, err := corpus.LoadNewIssues(newPath)
	if err != nil {
		return err
	}

	existing, err := loadExistingIssues(cmd)
	if err != nil {
		return err
	}

	detector, err := buildDetector(cmd, cfg, fileCfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	results, err := detector.BatchDetectDuplicates(ctx, newIssues, existing)
	if err != nil {
		return fmt.Errorf("duplicate detection failed: %w", err)
	}

	var similar [][]types.SimilarIssue
	showSimilar, _ := cmd.Flags().GetInt("show-similar")
	if showSimilar > 0 {
		similar, err = detector.FindMostSimilarBatch(ctx, newIssues, existing, showSimilar)
		if err != nil {
			return fmt.Errorf("similarity ranking failed: %w", err)
		}
	}

	report := buildCheckReport(cfg, newIssues, results, similar)
	return writeReport(cmd, report, format)
}

// applyThresholdFlags overrides the engine config from command-line flags and
// rejects out-of-range values before any work starts.
func applyThresholdFlags(cmd *cobra.Command, cfg *deduplication.Config) error {
	if cmd.Flags().Changed("threshold") {
		v, _ := cmd.Flags().GetFloat64("threshold")
		if v < 0.0 || v > 1.0 {
			return fmt.Errorf("threshold must be between 0.0 and 1.0, got %.2f", v)
		}
		cfg.SimilarityThreshold = v
	}
	if cmd.Flags().Changed("confidence-threshold") {
		v, _ := cmd.Flags().GetFloat64("confidence-threshold")
		if v < 0.0 || v > 1.0 {
			return fmt.Errorf("confidence-threshold must be between 0.0 and 1.0, got %.2f", v)
		}
		cfg.ConfidenceThreshold = v
	}
	return cfg.Validate()
}

// loadExistingIssues gathers existing issues from the --existing JSON file
// and/or the --db SQLite database.
func loadExistingIssues(cmd *cobra.Command) ([]*types.IssueReference, error) {
	existingPath, _ := cmd.Flags().GetString("existing")
	dbPath, _ := cmd.Flags().GetString("db")
	if existingPath == "" && dbPath == "" {
		return nil, fmt.Errorf("no issue corpus given: pass --existing or --db")
	}

	var issues []*types.IssueReference
	if existingPath != "" {
		fromFile, err := corpus.LoadIssues(existingPath)
		if err != nil {
			return nil, err
		}
		issues = append(issues, fromFile...)
	}
	if dbPath != "" {
		store, err := storage.Open(dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		fromDB, err := store.AllIssues(context.Background())
		if err != nil {
			return nil, err
		}
		issues = append(issues, fromDB...)
	}
	return issues, nil
}

func buildDetector(cmd *cobra.Command, cfg deduplication.Config, fileCfg *config.File) (deduplication.Detector, error) {
	method, _ := cmd.Flags().GetString("method")
	switch method {
	case "cosine":
		return deduplication.NewCosineDetector(cfg)
	case "ai":
		model, _ := cmd.Flags().GetString("model")
		if model == "" && fileCfg != nil {
			model = fileCfg.Model
		}
		client, err := ai.NewClient(ai.ClientConfig{Model: model})
		if err != nil {
			return nil, err
		}
		return ai.NewDetector(client, cfg)
	default:
		return nil, fmt.Errorf("unknown method %q (expected cosine or ai)", method)
	}
}


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/triagekit/dupdetect/internal/corpus"
	"github.com/triagekit/dupdetect/internal/deduplication"
	"github.com/triagekit/dupdetect/internal/types"
)

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Rank the most similar existing issues for each new issue",
	Long: `Similar ranks every existing issue (open or closed) by similarity to each
new issue and prints the top K matches. No duplicate classification is done;
this is an exploratory view of the corpus around each new report.`,
	RunE: runSimilar,
}

func init() {
	similarCmd.Flags().String("new", "", "JSON file with new issues (required)")
	similarCmd.Flags().String("existing", "", "JSON file with existing issues")
	similarCmd.Flags().String("db", "", "SQLite database with existing issues")
	similarCmd.Flags().IntP("top-k", "k", 0, "Number of matches per new issue (default from config)")
	similarCmd.Flags().String("format", "text", "Output format: text or json")
	_ = similarCmd.MarkFlagRequired("new")
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadEngineConfig(cmd)
	if err != nil {
		return err
	}

	topK := cfg.TopK
	if cmd.Flags().Changed("top-k") {
		topK, _ = cmd.Flags().GetInt("top-k")
		if topK <= 0 {
			return fmt.Errorf("top-k must be positive, got %d", topK)
		}
	}

	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q (expected text or json)", format)
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

	detector, err := deduplication.NewCosineDetector(cfg)
	if err != nil {
		return err
	}

	similar, err := detector.FindMostSimilarBatch(context.Background(), newIssues, existing, topK)
	if err != nil {
		return fmt.Errorf("similarity ranking failed: %w", err)
	}

	if format == "json" {
		return printSimilarJSON(cmd, newIssues, similar)
	}
	printSimilarText(cmd, newIssues, similar)
	return nil
}

func printSimilarText(cmd *cobra.Command, newIssues []types.NewIssueInput, similar [][]types.SimilarIssue) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, headerColor("Most Similar Issues"))
	fmt.Fprintln(out, strings.Repeat("=", 60))

	for i, matches := range similar {
		title := ""
		if i < len(newIssues) {
			title = newIssues[i].Title
		}
		fmt.Fprintf(out, "\n[%d/%d] %s\n", i+1, len(similar), title)
		if len(matches) == 0 {
			fmt.Fprintln(out, "  (no similar issues found)")
			continue
		}
		for _, m := range matches {
			fmt.Fprintf(out, "  %.2f  %s  %s %s\n",
				m.Score, m.Issue.IssueID, m.Issue.Title, dimColor("("+m.Issue.Status+")"))
		}
	}
}

func printSimilarJSON(cmd *cobra.Command, newIssues []types.NewIssueInput, similar [][]types.SimilarIssue) error {
	type entry struct {
		Title         string               `json:"title"`
		SimilarIssues []types.SimilarIssue `json:"similar_issues"`
	}

	entries := make([]entry, 0, len(similar))
	for i, matches := range similar {
		e := entry{SimilarIssues: matches}
		if i < len(newIssues) {
			e.Title = newIssues[i].Title
		}
		entries = append(entries, e)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

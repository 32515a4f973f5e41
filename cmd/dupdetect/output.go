package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/triagekit/dupdetect/internal/deduplication"
	"github.com/triagekit/dupdetect/internal/types"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold).SprintFunc()
	dupColor    = color.New(color.FgRed, color.Bold).SprintFunc()
	uniqueColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	dimColor    = color.New(color.Faint).SprintFunc()
)

// checkReport is the serializable output of a detection run. The JSON field
// names match the result schema so downstream tooling can consume either the
// per-issue results or the whole report.
type checkReport struct {
	GeneratedAt string        `json:"generated_at"`
	Summary     checkSummary  `json:"summary"`
	Results     []checkResult `json:"results"`
	Config      configEcho    `json:"config"`
}

// configEcho mirrors the engine config with the snake_case keys the rest of
// the report uses.
type configEcho struct {
	SimilarityThreshold float64 `json:"similarity_threshold"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	TopK                int     `json:"top_k"`
	MaxFeatures         int     `json:"max_features"`
	MaxDocFreq          float64 `json:"max_doc_freq"`
}

type checkSummary struct {
	TotalIssues    int `json:"total_issues"`
	Duplicates     int `json:"duplicates_found"`
	UniqueIssues   int `json:"unique_issues"`
	HighConfidence int `json:"high_confidence"`
}

type checkResult struct {
	Title             string                `json:"title"`
	IsDuplicate       bool                  `json:"is_duplicate"`
	DuplicateOf       *types.IssueReference `json:"duplicate_of,omitempty"`
	SimilarityScore   float64               `json:"similarity_score"`
	ConfidenceScore   float64               `json:"confidence_score"`
	SimilarityReasons []string              `json:"similarity_reasons"`
	Recommendation    string                `json:"recommendation"`
	SimilarIssues     []checkSimilar        `json:"similar_issues,omitempty"`
}

type checkSimilar struct {
	IssueID string  `json:"issue_id"`
	Title   string  `json:"title"`
	Status  string  `json:"status"`
	Score   float64 `json:"score"`
}

func buildCheckReport(cfg deduplication.Config, newIssues []types.NewIssueInput, results []types.DuplicateDetectionResult, similar [][]types.SimilarIssue) *checkReport {
	report := &checkReport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Config: configEcho{
			SimilarityThreshold: cfg.SimilarityThreshold,
			ConfidenceThreshold: cfg.ConfidenceThreshold,
			TopK:                cfg.TopK,
			MaxFeatures:         cfg.MaxFeatures,
			MaxDocFreq:          cfg.MaxDocFreq,
		},
		Results: make([]checkResult, 0, len(results)),
	}

	for i, res := range results {
		entry := checkResult{
			IsDuplicate:       res.IsDuplicate,
			DuplicateOf:       res.DuplicateOf,
			SimilarityScore:   res.SimilarityScore,
			ConfidenceScore:   res.ConfidenceScore,
			SimilarityReasons: res.SimilarityReasons,
			Recommendation:    res.Recommendation,
		}
		if i < len(newIssues) {
			entry.Title = newIssues[i].Title
		}
		if i < len(similar) {
			for _, s := range similar[i] {
				entry.SimilarIssues = append(entry.SimilarIssues, checkSimilar{
					IssueID: s.Issue.IssueID,
					Title:   s.Issue.Title,
					Status:  s.Issue.Status,
					Score:   s.Score,
				})
			}
		}
		report.Results = append(report.Results, entry)

		report.Summary.TotalIssues++
		if res.IsDuplicate {
			report.Summary.Duplicates++
		} else {
			report.Summary.UniqueIssues++
		}
		if res.ConfidenceScore >= cfg.ConfidenceThreshold {
			report.Summary.HighConfidence++
		}
	}
	return report
}

// writeReport renders the report in the requested format and writes it to
// --output or stdout. Colors are disabled when writing to a file.
func writeReport(cmd *cobra.Command, report *checkReport, format string) error {
	outPath, _ := cmd.Flags().GetString("output")

	var rendered string
	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		rendered = string(data) + "\n"
	default:
		if outPath != "" {
			color.NoColor = true
		}
		rendered = renderText(report)
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(rendered), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Report written to %s\n", outPath)
		return nil
	}
	fmt.Print(rendered)
	return nil
}

func renderText(report *checkReport) string {
	var b strings.Builder

	b.WriteString(headerColor("Duplicate Detection Results"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", 60))
	b.WriteString("\n\n")

	for i, res := range report.Results {
		fmt.Fprintf(&b, "[%d/%d] %s\n", i+1, len(report.Results), res.Title)

		if res.IsDuplicate {
			fmt.Fprintf(&b, "  Status: %s\n", dupColor("DUPLICATE"))
			if res.DuplicateOf != nil {
				fmt.Fprintf(&b, "  Duplicate of: %s (%s)\n", res.DuplicateOf.IssueID, res.DuplicateOf.Title)
				if res.DuplicateOf.URL != "" {
					fmt.Fprintf(&b, "  URL: %s\n", res.DuplicateOf.URL)
				}
			}
		} else {
			fmt.Fprintf(&b, "  Status: %s\n", uniqueColor("UNIQUE"))
		}

		fmt.Fprintf(&b, "  Similarity: %.2f  Confidence: %.2f\n", res.SimilarityScore, res.ConfidenceScore)
		for _, reason := range res.SimilarityReasons {
			fmt.Fprintf(&b, "  - %s\n", reason)
		}
		fmt.Fprintf(&b, "  %s\n", res.Recommendation)

		if len(res.SimilarIssues) > 0 {
			b.WriteString("  Most similar issues:\n")
			for _, s := range res.SimilarIssues {
				fmt.Fprintf(&b, "    %.2f  %s  %s %s\n", s.Score, s.IssueID, s.Title, dimColor("("+s.Status+")"))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("-", 60))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total: %d  Duplicates: %d  Unique: %d  High confidence: %d\n",
		report.Summary.TotalIssues, report.Summary.Duplicates,
		report.Summary.UniqueIssues, report.Summary.HighConfidence)

	return b.String()
}

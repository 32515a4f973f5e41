package main

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/triagekit/dupdetect/internal/deduplication"
	"github.com/triagekit/dupdetect/internal/types"
)

func sampleResults() ([]types.NewIssueInput, []types.DuplicateDetectionResult) {
	newIssues := []types.NewIssueInput{
		{Title: "Login crash on submit"},
		{Title: "Add dark mode"},
	}
	results := []types.DuplicateDetectionResult{
		{
			IsDuplicate: true,
			DuplicateOf: &types.IssueReference{
				IssueID: "ISSUE-001",
				Title:   "Login page crashes",
				Status:  "open",
				URL:     "https://tracker.example.com/1",
			},
			SimilarityScore:   0.82,
			ConfidenceScore:   0.98,
			SimilarityReasons: []string{"Similar titles (similarity: 0.85)"},
			Recommendation:    "This issue appears to be a duplicate of issue ISSUE-001.",
		},
		{
			SimilarityScore:   0.05,
			ConfidenceScore:   0.05,
			SimilarityReasons: []string{},
			Recommendation:    "This appears to be a new, unique issue.",
		},
	}
	return newIssues, results
}

func TestBuildCheckReportSummary(t *testing.T) {
	newIssues, results := sampleResults()
	report := buildCheckReport(deduplication.DefaultConfig(), newIssues, results, nil)

	if report.Summary.TotalIssues != 2 {
		t.Errorf("TotalIssues = %d, want 2", report.Summary.TotalIssues)
	}
	if report.Summary.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", report.Summary.Duplicates)
	}
	if report.Summary.UniqueIssues != 1 {
		t.Errorf("UniqueIssues = %d, want 1", report.Summary.UniqueIssues)
	}
	// Only the first result clears the default 0.6 confidence threshold.
	if report.Summary.HighConfidence != 1 {
		t.Errorf("HighConfidence = %d, want 1", report.Summary.HighConfidence)
	}

	if report.Results[0].Title != "Login crash on submit" {
		t.Errorf("Title = %q, want new-issue title", report.Results[0].Title)
	}
}

func TestBuildCheckReportAttachesSimilar(t *testing.T) {
	newIssues, results := sampleResults()
	similar := [][]types.SimilarIssue{
		{
			{
				Issue: &types.IssueReference{IssueID: "ISSUE-001", Title: "Login page crashes", Status: "open"},
				Score: 0.82,
			},
		},
		{},
	}

	report := buildCheckReport(deduplication.DefaultConfig(), newIssues, results, similar)
	if len(report.Results[0].SimilarIssues) != 1 {
		t.Fatalf("got %d similar issues, want 1", len(report.Results[0].SimilarIssues))
	}
	if report.Results[0].SimilarIssues[0].IssueID != "ISSUE-001" {
		t.Errorf("similar issue = %+v, want ISSUE-001", report.Results[0].SimilarIssues[0])
	}
	if len(report.Results[1].SimilarIssues) != 0 {
		t.Errorf("second result should have no similar issues")
	}
}

func TestRenderText(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	newIssues, results := sampleResults()
	report := buildCheckReport(deduplication.DefaultConfig(), newIssues, results, nil)
	text := renderText(report)

	for _, want := range []string{
		"Duplicate Detection Results",
		"DUPLICATE",
		"UNIQUE",
		"ISSUE-001",
		"Similarity: 0.82",
		"Total: 2  Duplicates: 1  Unique: 1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("renderText() missing %q", want)
		}
	}
}

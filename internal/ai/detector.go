// Package ai implements the LLM-backed duplicate detection backend.
//
// It produces the same DuplicateDetectionResult shape as the local cosine
// engine, with the same threshold semantics, so the two backends are
// interchangeable behind the deduplication.Detector interface. Unlike the
// cosine engine it is network-bound: calls are retried with backoff,
// throttled, and bounded by a candidate pre-filter so one batch never fans
// out into an unbounded number of API calls.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/triagekit/dupdetect/internal/deduplication"
	"github.com/triagekit/dupdetect/internal/types"
)

// maxCandidatesPerIssue bounds how many pre-filtered candidates are sent to
// the model for each new issue.
const maxCandidatesPerIssue = 10

// Detector checks for duplicates with an LLM judgment over lexically
// pre-filtered candidate pairs.
type Detector struct {
	client *Client
	cosine *deduplication.CosineDetector
	config deduplication.Config
}

// Compile-time check that Detector implements deduplication.Detector
var _ deduplication.Detector = (*Detector)(nil)

// NewDetector creates an LLM-backed duplicate detector. The cosine engine
// is constructed internally for candidate pre-filtering and similarity
// ranking.
func NewDetector(client *Client, config deduplication.Config) (*Detector, error) {
	if client == nil {
		return nil, fmt.Errorf("client cannot be nil")
	}
	cosine, err := deduplication.NewCosineDetector(config)
	if err != nil {
		return nil, err
	}
	return &Detector{client: client, cosine: cosine, config: config}, nil
}

// BatchDetectDuplicates classifies each new issue with one model call over
// its pre-filtered candidates. A failed call degrades that issue to a
// manual-review fallback; it never aborts the rest of the batch.
func (d *Detector) BatchDetectDuplicates(ctx context.Context, newIssues []types.NewIssueInput, existing []*types.IssueReference) ([]types.DuplicateDetectionResult, error) {
	if len(newIssues) == 0 {
		return []types.DuplicateDetectionResult{}, nil
	}

	var open []*types.IssueReference
	for _, issue := range existing {
		if issue.IsOpen() {
			open = append(open, issue)
		}
	}

	if len(open) == 0 {
		results := make([]types.DuplicateDetectionResult, len(newIssues))
		for i := range results {
			results[i] = types.DuplicateDetectionResult{
				ConfidenceScore:   1.0,
				SimilarityReasons: []string{},
				Recommendation:    deduplication.NoOpenIssuesRecommendation,
			}
		}
		return results, nil
	}

	// Lexical pre-filter: only the nearest candidates per new issue are
	// worth an API call.
	ranked, err := d.cosine.FindMostSimilarBatch(ctx, newIssues, open, maxCandidatesPerIssue)
	if err != nil {
		return nil, fmt.Errorf("candidate pre-filtering failed: %w", err)
	}

	runID := uuid.NewString()[:8]
	log.Printf("[AI] run %s: comparing %d new issue(s) against %d open candidate(s)",
		runID, len(newIssues), len(open))

	results := make([]types.DuplicateDetectionResult, len(newIssues))
	for i, issue := range newIssues {
		candidates := ranked[i]
		if len(candidates) == 0 {
			// No lexical overlap with anything; nothing to ask the model.
			results[i] = types.DuplicateDetectionResult{
				SimilarityReasons: []string{},
				Recommendation:    deduplication.RecommendationFor(false, 0.0, ""),
			}
			continue
		}

		result, err := d.classifyOne(ctx, issue, candidates)
		if err != nil {
			log.Printf("[AI] run %s: issue %d: %v (degrading to manual review)", runID, i, err)
			results[i] = types.DuplicateDetectionResult{
				SimilarityReasons: []string{},
				Recommendation: fmt.Sprintf(
					"Unable to perform duplicate analysis due to error: %v. Manual review required.", err),
			}
			continue
		}
		results[i] = result
	}

	return results, nil
}

// FindMostSimilarBatch delegates to the cosine engine: similarity ranking
// is a lexical operation and needs no model judgment.
func (d *Detector) FindMostSimilarBatch(ctx context.Context, newIssues []types.NewIssueInput, existing []*types.IssueReference, topK int) ([][]types.SimilarIssue, error) {
	return d.cosine.FindMostSimilarBatch(ctx, newIssues, existing, topK)
}

// comparison is one per-candidate judgment in the model's response.
type comparison struct {
	ExistingIssueID string  `json:"existing_issue_id"`
	IsDuplicate     bool    `json:"is_duplicate"`
	Confidence      float64 `json:"confidence"`
	Reasoning       string  `json:"reasoning"`
}

// classifyOne asks the model to compare one new issue against its candidate
// list and converts the best judgment into a detection result.
func (d *Detector) classifyOne(ctx context.Context, issue types.NewIssueInput, candidates []types.SimilarIssue) (types.DuplicateDetectionResult, error) {
	prompt := buildComparisonPrompt(issue, candidates)

	responseText, err := d.client.complete(ctx, prompt, 2048)
	if err != nil {
		return types.DuplicateDetectionResult{}, err
	}

	comparisons, err := parseComparisons(responseText)
	if err != nil {
		return types.DuplicateDetectionResult{}, err
	}

	byID := make(map[string]*types.IssueReference, len(candidates))
	for _, c := range candidates {
		byID[c.Issue.IssueID] = c.Issue
	}

	var best *comparison
	for idx := range comparisons {
		c := &comparisons[idx]
		if c.Confidence < 0.0 || c.Confidence > 1.0 {
			return types.DuplicateDetectionResult{}, fmt.Errorf("invalid confidence score: %.2f (must be 0.0-1.0)", c.Confidence)
		}
		if _, known := byID[c.ExistingIssueID]; !known {
			continue
		}
		if best == nil || c.Confidence > best.Confidence {
			best = c
		}
	}
	if best == nil {
		return types.DuplicateDetectionResult{}, fmt.Errorf("response referenced no known candidate issue")
	}

	isDuplicate := best.IsDuplicate && best.Confidence >= d.config.SimilarityThreshold
	result := types.DuplicateDetectionResult{
		IsDuplicate:       isDuplicate,
		SimilarityScore:   best.Confidence,
		ConfidenceScore:   best.Confidence,
		SimilarityReasons: []string{},
		Recommendation:    deduplication.RecommendationFor(isDuplicate, best.Confidence, best.ExistingIssueID),
	}
	if best.Reasoning != "" {
		result.SimilarityReasons = []string{best.Reasoning}
	}
	if isDuplicate {
		result.DuplicateOf = byID[best.ExistingIssueID]
	}
	return result, nil
}

// buildComparisonPrompt renders the one-against-many comparison request.
// The model must answer with a bare JSON array, one object per candidate.
func buildComparisonPrompt(issue types.NewIssueInput, candidates []types.SimilarIssue) string {
	var sb strings.Builder
	sb.WriteString("You are analyzing whether a newly filed issue report duplicates an existing issue.\n")
	sb.WriteString("Compare the new issue against each existing issue below.\n")
	sb.WriteString("Respond with a JSON array of objects, one per existing issue, with fields:\n")
	sb.WriteString("  - existing_issue_id (string): the id of the existing issue\n")
	sb.WriteString("  - is_duplicate (bool): true if they describe the same problem\n")
	sb.WriteString("  - confidence (float): 0.0-1.0 how confident you are\n")
	sb.WriteString("  - reasoning (string): brief explanation\n\n")
	sb.WriteString("Respond ONLY with the JSON array, no other text.\n\n")

	sb.WriteString("New issue:\n")
	fmt.Fprintf(&sb, "Title: %s\n", issue.Title)
	if issue.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", truncate(issue.Description, 1000))
	}
	sb.WriteString("\nExisting issues:\n")
	for _, c := range candidates {
		fmt.Fprintf(&sb, "--- Issue %s ---\n", c.Issue.IssueID)
		fmt.Fprintf(&sb, "Title: %s\n", c.Issue.Title)
		if c.Issue.Description != "" {
			fmt.Fprintf(&sb, "Description: %s\n", truncate(c.Issue.Description, 500))
		}
	}
	return sb.String()
}

// parseComparisons extracts the JSON array from the response, tolerating
// markdown fences and surrounding prose.
func parseComparisons(responseText string) ([]comparison, error) {
	jsonText := responseText
	if idx := strings.Index(jsonText, "["); idx >= 0 {
		jsonText = jsonText[idx:]
	}
	if idx := strings.LastIndex(jsonText, "]"); idx >= 0 {
		jsonText = jsonText[:idx+1]
	}

	var comparisons []comparison
	if err := json.Unmarshal([]byte(jsonText), &comparisons); err != nil {
		return nil, fmt.Errorf("failed to parse comparison response: %w (response: %s)", err, truncate(responseText, 200))
	}
	return comparisons, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

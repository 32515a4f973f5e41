package types

import (
	"fmt"
	"strings"
)

// IssueReference is an existing issue record loaded from a tracker corpus.
// It is constructed once at the ingestion boundary and never mutated by the
// matching engine.
type IssueReference struct {
	IssueID     string `json:"issue_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	CreatedDate string `json:"created_date,omitempty"`
	URL         string `json:"url,omitempty"`
}

// IsOpen reports whether the issue is eligible as a duplicate target.
// Only issues whose status is "open" (case-insensitive) participate in
// duplicate matching.
func (i *IssueReference) IsOpen() bool {
	return strings.EqualFold(i.Status, "open")
}

// Validate checks if the issue reference has valid field values
func (i *IssueReference) Validate() error {
	if i.IssueID == "" {
		return fmt.Errorf("issue_id is required")
	}
	if i.Title == "" {
		return fmt.Errorf("title is required")
	}
	if len(i.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(i.Title))
	}
	return nil
}

// NewIssueInput is a candidate report being checked for duplicates.
// A missing description is treated as empty, never as an error.
type NewIssueInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// DuplicateDetectionResult is the outcome of checking one new issue against
// the candidate corpus. Results are value objects: one per new issue, in
// input order, never mutated after creation.
type DuplicateDetectionResult struct {
	// IsDuplicate is true if the best match crossed the similarity threshold
	IsDuplicate bool `json:"is_duplicate"`

	// DuplicateOf is the matched existing issue
	// Only set when IsDuplicate is true
	DuplicateOf *IssueReference `json:"duplicate_of,omitempty"`

	// SimilarityScore is the best cosine similarity found (0.0 to 1.0)
	SimilarityScore float64 `json:"similarity_score"`

	// ConfidenceScore is how much to trust the classification (0.0 to 1.0)
	ConfidenceScore float64 `json:"confidence_score"`

	// SimilarityReasons explains the match in human-readable terms.
	// May be empty; order is meaningful (titles, descriptions, keywords, band).
	SimilarityReasons []string `json:"similarity_reasons"`

	// Recommendation is a non-empty action suggestion for the reporter
	Recommendation string `json:"recommendation"`
}

// Validate checks if the detection result has valid values
func (r *DuplicateDetectionResult) Validate() error {
	if r.SimilarityScore < 0.0 || r.SimilarityScore > 1.0 {
		return fmt.Errorf("similarity_score must be between 0.0 and 1.0 (got %.2f)", r.SimilarityScore)
	}
	if r.ConfidenceScore < 0.0 || r.ConfidenceScore > 1.0 {
		return fmt.Errorf("confidence_score must be between 0.0 and 1.0 (got %.2f)", r.ConfidenceScore)
	}
	if r.IsDuplicate && r.DuplicateOf == nil {
		return fmt.Errorf("duplicate_of must be set when is_duplicate is true")
	}
	if !r.IsDuplicate && r.DuplicateOf != nil {
		return fmt.Errorf("duplicate_of should not be set when is_duplicate is false")
	}
	if r.Recommendation == "" {
		return fmt.Errorf("recommendation cannot be empty")
	}
	return nil
}

// SimilarIssue pairs a candidate issue with its similarity to a new issue.
// Produced by top-k ranking for exploratory review.
type SimilarIssue struct {
	Issue *IssueReference `json:"issue"`
	Score float64         `json:"score"`
}

package deduplication

import (
	"context"
	"fmt"

	"github.com/triagekit/dupdetect/internal/types"
)

// Detector defines the interface for batch duplicate detection backends.
//
// Two implementations exist: the local cosine-similarity engine in this
// package (pure, deterministic, no I/O) and the LLM-backed detector in
// internal/ai (network-bound, asynchronous under the hood). Both produce the
// same result shape with the same threshold semantics, so callers can swap
// backends without changing how results are interpreted.
//
// Example usage:
//
//	det, err := deduplication.NewCosineDetector(deduplication.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	results, err := det.BatchDetectDuplicates(ctx, newIssues, existing)
//	for i, r := range results {
//	    if r.IsDuplicate {
//	        log.Printf("Issue %d is a duplicate of %s (confidence: %.2f)",
//	            i, r.DuplicateOf.IssueID, r.ConfidenceScore)
//	    }
//	}
type Detector interface {
	// BatchDetectDuplicates checks each new issue against the open entries
	// of the existing corpus and returns one result per new issue, in input
	// order. The call is atomic from the caller's perspective: it returns
	// either a full result list or a full list of degraded fallback results.
	// len(results) == len(newIssues) always, including the empty case.
	//
	// Only existing issues whose status is "open" (case-insensitive)
	// participate as duplicate targets. Closed and otherwise-statused
	// entries are excluded for the whole batch.
	BatchDetectDuplicates(ctx context.Context, newIssues []types.NewIssueInput, existing []*types.IssueReference) ([]types.DuplicateDetectionResult, error)

	// FindMostSimilarBatch returns, per new issue, its k nearest existing
	// issues by similarity, sorted descending, excluding exact-zero scores.
	// Independent of the duplicate threshold: it exists for review UIs that
	// want alternatives even when nothing crosses the threshold. One inner
	// list per new issue, in input order.
	FindMostSimilarBatch(ctx context.Context, newIssues []types.NewIssueInput, existing []*types.IssueReference, topK int) ([][]types.SimilarIssue, error)
}

// NoOpenIssuesRecommendation is issued when the candidate corpus has no
// open issues. Confidence is maximal in that case: the absence of candidates
// is a deterministic fact, not an uncertain estimate.
const NoOpenIssuesRecommendation = "No open issues to compare against. This appears to be a new issue."

// RecommendationFor maps a classification outcome to the recommendation
// text shared by every Detector backend: duplicate, moderate similarity
// requiring manual review, or a new unique issue.
func RecommendationFor(isDuplicate bool, bestScore float64, issueID string) string {
	switch {
	case isDuplicate:
		return fmt.Sprintf(
			"This issue appears to be a duplicate of issue %s. "+
				"Consider linking to the original issue and closing this one.", issueID)
	case bestScore >= 0.5:
		return fmt.Sprintf(
			"This issue shows moderate similarity to issue %s. "+
				"Review both issues to determine if they are related or should be merged.", issueID)
	default:
		return "This appears to be a new, unique issue."
	}
}

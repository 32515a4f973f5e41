package deduplication

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/triagekit/dupdetect/internal/similarity"
	"github.com/triagekit/dupdetect/internal/types"
)

// CosineDetector implements the Detector interface with TF-IDF weighting and
// batched cosine similarity. It is pure and deterministic: no I/O, no shared
// mutable state between calls. Each batch call fits its own vector model, so
// concurrent callers need no coordination.
type CosineDetector struct {
	config Config
}

// Compile-time check that CosineDetector implements Detector
var _ Detector = (*CosineDetector)(nil)

// NewCosineDetector creates a cosine-similarity duplicate detector.
// Returns an error if config validation fails.
func NewCosineDetector(config Config) (*CosineDetector, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &CosineDetector{config: config}, nil
}

// vectorizer returns a fresh per-batch vector model. Never cached: reusing a
// fitted model across batches would silently corrupt score comparability.
func (d *CosineDetector) vectorizer() *similarity.Vectorizer {
	v := similarity.NewBatchVectorizer()
	v.MaxFeatures = d.config.MaxFeatures
	v.MaxDocFreq = d.config.MaxDocFreq
	return v
}

// BatchDetectDuplicates checks all new issues against the open candidates in
// one shared vectorization pass. See the Detector interface for contract
// details. The context is accepted for interface compatibility with the
// network-bound backend; the local computation has no blocking points.
func (d *CosineDetector) BatchDetectDuplicates(_ context.Context, newIssues []types.NewIssueInput, existing []*types.IssueReference) ([]types.DuplicateDetectionResult, error) {
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
				IsDuplicate:       false,
				SimilarityScore:   0.0,
				ConfidenceScore:   1.0,
				SimilarityReasons: []string{},
				Recommendation:    NoOpenIssuesRecommendation,
			}
		}
		return results, nil
	}

	// One document set for the whole batch: new issues first, then
	// candidates, so both sides share a vocabulary and feature weights.
	docs := make([]string, 0, len(newIssues)+len(open))
	for _, issue := range newIssues {
		docs = append(docs, similarity.CombineWeighted(issue.Title, issue.Description))
	}
	for _, issue := range open {
		docs = append(docs, similarity.CombineWeighted(issue.Title, issue.Description))
	}

	matrix, err := d.vectorizer().FitTransform(docs)
	if err != nil {
		log.Printf("[DEDUP] Vectorization failed for batch of %d new / %d open issues: %v", len(newIssues), len(open), err)
		return fallbackResults(len(newIssues), err), nil
	}

	numNew := len(newIssues)
	sims := similarity.CosineMatrix(matrix.Slice(0, numNew), matrix.Slice(numNew, matrix.Rows()))

	results := make([]types.DuplicateDetectionResult, numNew)
	for i, issue := range newIssues {
		bestIdx := argmax(sims[i])
		bestScore := sims[i][bestIdx]
		bestIssue := open[bestIdx]

		isDuplicate := bestScore >= d.config.SimilarityThreshold

		// Boost formula preserved exactly for compatibility; it is a fixed
		// product decision, not a derived statistic. Scores under 0.3 are
		// reported verbatim.
		confidence := bestScore * 1.2
		if confidence > 1.0 {
			confidence = 1.0
		}
		if bestScore < 0.3 {
			confidence = bestScore
		}

		reasons := explainSimilarity(issue.Title, issue.Description, bestIssue, bestScore)

		var duplicateOf *types.IssueReference
		if isDuplicate {
			duplicateOf = bestIssue
		}

		results[i] = types.DuplicateDetectionResult{
			IsDuplicate:       isDuplicate,
			DuplicateOf:       duplicateOf,
			SimilarityScore:   bestScore,
			ConfidenceScore:   confidence,
			SimilarityReasons: reasons,
			Recommendation:    RecommendationFor(isDuplicate, bestScore, bestIssue.IssueID),
		}
	}

	return results, nil
}

// FindMostSimilarBatch ranks all existing issues (regardless of status) per
// new issue. Exploratory ranking deliberately includes non-open issues so
// reviewers can spot just-closed siblings.
func (d *CosineDetector) FindMostSimilarBatch(_ context.Context, newIssues []types.NewIssueInput, existing []*types.IssueReference, topK int) ([][]types.SimilarIssue, error) {
	if len(newIssues) == 0 {
		return [][]types.SimilarIssue{}, nil
	}

	results := make([][]types.SimilarIssue, len(newIssues))
	for i := range results {
		results[i] = []types.SimilarIssue{}
	}
	if len(existing) == 0 || topK <= 0 {
		return results, nil
	}

	docs := make([]string, 0, len(newIssues)+len(existing))
	for _, issue := range newIssues {
		docs = append(docs, similarity.CombineWeighted(issue.Title, issue.Description))
	}
	for _, issue := range existing {
		docs = append(docs, similarity.CombineWeighted(issue.Title, issue.Description))
	}

	matrix, err := d.vectorizer().FitTransform(docs)
	if err != nil {
		// Ranking is best-effort: a degenerate batch yields empty lists.
		log.Printf("[DEDUP] Vectorization failed during similarity ranking: %v", err)
		return results, nil
	}

	numNew := len(newIssues)
	sims := similarity.CosineMatrix(matrix.Slice(0, numNew), matrix.Slice(numNew, matrix.Rows()))

	for i := range newIssues {
		order := make([]int, len(existing))
		for j := range order {
			order[j] = j
		}
		// Descending by score; input order breaks ties deterministically.
		sort.SliceStable(order, func(a, b int) bool {
			return sims[i][order[a]] > sims[i][order[b]]
		})

		for _, j := range order {
			if len(results[i]) >= topK {
				break
			}
			if sims[i][j] == 0.0 {
				// Sorted descending, so everything after is zero too.
				break
			}
			results[i] = append(results[i], types.SimilarIssue{
				Issue: existing[j],
				Score: sims[i][j],
			})
		}
	}

	return results, nil
}

// fallbackResults builds the degraded full-batch result list returned when
// vectorization fails. Zero confidence: the engine knows nothing.
func fallbackResults(n int, cause error) []types.DuplicateDetectionResult {
	results := make([]types.DuplicateDetectionResult, n)
	for i := range results {
		results[i] = types.DuplicateDetectionResult{
			IsDuplicate:       false,
			SimilarityScore:   0.0,
			ConfidenceScore:   0.0,
			SimilarityReasons: []string{},
			Recommendation: fmt.Sprintf(
				"Unable to perform similarity analysis due to error: %v. Manual review required.", cause),
		}
	}
	return results
}

// argmax returns the index of the first maximum value.
func argmax(row []float64) int {
	best := 0
	for j, v := range row {
		if v > row[best] {
			best = j
		}
	}
	return best
}

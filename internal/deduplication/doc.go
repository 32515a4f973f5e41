// Package deduplication decides whether newly filed issue reports duplicate
// already-open issues.
//
// # Overview
//
// The package exposes a Detector interface with two operations: batch
// duplicate classification (BatchDetectDuplicates) and top-k nearest-issue
// ranking (FindMostSimilarBatch). The primary implementation,
// CosineDetector, is a pure local computation: texts are normalized,
// title-weighted, vectorized with TF-IDF over unigrams and bigrams, and
// compared with one batched cosine-similarity matrix per call.
//
// # Batch processing
//
// A batch call fits one shared vocabulary over every document involved (all
// new issues plus all open candidates), then computes the full N x M
// similarity matrix in a single pass. Fitting once and multiplying once is
// asymptotically cheaper than re-vectorizing per pair, which is the reason
// batch processing exists at all.
//
// The fitted model lives only for the duration of one call. It is never
// cached or shared: each batch's document set changes the weighting, and a
// stale model would silently skew scores across unrelated batches. Because
// no state survives a call, concurrent callers need no locks.
//
// # Failure behavior
//
// A batch call never fails partially. Input malformation is absorbed with
// safe defaults (a missing description is an empty string). A degenerate
// corpus that produces an empty vocabulary yields a full list of
// zero-confidence fallback results requesting manual review. A corpus with
// no open issues is not an error: every result is a confident non-duplicate.
// In every case len(results) == len(newIssues).
//
// # Configuration
//
// DefaultConfig keeps thresholds conservative:
//   - SimilarityThreshold: 0.7 (cosine score required to flag a duplicate)
//   - ConfidenceThreshold: 0.6 (reporting cutoff for high confidence)
//   - TopK: 5, MaxFeatures: 5000, MaxDocFreq: 0.95
//
// ConfigFromEnv reads DUP_* environment variable overrides.
//
// # Basic usage
//
//	det, err := deduplication.NewCosineDetector(deduplication.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	results, err := det.BatchDetectDuplicates(ctx, newIssues, existing)
//	if err != nil {
//	    return err
//	}
//	for _, r := range results {
//	    fmt.Println(r.Recommendation)
//	}
//
// An interchangeable LLM-backed Detector lives in internal/ai; it produces
// the same result shape with the same threshold semantics but is
// network-bound and retried. This package stays free of I/O.
package deduplication

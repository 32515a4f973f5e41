package similarity

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrEmptyVocabulary is returned when no terms survive tokenization and
// pruning, e.g. a batch made entirely of stop words. Callers convert this
// into degraded fallback results rather than aborting.
var ErrEmptyVocabulary = errors.New("empty vocabulary: no terms remain after pruning")

// idfCorpusFloor is the minimum corpus size assumed when computing inverse
// document frequencies. See FitTransform.
const idfCorpusFloor = 20

// Vectorizer builds a TF-IDF vector-space model over one batch of documents.
//
// A Vectorizer must be fit fresh for every batch: the vocabulary and the
// inverse-document-frequency weights depend on the whole document set, so a
// model fitted on one batch is not comparable to documents from another.
// Construct one, call FitTransform once, and let it go out of scope.
type Vectorizer struct {
	// MaxFeatures caps the vocabulary size. When more terms survive
	// pruning, the most frequent terms across the corpus win. 0 = no cap.
	MaxFeatures int

	// MaxDocFreq drops terms that appear in more than this fraction of
	// documents; such terms are too common to discriminate. Range (0, 1].
	MaxDocFreq float64

	// NgramMax is the longest word sequence used as a feature.
	// 1 = unigrams only, 2 = unigrams and bigrams.
	NgramMax int
}

// NewBatchVectorizer returns a vectorizer configured for batch duplicate
// matching: unigrams plus bigrams, a 5000-term vocabulary cap, and pruning
// of terms present in over 95% of documents.
func NewBatchVectorizer() *Vectorizer {
	return &Vectorizer{
		MaxFeatures: 5000,
		MaxDocFreq:  0.95,
		NgramMax:    2,
	}
}

// newPairVectorizer returns the small unigram-only vectorizer used for
// two-document comparisons in reason generation. No vocabulary cap and no
// document-frequency pruning: a two-document fit prunes nothing.
func newPairVectorizer() *Vectorizer {
	return &Vectorizer{
		MaxFeatures: 0,
		MaxDocFreq:  1.0,
		NgramMax:    1,
	}
}

// Matrix holds one l2-normalized TF-IDF row per input document, in input
// order. Rows are sparse: feature index to weight.
type Matrix struct {
	rows []map[int]float64
}

// Rows returns the number of document rows.
func (m *Matrix) Rows() int {
	return len(m.rows)
}

// Slice returns a view of rows [from, to). The underlying row data is
// shared; rows are never mutated after FitTransform.
func (m *Matrix) Slice(from, to int) *Matrix {
	return &Matrix{rows: m.rows[from:to]}
}

// FitTransform fits the vocabulary and IDF weights on the given documents
// and returns their weighted vectors, one row per document in input order.
// Documents are expected to be normalized text (see Normalize).
//
// Returns ErrEmptyVocabulary when no terms survive, so degenerate batches
// are an ordinary error branch for the caller.
func (v *Vectorizer) FitTransform(docs []string) (*Matrix, error) {
	nDocs := len(docs)
	if nDocs == 0 {
		return nil, ErrEmptyVocabulary
	}

	// Term counts per document and document frequencies across the batch.
	termCounts := make([]map[string]int, nDocs)
	docFreq := make(map[string]int)
	corpusFreq := make(map[string]int)
	for i, doc := range docs {
		counts := make(map[string]int)
		for _, term := range v.analyze(doc) {
			counts[term]++
			corpusFreq[term]++
		}
		termCounts[i] = counts
		for term := range counts {
			docFreq[term]++
		}
	}

	vocab := v.buildVocabulary(docFreq, corpusFreq, nDocs)
	if len(vocab) == 0 {
		return nil, ErrEmptyVocabulary
	}

	// Smoothed IDF: ln((1+n)/(1+df)) + 1. The +1 terms keep zero divisions
	// out and keep terms present in every document from being zeroed.
	//
	// n is floored: in a batch of two or three documents the observed
	// document frequencies are noise, and a term shared by both documents
	// of a near-duplicate pair would be weighted as maximally common,
	// suppressing exactly the overlap the comparison is looking for. The
	// floor keeps the IDF spread mild on tiny batches and has no effect
	// once the batch reaches idfCorpusFloor documents.
	nEff := nDocs
	if nEff < idfCorpusFloor {
		nEff = idfCorpusFloor
	}
	idf := make([]float64, len(vocab))
	for term, idx := range vocab {
		idf[idx] = math.Log(float64(1+nEff)/float64(1+docFreq[term])) + 1.0
	}

	rows := make([]map[int]float64, nDocs)
	for i, counts := range termCounts {
		row := make(map[int]float64)
		var norm float64
		for term, count := range counts {
			idx, ok := vocab[term]
			if !ok {
				continue
			}
			w := float64(count) * idf[idx]
			row[idx] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for idx := range row {
				row[idx] /= norm
			}
		}
		rows[i] = row
	}

	return &Matrix{rows: rows}, nil
}

// buildVocabulary prunes over-frequent terms and applies the feature cap,
// returning term -> column index assignments in sorted term order.
func (v *Vectorizer) buildVocabulary(docFreq, corpusFreq map[string]int, nDocs int) map[string]int {
	// A term is dropped when it appears in more documents than the rounded
	// max-df cutoff allows. Rounding up keeps tiny batches (where a single
	// shared term trivially exceeds 95%) from pruning themselves empty.
	maxDocCount := nDocs
	if v.MaxDocFreq > 0 && v.MaxDocFreq < 1.0 {
		maxDocCount = int(math.Ceil(v.MaxDocFreq * float64(nDocs)))
	}

	kept := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df > maxDocCount {
			continue
		}
		kept = append(kept, term)
	}

	if v.MaxFeatures > 0 && len(kept) > v.MaxFeatures {
		// Keep the terms most frequent across the corpus; ties resolve
		// alphabetically so vocabularies are deterministic.
		sort.Slice(kept, func(a, b int) bool {
			if corpusFreq[kept[a]] != corpusFreq[kept[b]] {
				return corpusFreq[kept[a]] > corpusFreq[kept[b]]
			}
			return kept[a] < kept[b]
		})
		kept = kept[:v.MaxFeatures]
	}

	sort.Strings(kept)
	vocab := make(map[string]int, len(kept))
	for idx, term := range kept {
		vocab[term] = idx
	}
	return vocab
}

// analyze tokenizes a normalized document and expands it into n-gram
// features. Tokens shorter than two characters and English stop words are
// discarded before n-grams are formed, so bigrams span the surviving words.
func (v *Vectorizer) analyze(doc string) []string {
	var tokens []string
	for _, tok := range strings.Fields(doc) {
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		if isStopWord(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}

	if v.NgramMax <= 1 {
		return tokens
	}

	terms := make([]string, 0, len(tokens)*2)
	terms = append(terms, tokens...)
	for n := 2; n <= v.NgramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

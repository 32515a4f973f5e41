package similarity

// CosineMatrix computes the cosine similarity between every row of a and
// every row of b in one batched pass, returning a len(a) x len(b) matrix.
// Both matrices must come from the same FitTransform call so their columns
// refer to the same vocabulary.
//
// Rows are already l2-normalized, so cosine similarity reduces to a sparse
// dot product. An inverted index over b's columns makes the whole matrix a
// single accumulation pass instead of len(a)*len(b) independent
// comparisons.
func CosineMatrix(a, b *Matrix) [][]float64 {
	sims := make([][]float64, a.Rows())
	for i := range sims {
		sims[i] = make([]float64, b.Rows())
	}
	if a.Rows() == 0 || b.Rows() == 0 {
		return sims
	}

	type posting struct {
		row    int
		weight float64
	}
	index := make(map[int][]posting)
	for j, row := range b.rows {
		for idx, w := range row {
			index[idx] = append(index[idx], posting{row: j, weight: w})
		}
	}

	for i, row := range a.rows {
		out := sims[i]
		for idx, w := range row {
			for _, p := range index[idx] {
				out[p.row] += w * p.weight
			}
		}
		// Clamp accumulated floating-point drift into [0, 1].
		for j, s := range out {
			if s > 1.0 {
				out[j] = 1.0
			} else if s < 0.0 {
				out[j] = 0.0
			}
		}
	}
	return sims
}

// PairSimilarity computes the cosine similarity between two texts using a
// fresh two-document unigram fit. Used for the fine-grained title-only and
// description-only comparisons in reason generation, where a local fit
// avoids dilution from the batch-wide vocabulary. Raw (unnormalized) text
// is accepted; empty input on either side yields 0.
func PairSimilarity(text1, text2 string) float64 {
	t1 := Normalize(text1)
	t2 := Normalize(text2)
	if t1 == "" || t2 == "" {
		return 0.0
	}

	m, err := newPairVectorizer().FitTransform([]string{t1, t2})
	if err != nil {
		return 0.0
	}
	return CosineMatrix(m.Slice(0, 1), m.Slice(1, 2))[0][0]
}

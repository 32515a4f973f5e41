package similarity

import (
	"math"
	"testing"
)

func TestCosineMatrixShapeAndBounds(t *testing.T) {
	docs := []string{
		"login crashes with emoji password",
		"application crash during login",
		"dark mode text invisible",
		"export generates corrupted report",
		"printer jams every morning",
	}
	m, err := NewBatchVectorizer().FitTransform(docs)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	sims := CosineMatrix(m.Slice(0, 2), m.Slice(2, 5))
	if len(sims) != 2 {
		t.Fatalf("got %d rows, want 2", len(sims))
	}
	for i, row := range sims {
		if len(row) != 3 {
			t.Fatalf("row %d has %d columns, want 3", i, len(row))
		}
		for j, s := range row {
			if s < 0.0 || s > 1.0 {
				t.Errorf("sims[%d][%d] = %v, out of [0, 1]", i, j, s)
			}
		}
	}
}

func TestCosineMatrixEmptySides(t *testing.T) {
	docs := []string{"login crashes", "dark mode broken"}
	m, err := NewBatchVectorizer().FitTransform(docs)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	sims := CosineMatrix(m.Slice(0, 0), m.Slice(0, 2))
	if len(sims) != 0 {
		t.Errorf("empty left side should yield no rows, got %d", len(sims))
	}

	sims = CosineMatrix(m.Slice(0, 2), m.Slice(0, 0))
	if len(sims) != 2 {
		t.Fatalf("got %d rows, want 2", len(sims))
	}
	for i, row := range sims {
		if len(row) != 0 {
			t.Errorf("row %d should be empty, has %d columns", i, len(row))
		}
	}
}

func TestCosineMatrixDisjointDocuments(t *testing.T) {
	docs := []string{"login crashes emoji", "printer jams morning"}
	m, err := NewBatchVectorizer().FitTransform(docs)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	sim := CosineMatrix(m.Slice(0, 1), m.Slice(1, 2))[0][0]
	if sim != 0.0 {
		t.Errorf("disjoint documents similarity = %v, want 0.0", sim)
	}
}

func TestPairSimilarity(t *testing.T) {
	tests := []struct {
		name  string
		text1 string
		text2 string
		check func(t *testing.T, sim float64)
	}{
		{
			name:  "identical texts",
			text1: "Login crashes with emoji",
			text2: "login crashes with emoji",
			check: func(t *testing.T, sim float64) {
				if math.Abs(sim-1.0) > 1e-9 {
					t.Errorf("sim = %v, want 1.0", sim)
				}
			},
		},
		{
			name:  "empty side",
			text1: "",
			text2: "login crashes",
			check: func(t *testing.T, sim float64) {
				if sim != 0.0 {
					t.Errorf("sim = %v, want 0.0", sim)
				}
			},
		},
		{
			name:  "punctuation-only side",
			text1: "?!...",
			text2: "login crashes",
			check: func(t *testing.T, sim float64) {
				if sim != 0.0 {
					t.Errorf("sim = %v, want 0.0", sim)
				}
			},
		},
		{
			name:  "unrelated texts",
			text1: "login crashes emoji password",
			text2: "printer jams paper tray",
			check: func(t *testing.T, sim float64) {
				if sim != 0.0 {
					t.Errorf("sim = %v, want 0.0", sim)
				}
			},
		},
		{
			name:  "partial overlap",
			text1: "login crashes with emoji",
			text2: "login fails with password",
			check: func(t *testing.T, sim float64) {
				if sim <= 0.0 || sim >= 1.0 {
					t.Errorf("sim = %v, want strictly between 0 and 1", sim)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, PairSimilarity(tt.text1, tt.text2))
		})
	}
}

func TestPairSimilarityMonotonicity(t *testing.T) {
	base := "application crashes when the user logs in with an emoji password"
	closer := "application crashes when user logs in with emoji password"
	farther := "dark mode makes sidebar text unreadable"

	simClose := PairSimilarity(base, closer)
	simFar := PairSimilarity(base, farther)
	if simClose <= simFar {
		t.Errorf("closer text scored %v, farther scored %v; want closer > farther", simClose, simFar)
	}
}

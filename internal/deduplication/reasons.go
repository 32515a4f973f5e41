package deduplication

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/triagekit/dupdetect/internal/similarity"
	"github.com/triagekit/dupdetect/internal/types"
)

// explainSimilarity re-examines the winning pair at finer grain and returns
// human-readable justifications, in a fixed order: title similarity,
// description similarity, shared keywords, then an overall band label.
// Each reason appears only when its condition holds; the list may be empty.
func explainSimilarity(newTitle, newDescription string, candidate *types.IssueReference, batchScore float64) []string {
	reasons := []string{}

	titleSim := similarity.PairSimilarity(newTitle, candidate.Title)
	if titleSim > 0.5 {
		reasons = append(reasons, fmt.Sprintf("Similar titles (similarity: %.2f)", titleSim))
	}

	if newDescription != "" && candidate.Description != "" {
		descSim := similarity.PairSimilarity(newDescription, candidate.Description)
		if descSim > 0.3 {
			reasons = append(reasons, fmt.Sprintf("Similar descriptions (similarity: %.2f)", descSim))
		}
	}

	if keywords := commonKeywords(
		newTitle+" "+newDescription,
		candidate.Title+" "+candidate.Description,
	); keywords != "" {
		reasons = append(reasons, "Common keywords: "+keywords)
	}

	switch {
	case batchScore > 0.8:
		reasons = append(reasons, "Very high overall similarity score")
	case batchScore > 0.6:
		reasons = append(reasons, "High overall similarity score")
	case batchScore > 0.4:
		reasons = append(reasons, "Moderate overall similarity score")
	}

	return reasons
}

// commonKeywords returns up to five shared words longer than three
// characters, comma-joined, when the two texts share more than three words
// overall. Words are sorted so the output is deterministic.
func commonKeywords(text1, text2 string) string {
	words1 := wordSet(text1)
	words2 := wordSet(text2)

	var common []string
	for w := range words1 {
		if _, ok := words2[w]; ok {
			common = append(common, w)
		}
	}
	if len(common) <= 3 {
		return ""
	}

	var important []string
	for _, w := range common {
		if utf8.RuneCountInString(w) > 3 {
			important = append(important, w)
		}
	}
	if len(important) == 0 {
		return ""
	}

	sort.Strings(important)
	if len(important) > 5 {
		important = important[:5]
	}
	return strings.Join(important, ", ")
}

// wordSet returns the set of normalized words in the text.
func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(similarity.Normalize(text)) {
		set[w] = struct{}{}
	}
	return set
}

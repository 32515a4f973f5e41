package deduplication

import (
	"strings"
	"testing"

	"github.com/triagekit/dupdetect/internal/types"
)

func TestExplainSimilarityOrderAndConditions(t *testing.T) {
	candidate := &types.IssueReference{
		IssueID:     "ISSUE-001",
		Title:       "Login crash with special characters in password",
		Description: "The application crashes when logging in with special characters in the password field.",
		Status:      "open",
	}

	reasons := explainSimilarity(
		"Login crash with special characters",
		"The application crashes when logging in with special characters.",
		candidate,
		0.85,
	)

	if len(reasons) == 0 {
		t.Fatal("expected reasons for a near-duplicate pair")
	}

	// Fixed order: titles, descriptions, keywords, band label.
	var kinds []string
	for _, r := range reasons {
		switch {
		case strings.HasPrefix(r, "Similar titles"):
			kinds = append(kinds, "title")
		case strings.HasPrefix(r, "Similar descriptions"):
			kinds = append(kinds, "description")
		case strings.HasPrefix(r, "Common keywords:"):
			kinds = append(kinds, "keywords")
		case strings.HasSuffix(r, "overall similarity score"):
			kinds = append(kinds, "band")
		default:
			t.Errorf("unrecognized reason %q", r)
		}
	}
	want := []string{"title", "description", "keywords", "band"}
	if len(kinds) != len(want) {
		t.Fatalf("reason kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("reason %d = %s, want %s (%v)", i, kinds[i], want[i], reasons)
		}
	}

	if reasons[len(reasons)-1] != "Very high overall similarity score" {
		t.Errorf("band label = %q, want very high", reasons[len(reasons)-1])
	}
}

func TestExplainSimilarityBandLabels(t *testing.T) {
	candidate := &types.IssueReference{IssueID: "ISSUE-001", Title: "zz", Status: "open"}

	tests := []struct {
		score float64
		want  string
	}{
		{score: 0.9, want: "Very high overall similarity score"},
		{score: 0.7, want: "High overall similarity score"},
		{score: 0.5, want: "Moderate overall similarity score"},
	}
	for _, tt := range tests {
		reasons := explainSimilarity("aa", "", candidate, tt.score)
		if len(reasons) != 1 || reasons[0] != tt.want {
			t.Errorf("score %.1f: reasons = %v, want [%q]", tt.score, reasons, tt.want)
		}
	}

	// At or below 0.4 no band label is emitted.
	if reasons := explainSimilarity("aa", "", candidate, 0.4); len(reasons) != 0 {
		t.Errorf("score 0.4: reasons = %v, want none", reasons)
	}
}

func TestExplainSimilaritySkipsEmptyDescriptions(t *testing.T) {
	candidate := &types.IssueReference{
		IssueID:     "ISSUE-001",
		Title:       "Login crash with special characters",
		Description: "",
		Status:      "open",
	}

	reasons := explainSimilarity("Login crash with special characters", "Full description here.", candidate, 0.2)
	for _, r := range reasons {
		if strings.HasPrefix(r, "Similar descriptions") {
			t.Errorf("description reason emitted when candidate has no description: %q", r)
		}
	}
}

func TestCommonKeywords(t *testing.T) {
	tests := []struct {
		name  string
		text1 string
		text2 string
		want  string
	}{
		{
			name:  "too few shared words",
			text1: "login crash emoji",
			text2: "login crash printer",
			want:  "",
		},
		{
			name:  "shared words sorted and filtered by length",
			text1: "login crash when password has emoji and app dies",
			text2: "login crash with password emoji app failure",
			want:  "crash, emoji, login, password",
		},
		{
			name:  "no texts",
			text1: "",
			text2: "",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commonKeywords(tt.text1, tt.text2); got != tt.want {
				t.Errorf("commonKeywords() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommonKeywordsCapsAtFive(t *testing.T) {
	text := "alpha bravo charlie delta echoes foxtrot golfing"
	got := commonKeywords(text, text)
	if got == "" {
		t.Fatal("expected keywords for identical texts")
	}
	if n := len(strings.Split(got, ", ")); n != 5 {
		t.Errorf("got %d keywords (%q), want 5", n, got)
	}
}

func TestRecommendationFor(t *testing.T) {
	tests := []struct {
		name        string
		isDuplicate bool
		bestScore   float64
		wantSubstr  string
	}{
		{
			name:        "duplicate",
			isDuplicate: true,
			bestScore:   0.9,
			wantSubstr:  "duplicate of issue ISSUE-007",
		},
		{
			name:       "moderate similarity",
			bestScore:  0.55,
			wantSubstr: "moderate similarity to issue ISSUE-007",
		},
		{
			name:       "moderate boundary inclusive",
			bestScore:  0.5,
			wantSubstr: "moderate similarity",
		},
		{
			name:       "unique",
			bestScore:  0.2,
			wantSubstr: "new, unique issue",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecommendationFor(tt.isDuplicate, tt.bestScore, "ISSUE-007")
			if !strings.Contains(got, tt.wantSubstr) {
				t.Errorf("RecommendationFor() = %q, want substring %q", got, tt.wantSubstr)
			}
		})
	}
}

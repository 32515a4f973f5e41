package similarity

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "lowercases",
			input: "Login CRASHES",
			want:  "login crashes",
		},
		{
			name:  "punctuation becomes single space",
			input: "crash!!!   on... login",
			want:  "crash on login",
		},
		{
			name:  "underscores survive",
			input: "user_id mismatch",
			want:  "user_id mismatch",
		},
		{
			name:  "leading and trailing junk trimmed",
			input: "  [BUG] app crashes!  ",
			want:  "bug app crashes",
		},
		{
			name:  "only punctuation",
			input: "?!...",
			want:  "",
		},
		{
			name:  "digits kept",
			input: "error 500 on page 2",
			want:  "error 500 on page 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCombineWeighted(t *testing.T) {
	got := CombineWeighted("Login Crash", "App crashes on login.")
	want := "login crash login crash app crashes on login"
	if got != want {
		t.Errorf("CombineWeighted() = %q, want %q", got, want)
	}
}

func TestCombineWeightedEmptyDescription(t *testing.T) {
	got := CombineWeighted("Login Crash", "")
	want := "login crash login crash "
	if got != want {
		t.Errorf("CombineWeighted() = %q, want %q", got, want)
	}
}

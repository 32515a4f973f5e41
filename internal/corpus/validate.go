package corpus

import (
	"fmt"
	"os"
)

// ValidationReport summarizes the health of an issues file without failing
// on the first bad entry.
type ValidationReport struct {
	Total    int      `json:"total"`
	Valid    int      `json:"valid"`
	Open     int      `json:"open"`
	Problems []string `json:"problems,omitempty"`
}

// ValidateFile checks every entry of an issues file and reports per-entry
// problems. Only structural errors (unreadable file, non-array JSON) return
// an error; malformed entries are collected in the report.
func ValidateFile(path string) (*ValidationReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read issues file: %w", err)
	}

	entries, err := decodeEntries(data)
	if err != nil {
		return nil, err
	}

	report := &ValidationReport{Total: len(entries)}
	for i, entry := range entries {
		issue, err := IssueFromMap(entry)
		if err != nil {
			report.Problems = append(report.Problems, fmt.Sprintf("issue %d: %v", i+1, err))
			continue
		}
		report.Valid++
		if issue.IsOpen() {
			report.Open++
		}
	}
	return report, nil
}

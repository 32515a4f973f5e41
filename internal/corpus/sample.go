package corpus

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/triagekit/dupdetect/internal/types"
)

// SampleIssues returns a small demonstration corpus of existing issues.
func SampleIssues() []*types.IssueReference {
	return []*types.IssueReference{
		{
			IssueID:     "ISSUE-001",
			Title:       "Login page crashes when clicking submit button",
			Description: "When I click the submit button on the login page, the application crashes with a JavaScript error. The console shows 'TypeError: Cannot read property of undefined'. This happens in Chrome and Firefox.",
			Status:      "open",
			CreatedDate: "2024-01-15",
			URL:         "https://github.com/example/repo/issues/1",
		},
		{
			IssueID:     "ISSUE-002",
			Title:       "Database connection timeout in production",
			Description: "The application frequently shows database connection timeout errors in production environment. This affects user authentication and data retrieval. Error occurs approximately every 30 minutes.",
			Status:      "open",
			CreatedDate: "2024-01-20",
			URL:         "https://github.com/example/repo/issues/2",
		},
		{
			IssueID:     "ISSUE-003",
			Title:       "User authentication module memory leak",
			Description: "Memory usage continuously increases in the authentication service. After 24 hours of operation, memory usage reaches 2GB and the service becomes unresponsive.",
			Status:      "open",
			CreatedDate: "2024-01-25",
			URL:         "https://github.com/example/repo/issues/3",
		},
	}
}

// SampleNewIssues returns demonstration new-issue reports, including one
// near-duplicate of the sample corpus.
func SampleNewIssues() []types.NewIssueInput {
	return []types.NewIssueInput{
		{
			Title:       "Login form crash on submit",
			Description: "The application crashes when submitting the login form. Browser console shows a TypeError.",
		},
		{
			Title:       "Add dark mode support",
			Description: "Feature request: the UI should offer a dark color theme for night-time use.",
		},
	}
}

// WriteSampleIssuesFile writes the demonstration corpus as indented JSON.
func WriteSampleIssuesFile(path string) error {
	return writeJSONFile(path, SampleIssues())
}

// WriteSampleNewIssuesFile writes the demonstration new issues as indented JSON.
func WriteSampleNewIssuesFile(path string) error {
	return writeJSONFile(path, SampleNewIssues())
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sample data: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

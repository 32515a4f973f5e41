package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "issues.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseIssuesCanonicalSchema(t *testing.T) {
	data := `[
		{
			"issue_id": "ISSUE-001",
			"title": "Login crash",
			"description": "Crashes on login.",
			"status": "open",
			"created_date": "2024-01-15",
			"url": "https://tracker.example.com/1"
		}
	]`

	issues, err := ParseIssues([]byte(data))
	require.NoError(t, err)
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, "ISSUE-001", issue.IssueID)
	assert.Equal(t, "Login crash", issue.Title)
	assert.Equal(t, "Crashes on login.", issue.Description)
	assert.Equal(t, "open", issue.Status)
	assert.Equal(t, "2024-01-15", issue.CreatedDate)
	assert.Equal(t, "https://tracker.example.com/1", issue.URL)
	assert.True(t, issue.IsOpen())
}

func TestParseIssuesGitHubSchema(t *testing.T) {
	data := `[
		{
			"number": 1347,
			"title": "Widget renderer panics on resize",
			"body": "Resizing the window panics the renderer.",
			"state": "closed",
			"created_at": "2024-03-02T10:00:00Z",
			"html_url": "https://github.com/example/repo/issues/1347"
		}
	]`

	issues, err := ParseIssues([]byte(data))
	require.NoError(t, err)
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, "1347", issue.IssueID, "numeric identifiers keep their integer form")
	assert.Equal(t, "Resizing the window panics the renderer.", issue.Description)
	assert.Equal(t, "closed", issue.Status)
	assert.Equal(t, "https://github.com/example/repo/issues/1347", issue.URL)
	assert.False(t, issue.IsOpen())
}

func TestParseIssuesDefaults(t *testing.T) {
	data := `[{"issue_id": "ISSUE-001", "title": "Login crash"}]`

	issues, err := ParseIssues([]byte(data))
	require.NoError(t, err)
	require.Len(t, issues, 1)

	assert.Equal(t, "", issues[0].Description)
	assert.Equal(t, "open", issues[0].Status, "missing status defaults to open")
}

func TestParseIssuesErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "missing title",
			data:    `[{"issue_id": "ISSUE-001"}]`,
			wantErr: "title",
		},
		{
			name:    "missing identifier",
			data:    `[{"title": "Login crash"}]`,
			wantErr: "identifier",
		},
		{
			name:    "not an array",
			data:    `{"issue_id": "ISSUE-001", "title": "Login crash"}`,
			wantErr: "array",
		},
		{
			name:    "malformed JSON",
			data:    `[{"issue_id": `,
			wantErr: "invalid JSON",
		},
		{
			name:    "title too long",
			data:    `[{"issue_id": "ISSUE-001", "title": "` + strings.Repeat("x", 501) + `"}]`,
			wantErr: "500 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIssues([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadIssues(t *testing.T) {
	path := writeTempJSON(t, `[{"issue_id": "ISSUE-001", "title": "Login crash"}]`)
	issues, err := LoadIssues(path)
	require.NoError(t, err)
	assert.Len(t, issues, 1)

	_, err = LoadIssues(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadNewIssues(t *testing.T) {
	path := writeTempJSON(t, `[
		{"title": "Login crash", "description": "Crashes on login."},
		{"title": "Dark mode request", "body": "GitHub-style body field."},
		{"title": "Bare title"}
	]`)

	newIssues, err := LoadNewIssues(path)
	require.NoError(t, err)
	require.Len(t, newIssues, 3)

	assert.Equal(t, "Crashes on login.", newIssues[0].Description)
	assert.Equal(t, "GitHub-style body field.", newIssues[1].Description, "body is accepted as description")
	assert.Equal(t, "", newIssues[2].Description)
}

func TestLoadNewIssuesMissingTitle(t *testing.T) {
	path := writeTempJSON(t, `[{"description": "no title here"}]`)
	_, err := LoadNewIssues(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

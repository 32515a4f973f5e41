package corpus

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleFilesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	existingPath := filepath.Join(dir, "existing.json")
	newPath := filepath.Join(dir, "new.json")

	require.NoError(t, WriteSampleIssuesFile(existingPath))
	require.NoError(t, WriteSampleNewIssuesFile(newPath))

	issues, err := LoadIssues(existingPath)
	require.NoError(t, err)
	assert.Len(t, issues, len(SampleIssues()))
	for _, issue := range issues {
		assert.NoError(t, issue.Validate())
		assert.True(t, issue.IsOpen())
	}

	newIssues, err := LoadNewIssues(newPath)
	require.NoError(t, err)
	assert.Len(t, newIssues, len(SampleNewIssues()))
}

func TestSampleIssuesContainNearDuplicatePair(t *testing.T) {
	// The first sample new issue is the seeded near-duplicate of the first
	// corpus entry; both mention the login crash.
	assert.Contains(t, SampleIssues()[0].Title, "Login")
	assert.Contains(t, SampleNewIssues()[0].Title, "Login")
}

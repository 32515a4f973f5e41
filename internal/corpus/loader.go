// Package corpus loads issue records from external sources and converts
// them into the strongly-typed shapes the matching engine consumes.
//
// Two JSON naming schemes are accepted and normalized: the canonical schema
// (issue_id, description, status, created_date, url) and the GitHub schema
// (number/id, body, state, created_at, html_url). Loosely-typed entries are
// validated here, at the ingestion boundary, so maps never reach the
// matching logic.
package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/triagekit/dupdetect/internal/types"
)

// LoadIssues reads an existing-issue corpus from a JSON file: an array of
// objects, each requiring a title plus one of issue_id / id / number.
func LoadIssues(path string) ([]*types.IssueReference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read issues file: %w", err)
	}
	issues, err := ParseIssues(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return issues, nil
}

// ParseIssues decodes a JSON array of issue objects in either naming scheme.
func ParseIssues(data []byte) ([]*types.IssueReference, error) {
	entries, err := decodeEntries(data)
	if err != nil {
		return nil, err
	}

	issues := make([]*types.IssueReference, 0, len(entries))
	for i, entry := range entries {
		issue, err := IssueFromMap(entry)
		if err != nil {
			return nil, fmt.Errorf("issue %d: %w", i+1, err)
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// LoadNewIssues reads new issue reports from a JSON file: an array of
// objects with a required title and an optional description/body.
func LoadNewIssues(path string) ([]types.NewIssueInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read new-issues file: %w", err)
	}

	entries, err := decodeEntries(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	newIssues := make([]types.NewIssueInput, 0, len(entries))
	for i, entry := range entries {
		title, ok := stringField(entry, "title")
		if !ok || title == "" {
			return nil, fmt.Errorf("%s: issue %d: missing required field \"title\"", path, i+1)
		}
		description, _ := stringField(entry, "description", "body")
		newIssues = append(newIssues, types.NewIssueInput{
			Title:       title,
			Description: description,
		})
	}
	return newIssues, nil
}

// IssueFromMap converts one loosely-typed issue entry into an
// IssueReference, accepting both the canonical and the GitHub field names.
// Missing optional fields get safe defaults: an absent description is the
// empty string, an absent status means "open".
func IssueFromMap(entry map[string]any) (*types.IssueReference, error) {
	title, ok := stringField(entry, "title")
	if !ok || title == "" {
		return nil, fmt.Errorf("missing required field \"title\"")
	}

	id, ok := identifierField(entry)
	if !ok {
		return nil, fmt.Errorf("missing identifier: one of \"issue_id\", \"id\", \"number\" is required")
	}

	description, _ := stringField(entry, "description", "body")
	status, hasStatus := stringField(entry, "status", "state")
	if !hasStatus || status == "" {
		status = "open"
	}
	createdDate, _ := stringField(entry, "created_date", "created_at")
	url, _ := stringField(entry, "url", "html_url")

	issue := &types.IssueReference{
		IssueID:     id,
		Title:       title,
		Description: description,
		Status:      status,
		CreatedDate: createdDate,
		URL:         url,
	}
	if err := issue.Validate(); err != nil {
		return nil, err
	}
	return issue, nil
}

// decodeEntries parses a JSON array of objects, preserving numeric
// identifiers as json.Number so GitHub issue numbers don't pick up a
// floating-point representation.
func decodeEntries(data []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var entries []map[string]any
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("invalid JSON: file must contain an array of issue objects: %w", err)
	}
	return entries, nil
}

// stringField returns the first present key coerced to a string.
func stringField(entry map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		raw, ok := entry[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case string:
			return v, true
		case json.Number:
			return v.String(), true
		}
	}
	return "", false
}

// identifierField resolves the issue identifier from any accepted key,
// stringifying numeric IDs.
func identifierField(entry map[string]any) (string, bool) {
	id, ok := stringField(entry, "issue_id", "id", "number")
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}

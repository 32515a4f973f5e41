package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triagekit/dupdetect/internal/deduplication"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dupdetect.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAndApply(t *testing.T) {
	path := writeConfig(t, `
similarity_threshold: 0.6
top_k: 8
model: claude-3-5-haiku-20241022
`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-20241022", f.Model)

	cfg := deduplication.DefaultConfig()
	require.NoError(t, f.Apply(&cfg))

	assert.Equal(t, 0.6, cfg.SimilarityThreshold)
	assert.Equal(t, 8, cfg.TopK)
	// Unset fields keep engine defaults.
	assert.Equal(t, deduplication.DefaultConfig().ConfidenceThreshold, cfg.ConfidenceThreshold)
	assert.Equal(t, deduplication.DefaultConfig().MaxFeatures, cfg.MaxFeatures)
}

func TestApplyDistinguishesExplicitZero(t *testing.T) {
	path := writeConfig(t, `top_k: 0`)
	f, err := Load(path)
	require.NoError(t, err)

	cfg := deduplication.DefaultConfig()
	err = f.Apply(&cfg)
	require.Error(t, err, "explicit zero must be applied and then rejected by validation")
	assert.Contains(t, err.Error(), "top_k")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeConfig(t, "similarity_threshold: [not, a, float]")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestApplyRejectsOutOfRange(t *testing.T) {
	path := writeConfig(t, "similarity_threshold: 1.7")
	f, err := Load(path)
	require.NoError(t, err)

	cfg := deduplication.DefaultConfig()
	assert.Error(t, f.Apply(&cfg))
}

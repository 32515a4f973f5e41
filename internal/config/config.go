// Package config loads optional tool-level configuration for the dupdetect
// CLI from a YAML file. Engine defaults come from
// deduplication.DefaultConfig; values set in the file override them, and
// command-line flags override both.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/triagekit/dupdetect/internal/deduplication"
)

// File is the YAML configuration shape. Pointer fields distinguish "unset"
// from an explicit zero.
type File struct {
	// SimilarityThreshold overrides the duplicate classification threshold (0.0-1.0)
	SimilarityThreshold *float64 `yaml:"similarity_threshold"`

	// ConfidenceThreshold overrides the high-confidence reporting cutoff (0.0-1.0)
	ConfidenceThreshold *float64 `yaml:"confidence_threshold"`

	// TopK overrides how many similar issues are listed per new issue
	TopK *int `yaml:"top_k"`

	// MaxFeatures overrides the vector-model vocabulary cap
	MaxFeatures *int `yaml:"max_features"`

	// MaxDocFreq overrides the document-frequency pruning cutoff
	MaxDocFreq *float64 `yaml:"max_doc_freq"`

	// Model names the LLM used with --method ai
	Model string `yaml:"model"`
}

// Load reads and parses a YAML config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &f, nil
}

// Apply overlays the file's set values onto an engine config and validates
// the result.
func (f *File) Apply(cfg *deduplication.Config) error {
	if f.SimilarityThreshold != nil {
		cfg.SimilarityThreshold = *f.SimilarityThreshold
	}
	if f.ConfidenceThreshold != nil {
		cfg.ConfidenceThreshold = *f.ConfidenceThreshold
	}
	if f.TopK != nil {
		cfg.TopK = *f.TopK
	}
	if f.MaxFeatures != nil {
		cfg.MaxFeatures = *f.MaxFeatures
	}
	if f.MaxDocFreq != nil {
		cfg.MaxDocFreq = *f.MaxDocFreq
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

package deduplication

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds configuration for the duplicate detection engine
type Config struct {
	// SimilarityThreshold is the minimum cosine similarity (0.0-1.0) to mark as duplicate
	// Higher values = more conservative (fewer false positives, more false negatives)
	// Lower values = more aggressive (more false positives, fewer false negatives)
	// Default: 0.7
	SimilarityThreshold float64

	// ConfidenceThreshold is the minimum confidence score (0.0-1.0) for a
	// result to count as high-confidence in reports
	// Default: 0.6
	ConfidenceThreshold float64

	// TopK is the number of nearest candidates returned per new issue by
	// similarity ranking
	// Default: 5
	TopK int

	// MaxFeatures caps the vocabulary size of the per-batch vector model
	// Larger vocabularies capture rarer phrases at the cost of memory
	// Default: 5000
	MaxFeatures int

	// MaxDocFreq drops terms appearing in more than this fraction of the
	// batch's documents; such terms are too common to discriminate
	// Default: 0.95
	MaxDocFreq float64
}

// DefaultConfig returns the default detection configuration
//
// These defaults are chosen to:
// - Prevent false positives (similarity threshold well above chance overlap)
// - Keep per-batch memory bounded (capped vocabulary)
// - Ignore boilerplate wording shared by nearly every issue (max-df pruning)
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.7,
		ConfidenceThreshold: 0.6,
		TopK:                5,
		MaxFeatures:         5000,
		MaxDocFreq:          0.95,
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.SimilarityThreshold < 0.0 || c.SimilarityThreshold > 1.0 {
		return fmt.Errorf("similarity_threshold must be between 0.0 and 1.0 (got %.2f)",
			c.SimilarityThreshold)
	}
	if c.ConfidenceThreshold < 0.0 || c.ConfidenceThreshold > 1.0 {
		return fmt.Errorf("confidence_threshold must be between 0.0 and 1.0 (got %.2f)",
			c.ConfidenceThreshold)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive (got %d)", c.TopK)
	}
	if c.TopK > 100 {
		return fmt.Errorf("top_k too large (got %d, max 100)", c.TopK)
	}
	if c.MaxFeatures <= 0 {
		return fmt.Errorf("max_features must be positive (got %d)", c.MaxFeatures)
	}
	if c.MaxFeatures > 100000 {
		return fmt.Errorf("max_features too large (got %d, max 100000)", c.MaxFeatures)
	}
	if c.MaxDocFreq <= 0.0 || c.MaxDocFreq > 1.0 {
		return fmt.Errorf("max_doc_freq must be in (0.0, 1.0] (got %.2f)", c.MaxDocFreq)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{SimilarityThreshold: %.2f, ConfidenceThreshold: %.2f, TopK: %d, "+
			"MaxFeatures: %d, MaxDocFreq: %.2f}",
		c.SimilarityThreshold, c.ConfidenceThreshold, c.TopK, c.MaxFeatures, c.MaxDocFreq,
	)
}

// ConfigFromEnv creates a Config from environment variables, falling back to defaults
//
// Environment variables:
//   - DUP_SIMILARITY_THRESHOLD: Minimum similarity (0.0-1.0) to mark as duplicate (default: 0.7)
//   - DUP_CONFIDENCE_THRESHOLD: Minimum confidence (0.0-1.0) for high-confidence results (default: 0.6)
//   - DUP_TOP_K: Number of similar issues returned per new issue (default: 5)
//   - DUP_MAX_FEATURES: Vocabulary size cap for the vector model (default: 5000)
//   - DUP_MAX_DOC_FREQ: Document-frequency pruning cutoff (default: 0.95)
//
// Returns an error if any environment variable has an invalid value.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if err := parseEnvFloat("DUP_SIMILARITY_THRESHOLD", &cfg.SimilarityThreshold); err != nil {
		return cfg, err
	}
	if err := parseEnvFloat("DUP_CONFIDENCE_THRESHOLD", &cfg.ConfidenceThreshold); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("DUP_TOP_K", &cfg.TopK); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("DUP_MAX_FEATURES", &cfg.MaxFeatures); err != nil {
		return cfg, err
	}
	if err := parseEnvFloat("DUP_MAX_DOC_FREQ", &cfg.MaxDocFreq); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}

	return cfg, nil
}

// parseEnvFloat parses a float64 from an environment variable
func parseEnvFloat(key string, dest *float64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvInt parses an int from an environment variable
func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

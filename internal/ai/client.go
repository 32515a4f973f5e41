package ai

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Model tiers. Duplicate comparison is a simple judgment task, so the
// cost-efficient tier is the default; set DUP_AI_MODEL to override.
const (
	// ModelSonnet is the high-end model for complex reasoning tasks
	ModelSonnet = "claude-sonnet-4-5-20250929"

	// ModelHaiku is the cost-efficient model for simple tasks
	ModelHaiku = "claude-3-5-haiku-20241022"
)

// DefaultModel returns the comparison model, honoring the DUP_AI_MODEL
// environment variable.
func DefaultModel() string {
	if model := os.Getenv("DUP_AI_MODEL"); model != "" {
		return model
	}
	return ModelHaiku
}

// RetryConfig holds retry and throttling configuration for API calls
type RetryConfig struct {
	MaxRetries         int           // Maximum number of retries (default: 3)
	InitialBackoff     time.Duration // Initial backoff duration (default: 1s)
	MaxBackoff         time.Duration // Maximum backoff duration (default: 30s)
	BackoffMultiplier  float64       // Backoff multiplier (default: 2.0)
	Timeout            time.Duration // Per-request timeout (default: 60s)
	MaxConcurrentCalls int           // Maximum concurrent API calls (default: 3, 0 = unlimited)
	RequestsPerSecond  float64       // API request rate limit (default: 2, 0 = unlimited)
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:         3,
		InitialBackoff:     1 * time.Second,
		MaxBackoff:         30 * time.Second,
		BackoffMultiplier:  2.0,
		Timeout:            60 * time.Second,
		MaxConcurrentCalls: 3,
		RequestsPerSecond:  2.0,
	}
}

// Client wraps the Anthropic API client with retry, concurrency limiting,
// and rate limiting for duplicate-comparison calls.
type Client struct {
	api     anthropic.Client
	model   anthropic.Model
	retry   RetryConfig
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// ClientConfig holds client construction options
type ClientConfig struct {
	APIKey string // Anthropic API key (if empty, reads from ANTHROPIC_API_KEY env var)
	Model  string // Model to use (default: DefaultModel())
	Retry  RetryConfig
}

// NewClient creates an API client for LLM-backed duplicate detection
func NewClient(cfg ClientConfig) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel()
	}

	retry := cfg.Retry
	if retry.MaxRetries == 0 {
		retry = DefaultRetryConfig()
	}

	c := &Client{
		api:   anthropic.NewClient(option.WithAPIKey(apiKey)),
		model: anthropic.Model(model),
		retry: retry,
	}
	if retry.MaxConcurrentCalls > 0 {
		c.sem = semaphore.NewWeighted(int64(retry.MaxConcurrentCalls))
	}
	if retry.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(retry.RequestsPerSecond), 1)
	}
	return c, nil
}

// complete sends one prompt and returns the text of the response, retrying
// transient failures with exponential backoff.
func (c *Client) complete(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return "", fmt.Errorf("failed to acquire API slot: %w", err)
		}
		defer c.sem.Release(1)
	}

	backoff := c.retry.InitialBackoff
	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[AI] Retrying API call (attempt %d/%d) after %v: %v",
				attempt, c.retry.MaxRetries, backoff, lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff = time.Duration(float64(backoff) * c.retry.BackoffMultiplier)
			if backoff > c.retry.MaxBackoff {
				backoff = c.retry.MaxBackoff
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		text, err := c.callOnce(ctx, prompt, maxTokens)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", fmt.Errorf("API call failed after %d attempts: %w", c.retry.MaxRetries+1, lastErr)
}

func (c *Client) callOnce(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	callCtx := ctx
	if c.retry.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.retry.Timeout)
		defer cancel()
	}

	message, err := c.api.Messages.New(callCtx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	if len(message.Content) == 0 || message.Content[0].Type != "text" {
		return "", fmt.Errorf("unexpected response format: no text content")
	}
	return message.Content[0].Text, nil
}

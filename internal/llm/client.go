// Package llm routes model calls to heterogeneous LLM backends behind a
// single call contract, with per-provider pacing and bounded retry on
// rate limiting.
package llm

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/project-aether/aether/internal/metrics"
)

// Options configures retry and pacing behavior.
type Options struct {
	// MaxAttempts bounds the total number of calls per request.
	MaxAttempts int
	// BackoffBase and BackoffFactor shape the retry delay:
	// base * factor^attempt, where attempt counts failed tries so far.
	BackoffBase   time.Duration
	BackoffFactor float64
	// Pacing is the pre-call delay per provider, charged once per call,
	// not per retry attempt.
	Pacing map[string]time.Duration
}

// DefaultOptions returns the pacing and retry defaults. Cloud providers
// with aggressive rate limits pace slower than local inference.
func DefaultOptions() Options {
	return Options{
		MaxAttempts:   3,
		BackoffBase:   time.Second,
		BackoffFactor: 2.0,
		Pacing: map[string]time.Duration{
			"openai":    time.Second,
			"anthropic": time.Second,
			"groq":      2 * time.Second,
			"ollama":    100 * time.Millisecond,
		},
	}
}

// Client dispatches calls to registered providers.
type Client struct {
	registry *Registry
	opts     Options
	log      *logrus.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewClient creates a dispatch client over the given registry.
func NewClient(registry *Registry, opts Options, log *logrus.Logger) *Client {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		registry: registry,
		opts:     opts,
		log:      log,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Call resolves modelSpec, paces, and runs the bounded retry loop.
// Rate-limit-class errors back off and retry; everything else
// propagates immediately wrapped in a ProviderError.
func (c *Client) Call(ctx context.Context, modelSpec, prompt, systemPrompt string) (string, error) {
	providerName, model, err := ParseModelSpec(modelSpec)
	if err != nil {
		return "", err
	}
	provider, ok := c.registry.Lookup(providerName)
	if !ok {
		return "", &ConfigError{Spec: modelSpec, Reason: "unknown provider " + providerName}
	}

	// Pacing is charged once per call, before the retry loop.
	if err := c.sleep(ctx, c.opts.Pacing[providerName]); err != nil {
		return "", &ProviderError{Provider: providerName, Err: err}
	}

	var lastErr error
	for attempt := 0; attempt < c.opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			metrics.LLMRetries.WithLabelValues(providerName).Inc()
			delay := c.backoff(attempt - 1)
			c.log.WithFields(logrus.Fields{
				"provider": providerName,
				"attempt":  attempt + 1,
				"delay":    delay,
			}).Warn("rate limited, backing off")
			if err := c.sleep(ctx, delay); err != nil {
				return "", &ProviderError{Provider: providerName, Err: err}
			}
		}

		text, err := provider.Complete(ctx, model, prompt, systemPrompt)
		if err == nil {
			metrics.LLMCalls.WithLabelValues(providerName, "ok").Inc()
			return text, nil
		}

		var rl *RateLimitError
		if !errors.As(err, &rl) {
			metrics.LLMCalls.WithLabelValues(providerName, "error").Inc()
			return "", &ProviderError{Provider: providerName, Err: err}
		}
		metrics.LLMCalls.WithLabelValues(providerName, "rate_limited").Inc()
		lastErr = err
	}
	return "", &ProviderError{Provider: providerName, Err: lastErr}
}

func (c *Client) backoff(attempt int) time.Duration {
	return time.Duration(float64(c.opts.BackoffBase) * math.Pow(c.opts.BackoffFactor, float64(attempt)))
}

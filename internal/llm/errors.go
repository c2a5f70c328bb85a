package llm

import "fmt"

// ConfigError is a non-retryable configuration problem, such as an
// unknown provider or a malformed model spec.
type ConfigError struct {
	Spec   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("llm: invalid model spec %q: %s", e.Spec, e.Reason)
}

// ProviderError wraps a terminal failure from a specific provider after
// the retry budget is exhausted.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm: provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// RateLimitError marks a rate-limit-class failure (HTTP 429 or a
// provider-reported rate-limit condition). Only these are retried.
type RateLimitError struct {
	Provider string
	Status   int
	Body     string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("llm: provider %s rate limited (status %d): %s", e.Provider, e.Status, e.Body)
}

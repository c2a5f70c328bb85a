// Package metrics exposes Prometheus counters for the analysis pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LLMCalls counts completed provider calls by provider and outcome
	// ("ok", "rate_limited", "error").
	LLMCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aether_llm_calls_total",
		Help: "LLM provider calls by provider and outcome.",
	}, []string{"provider", "outcome"})

	// LLMRetries counts backoff retries per provider.
	LLMRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aether_llm_retries_total",
		Help: "LLM call retries triggered by rate limiting.",
	}, []string{"provider"})

	// Jobs counts analysis jobs reaching a terminal status.
	Jobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aether_jobs_total",
		Help: "Analysis jobs by terminal status.",
	}, []string{"status"})
)

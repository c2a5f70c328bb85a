package llm

import (
	"context"
	"fmt"
	"strings"
)

// Caller is the uniform call contract every pipeline stage depends on.
// modelSpec has the form "provider/model".
type Caller interface {
	Call(ctx context.Context, modelSpec, prompt, systemPrompt string) (string, error)
}

// Provider executes a completion against one backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, model, prompt, systemPrompt string) (string, error)
}

// Registry maps provider names to implementations. Adding a backend
// means registering an implementation here, not editing a dispatch
// function.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds a registry from the given providers.
func NewRegistry(providers ...Provider) *Registry {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Lookup returns the provider registered under name.
func (r *Registry) Lookup(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// ParseModelSpec splits "provider/model" into its two parts.
func ParseModelSpec(spec string) (provider, model string, err error) {
	provider, model, ok := strings.Cut(spec, "/")
	if !ok || provider == "" || model == "" {
		return "", "", &ConfigError{Spec: spec, Reason: "want provider/model"}
	}
	return provider, model, nil
}

// chatMessage is the OpenAI-style message shape shared by several backends.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func chatMessages(prompt, systemPrompt string) []chatMessage {
	var msgs []chatMessage
	if systemPrompt != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: systemPrompt})
	}
	return append(msgs, chatMessage{Role: "user", Content: prompt})
}

func rateLimited(status int, body string) bool {
	if status == 429 {
		return true
	}
	lower := strings.ToLower(body)
	return strings.Contains(lower, "rate limit") || strings.Contains(lower, "rate_limit")
}

func statusError(provider string, status int, body string) error {
	if rateLimited(status, body) {
		return &RateLimitError{Provider: provider, Status: status, Body: body}
	}
	return fmt.Errorf("unexpected status %d: %s", status, body)
}

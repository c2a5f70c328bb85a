package llm

import (
	"context"
	"net/http"
)

// GroqProvider calls the Groq OpenAI-compatible chat API.
type GroqProvider struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewGroqProvider creates a provider for api.groq.com.
func NewGroqProvider(apiKey string, httpClient *http.Client) *GroqProvider {
	return &GroqProvider{httpClient: httpClient, apiKey: apiKey, baseURL: "https://api.groq.com/openai/v1"}
}

// NewGroqProviderWithBaseURL creates a provider with a custom base URL (for testing).
func NewGroqProviderWithBaseURL(apiKey, baseURL string, httpClient *http.Client) *GroqProvider {
	return &GroqProvider{httpClient: httpClient, apiKey: apiKey, baseURL: baseURL}
}

func (p *GroqProvider) Name() string { return "groq" }

// Complete implements Provider.
func (p *GroqProvider) Complete(ctx context.Context, model, prompt, systemPrompt string) (string, error) {
	return completeChat(ctx, p.httpClient, p.Name(), p.baseURL+"/chat/completions", p.apiKey, chatCompletionRequest{
		Model:       model,
		Messages:    chatMessages(prompt, systemPrompt),
		Temperature: defaultTemperature,
		MaxTokens:   4096,
	})
}

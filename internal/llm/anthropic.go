package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const anthropicVersion = "2023-06-01"

// AnthropicProvider calls the Anthropic messages API.
type AnthropicProvider struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewAnthropicProvider creates a provider for api.anthropic.com.
func NewAnthropicProvider(apiKey string, httpClient *http.Client) *AnthropicProvider {
	return &AnthropicProvider{httpClient: httpClient, apiKey: apiKey, baseURL: "https://api.anthropic.com/v1"}
}

// NewAnthropicProviderWithBaseURL creates a provider with a custom base URL (for testing).
func NewAnthropicProviderWithBaseURL(apiKey, baseURL string, httpClient *http.Client) *AnthropicProvider {
	return &AnthropicProvider{httpClient: httpClient, apiKey: apiKey, baseURL: baseURL}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	System      string        `json:"system,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Complete implements Provider.
func (p *AnthropicProvider) Complete(ctx context.Context, model, prompt, systemPrompt string) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:       model,
		MaxTokens:   4096,
		System:      systemPrompt,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: defaultTemperature,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", statusError(p.Name(), resp.StatusCode, string(respBody))
	}

	var msgResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&msgResp); err != nil {
		return "", err
	}
	if len(msgResp.Content) == 0 {
		return "", fmt.Errorf("response contained no content blocks")
	}
	return msgResp.Content[0].Text, nil
}

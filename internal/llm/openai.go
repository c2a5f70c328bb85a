package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultTemperature = 0.7

// chatCompletionRequest is the OpenAI-compatible request body, also
// spoken by Groq.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// completeChat posts an OpenAI-compatible chat completion and returns
// the first choice's content.
func completeChat(ctx context.Context, httpClient *http.Client, provider, url, apiKey string, reqBody chatCompletionRequest) (string, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", statusError(provider, resp.StatusCode, string(respBody))
	}

	var chatResp chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", err
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}
	return chatResp.Choices[0].Message.Content, nil
}

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewOpenAIProvider creates a provider for api.openai.com.
func NewOpenAIProvider(apiKey string, httpClient *http.Client) *OpenAIProvider {
	return &OpenAIProvider{httpClient: httpClient, apiKey: apiKey, baseURL: "https://api.openai.com/v1"}
}

// NewOpenAIProviderWithBaseURL creates a provider with a custom base URL (for testing).
func NewOpenAIProviderWithBaseURL(apiKey, baseURL string, httpClient *http.Client) *OpenAIProvider {
	return &OpenAIProvider{httpClient: httpClient, apiKey: apiKey, baseURL: baseURL}
}

func (p *OpenAIProvider) Name() string { return "openai" }

// Complete implements Provider.
func (p *OpenAIProvider) Complete(ctx context.Context, model, prompt, systemPrompt string) (string, error) {
	return completeChat(ctx, p.httpClient, p.Name(), p.baseURL+"/chat/completions", p.apiKey, chatCompletionRequest{
		Model:       model,
		Messages:    chatMessages(prompt, systemPrompt),
		Temperature: defaultTemperature,
	})
}

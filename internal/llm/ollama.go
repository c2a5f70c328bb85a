package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// OllamaProvider calls Ollama chat endpoints with model-aware routing:
// models on the local allow-list go to the local endpoint, everything
// else to the remote one.
type OllamaProvider struct {
	httpClient  *http.Client
	localURL    string
	remoteURL   string
	localModels map[string]bool
	log         *logrus.Logger
}

// NewOllamaProvider creates a routing Ollama provider. localModels is
// the allow-list of model names served by the local endpoint.
func NewOllamaProvider(localURL, remoteURL string, localModels []string, httpClient *http.Client, log *logrus.Logger) *OllamaProvider {
	allow := make(map[string]bool, len(localModels))
	for _, m := range localModels {
		allow[strings.ToLower(m)] = true
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OllamaProvider{
		httpClient:  httpClient,
		localURL:    strings.TrimRight(localURL, "/"),
		remoteURL:   strings.TrimRight(remoteURL, "/"),
		localModels: allow,
		log:         log,
	}
}

func (p *OllamaProvider) Name() string { return "ollama" }

// Endpoint returns the URL the given model routes to.
func (p *OllamaProvider) Endpoint(model string) string {
	if p.localModels[strings.ToLower(model)] {
		return p.localURL
	}
	return p.remoteURL
}

type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  struct {
		Temperature float64 `json:"temperature"`
	} `json:"options"`
}

type ollamaResponse struct {
	Message chatMessage `json:"message"`
}

// Complete implements Provider. An HTTP 200 with an empty message body
// is retried once before surfacing as an error: some backends answer
// 200 with no payload under load.
func (p *OllamaProvider) Complete(ctx context.Context, model, prompt, systemPrompt string) (string, error) {
	endpoint := p.Endpoint(model)
	p.log.WithFields(logrus.Fields{"model": model, "endpoint": endpoint}).Debug("ollama routing")

	text, err := p.complete(ctx, endpoint, model, prompt, systemPrompt)
	if err == nil && text == "" {
		p.log.WithField("model", model).Warn("empty response body, retrying once")
		text, err = p.complete(ctx, endpoint, model, prompt, systemPrompt)
		if err == nil && text == "" {
			return "", fmt.Errorf("empty response body after retry")
		}
	}
	return text, err
}

func (p *OllamaProvider) complete(ctx context.Context, endpoint, model, prompt, systemPrompt string) (string, error) {
	reqBody := ollamaRequest{
		Model:    model,
		Messages: chatMessages(prompt, systemPrompt),
		Stream:   false,
	}
	reqBody.Options.Temperature = defaultTemperature

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
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

	var chatResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", err
	}
	return strings.TrimSpace(chatResp.Message.Content), nil
}

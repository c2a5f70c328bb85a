package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ollamaHandler(contents []string, calls *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content := ""
		if *calls < len(contents) {
			content = contents[*calls]
		}
		*calls++
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": content},
		})
	}
}

func TestOllamaEndpointRouting(t *testing.T) {
	p := NewOllamaProvider(
		"http://127.0.0.1:11434",
		"http://gpu-box:11434",
		[]string{"qwen2.5:14b", "qwen2.5:7b"},
		&http.Client{},
		nil,
	)

	tests := []struct {
		model string
		want  string
	}{
		{"qwen2.5:14b", "http://127.0.0.1:11434"},
		{"QWEN2.5:7B", "http://127.0.0.1:11434"},
		{"llama3:70b", "http://gpu-box:11434"},
		{"mistral", "http://gpu-box:11434"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Endpoint(tt.model), "model %s", tt.model)
	}
}

func TestOllamaEmptyBodyRetriedOnce(t *testing.T) {
	var calls int
	srv := httptest.NewServer(ollamaHandler([]string{"", "a real answer"}, &calls))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, srv.URL, nil, srv.Client(), nil)
	text, err := p.Complete(context.Background(), "llama3", "prompt", "")
	require.NoError(t, err)
	assert.Equal(t, "a real answer", text)
	assert.Equal(t, 2, calls)
}

func TestOllamaEmptyBodyTwiceIsError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(ollamaHandler([]string{"", ""}, &calls))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, srv.URL, nil, srv.Client(), nil)
	_, err := p.Complete(context.Background(), "llama3", "prompt", "")
	require.Error(t, err)
	assert.Equal(t, 2, calls, "exactly one extra attempt for empty bodies")
}

func TestOllamaNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, srv.URL, nil, srv.Client(), nil)
	_, err := p.Complete(context.Background(), "missing", "prompt", "")
	require.Error(t, err)
	var rl *RateLimitError
	assert.NotErrorAs(t, err, &rl, "a 404 is not rate-limit-class")
}

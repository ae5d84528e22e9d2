package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OllamaGateway calls an OpenAI-compatible chat endpoint (Ollama, LM Studio,
// vLLM, etc.).
type OllamaGateway struct {
	url    string       // e.g. "http://localhost:11434"
	model  string       // e.g. "llava:7b"
	client *http.Client // reused across calls
}

// Compile-time check: *OllamaGateway satisfies the Gateway interface.
var _ Gateway = (*OllamaGateway)(nil)

// NewOllamaGateway creates a gateway for the given endpoint. The timeout
// bounds every model call; zero or negative falls back to two minutes.
func NewOllamaGateway(url, model string, timeout time.Duration) *OllamaGateway {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaGateway{
		url:   url,
		model: model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type llmRequest struct {
	Model       string       `json:"model"`
	Messages    []llmMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
}

type llmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type llmResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat sends a single system+user exchange and returns the raw text reply.
func (g *OllamaGateway) Chat(ctx context.Context, system, user string) (string, error) {
	messages := []llmMessage{}
	if system != "" {
		messages = append(messages, llmMessage{Role: "system", Content: system})
	}
	messages = append(messages, llmMessage{Role: "user", Content: user})

	reqBody := llmRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: 0,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &CallError{Reason: "failed to marshal request", Wrapped: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &CallError{Reason: "failed to create request", Wrapped: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &CallError{Reason: "request failed", Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &CallError{Reason: fmt.Sprintf("endpoint returned status %d", resp.StatusCode)}
	}

	var llmResp llmResponse
	if err := json.NewDecoder(resp.Body).Decode(&llmResp); err != nil {
		return "", &CallError{Reason: "failed to decode response", Wrapped: err}
	}

	if len(llmResp.Choices) == 0 {
		return "", &CallError{Reason: "model returned no choices"}
	}

	content := llmResp.Choices[0].Message.Content
	if content == "" {
		return "", &CallError{Reason: "model returned empty content"}
	}

	return content, nil
}

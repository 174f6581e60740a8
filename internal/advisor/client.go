package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUpstreamUnavailable occurs when the chat-completion backend cannot be
// reached or returns an unusable response. Advisor failures never touch the
// ledger.
var ErrUpstreamUnavailable = errors.New("advisor upstream unavailable")

// Message is one turn of an advisor conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client represents a connector to an external chat-completion service.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// HTTPClient calls an OpenAI-compatible chat-completions endpoint.
type HTTPClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewHTTPClient builds a chat-completion client.
func NewHTTPClient(baseURL, apiKey, model string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (c *HTTPClient) Complete(ctx context.Context, messages []Message) (string, error) {
	payload, err := json.Marshal(completionRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var decoded completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstreamUnavailable, err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUpstreamUnavailable)
	}
	return decoded.Choices[0].Message.Content, nil
}

// StaticClient simulates a successful advisor backend for database-less runs
// and tests.
type StaticClient struct {
	Reply string
}

func (s StaticClient) Complete(_ context.Context, _ []Message) (string, error) {
	if s.Reply == "" {
		return "Keep tracking your spending and funding your goals regularly.", nil
	}
	return s.Reply, nil
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
)

const defaultRequestTimeout = 30 * time.Second

// ClientConfig configures the chat-completions client. BaseURL points at an
// OpenRouter-compatible endpoint.
type ClientConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	Referer   string
	AppTitle  string
}

// Message is one entry of the conversation sent to the completion endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer is the completion transport the gateway depends on.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Client calls the external chat-completions endpoint.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type completionRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the conversation and returns the assistant's reply text.
// HTTP 429 maps to a rate-limit error, 402 to quota exhaustion, and any
// other non-2xx status to an upstream error. No retries are issued here.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.AppTitle != "" {
		req.Header.Set("X-Title", c.cfg.AppTitle)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Upstream("assistant", fmt.Errorf("completion request failed: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", apperrors.RateLimited(fmt.Errorf("completion endpoint returned 429"))
	case resp.StatusCode == http.StatusPaymentRequired:
		return "", apperrors.QuotaExhausted(fmt.Errorf("completion endpoint returned 402"))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", apperrors.Upstream("assistant", fmt.Errorf("completion endpoint returned %d: %s", resp.StatusCode, detail))
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", apperrors.Upstream("assistant", fmt.Errorf("failed to decode completion response: %w", err))
	}
	if len(completion.Choices) == 0 {
		return "", apperrors.Upstream("assistant", fmt.Errorf("completion response has no choices"))
	}

	return completion.Choices[0].Message.Content, nil
}

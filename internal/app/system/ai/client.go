// Package ai forwards prompts to an OpenAI-compatible chat completions API
// with a fixed German system prompt per task type and parses the textual or
// JSON responses.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/system/metrics"
)

var (
	// ErrNotConfigured is returned when no provider API key is set.
	ErrNotConfigured = errors.New("llm api key not configured")
	// ErrRateLimited is returned when the provider rejects the call for
	// quota or rate reasons.
	ErrRateLimited = errors.New("llm provider rate limited")
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config holds provider settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // overridable for tests
}

// Client is a thin chat-completions client. Safe for concurrent use.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a Client. An empty API key yields a client whose calls
// fail with ErrNotConfigured.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: 90 * time.Second},
		log:     logger,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete sends prompt under the system prompt registered for task.
// systemOverride, when non-empty, replaces the task's system prompt.
func (c *Client) Complete(ctx context.Context, task, systemOverride, prompt string) (string, error) {
	system := systemOverride
	if system == "" {
		system = SystemPrompt(task)
	}
	return c.chat(ctx, task, []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	})
}

// CompleteWithImage sends prompt together with a base64-encoded image for
// vision tasks such as receipt scanning.
func (c *Client) CompleteWithImage(ctx context.Context, task, prompt, imageB64, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	parts := []contentPart{
		{Type: "text", Text: prompt},
		{Type: "image_url", ImageURL: &imageURL{
			URL: fmt.Sprintf("data:%s;base64,%s", mimeType, imageB64),
		}},
	}
	return c.chat(ctx, task, []chatMessage{
		{Role: "system", Content: SystemPrompt(task)},
		{Role: "user", Content: parts},
	})
}

func (c *Client) chat(ctx context.Context, task string, messages []chatMessage) (string, error) {
	if c.apiKey == "" {
		metrics.AICalls.WithLabelValues(task, "unconfigured").Inc()
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.AICalls.WithLabelValues(task, "error").Inc()
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		metrics.AICalls.WithLabelValues(task, "error").Inc()
		return "", fmt.Errorf("read llm response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		metrics.AICalls.WithLabelValues(task, "error").Inc()
		return "", fmt.Errorf("decode llm response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests ||
		(parsed.Error != nil && parsed.Error.Code == "insufficient_quota") {
		metrics.AICalls.WithLabelValues(task, "rate_limited").Inc()
		return "", ErrRateLimited
	}
	if resp.StatusCode >= 400 {
		metrics.AICalls.WithLabelValues(task, "error").Inc()
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("llm call failed: %s", msg)
	}
	if len(parsed.Choices) == 0 {
		metrics.AICalls.WithLabelValues(task, "error").Inc()
		return "", errors.New("llm response contained no choices")
	}

	metrics.AICalls.WithLabelValues(task, "ok").Inc()
	c.log.Debug("llm call completed", zap.String("task", task), zap.String("model", c.model))
	return parsed.Choices[0].Message.Content, nil
}

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestCompleteUnconfigured(t *testing.T) {
	c := NewClient(Config{}, zap.NewNop())
	if c.Configured() {
		t.Error("Configured() = true without an API key")
	}
	_, err := c.Complete(context.Background(), TaskGeneral, "", "Hallo")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestComplete(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Sehr geehrte Damen und Herren,"}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", Model: "test-model", BaseURL: srv.URL}, zap.NewNop())
	out, err := c.Complete(context.Background(), TaskMotion, "", "Erstelle einen Antrag")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "Sehr geehrte Damen und Herren," {
		t.Errorf("content = %q", out)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotReq.Model != "test-model" || len(gotReq.Messages) != 2 {
		t.Errorf("request = %+v", gotReq)
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != SystemPrompt(TaskMotion) {
		t.Errorf("system message = %+v", gotReq.Messages[0])
	}
}

func TestCompleteSystemOverride(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "ok"}}},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL}, zap.NewNop())
	if _, err := c.Complete(context.Background(), TaskGeneral, "Eigenes System-Prompt", "Hallo"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if gotReq.Messages[0].Content != "Eigenes System-Prompt" {
		t.Errorf("system message = %v", gotReq.Messages[0].Content)
	}
}

func TestCompleteRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limit", "code": "rate_limit_exceeded"},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL}, zap.NewNop())
	_, err := c.Complete(context.Background(), TaskGeneral, "", "Hallo")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestCompleteQuotaExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "quota exceeded", "code": "insufficient_quota"},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL}, zap.NewNop())
	_, err := c.Complete(context.Background(), TaskGeneral, "", "Hallo")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestCompleteWithImage(t *testing.T) {
	var gotReq struct {
		Messages []struct {
			Role    string `json:"role"`
			Content json.RawMessage
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": `{"amount": 12.5}`}}},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL}, zap.NewNop())
	out, err := c.CompleteWithImage(context.Background(), TaskReceipt, "Extrahiere die Daten", "aGVsbG8=", "image/png")
	if err != nil {
		t.Fatalf("CompleteWithImage: %v", err)
	}
	if out != `{"amount": 12.5}` {
		t.Errorf("content = %q", out)
	}

	var parts []contentPart
	if err := json.Unmarshal(gotReq.Messages[1].Content, &parts); err != nil {
		t.Fatalf("user content is not a part list: %v", err)
	}
	if len(parts) != 2 || parts[1].ImageURL == nil {
		t.Fatalf("parts = %+v", parts)
	}
	if parts[1].ImageURL.URL != "data:image/png;base64,aGVsbG8=" {
		t.Errorf("image url = %q", parts[1].ImageURL.URL)
	}
}

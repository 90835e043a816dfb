package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OpenAICompatProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenAICompatProvider(Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestOpenAICompat_HappyPath(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", auth)
		}

		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("expected system+user messages, got %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model": "test-model-0613",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"title":"Learn Go"}`}},
			},
			"usage": map[string]any{
				"prompt_tokens":     40,
				"completion_tokens": 25,
				"total_tokens":      65,
			},
		})
	}

	p := newTestProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a curriculum planner.",
		Prompt:    "Plan a roadmap.",
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != `{"title":"Learn Go"}` {
		t.Fatalf("unexpected text: %q", resp.Text)
	}
	if resp.Model != "test-model-0613" {
		t.Fatalf("expected model from response, got %q", resp.Model)
	}
	if resp.Usage.TotalTokens != 65 {
		t.Fatalf("expected 65 total tokens, got %d", resp.Usage.TotalTokens)
	}
}

func TestOpenAICompat_RateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}

	p := newTestProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{Prompt: "test"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got: %T (%v)", err, err)
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got: %T", err)
	}
	if se.RetryAfter != 30*time.Second {
		t.Fatalf("expected retry after 30s, got %s", se.RetryAfter)
	}
}

func TestOpenAICompat_InvalidKey(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}

	p := newTestProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{Prompt: "test"})
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got: %T (%v)", err, err)
	}
}

func TestOpenAICompat_ServerError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream down"))
	}

	p := newTestProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{Prompt: "test"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got: %T (%v)", err, err)
	}
}

func TestOpenAICompat_Timeout(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{}`))
	}
	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)

	p, err := NewOpenAICompatProvider(Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.Generate(context.Background(), Request{Prompt: "test"})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got: %T (%v)", err, err)
	}
}

func TestOpenAICompat_TruncatedBody(t *testing.T) {
	// 宣告的长度大于实际写入，客户端读取正文时拿到 unexpected EOF
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "4096")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"choices":[{"mes`))
	}

	p := newTestProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{Prompt: "test"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got: %T (%v)", err, err)
	}
	if !strings.Contains(err.Error(), "reading response body") {
		t.Fatalf("expected read failure detail, got: %v", err)
	}
}

func TestOpenAICompat_NoChoices(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}

	p := newTestProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{Prompt: "test"})
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got: %T (%v)", err, err)
	}
}

func TestOpenAICompat_MissingConfig(t *testing.T) {
	if _, err := NewOpenAICompatProvider(Config{BaseURL: "http://x"}); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewOpenAICompatProvider(Config{APIKey: "k"}); err == nil {
		t.Fatal("expected error for missing base url")
	}
}

func TestOpenAICompat_ModelID(t *testing.T) {
	p := &OpenAICompatProvider{model: "test-model"}
	if p.ModelID() != "test-model" {
		t.Fatalf("expected 'test-model', got %q", p.ModelID())
	}
}

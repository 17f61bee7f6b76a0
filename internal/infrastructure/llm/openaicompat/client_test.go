package openaicompat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirillkom/caselaw-assistant/internal/core/ports"
	"github.com/kirillkom/caselaw-assistant/internal/infrastructure/llm"
)

func TestCompleteSendsChatRequest(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" answer "}}]}`))
	}))
	defer server.Close()

	client := New(server.URL, "test-key", "gpt-4o-mini")
	out, err := client.Complete(context.Background(), "question", ports.CompletionOptions{
		MaxTokens: 100,
		JSONMode:  true,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "answer" {
		t.Fatalf("expected trimmed content, got %q", out)
	}
	if payload["model"] != "gpt-4o-mini" {
		t.Fatalf("unexpected model: %v", payload["model"])
	}
	format, _ := payload["response_format"].(map[string]any)
	if format == nil || format["type"] != "json_object" {
		t.Fatalf("expected json response format, got %v", payload["response_format"])
	}
}

func TestCompleteNormalizesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer server.Close()

	client := New(server.URL, "test-key", "gpt-4o-mini")
	_, err := client.Complete(context.Background(), "question", ports.CompletionOptions{})
	if err == nil {
		t.Fatalf("expected error")
	}

	var statusErr *llm.HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected HTTPStatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", statusErr.StatusCode)
	}
}

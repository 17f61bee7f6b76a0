package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/caselaw-assistant/internal/core/ports"
	"github.com/kirillkom/caselaw-assistant/internal/infrastructure/llm"
)

func TestCompleteForwardsModelOptions(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":"  [8, 3]  "}`))
	}))
	defer server.Close()

	client := New(server.URL, "llama3")
	out, err := client.Complete(context.Background(), "rate these", ports.CompletionOptions{
		MaxTokens: 200,
		JSONMode:  true,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "[8, 3]" {
		t.Fatalf("expected trimmed response, got %q", out)
	}
	if payload["model"] != "llama3" || payload["format"] != "json" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	options, _ := payload["options"].(map[string]any)
	if options == nil || options["num_predict"].(float64) != 200 {
		t.Fatalf("expected num_predict forwarded, got %v", payload["options"])
	}
}

func TestCompleteReturnsTypedStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, "llama3")
	_, err := client.Complete(context.Background(), "q", ports.CompletionOptions{})
	if err == nil {
		t.Fatalf("expected error")
	}

	var statusErr *llm.HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected HTTPStatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", statusErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/caselaw-assistant/internal/infrastructure/llm"
)

// Client calls the sentence-embedding sidecar. Different serving stacks wrap
// the vector differently, so the response decoder accepts a bare array, a
// nested array, and both common envelope keys.
type Client struct {
	endpoint   string
	dimension  int
	httpClient *http.Client
}

func New(endpoint string, dimension int) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		dimension:  dimension,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(map[string]any{"text": text})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &llm.HTTPStatusError{
			Operation:  "embed",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read embed response: %w", err)
	}

	vector, err := decodeVector(raw)
	if err != nil {
		return nil, err
	}
	if c.dimension > 0 && len(vector) != c.dimension {
		return nil, fmt.Errorf("embedding dimension mismatch: want %d, got %d", c.dimension, len(vector))
	}
	return vector, nil
}

func decodeVector(raw []byte) ([]float32, error) {
	var flat []float32
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}

	var nested [][]float32
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}

	var envelope struct {
		Embedding  json.RawMessage `json:"embedding"`
		Embeddings json.RawMessage `json:"embeddings"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if len(envelope.Embedding) > 0 {
			return decodeVector(envelope.Embedding)
		}
		if len(envelope.Embeddings) > 0 {
			return decodeVector(envelope.Embeddings)
		}
	}
	return nil, fmt.Errorf("no embedding vector in response")
}

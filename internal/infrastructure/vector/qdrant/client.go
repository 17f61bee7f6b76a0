package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/caselaw-assistant/internal/core/domain"
)

// Client is a thin HTTP client for a prebuilt qdrant collection of case-law
// passages. The service never writes to the index; ingestion is an offline
// pipeline.
type Client struct {
	baseURL    string
	collection string
	httpClient *http.Client
}

func New(baseURL, collection string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Search(
	ctx context.Context,
	queryVector []float32,
	threshold float64,
	limit int,
	filter domain.SearchFilter,
) ([]domain.Candidate, error) {
	reqBody := map[string]any{
		"vector":          queryVector,
		"limit":           limit,
		"score_threshold": threshold,
		"with_payload":    true,
	}
	if filter.Category != "" {
		reqBody["filter"] = map[string]any{
			"must": []map[string]any{
				{
					"key": "category",
					"match": map[string]any{
						"value": filter.Category,
					},
				},
			},
		}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, statusError("qdrant search", resp)
	}

	var searchResp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]domain.Candidate, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		cand := domain.Candidate{Score: r.Score}
		cand.ID = pointID(r.ID, r.Payload)
		cand.CaseID = getStringPayload(r.Payload, "case_id")
		cand.Title = getStringPayload(r.Payload, "title")
		cand.Citation = getStringPayload(r.Payload, "citation")
		cand.Category = getStringPayload(r.Payload, "category")
		cand.Date = getStringPayload(r.Payload, "date")
		cand.Section = getStringPayload(r.Payload, "section")
		cand.Index = getIntPayload(r.Payload, "chunk_index")
		cand.SourceID = getStringPayload(r.Payload, "source_id")
		cand.Text = getStringPayload(r.Payload, "text")
		out = append(out, cand)
	}
	return out, nil
}

// PointCount reports how many passages the collection holds. Used at
// startup to log whether the index looks populated.
func (c *Client) PointCount(ctx context.Context) (int, error) {
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create collection info request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("qdrant collection info request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return 0, statusError("qdrant collection info", resp)
	}

	var infoResp struct {
		Result struct {
			PointsCount int `json:"points_count"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&infoResp); err != nil {
		return 0, fmt.Errorf("decode collection info response: %w", err)
	}
	return infoResp.Result.PointsCount, nil
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return fmt.Errorf("%s status: %s: %s", op, resp.Status, msg)
	}
	return fmt.Errorf("%s status: %s", op, resp.Status)
}

// pointID prefers an explicit passage id from the payload so scoring keys
// stay stable across reindexing; the point id is the fallback.
func pointID(id any, payload map[string]any) string {
	if s := getStringPayload(payload, "passage_id"); s != "" {
		return s
	}
	if id == nil {
		return ""
	}
	if s, ok := id.(string); ok {
		return s
	}
	if f, ok := id.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprintf("%v", id)
}

func getStringPayload(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func getIntPayload(payload map[string]any, key string) int {
	v, ok := payload[key]
	if !ok {
		return 0
	}
	if f, ok := v.(float64); ok {
		return int(f)
	}
	if n, ok := v.(int); ok {
		return n
	}
	return 0
}

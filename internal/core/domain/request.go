package domain

// SearchRequest carries the caller's search parameters. Limit and Rerank
// are optional overrides; the usecase clamps them against configuration.
type SearchRequest struct {
	Query  string `json:"query"`
	Court  string `json:"court"`
	Limit  int    `json:"limit,omitempty"`
	Rerank *bool  `json:"rerank,omitempty"`
}

// SearchCompletedEvent is published after each search for out-of-band
// observability. It intentionally carries no passage text.
type SearchCompletedEvent struct {
	RequestID      string                   `json:"request_id"`
	QueryWords     int                      `json:"query_words"`
	Results        int                      `json:"results"`
	Reranked       bool                     `json:"reranked"`
	ElapsedSeconds float64                  `json:"elapsed_seconds"`
	Signals        map[Signal]SignalOutcome `json:"signals"`
}

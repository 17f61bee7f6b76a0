package domain

// SignalOutcome records what one retrieval signal contributed to a request.
type SignalOutcome struct {
	Candidates int  `json:"candidates"`
	Failed     bool `json:"failed,omitempty"`
}

type Diagnostics struct {
	Signals  map[Signal]SignalOutcome `json:"signals"`
	Merged   int                      `json:"merged"`
	Reranked bool                     `json:"reranked"`
}

// SearchResponse is the terminal result of one search request. It is built
// once, returned, and discarded; nothing is persisted.
type SearchResponse struct {
	Query          string         `json:"query"`
	Analysis       *QueryAnalysis `json:"analysis,omitempty"`
	Results        []Candidate    `json:"results"`
	Answer         string         `json:"answer,omitempty"`
	ElapsedSeconds float64        `json:"elapsed_seconds"`
	Diagnostics    Diagnostics    `json:"diagnostics"`
}

// CaseSection is one stored chunk of a case in document order.
type CaseSection struct {
	Section string `json:"section"`
	Index   int    `json:"index"`
	Text    string `json:"text"`
}

// CaseDocument is the reconstructed view of one source case.
type CaseDocument struct {
	CaseID   string        `json:"case_id"`
	Title    string        `json:"title"`
	Citation string        `json:"citation"`
	Category string        `json:"category"`
	Date     string        `json:"date"`
	Sections []CaseSection `json:"sections"`
	Text     string        `json:"text"`
}

type CorpusStats struct {
	TotalChunks int            `json:"total_chunks"`
	TotalCases  int            `json:"total_cases"`
	ByCategory  map[string]int `json:"by_category"`
}

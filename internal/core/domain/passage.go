package domain

import "fmt"

// Signal identifies the retrieval path that produced or reinforced a candidate.
type Signal string

const (
	SignalVectorMain Signal = "vector_main"
	SignalLexical    Signal = "lexical"
	SignalAIRerank   Signal = "ai_rerank"
)

// SignalSubQuery returns the signal tag for the n-th decomposed sub-query (1-based).
func SignalSubQuery(n int) Signal {
	return Signal(fmt.Sprintf("vector_subquery_%d", n))
}

type SearchFilter struct {
	Category string
}

// Passage is an atomic unit of case text as returned by the external stores.
// It is never mutated after retrieval; scoring state lives on Candidate.
type Passage struct {
	ID       string `json:"id"`
	CaseID   string `json:"case_id"`
	Title    string `json:"title"`
	Citation string `json:"citation"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Section  string `json:"section"`
	Index    int    `json:"-"`
	SourceID string `json:"source_id"`
	Text     string `json:"text"`
}

// Candidate is a Passage annotated with fusion-stage scoring state.
// Score is a relevance confidence in [0,1), not a probability. Relevance,
// when set, is an independent 0-10 judgment from the AI rerank stage.
type Candidate struct {
	Passage
	Score     float64  `json:"score"`
	Signals   []Signal `json:"signals,omitempty"`
	Relevance *int     `json:"relevance,omitempty"`
}

// HasSignal reports whether the candidate was produced or reinforced by sig.
func (c Candidate) HasSignal(sig Signal) bool {
	for _, s := range c.Signals {
		if s == sig {
			return true
		}
	}
	return false
}

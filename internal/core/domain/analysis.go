package domain

type QueryType string

const (
	QueryTypeSimple  QueryType = "simple"
	QueryTypeComplex QueryType = "complex"
	QueryTypeFactual QueryType = "factual"
)

// QueryAnalysis is the decomposition of one search query. It is built once
// per request and read-only afterwards.
type QueryAnalysis struct {
	OriginalQuery string    `json:"original_query"`
	SubQueries    []string  `json:"sub_queries,omitempty"`
	Keywords      []string  `json:"keywords,omitempty"`
	LegalConcepts []string  `json:"legal_concepts,omitempty"`
	QueryType     QueryType `json:"query_type"`
}

package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kirillkom/caselaw-assistant/internal/core/domain"
	"github.com/kirillkom/caselaw-assistant/internal/core/ports"
)

const (
	maxAnalysisKeywords   = 5
	maxAnalysisSubQueries = 3
	complexQueryWordCount = 8
)

// QueryAnalyzer decomposes a query into sub-queries, keywords, and domain
// concepts. The model path is best effort; a deterministic heuristic always
// produces a usable analysis, so Analyze never fails outward.
type QueryAnalyzer struct {
	llm ports.CompletionClient
}

func NewQueryAnalyzer(llm ports.CompletionClient) *QueryAnalyzer {
	return &QueryAnalyzer{llm: llm}
}

func (a *QueryAnalyzer) Analyze(ctx context.Context, query string) domain.QueryAnalysis {
	query = strings.TrimSpace(query)
	if a.llm != nil {
		analysis, err := a.analyzeWithModel(ctx, query)
		if err == nil {
			return analysis
		}
		slog.Warn("query_analysis_fallback", "error", err)
	}
	return heuristicAnalysis(query)
}

type analysisPayload struct {
	SubQueries    []string `json:"sub_queries"`
	Keywords      []string `json:"keywords"`
	LegalConcepts []string `json:"legal_concepts"`
	QueryType     string   `json:"query_type"`
}

func (a *QueryAnalyzer) analyzeWithModel(ctx context.Context, query string) (domain.QueryAnalysis, error) {
	raw, err := a.llm.Complete(ctx, buildAnalysisPrompt(query), ports.CompletionOptions{
		MaxTokens: 400,
		JSONMode:  true,
	})
	if err != nil {
		return domain.QueryAnalysis{}, err
	}

	var payload analysisPayload
	if err := decodeJSONObject(raw, &payload); err != nil {
		return domain.QueryAnalysis{}, err
	}

	analysis := domain.QueryAnalysis{
		OriginalQuery: query,
		SubQueries:    sanitizeSubQueries(payload.SubQueries, query),
		Keywords:      filterKeywords(payload.Keywords, maxAnalysisKeywords),
		LegalConcepts: sanitizeConcepts(payload.LegalConcepts),
		QueryType:     parseQueryType(payload.QueryType, query),
	}
	if len(analysis.Keywords) == 0 {
		analysis.Keywords = filterKeywords(queryWords(query), maxAnalysisKeywords)
	}
	if len(analysis.LegalConcepts) == 0 {
		analysis.LegalConcepts = conceptsIn(query)
	}
	return analysis, nil
}

// heuristicAnalysis is the deterministic fallback used when the model is
// unavailable or its output is unparsable.
func heuristicAnalysis(query string) domain.QueryAnalysis {
	words := queryWords(query)
	queryType := domain.QueryTypeSimple
	if len(words) > complexQueryWordCount {
		queryType = domain.QueryTypeComplex
	}
	return domain.QueryAnalysis{
		OriginalQuery: query,
		SubQueries:    []string{query},
		Keywords:      filterKeywords(words, maxAnalysisKeywords),
		LegalConcepts: conceptsIn(query),
		QueryType:     queryType,
	}
}

func sanitizeSubQueries(subQueries []string, original string) []string {
	out := make([]string, 0, maxAnalysisSubQueries)
	for _, sub := range subQueries {
		sub = strings.TrimSpace(sub)
		if sub == "" || strings.EqualFold(sub, original) {
			continue
		}
		out = append(out, sub)
		if len(out) >= maxAnalysisSubQueries {
			break
		}
	}
	if len(out) == 0 {
		return []string{original}
	}
	return out
}

func sanitizeConcepts(concepts []string) []string {
	out := make([]string, 0, len(concepts))
	for _, concept := range concepts {
		concept = strings.ToLower(strings.TrimSpace(concept))
		if concept != "" {
			out = append(out, concept)
		}
	}
	return out
}

func parseQueryType(raw string, query string) domain.QueryType {
	switch domain.QueryType(strings.ToLower(strings.TrimSpace(raw))) {
	case domain.QueryTypeSimple:
		return domain.QueryTypeSimple
	case domain.QueryTypeComplex:
		return domain.QueryTypeComplex
	case domain.QueryTypeFactual:
		return domain.QueryTypeFactual
	}
	if len(queryWords(query)) > complexQueryWordCount {
		return domain.QueryTypeComplex
	}
	return domain.QueryTypeSimple
}

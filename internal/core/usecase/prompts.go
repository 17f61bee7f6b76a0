package usecase

import (
	"fmt"
	"strings"

	"github.com/kirillkom/caselaw-assistant/internal/core/domain"
)

func buildAnalysisPrompt(query string) string {
	return `You are a legal research assistant.
Decompose the user query for case-law retrieval.
Return strict JSON object with keys:
sub_queries (array of up to 3 reformulations of the query),
keywords (array of up to 5 single search terms),
legal_concepts (array of legal doctrines mentioned or implied),
query_type (one of "simple", "complex", "factual").
No markdown, no extra keys.

Query:
` + query
}

func buildRerankPrompt(query string, pool []domain.Candidate, snippetLimit int) string {
	var passages strings.Builder
	for idx, cand := range pool {
		passages.WriteString(fmt.Sprintf(
			"%d. %s\n%s\n\n",
			idx+1,
			cand.Title,
			truncateText(cand.Text, snippetLimit),
		))
	}

	return fmt.Sprintf(`Rate how relevant each passage is to the legal query on a 0-10 scale:
9-10 directly on-topic, 6-8 related, 3-5 tangential, 0-2 unrelated.

Query:
%s

Passages:
%s
Respond with only a JSON array of integers, one per passage, in order (e.g. [8,3,9]).
`, query, passages.String())
}

func buildSynthesisPrompt(query string, results []domain.Candidate, passageLimit int) string {
	var contextBuilder strings.Builder
	for idx, cand := range results {
		contextBuilder.WriteString(fmt.Sprintf(
			"[%d] %s | %s | %s | %s | score=%.3f\n%s\n\n",
			idx+1,
			cand.Title,
			cand.Citation,
			cand.Category,
			cand.Date,
			cand.Score,
			truncateText(cand.Text, passageLimit),
		))
	}

	return fmt.Sprintf(`You are a legal research assistant. Answer the question using only the
numbered sources below. Cite every proposition with its source index in
square brackets, e.g. [2]. If the sources do not cover the question, say so
directly. Do not invent authorities.

Question:
%s

Sources:
%s`, query, contextBuilder.String())
}

// guidanceAnswer is the deterministic response for empty result sets; the
// model is never called for it.
func guidanceAnswer(analysis *domain.QueryAnalysis) string {
	var b strings.Builder
	b.WriteString("No passages in the corpus matched this query.")
	if analysis != nil && len(analysis.LegalConcepts) > 0 {
		b.WriteString(" Detected concepts: ")
		b.WriteString(strings.Join(analysis.LegalConcepts, ", "))
		b.WriteString(".")
	}
	if analysis != nil && len(analysis.Keywords) > 0 {
		b.WriteString(" Try broader terms than: ")
		b.WriteString(strings.Join(analysis.Keywords, ", "))
		b.WriteString(".")
	}
	b.WriteString(" Consider rephrasing with the doctrine name or removing the court filter.")
	return b.String()
}

func truncateText(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return strings.TrimSpace(text[:limit]) + "..."
}

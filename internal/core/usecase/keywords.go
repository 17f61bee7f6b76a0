package usecase

import "strings"

const minKeywordLength = 4

// stopWords are terms too common to be useful as substring queries; a
// lexical search on any of them would match most of the corpus.
var stopWords = map[string]struct{}{
	"about": {}, "above": {}, "after": {}, "again": {}, "against": {},
	"because": {}, "been": {}, "before": {}, "being": {}, "below": {},
	"between": {}, "both": {}, "case": {}, "cases": {}, "could": {},
	"court": {}, "does": {}, "doing": {}, "down": {}, "during": {},
	"each": {}, "explain": {}, "find": {}, "from": {}, "further": {},
	"have": {}, "having": {}, "here": {}, "into": {}, "just": {},
	"law": {}, "legal": {}, "more": {}, "most": {}, "once": {},
	"only": {}, "other": {}, "over": {}, "same": {}, "should": {},
	"some": {}, "such": {}, "than": {}, "that": {}, "their": {},
	"them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "through": {}, "under": {}, "until": {},
	"very": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "whether": {}, "with": {}, "would": {}, "your": {},
}

// legalConcepts is the fixed vocabulary used by the heuristic analyzer to
// flag domain concepts in a query.
var legalConcepts = []string{
	"negligence",
	"duty of care",
	"breach of contract",
	"breach of duty",
	"consideration",
	"estoppel",
	"damages",
	"causation",
	"remoteness",
	"liability",
	"strict liability",
	"vicarious liability",
	"mens rea",
	"actus reus",
	"judicial review",
	"natural justice",
	"due process",
	"habeas corpus",
	"injunction",
	"fiduciary duty",
	"unjust enrichment",
	"misrepresentation",
	"defamation",
	"nuisance",
	"trespass",
	"jurisdiction",
	"limitation period",
	"burden of proof",
	"reasonable doubt",
	"contributory negligence",
}

func isStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

// filterKeywords lower-cases, deduplicates, and drops stop-words and terms
// shorter than minKeywordLength, keeping at most limit terms in input order.
func filterKeywords(terms []string, limit int) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		word := strings.ToLower(strings.TrimSpace(term))
		if len(word) < minKeywordLength || isStopWord(word) {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// conceptsIn returns every fixed-vocabulary concept present in the query.
func conceptsIn(query string) []string {
	lower := strings.ToLower(query)
	var out []string
	for _, concept := range legalConcepts {
		if strings.Contains(lower, concept) {
			out = append(out, concept)
		}
	}
	return out
}

func queryWords(query string) []string {
	return strings.FieldsFunc(query, func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

package usecase

import (
	"sort"
	"strings"

	"github.com/kirillkom/caselaw-assistant/internal/core/domain"
)

// FusionConfig consolidates every scoring constant of the fusion pipeline so
// call sites stop carrying ad-hoc magic numbers and tests can exercise
// boundary values deterministically.
type FusionConfig struct {
	TopK             int
	SignalBoost      float64
	KeywordBoost     float64
	ScoreCap         float64
	MaxPerCase       int
	RerankPoolSize   int
	RerankCutoff     int
	RerankWeight     float64
	SimilarityWeight float64
	SnippetLimit     int
}

func DefaultFusionConfig() FusionConfig {
	return FusionConfig{
		TopK:             10,
		SignalBoost:      0.1,
		KeywordBoost:     0.15,
		ScoreCap:         0.99,
		MaxPerCase:       3,
		RerankPoolSize:   15,
		RerankCutoff:     4,
		RerankWeight:     0.7,
		SimilarityWeight: 0.3,
		SnippetLimit:     300,
	}
}

func (c FusionConfig) normalize() FusionConfig {
	out := c
	def := DefaultFusionConfig()

	if out.TopK <= 0 {
		out.TopK = def.TopK
	}
	if out.SignalBoost <= 0 {
		out.SignalBoost = def.SignalBoost
	}
	if out.KeywordBoost <= 0 {
		out.KeywordBoost = def.KeywordBoost
	}
	if out.ScoreCap <= 0 || out.ScoreCap >= 1 {
		out.ScoreCap = def.ScoreCap
	}
	if out.MaxPerCase <= 0 {
		out.MaxPerCase = def.MaxPerCase
	}
	if out.RerankPoolSize <= 0 {
		out.RerankPoolSize = def.RerankPoolSize
	}
	if out.RerankCutoff < 0 || out.RerankCutoff > 10 {
		out.RerankCutoff = def.RerankCutoff
	}
	if out.RerankWeight <= 0 {
		out.RerankWeight = def.RerankWeight
	}
	if out.SimilarityWeight <= 0 {
		out.SimilarityWeight = def.SimilarityWeight
	}
	if out.SnippetLimit <= 0 {
		out.SnippetLimit = def.SnippetLimit
	}
	return out
}

// SignalCandidates is one retrieval signal's contribution to a fusion pass.
type SignalCandidates struct {
	Signal     domain.Signal
	Candidates []domain.Candidate
}

type fusedCandidate struct {
	passage   domain.Passage
	baseScore float64
	signals   map[domain.Signal]struct{}
}

// fuseCandidates merges tagged candidate lists into one deduplicated,
// boosted, sorted list. The merge is commutative: the outcome depends only
// on which signals observed each passage and the best base score among them,
// never on arrival order. Re-observing a passage through a signal that
// already contributed does not boost again.
func fuseCandidates(inputs []SignalCandidates, keywords []string, cfg FusionConfig) []domain.Candidate {
	cfg = cfg.normalize()

	acc := make(map[string]*fusedCandidate)
	for _, input := range inputs {
		for _, cand := range input.Candidates {
			if cand.ID == "" {
				continue
			}
			merged, ok := acc[cand.ID]
			if !ok {
				merged = &fusedCandidate{
					passage: cand.Passage,
					signals: make(map[domain.Signal]struct{}, 2),
				}
				acc[cand.ID] = merged
			}
			if cand.Score > merged.baseScore {
				merged.baseScore = cand.Score
			}
			if merged.passage.Text == "" && cand.Text != "" {
				merged.passage = cand.Passage
			}
			merged.signals[input.Signal] = struct{}{}
		}
	}

	out := make([]domain.Candidate, 0, len(acc))
	for id, merged := range acc {
		signals := make([]domain.Signal, 0, len(merged.signals))
		for sig := range merged.signals {
			signals = append(signals, sig)
		}
		sort.Slice(signals, func(i, j int) bool { return signals[i] < signals[j] })

		score := merged.baseScore
		if reinforcing := len(merged.signals) - 1; reinforcing > 0 {
			score = capScore(score*(1+cfg.SignalBoost*float64(reinforcing)), cfg.ScoreCap)
		}
		if matches := keywordMatches(merged.passage.Text, keywords); matches > 0 {
			score = capScore(score*(1+cfg.KeywordBoost*float64(matches)), cfg.ScoreCap)
		}

		cand := domain.Candidate{
			Passage: merged.passage,
			Score:   score,
			Signals: signals,
		}
		cand.ID = id
		out = append(out, cand)
	}

	sortCandidates(out)
	return out
}

// sortCandidates orders by score descending with id ascending as the
// deterministic tiebreak.
func sortCandidates(cands []domain.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].ID < cands[j].ID
	})
}

// applyDiversityCap walks a sorted list and emits at most maxPerCase
// passages per source case, stopping at topK. A higher-scored passage is
// displaced once its case already holds maxPerCase slots.
func applyDiversityCap(cands []domain.Candidate, maxPerCase, topK int) []domain.Candidate {
	if maxPerCase <= 0 || topK <= 0 {
		return []domain.Candidate{}
	}

	perCase := make(map[string]int, len(cands))
	out := make([]domain.Candidate, 0, topK)
	for _, cand := range cands {
		if perCase[cand.CaseID] >= maxPerCase {
			continue
		}
		perCase[cand.CaseID]++
		out = append(out, cand)
		if len(out) >= topK {
			break
		}
	}
	return out
}

func keywordMatches(text string, keywords []string) int {
	if text == "" || len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	matches := 0
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			matches++
		}
	}
	return matches
}

func capScore(score, ceiling float64) float64 {
	if score > ceiling {
		return ceiling
	}
	return score
}

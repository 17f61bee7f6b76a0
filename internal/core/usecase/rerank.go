package usecase

import (
	"context"
	"log/slog"
	"math"

	"github.com/kirillkom/caselaw-assistant/internal/core/domain"
	"github.com/kirillkom/caselaw-assistant/internal/core/ports"
)

// rerankCandidates asks the model to judge the fused head and reorders it by
// a combined key where the model's judgment dominates and similarity acts as
// a sanity check. The stage is strictly optional: any model or parse failure,
// and the degenerate case where the cutoff would filter out every candidate,
// fall back to the pre-rerank ordering. A secondary quality filter is never
// allowed to produce a worse outcome than not running it.
func rerankCandidates(
	ctx context.Context,
	llm ports.CompletionClient,
	query string,
	fused []domain.Candidate,
	cfg FusionConfig,
) ([]domain.Candidate, bool) {
	cfg = cfg.normalize()
	if llm == nil || len(fused) == 0 {
		return fused, false
	}

	poolSize := cfg.RerankPoolSize
	if poolSize > len(fused) {
		poolSize = len(fused)
	}
	pool := make([]domain.Candidate, poolSize)
	copy(pool, fused[:poolSize])

	raw, err := llm.Complete(ctx, buildRerankPrompt(query, pool, cfg.SnippetLimit), ports.CompletionOptions{
		MaxTokens: 200,
		JSONMode:  true,
	})
	if err != nil {
		slog.Warn("rerank_skipped", "reason", "completion_failed", "error", err)
		return fused, false
	}

	scores, err := decodeNumericArray(raw)
	if err != nil {
		slog.Warn("rerank_skipped", "reason", "unparsable_scores", "error", err)
		return fused, false
	}
	if len(scores) != len(pool) {
		slog.Warn("rerank_skipped", "reason", "score_count_mismatch", "want", len(pool), "got", len(scores))
		return fused, false
	}

	scored := make([]domain.Candidate, 0, len(pool))
	for i, cand := range pool {
		relevance := clampRelevance(scores[i])
		if relevance < cfg.RerankCutoff {
			continue
		}
		cand.Relevance = &relevance
		cand.Signals = append(cand.Signals, domain.SignalAIRerank)
		combined := cfg.RerankWeight*float64(relevance) + cfg.SimilarityWeight*(cand.Score*10)
		cand.Score = combined / 10
		scored = append(scored, cand)
	}
	if len(scored) == 0 {
		slog.Warn("rerank_skipped", "reason", "cutoff_filtered_all")
		return fused, false
	}

	sortCandidates(scored)
	out := make([]domain.Candidate, 0, len(fused))
	out = append(out, scored...)
	out = append(out, fused[poolSize:]...)
	return out, true
}

func clampRelevance(score float64) int {
	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 10 {
		return 10
	}
	return rounded
}

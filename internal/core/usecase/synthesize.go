package usecase

import (
	"context"
	"log/slog"

	"github.com/kirillkom/caselaw-assistant/internal/core/domain"
	"github.com/kirillkom/caselaw-assistant/internal/core/ports"
)

const answerUnavailable = "Analysis is temporarily unavailable. The ranked passages above are still usable as sources."

// SynthesisConfig bounds the prompt the synthesizer assembles.
type SynthesisConfig struct {
	MaxPassages  int
	PassageChars int
	MaxTokens    int
}

func DefaultSynthesisConfig() SynthesisConfig {
	return SynthesisConfig{
		MaxPassages:  7,
		PassageChars: 800,
		MaxTokens:    1500,
	}
}

func (c SynthesisConfig) normalize() SynthesisConfig {
	out := c
	def := DefaultSynthesisConfig()
	if out.MaxPassages <= 0 {
		out.MaxPassages = def.MaxPassages
	}
	if out.PassageChars <= 0 {
		out.PassageChars = def.PassageChars
	}
	if out.MaxTokens <= 0 {
		out.MaxTokens = def.MaxTokens
	}
	return out
}

// AnswerSynthesizer turns the final ranked passages into a cited analysis.
// It degrades instead of failing: empty results produce deterministic
// guidance, model failures produce a fixed notice.
type AnswerSynthesizer struct {
	llm ports.CompletionClient
	cfg SynthesisConfig
}

func NewAnswerSynthesizer(llm ports.CompletionClient, cfg SynthesisConfig) *AnswerSynthesizer {
	return &AnswerSynthesizer{llm: llm, cfg: cfg.normalize()}
}

func (s *AnswerSynthesizer) Synthesize(
	ctx context.Context,
	query string,
	analysis *domain.QueryAnalysis,
	results []domain.Candidate,
) string {
	if len(results) == 0 {
		return guidanceAnswer(analysis)
	}
	if s.llm == nil {
		return answerUnavailable
	}

	if len(results) > s.cfg.MaxPassages {
		results = results[:s.cfg.MaxPassages]
	}
	prompt := buildSynthesisPrompt(query, results, s.cfg.PassageChars)

	answer, err := s.llm.Complete(ctx, prompt, ports.CompletionOptions{
		MaxTokens: s.cfg.MaxTokens,
	})
	if err != nil || answer == "" {
		slog.Warn("synthesis_unavailable", "error", err)
		return answerUnavailable
	}
	return answer
}

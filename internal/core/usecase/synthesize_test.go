package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/caselaw-assistant/internal/core/domain"
	"github.com/kirillkom/caselaw-assistant/internal/core/ports"
)

type synthLLMFake struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (f *synthLLMFake) Complete(_ context.Context, prompt string, _ ports.CompletionOptions) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestSynthesizeEmptyResultsReturnsGuidanceWithoutModelCall(t *testing.T) {
	llm := &synthLLMFake{response: "should not be used"}
	synth := NewAnswerSynthesizer(llm, DefaultSynthesisConfig())
	analysis := &domain.QueryAnalysis{
		Keywords:      []string{"negligence"},
		LegalConcepts: []string{"duty of care"},
	}

	answer := synth.Synthesize(context.Background(), "negligence test", analysis, nil)
	if llm.calls != 0 {
		t.Fatalf("expected no model call for empty results, got %d", llm.calls)
	}
	if !strings.Contains(answer, "No passages") || !strings.Contains(answer, "duty of care") {
		t.Fatalf("unexpected guidance: %q", answer)
	}
}

func TestSynthesizeBuildsCitedPrompt(t *testing.T) {
	llm := &synthLLMFake{response: "The test is stated in [1]."}
	synth := NewAnswerSynthesizer(llm, DefaultSynthesisConfig())
	results := []domain.Candidate{
		candidate("p1", "c1", 0.8, "the negligence test requires foreseeability"),
		candidate("p2", "c2", 0.6, "standard of care discussion"),
	}

	answer := synth.Synthesize(context.Background(), "what is the negligence test", nil, results)
	if answer != "The test is stated in [1]." {
		t.Fatalf("unexpected answer %q", answer)
	}
	if !strings.Contains(llm.prompt, "[1] Title p1") || !strings.Contains(llm.prompt, "[2] Title p2") {
		t.Fatalf("expected numbered sources in prompt:\n%s", llm.prompt)
	}
	if !strings.Contains(llm.prompt, "what is the negligence test") {
		t.Fatalf("expected query in prompt")
	}
}

func TestSynthesizeTrimsPassagesToConfiguredMax(t *testing.T) {
	llm := &synthLLMFake{response: "answer"}
	synth := NewAnswerSynthesizer(llm, SynthesisConfig{MaxPassages: 2})
	results := []domain.Candidate{
		candidate("p1", "c1", 0.8, "a"),
		candidate("p2", "c2", 0.7, "b"),
		candidate("p3", "c3", 0.6, "c"),
	}

	synth.Synthesize(context.Background(), "q", nil, results)
	if strings.Contains(llm.prompt, "[3]") {
		t.Fatalf("expected prompt limited to 2 passages:\n%s", llm.prompt)
	}
}

func TestSynthesizeModelFailureReturnsNotice(t *testing.T) {
	synth := NewAnswerSynthesizer(&synthLLMFake{err: errors.New("model down")}, DefaultSynthesisConfig())
	results := []domain.Candidate{candidate("p1", "c1", 0.8, "text")}

	answer := synth.Synthesize(context.Background(), "q", nil, results)
	if answer != answerUnavailable {
		t.Fatalf("expected unavailable notice, got %q", answer)
	}
}

func TestSynthesizeNilModelReturnsNotice(t *testing.T) {
	synth := NewAnswerSynthesizer(nil, DefaultSynthesisConfig())
	results := []domain.Candidate{candidate("p1", "c1", 0.8, "text")}

	answer := synth.Synthesize(context.Background(), "q", nil, results)
	if answer != answerUnavailable {
		t.Fatalf("expected unavailable notice, got %q", answer)
	}
}

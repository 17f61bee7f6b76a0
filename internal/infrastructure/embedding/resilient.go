package embedding

import (
	"context"

	"github.com/kirillkom/caselaw-assistant/internal/core/ports"
	"github.com/kirillkom/caselaw-assistant/internal/infrastructure/llm"
	"github.com/kirillkom/caselaw-assistant/internal/infrastructure/resilience"
)

// Resilient decorates an embedder with retry and circuit breaking.
type Resilient struct {
	inner    ports.Embedder
	executor *resilience.Executor
}

func NewResilient(inner ports.Embedder, executor *resilience.Executor) *Resilient {
	return &Resilient{inner: inner, executor: executor}
}

func (r *Resilient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := r.executor.Execute(ctx, "embed_query", func(callCtx context.Context) error {
		var innerErr error
		out, innerErr = r.inner.EmbedQuery(callCtx, text)
		return innerErr
	}, llm.ClassifyError)
	if err != nil {
		return nil, llm.WrapTemporaryIfNeeded("embed query", err)
	}
	return out, nil
}

package ports

import (
	"context"

	"github.com/kirillkom/caselaw-assistant/internal/core/domain"
)

// Embedder turns query text into a fixed-dimension vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorSearcher performs similarity search against the external vector index.
// Scores are expected in [0,1]; results below threshold are not returned.
type VectorSearcher interface {
	Search(ctx context.Context, queryVector []float32, threshold float64, limit int, filter domain.SearchFilter) ([]domain.Candidate, error)
}

// MetadataStore is the case-metadata collaborator: lexical substring search,
// chunk reads per case, and aggregate corpus counts.
type MetadataStore interface {
	SubstringSearch(ctx context.Context, term string, limit int, filter domain.SearchFilter) ([]domain.Candidate, error)
	ChunksByCase(ctx context.Context, caseID string) ([]domain.Passage, error)
	Stats(ctx context.Context) (*domain.CorpusStats, error)
}

// CompletionOptions tunes a single completion call.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float32
	JSONMode    bool
}

// CompletionClient is the chat-completion collaborator.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}

// EventPublisher emits fire-and-forget diagnostics events.
type EventPublisher interface {
	PublishSearchCompleted(ctx context.Context, event domain.SearchCompletedEvent) error
}

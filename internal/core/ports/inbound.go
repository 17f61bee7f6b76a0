package ports

import (
	"context"

	"github.com/kirillkom/caselaw-assistant/internal/core/domain"
)

// CaseSearchService is the inbound contract for hybrid search + synthesis.
type CaseSearchService interface {
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error)
}

// CaseDocumentService reconstructs one source case from its stored chunks.
type CaseDocumentService interface {
	GetCase(ctx context.Context, caseID string) (*domain.CaseDocument, error)
}

// CorpusStatsService exposes aggregate corpus counts.
type CorpusStatsService interface {
	Stats(ctx context.Context) (*domain.CorpusStats, error)
}

package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/caselaw-assistant/internal/core/domain"
	"github.com/kirillkom/caselaw-assistant/internal/core/ports"
)

type CorpusStatsUseCase struct {
	metadata ports.MetadataStore
}

func NewCorpusStatsUseCase(metadata ports.MetadataStore) *CorpusStatsUseCase {
	return &CorpusStatsUseCase{metadata: metadata}
}

func (uc *CorpusStatsUseCase) Stats(ctx context.Context) (*domain.CorpusStats, error) {
	stats, err := uc.metadata.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus stats: %w", err)
	}
	if stats.ByCategory == nil {
		stats.ByCategory = map[string]int{}
	}
	return stats, nil
}

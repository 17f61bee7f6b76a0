package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/caselaw-assistant/internal/core/domain"
	"github.com/kirillkom/caselaw-assistant/internal/core/ports"
)

// CaseDocumentUseCase rebuilds one source case from its stored passages.
type CaseDocumentUseCase struct {
	metadata ports.MetadataStore
}

func NewCaseDocumentUseCase(metadata ports.MetadataStore) *CaseDocumentUseCase {
	return &CaseDocumentUseCase{metadata: metadata}
}

func (uc *CaseDocumentUseCase) GetCase(ctx context.Context, caseID string) (*domain.CaseDocument, error) {
	caseID = strings.TrimSpace(caseID)
	if caseID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "get case", errors.New("case id must not be empty"))
	}

	passages, err := uc.metadata.ChunksByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("load case chunks: %w", err)
	}
	if len(passages) == 0 {
		return nil, domain.WrapError(domain.ErrCaseNotFound, "get case", fmt.Errorf("no passages for %s", caseID))
	}

	sections := make([]domain.CaseSection, 0, len(passages))
	var text strings.Builder
	for i, passage := range passages {
		sections = append(sections, domain.CaseSection{
			Section: passage.Section,
			Index:   passage.Index,
			Text:    passage.Text,
		})
		if i > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(passage.Text)
	}

	first := passages[0]
	return &domain.CaseDocument{
		CaseID:   caseID,
		Title:    first.Title,
		Citation: first.Citation,
		Category: first.Category,
		Date:     first.Date,
		Sections: sections,
		Text:     text.String(),
	}, nil
}

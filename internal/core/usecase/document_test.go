package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/caselaw-assistant/internal/core/domain"
)

type documentMetadataFake struct {
	passages []domain.Passage
	err      error
	caseID   string
}

func (f *documentMetadataFake) SubstringSearch(context.Context, string, int, domain.SearchFilter) ([]domain.Candidate, error) {
	return nil, nil
}

func (f *documentMetadataFake) ChunksByCase(_ context.Context, caseID string) ([]domain.Passage, error) {
	f.caseID = caseID
	if f.err != nil {
		return nil, f.err
	}
	return f.passages, nil
}

func (f *documentMetadataFake) Stats(context.Context) (*domain.CorpusStats, error) {
	return nil, nil
}

func TestGetCaseRebuildsDocumentFromPassages(t *testing.T) {
	store := &documentMetadataFake{passages: []domain.Passage{
		{ID: "p1", CaseID: "c1", Title: "Smith v Jones", Citation: "[2001] 1 AC 1", Category: "tort", Date: "2001-03-14", Section: "facts", Index: 0, Text: "The claimant slipped."},
		{ID: "p2", CaseID: "c1", Title: "Smith v Jones", Citation: "[2001] 1 AC 1", Category: "tort", Date: "2001-03-14", Section: "holding", Index: 1, Text: "The duty was breached."},
	}}
	uc := NewCaseDocumentUseCase(store)

	doc, err := uc.GetCase(context.Background(), " c1 ")
	if err != nil {
		t.Fatalf("GetCase() error = %v", err)
	}
	if store.caseID != "c1" {
		t.Fatalf("expected trimmed case id, got %q", store.caseID)
	}
	if doc.Title != "Smith v Jones" || doc.Citation != "[2001] 1 AC 1" {
		t.Fatalf("unexpected header: %+v", doc)
	}
	if len(doc.Sections) != 2 || doc.Sections[1].Section != "holding" {
		t.Fatalf("unexpected sections: %+v", doc.Sections)
	}
	if !strings.Contains(doc.Text, "slipped.") || !strings.Contains(doc.Text, "breached.") {
		t.Fatalf("expected concatenated text, got %q", doc.Text)
	}
}

func TestGetCaseBlankID(t *testing.T) {
	uc := NewCaseDocumentUseCase(&documentMetadataFake{})

	_, err := uc.GetCase(context.Background(), "  ")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input kind, got %v", err)
	}
}

func TestGetCaseUnknownID(t *testing.T) {
	uc := NewCaseDocumentUseCase(&documentMetadataFake{})

	_, err := uc.GetCase(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrCaseNotFound) {
		t.Fatalf("expected not found kind, got %v", err)
	}
}

func TestGetCaseStoreError(t *testing.T) {
	uc := NewCaseDocumentUseCase(&documentMetadataFake{err: errors.New("db down")})

	_, err := uc.GetCase(context.Background(), "c1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if domain.IsKind(err, domain.ErrCaseNotFound) {
		t.Fatalf("store failure must not read as not-found: %v", err)
	}
}

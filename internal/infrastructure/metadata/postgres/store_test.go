package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/caselaw-assistant/internal/core/domain"
)

func newStoreWithMock(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &Store{db: db}, mock, func() { _ = db.Close() }
}

func chunkRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "case_id", "title", "citation", "category",
		"decision_date", "section", "chunk_index", "source_id", "chunk_text",
	})
}

func TestSubstringSearchEscapesPattern(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM case_chunks").
		WithArgs(`%100\% negligence%`).
		WillReturnRows(chunkRows().AddRow(
			"p1", "c1", "Smith v Jones", "[2001] 1 AC 1", "tort",
			"2001-03-14", "holding", 2, "smith-v-jones", "negligence discussion",
		))

	cands, err := store.SubstringSearch(context.Background(), "100% negligence", 10, domain.SearchFilter{})
	if err != nil {
		t.Fatalf("SubstringSearch() error = %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	if cands[0].ID != "p1" || cands[0].Index != 2 || cands[0].Category != "tort" {
		t.Fatalf("unexpected candidate: %+v", cands[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSubstringSearchAppliesCategoryFilter(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM case_chunks").
		WithArgs("%estoppel%", "contract").
		WillReturnRows(chunkRows())

	cands, err := store.SubstringSearch(context.Background(), "estoppel", 10, domain.SearchFilter{Category: "contract"})
	if err != nil {
		t.Fatalf("SubstringSearch() error = %v", err)
	}
	if len(cands) != 0 {
		t.Fatalf("expected no candidates, got %d", len(cands))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestChunksByCaseOrdersByIndex(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM case_chunks").
		WithArgs("c1").
		WillReturnRows(chunkRows().
			AddRow("p1", "c1", "Smith v Jones", nil, nil, nil, "facts", 0, nil, "first").
			AddRow("p2", "c1", "Smith v Jones", nil, nil, nil, "holding", 1, nil, "second"))

	passages, err := store.ChunksByCase(context.Background(), "c1")
	if err != nil {
		t.Fatalf("ChunksByCase() error = %v", err)
	}
	if len(passages) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(passages))
	}
	if passages[0].Index != 0 || passages[1].Section != "holding" {
		t.Fatalf("unexpected passages: %+v", passages)
	}
	if passages[0].Citation != "" {
		t.Fatalf("expected NULL citation scanned as empty string, got %q", passages[0].Citation)
	}
}

func TestStatsAggregatesCategories(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count", "cases"}).AddRow(120, 14))
	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"category", "count"}).
			AddRow("tort", 8).
			AddRow("", 2))

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalChunks != 120 || stats.TotalCases != 14 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.ByCategory["tort"] != 8 || stats.ByCategory["uncategorized"] != 2 {
		t.Fatalf("unexpected categories: %+v", stats.ByCategory)
	}
}

func TestStatsPropagatesQueryError(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("db down"))

	if _, err := store.Stats(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

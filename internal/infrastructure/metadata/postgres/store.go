package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/caselaw-assistant/internal/core/domain"
)

// Store holds the passage metadata mirror of the vector index: the same
// chunks, addressable by case and searchable by substring.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS case_chunks (
	id TEXT PRIMARY KEY,
	case_id TEXT NOT NULL,
	title TEXT NOT NULL,
	citation TEXT,
	category TEXT,
	decision_date TEXT,
	section TEXT,
	chunk_index INTEGER NOT NULL DEFAULT 0,
	source_id TEXT,
	chunk_text TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_case_chunks_case_id ON case_chunks(case_id, chunk_index);
CREATE INDEX IF NOT EXISTS idx_case_chunks_category ON case_chunks(category);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const chunkColumns = `id, case_id, title, citation, category, decision_date, section, chunk_index, source_id, chunk_text`

// SubstringSearch finds passages whose text contains term, case-insensitive.
// LIKE metacharacters in the term are escaped so user input is always a
// literal substring.
func (s *Store) SubstringSearch(ctx context.Context, term string, limit int, filter domain.SearchFilter) ([]domain.Candidate, error) {
	pattern := "%" + escapeLike(term) + "%"

	query := `
SELECT ` + chunkColumns + `
FROM case_chunks
WHERE chunk_text ILIKE $1 ESCAPE '\'
`
	args := []any{pattern}
	if filter.Category != "" {
		query += `AND category = $2
`
		args = append(args, filter.Category)
	}
	query += fmt.Sprintf(`ORDER BY case_id, chunk_index
LIMIT %d`, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("substring search: %w", err)
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		passage, err := scanPassage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Candidate{Passage: passage})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("substring search rows: %w", err)
	}
	return out, nil
}

func (s *Store) ChunksByCase(ctx context.Context, caseID string) ([]domain.Passage, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+chunkColumns+`
FROM case_chunks
WHERE case_id = $1
ORDER BY chunk_index
`, caseID)
	if err != nil {
		return nil, fmt.Errorf("chunks by case: %w", err)
	}
	defer rows.Close()

	var out []domain.Passage
	for rows.Next() {
		passage, err := scanPassage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, passage)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chunks by case rows: %w", err)
	}
	return out, nil
}

func (s *Store) Stats(ctx context.Context) (*domain.CorpusStats, error) {
	stats := &domain.CorpusStats{ByCategory: map[string]int{}}

	row := s.db.QueryRowContext(ctx, `
SELECT COUNT(*), COUNT(DISTINCT case_id)
FROM case_chunks
`)
	if err := row.Scan(&stats.TotalChunks, &stats.TotalCases); err != nil {
		return nil, fmt.Errorf("scan corpus totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT COALESCE(category, ''), COUNT(DISTINCT case_id)
FROM case_chunks
GROUP BY category
`)
	if err != nil {
		return nil, fmt.Errorf("category distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		if category == "" {
			category = "uncategorized"
		}
		stats.ByCategory[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category distribution rows: %w", err)
	}
	return stats, nil
}

func scanPassage(rows *sql.Rows) (domain.Passage, error) {
	var p domain.Passage
	var citation, category, date, section, sourceID sql.NullString
	err := rows.Scan(
		&p.ID, &p.CaseID, &p.Title, &citation, &category, &date, &section, &p.Index, &sourceID, &p.Text,
	)
	if err != nil {
		return domain.Passage{}, fmt.Errorf("scan chunk: %w", err)
	}
	p.Citation = citation.String
	p.Category = category.String
	p.Date = date.String
	p.Section = section.String
	p.SourceID = sourceID.String
	return p, nil
}

func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

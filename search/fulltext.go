package search

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/poiesic/klartext/core"
	_ "modernc.org/sqlite" // pure-Go SQLite driver with FTS5
)

// Per-column bm25 weights: title highest, then content, then keywords.
// Positions follow the virtual table's column order (id and category carry
// no weight).
const ftsRankExpr = "bm25(chunks_fts, 0.0, 10.0, 5.0, 3.0, 0.0)"

// FullTextEngine is the optional inverted-index strategy: an in-process
// SQLite database with one FTS5 table over the corpus, ranked by bm25.
type FullTextEngine struct {
	db     *sql.DB
	byId   map[string]*core.KnowledgeChunk
	logger *slog.Logger
}

// FullTextOption configures a FullTextEngine.
type FullTextOption func(*FullTextEngine)

// WithFullTextLogger sets a custom logger. Default is slog.Default().
func WithFullTextLogger(logger *slog.Logger) FullTextOption {
	return func(e *FullTextEngine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewFullTextEngine builds the FTS table from the corpus at the given path.
// An empty path keeps the index in memory.
func NewFullTextEngine(path string, chunks []*core.KnowledgeChunk, opts ...FullTextOption) (*FullTextEngine, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open fulltext index: %w", err)
	}
	// A :memory: DSN is per-connection; a single connection keeps the index
	// visible to every query.
	db.SetMaxOpenConns(1)

	e := &FullTextEngine{
		db:     db,
		byId:   make(map[string]*core.KnowledgeChunk, len(chunks)),
		logger: slog.Default().With("component", "fulltext-engine"),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.build(chunks); err != nil {
		db.Close()
		return nil, err
	}
	return e, nil
}

func (e *FullTextEngine) build(chunks []*core.KnowledgeChunk) error {
	_, err := e.db.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
			id UNINDEXED,
			title,
			content,
			keywords,
			category UNINDEXED,
			tokenize='unicode61 remove_diacritics 2'
		)
	`)
	if err != nil {
		return fmt.Errorf("create fts table: %w", err)
	}

	stmt, err := e.db.Prepare(`INSERT INTO chunks_fts (id, title, content, keywords, category) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare fts insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return err
		}
		if _, err := stmt.Exec(
			chunk.Id,
			chunk.Title,
			chunk.Content,
			strings.Join(chunk.Keywords, " "),
			chunk.Category.String(),
		); err != nil {
			return fmt.Errorf("index chunk %s: %w", chunk.Id, err)
		}
		e.byId[chunk.Id] = chunk
	}
	return nil
}

// SearchFTS runs a ranked full-text query and returns up to topK results
// with scores normalized to [0,1], best first.
func (e *FullTextEngine) SearchFTS(ctx context.Context, query string, topK int) ([]*core.SearchResult, error) {
	match := sanitizeFTSQuery(query)
	if match == "" || topK <= 0 {
		return nil, nil
	}

	rows, err := e.db.QueryContext(ctx, `
		SELECT id, category, `+ftsRankExpr+` AS rank
		FROM chunks_fts
		WHERE chunks_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, match, topK)
	if err != nil {
		return nil, fmt.Errorf("fulltext query: %w", err)
	}
	defer rows.Close()

	type ranked struct {
		chunk *core.KnowledgeChunk
		score float64
	}
	var matches []ranked
	for rows.Next() {
		var id, category string
		var rank float64
		if err := rows.Scan(&id, &category, &rank); err != nil {
			return nil, fmt.Errorf("fulltext scan: %w", err)
		}
		chunk := e.byId[id]
		if chunk == nil {
			// Row without a corpus chunk: reconstruct a minimal one. This is
			// the one place loosely-typed category text enters the system.
			chunk = &core.KnowledgeChunk{
				Id:       id,
				Category: core.CategoryOrGeneral(category),
				Title:    id,
				Content:  "",
			}
		}
		// bm25 ranks are negative, lower is better.
		matches = append(matches, ranked{chunk: chunk, score: -rank})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fulltext rows: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	var max float64
	for _, m := range matches {
		if m.score > max {
			max = m.score
		}
	}
	if max == 0 {
		max = 1
	}

	results := make([]*core.SearchResult, len(matches))
	for i, m := range matches {
		results[i] = &core.SearchResult{Chunk: m.chunk, Score: m.score / max}
	}
	return results, nil
}

// Close releases the underlying database.
func (e *FullTextEngine) Close() error {
	return e.db.Close()
}

// sanitizeFTSQuery strips FTS5 syntax metacharacters and sub-minimum-length
// terms, joining the survivors with OR for recall.
func sanitizeFTSQuery(query string) string {
	var b strings.Builder
	for _, r := range query {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	var terms []string
	for _, term := range strings.Fields(b.String()) {
		if len([]rune(term)) < minTokenLen {
			continue
		}
		terms = append(terms, `"`+term+`"`)
	}
	return strings.Join(terms, " OR ")
}

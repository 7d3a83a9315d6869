package search

import (
	"sort"
	"strings"

	"github.com/poiesic/klartext/core"
)

// Keyword scoring weights. Titles are short and highly specific, so a title
// hit outranks everything else; category is the weakest signal.
const (
	weightKeywordExact   = 1.0
	weightKeywordPartial = 0.5
	weightContent        = 0.5
	weightTitle          = 2.0
	weightCategory       = 0.3
)

// normalizedChunk caches the lowercase projection of one chunk so queries
// never re-normalize corpus text.
type normalizedChunk struct {
	chunk    *core.KnowledgeChunk
	title    string
	content  string
	category string
	keywords []string
}

// KeywordIndex is an in-memory scored lookup over the knowledge corpus.
// The table is built once at construction and read-only afterwards, so the
// index is safe for concurrent queries without locking.
type KeywordIndex struct {
	table []normalizedChunk
	byId  map[string]*core.KnowledgeChunk
}

// NewKeywordIndex builds the pre-normalized keyword table from the corpus.
// Every chunk is validated; an invalid chunk rejects the whole corpus.
func NewKeywordIndex(chunks []*core.KnowledgeChunk) (*KeywordIndex, error) {
	table := make([]normalizedChunk, 0, len(chunks))
	byId := make(map[string]*core.KnowledgeChunk, len(chunks))

	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return nil, err
		}
		keywords := make([]string, len(chunk.Keywords))
		for i, kw := range chunk.Keywords {
			keywords[i] = strings.ToLower(kw)
		}
		table = append(table, normalizedChunk{
			chunk:    chunk,
			title:    strings.ToLower(chunk.Title),
			content:  strings.ToLower(chunk.Content),
			category: chunk.Category.String(),
			keywords: keywords,
		})
		byId[chunk.Id] = chunk
	}

	return &KeywordIndex{table: table, byId: byId}, nil
}

// Chunk returns the corpus chunk with the given id, or nil.
func (idx *KeywordIndex) Chunk(id string) *core.KnowledgeChunk {
	return idx.byId[id]
}

// Len returns the number of indexed chunks.
func (idx *KeywordIndex) Len() int {
	return len(idx.table)
}

// Search scores every chunk against the query tokens and returns up to topK
// results sorted by descending score. Scores are normalized by the best score
// of this query, so the top match is always exactly 1.0. An empty token set
// (for example a query below the minimum token length) yields empty results,
// not an error.
func (idx *KeywordIndex) Search(query string, topK int) []*core.SearchResult {
	tokens := Tokenize(query)
	if len(tokens) == 0 || topK <= 0 {
		return nil
	}

	type scored struct {
		chunk *core.KnowledgeChunk
		score float64
	}

	var matches []scored
	for i := range idx.table {
		nc := &idx.table[i]
		var score float64
		for token := range tokens {
			score += scoreToken(nc, token)
		}
		if score > 0 {
			matches = append(matches, scored{chunk: nc.chunk, score: score})
		}
	}
	if len(matches) == 0 {
		return nil
	}

	var max float64
	for _, m := range matches {
		if m.score > max {
			max = m.score
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].chunk.Id < matches[j].chunk.Id
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}

	results := make([]*core.SearchResult, len(matches))
	for i, m := range matches {
		results[i] = &core.SearchResult{Chunk: m.chunk, Score: m.score / max}
	}
	return results
}

// scoreToken accumulates the weighted contributions of one query token
// against one pre-normalized chunk.
func scoreToken(nc *normalizedChunk, token string) float64 {
	var score float64

	for _, kw := range nc.keywords {
		if kw == token {
			score += weightKeywordExact
		} else if strings.Contains(kw, token) {
			score += weightKeywordPartial
		}
	}
	if strings.Contains(nc.content, token) {
		score += weightContent
	}
	if strings.Contains(nc.title, token) {
		score += weightTitle
	}
	if strings.Contains(nc.category, token) {
		score += weightCategory
	}

	return score
}

package search

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/poiesic/klartext/core"
)

// HybridConfig holds the fusion weights. There is no on-device feedback
// signal to tune against, so the defaults are fixed constants.
type HybridConfig struct {
	KeywordWeight  float64 // weight for normalized keyword scores (default 0.6)
	SemanticWeight float64 // weight for cosine similarities (default 0.4)
}

// DefaultHybridConfig returns the standard 0.6/0.4 weighting.
func DefaultHybridConfig() HybridConfig {
	return HybridConfig{
		KeywordWeight:  0.6,
		SemanticWeight: 0.4,
	}
}

// HybridSearcher fuses keyword and semantic search results by weighted linear
// combination over chunk identity. Semantic search is an enhancement, not a
// dependency: if the semantic side fails, the query degrades to keyword-only
// results instead of failing.
type HybridSearcher struct {
	keyword  *KeywordIndex
	semantic *SemanticIndex
	config   HybridConfig
	logger   *slog.Logger
}

// HybridOption configures a HybridSearcher.
type HybridOption func(*HybridSearcher)

// WithHybridConfig overrides the fusion weights.
func WithHybridConfig(config HybridConfig) HybridOption {
	return func(h *HybridSearcher) {
		h.config = config
	}
}

// WithHybridLogger sets a custom logger. Default is slog.Default().
func WithHybridLogger(logger *slog.Logger) HybridOption {
	return func(h *HybridSearcher) {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
	}
}

// NewHybridSearcher creates a hybrid searcher over the two indices.
func NewHybridSearcher(keyword *KeywordIndex, semantic *SemanticIndex, opts ...HybridOption) (*HybridSearcher, error) {
	if keyword == nil {
		return nil, ErrKeywordIndexRequired
	}
	if semantic == nil {
		return nil, ErrSemanticIndexRequired
	}
	h := &HybridSearcher{
		keyword:  keyword,
		semantic: semantic,
		config:   DefaultHybridConfig(),
		logger:   slog.Default().With("component", "hybrid-search"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Search runs both sub-searches concurrently against a twice-as-wide
// candidate pool (fusion can reorder which items make the final cut), then
// fuses by chunk identity: a chunk found by both sources sums its weighted
// contributions, a chunk found by one keeps only that contribution. The
// outcome is independent of which sub-search completes first.
func (h *HybridSearcher) Search(ctx context.Context, query string, topK int) []*core.HybridResult {
	if topK <= 0 {
		return nil
	}
	pool := topK * 2

	var (
		kwResults  []*core.SearchResult
		semResults []*SemanticResult
		semErr     error
		wg         sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		kwResults = h.keyword.Search(query, pool)
	}()
	go func() {
		defer wg.Done()
		semResults, semErr = h.semantic.Search(ctx, query, pool)
	}()
	wg.Wait()

	if semErr != nil {
		h.logger.Warn("semantic search unavailable, using keyword-only results", "err", semErr)
		semResults = nil
	}

	fused := make(map[string]*core.HybridResult)

	for _, r := range kwResults {
		fused[r.Chunk.Id] = &core.HybridResult{
			Chunk:        r.Chunk,
			Score:        h.config.KeywordWeight * r.Score,
			KeywordScore: r.Score,
			HasKeyword:   true,
		}
	}

	for _, r := range semResults {
		if existing, ok := fused[r.Entry.Id]; ok {
			existing.Score += h.config.SemanticWeight * r.Score
			existing.SemanticScore = r.Score
			existing.HasSemantic = true
			continue
		}
		fused[r.Entry.Id] = &core.HybridResult{
			Chunk:         h.chunkForEntry(r.Entry),
			Score:         h.config.SemanticWeight * r.Score,
			SemanticScore: r.Score,
			HasSemantic:   true,
		}
	}

	results := make([]*core.HybridResult, 0, len(fused))
	for _, r := range fused {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.Id < results[j].Chunk.Id
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// chunkForEntry resolves a semantic entry to its corpus chunk. Entries the
// keyword index never saw (reconstructed from the artifact alone) synthesize
// a minimal chunk with the entry id as fallback title.
func (h *HybridSearcher) chunkForEntry(entry *core.EmbeddingEntry) *core.KnowledgeChunk {
	if chunk := h.keyword.Chunk(entry.Id); chunk != nil {
		return chunk
	}
	return &core.KnowledgeChunk{
		Id:       entry.Id,
		Category: entry.Category,
		Title:    entry.Id,
		Content:  entry.Content,
	}
}

package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/poiesic/klartext/ai"
	"github.com/poiesic/klartext/core"
)

// SemanticResult pairs one embedding entry with its cosine similarity to the
// query, in [0,1].
type SemanticResult struct {
	Entry *core.EmbeddingEntry
	Score float64
}

// SemanticIndex performs cosine-similarity top-K search over the embedding
// table. Model and artifact failures propagate to the caller, which owns the
// fallback decision.
type SemanticIndex struct {
	cache    *EmbeddingCache
	embedder ai.Embedder
	dim      int
	logger   *slog.Logger
}

// SemanticOption configures a SemanticIndex.
type SemanticOption func(*SemanticIndex)

// WithSemanticLogger sets a custom logger. Default is slog.Default().
func WithSemanticLogger(logger *slog.Logger) SemanticOption {
	return func(s *SemanticIndex) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewSemanticIndex creates a semantic index over the given cache.
func NewSemanticIndex(cache *EmbeddingCache, embedder ai.Embedder, dim int, opts ...SemanticOption) (*SemanticIndex, error) {
	if cache == nil {
		return nil, ErrCacheRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	s := &SemanticIndex{
		cache:    cache,
		embedder: embedder,
		dim:      dim,
		logger:   slog.Default().With("component", "semantic-index"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// IsReady reports whether the embedding table is loaded.
func (s *SemanticIndex) IsReady() bool {
	return s.cache.IsReady()
}

// Search embeds the query and returns the topK most similar entries, best
// first. The candidate list is maintained by partial selection: a new
// candidate only displaces the current worst of K, an O(n*k) strategy
// appropriate for k much smaller than the corpus.
func (s *SemanticIndex) Search(ctx context.Context, query string, topK int) ([]*SemanticResult, error) {
	if topK <= 0 {
		return nil, nil
	}
	if err := s.cache.Init(ctx); err != nil {
		return nil, err
	}

	queryVec, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(queryVec) != s.dim {
		return nil, core.ErrDimensionMismatch
	}

	var best []*SemanticResult
	for _, entry := range s.cache.loadedEntries() {
		score, err := CosineSimilarity(queryVec, entry.Embedding)
		if err != nil {
			return nil, err
		}

		if len(best) < topK {
			best = append(best, &SemanticResult{Entry: entry, Score: score})
			sort.Slice(best, func(i, j int) bool { return best[i].Score > best[j].Score })
			continue
		}
		if score > best[len(best)-1].Score {
			best[len(best)-1] = &SemanticResult{Entry: entry, Score: score}
			sort.Slice(best, func(i, j int) bool { return best[i].Score > best[j].Score })
		}
	}

	return best, nil
}

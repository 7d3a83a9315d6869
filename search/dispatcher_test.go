package search

import (
	"context"
	"testing"

	"github.com/poiesic/klartext/ai/mock"
	"github.com/poiesic/klartext/core"
	"github.com/poiesic/klartext/knowledge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMonitor captures dispatcher stage callbacks for assertions.
type recordingMonitor struct {
	started   string
	expanded  string
	attempted []Strategy
	failed    []Strategy
	finished  bool
	results   int
}

func (m *recordingMonitor) Start(query string)          { m.started = query }
func (m *recordingMonitor) AfterExpansion(query string) { m.expanded = query }
func (m *recordingMonitor) StrategyAttempted(s Strategy) {
	m.attempted = append(m.attempted, s)
}
func (m *recordingMonitor) StrategyFailed(s Strategy, err error) {
	m.failed = append(m.failed, s)
}
func (m *recordingMonitor) Finish(results []*core.SearchResult) {
	m.finished = true
	m.results = len(results)
}

func keywordOnlyDispatcher(t *testing.T, opts ...DispatcherOption) *Dispatcher {
	t.Helper()
	keyword, err := NewKeywordIndex(knowledge.Chunks())
	require.NoError(t, err)
	d, err := NewDispatcher(keyword, NewExpander(knowledge.Aliases()), opts...)
	require.NoError(t, err)
	return d
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{StrategyKeywordOnly, StrategyFullText, StrategyHybrid} {
		parsed, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseStrategy("telepathie")
	assert.Error(t, err)
}

func TestNewDispatcher(t *testing.T) {
	keyword, err := NewKeywordIndex(testCorpus())
	require.NoError(t, err)

	t.Run("nil keyword index", func(t *testing.T) {
		_, err := NewDispatcher(nil, NewExpander(nil))
		assert.ErrorIs(t, err, ErrKeywordIndexRequired)
	})

	t.Run("nil expander", func(t *testing.T) {
		_, err := NewDispatcher(keyword, nil)
		assert.ErrorIs(t, err, ErrExpanderRequired)
	})

	t.Run("defaults to hybrid preference", func(t *testing.T) {
		d, err := NewDispatcher(keyword, NewExpander(nil))
		require.NoError(t, err)
		assert.Equal(t, StrategyHybrid, d.strategy)
	})
}

func TestDispatcherKeywordFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("hybrid preference without hybrid engine uses keyword", func(t *testing.T) {
		d := keywordOnlyDispatcher(t)
		monitor := &recordingMonitor{}
		results := d.SearchKnowledgeWithMonitor(ctx, "Beobachtung ohne Bewertung", 3, monitor)
		require.NotEmpty(t, results)
		assert.Equal(t, []Strategy{StrategyKeywordOnly}, monitor.attempted)
		assert.True(t, monitor.finished)
	})

	t.Run("expansion makes the abbreviation findable", func(t *testing.T) {
		d := keywordOnlyDispatcher(t)
		monitor := &recordingMonitor{}
		results := d.SearchKnowledgeWithMonitor(ctx, "Was ist GFK?", 3, monitor)
		require.NotEmpty(t, results)
		assert.Equal(t, "gfk-grundlagen", results[0].Chunk.Id)
		assert.Contains(t, monitor.expanded, "gewaltfreie kommunikation")
	})

	t.Run("no match yields empty without error", func(t *testing.T) {
		d := keywordOnlyDispatcher(t)
		assert.Empty(t, d.SearchKnowledge(ctx, "Quantenchromodynamik", 3))
	})
}

func TestDispatcherHybridTier(t *testing.T) {
	ctx := context.Background()

	newHybridDispatcher := func(t *testing.T, loader Loader) *Dispatcher {
		t.Helper()
		keyword, err := NewKeywordIndex(knowledge.Chunks())
		require.NoError(t, err)

		cache, err := NewEmbeddingCache(loader)
		require.NoError(t, err)

		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return mock.DeterministicVector(text, 16), nil
		}
		semantic, err := NewSemanticIndex(cache, embedder, 16)
		require.NoError(t, err)
		hybrid, err := NewHybridSearcher(keyword, semantic)
		require.NoError(t, err)

		d, err := NewDispatcher(keyword, NewExpander(knowledge.Aliases()), WithHybrid(hybrid))
		require.NoError(t, err)
		return d
	}

	validLoader := func(ctx context.Context) ([]*core.EmbeddingEntry, error) {
		var entries []*core.EmbeddingEntry
		for _, chunk := range knowledge.Chunks() {
			entries = append(entries, &core.EmbeddingEntry{
				Id:        chunk.Id,
				Category:  chunk.Category,
				Content:   chunk.Content,
				Embedding: mock.DeterministicVector(chunk.Content, 16),
			})
		}
		return entries, nil
	}

	t.Run("hybrid tier serves the query", func(t *testing.T) {
		d := newHybridDispatcher(t, validLoader)
		monitor := &recordingMonitor{}
		results := d.SearchKnowledgeWithMonitor(ctx, "Was ist GFK?", 3, monitor)
		require.NotEmpty(t, results)
		assert.Equal(t, []Strategy{StrategyHybrid}, monitor.attempted)
		assert.Empty(t, monitor.failed)
		assert.True(t, d.IsSemanticSearchReady())
	})

	t.Run("invalid artifact degrades to keyword scores, semantic stays not ready", func(t *testing.T) {
		badLoader := func(ctx context.Context) ([]*core.EmbeddingEntry, error) {
			return nil, ErrArtifactInvalid
		}
		d := newHybridDispatcher(t, badLoader)

		results := d.SearchKnowledge(ctx, "Was ist GFK?", 3)
		require.NotEmpty(t, results)
		assert.Equal(t, "gfk-grundlagen", results[0].Chunk.Id)
		assert.False(t, d.IsSemanticSearchReady())
	})

}

func TestAttempt(t *testing.T) {
	t.Run("passes results through", func(t *testing.T) {
		want := []*core.SearchResult{{Score: 1.0}}
		got, err := attempt(func() ([]*core.SearchResult, error) {
			return want, nil
		})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("converts a panic into an error", func(t *testing.T) {
		_, err := attempt(func() ([]*core.SearchResult, error) {
			panic("defektes strategy backend")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "defektes strategy backend")
	})
}

func TestDispatcherFullTextTier(t *testing.T) {
	ctx := context.Background()

	t.Run("fulltext strategy serves the query", func(t *testing.T) {
		fulltext, err := NewFullTextEngine("", knowledge.Chunks())
		require.NoError(t, err)
		defer fulltext.Close()

		keyword, err := NewKeywordIndex(knowledge.Chunks())
		require.NoError(t, err)
		d, err := NewDispatcher(keyword, NewExpander(knowledge.Aliases()),
			WithFullText(fulltext), WithStrategy(StrategyFullText))
		require.NoError(t, err)

		monitor := &recordingMonitor{}
		results := d.SearchKnowledgeWithMonitor(ctx, "Eskalation", 3, monitor)
		require.NotEmpty(t, results)
		assert.Equal(t, []Strategy{StrategyFullText}, monitor.attempted)
	})

	t.Run("keyword strategy skips higher tiers even when present", func(t *testing.T) {
		fulltext, err := NewFullTextEngine("", knowledge.Chunks())
		require.NoError(t, err)
		defer fulltext.Close()

		keyword, err := NewKeywordIndex(knowledge.Chunks())
		require.NoError(t, err)
		d, err := NewDispatcher(keyword, NewExpander(knowledge.Aliases()),
			WithFullText(fulltext), WithStrategy(StrategyKeywordOnly))
		require.NoError(t, err)

		monitor := &recordingMonitor{}
		d.SearchKnowledgeWithMonitor(ctx, "Eskalation", 3, monitor)
		assert.Equal(t, []Strategy{StrategyKeywordOnly}, monitor.attempted)
	})
}

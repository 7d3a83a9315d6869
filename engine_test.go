package klartext

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poiesic/klartext/ai"
	"github.com/poiesic/klartext/ai/mock"
	"github.com/poiesic/klartext/core"
	"github.com/poiesic/klartext/grounding"
	"github.com/poiesic/klartext/indexing"
	"github.com/poiesic/klartext/knowledge"
	"github.com/poiesic/klartext/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// attemptMonitor records which retrieval strategies were tried.
type attemptMonitor struct {
	attempted []search.Strategy
}

func (m *attemptMonitor) Start(_ string)                      {}
func (m *attemptMonitor) AfterExpansion(_ string)             {}
func (m *attemptMonitor) StrategyAttempted(s search.Strategy) { m.attempted = append(m.attempted, s) }
func (m *attemptMonitor) StrategyFailed(_ search.Strategy, _ error) {}
func (m *attemptMonitor) Finish(_ []*core.SearchResult)             {}

func keywordEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	opts = append([]EngineOption{WithProvider(mock.NewMockProvider())}, opts...)
	engine, err := NewEngine(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

// buildTestArtifact embeds the shipped corpus with the mock embedder and
// writes the artifact to a temp file.
func buildTestArtifact(t *testing.T) string {
	t.Helper()
	builder, err := indexing.NewBuilder(mock.NewMockEmbedder(), ai.DefaultConfig().EmbeddingDim)
	require.NoError(t, err)
	defer builder.Release()

	path := filepath.Join(t.TempDir(), "embeddings.json")
	require.NoError(t, builder.BuildArtifactFile(context.Background(), path, knowledge.Chunks()))
	return path
}

func TestNewEngine(t *testing.T) {
	t.Run("keyword only", func(t *testing.T) {
		engine := keywordEngine(t)
		assert.False(t, engine.IsSemanticSearchReady())
		assert.Nil(t, engine.Sessions())
	})

	t.Run("invalid ai config", func(t *testing.T) {
		_, err := NewEngine(WithAIConfig(&ai.Config{}))
		assert.Error(t, err)
	})
}

func TestEngineSearchKnowledge(t *testing.T) {
	ctx := context.Background()

	t.Run("keyword results", func(t *testing.T) {
		engine := keywordEngine(t)

		results := engine.SearchKnowledge(ctx, "Was ist gewaltfreie Kommunikation?", 3)
		require.NotEmpty(t, results)
		assert.Equal(t, core.CategoryGFK, results[0].Chunk.Category)
	})

	t.Run("artifact enables semantic search", func(t *testing.T) {
		engine := keywordEngine(t, WithArtifact(buildTestArtifact(t)))

		results := engine.SearchKnowledge(ctx, "Eskalationsstufen nach Glasl", 3)
		require.NotEmpty(t, results)
		assert.True(t, engine.IsSemanticSearchReady())
	})

	t.Run("missing artifact degrades to keyword", func(t *testing.T) {
		engine := keywordEngine(t, WithArtifact(filepath.Join(t.TempDir(), "fehlt.json")))

		results := engine.SearchKnowledge(ctx, "gewaltfreie Kommunikation", 3)
		require.NotEmpty(t, results)
		assert.False(t, engine.IsSemanticSearchReady())
	})

	t.Run("in-memory full text", func(t *testing.T) {
		engine := keywordEngine(t, WithFullText(""), WithStrategy(search.StrategyFullText))

		results := engine.SearchKnowledge(ctx, "Paraphrasieren", 3)
		require.NotEmpty(t, results)
	})

	t.Run("monitor observes the cascade", func(t *testing.T) {
		engine := keywordEngine(t)

		monitor := &attemptMonitor{}
		engine.SearchKnowledgeWithMonitor(ctx, "aktives Zuhören", 3, monitor)
		assert.Equal(t, []search.Strategy{search.StrategyKeywordOnly}, monitor.attempted)
	})
}

func TestEngineExecuteQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the model answer", func(t *testing.T) {
		provider := mock.NewMockProvider()
		engine, err := NewEngine(WithProvider(provider))
		require.NoError(t, err)
		defer engine.Close()

		chat := provider.(*mock.MockProvider).GetMockChatModel()
		chat.Response = "Die vier Schritte sind Beobachtung, Gefühl, Bedürfnis, Bitte."

		answer := engine.ExecuteQuery(ctx, "Was sind die vier Schritte der GFK?", nil)
		assert.Equal(t, chat.Response, answer)
		assert.Contains(t, chat.LastMessages[0].Content, "Wissenskontext:")
	})

	t.Run("umlaut question reaches the matching chunk", func(t *testing.T) {
		provider := mock.NewMockProvider()
		engine, err := NewEngine(WithProvider(provider))
		require.NoError(t, err)
		defer engine.Close()

		engine.ExecuteQuery(ctx, "Was sind echte Gefühle?", nil)

		chat := provider.(*mock.MockProvider).GetMockChatModel()
		assert.Contains(t, chat.LastMessages[0].Content, "Gefühle und Pseudogefühle")
	})

	t.Run("grounding config override", func(t *testing.T) {
		provider := mock.NewMockProvider()
		engine, err := NewEngine(
			WithProvider(provider),
			WithGroundingConfig(&grounding.Config{
				RelevanceThreshold: 1.5,
				TopK:               3,
				HistoryWindow:      10,
			}),
		)
		require.NoError(t, err)
		defer engine.Close()

		engine.ExecuteQuery(ctx, "Was sind die vier Schritte der GFK?", nil)

		chat := provider.(*mock.MockProvider).GetMockChatModel()
		assert.NotContains(t, chat.LastMessages[0].Content, "Wissenskontext:")
	})
}

func TestEngineSessions(t *testing.T) {
	ctx := context.Background()
	engine := keywordEngine(t, WithSessions(filepath.Join(t.TempDir(), "sessions")))

	repo := engine.Sessions()
	require.NotNil(t, repo)

	saved, err := repo.SaveSession(ctx, &core.Session{
		Title:    "Morgenrunde",
		Messages: []core.ChatMessage{{Role: core.RoleUser, Content: "Hallo"}},
	})
	require.NoError(t, err)

	got, err := repo.GetSession(ctx, saved.Id)
	require.NoError(t, err)
	assert.Equal(t, "Morgenrunde", got.Title)
}

func TestEngineNewIndexBuilder(t *testing.T) {
	engine := keywordEngine(t)

	builder, err := engine.NewIndexBuilder(indexing.WithPoolSize(1))
	require.NoError(t, err)
	defer builder.Release()

	entries, err := builder.Build(context.Background(), knowledge.Chunks()[:2])
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

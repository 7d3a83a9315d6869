package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryFTS(t *testing.T) *FullTextEngine {
	t.Helper()
	e, err := NewFullTextEngine("", testCorpus())
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestNewFullTextEngine(t *testing.T) {
	t.Run("in-memory build", func(t *testing.T) {
		e := newMemoryFTS(t)
		assert.NotNil(t, e)
	})

	t.Run("invalid chunk rejects the build", func(t *testing.T) {
		chunks := testCorpus()
		chunks[0].Title = ""
		_, err := NewFullTextEngine("", chunks)
		assert.Error(t, err)
	})
}

func TestSearchFTS(t *testing.T) {
	ctx := context.Background()
	e := newMemoryFTS(t)

	t.Run("finds by title term", func(t *testing.T) {
		results, err := e.SearchFTS(ctx, "Kommunikation", 3)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "gfk-grundlagen", results[0].Chunk.Id)
	})

	t.Run("scores normalized best first", func(t *testing.T) {
		results, err := e.SearchFTS(ctx, "Denken Kommunikation", 3)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, 1.0, results[0].Score)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
			assert.GreaterOrEqual(t, results[i].Score, 0.0)
		}
	})

	t.Run("diacritics-insensitive matching", func(t *testing.T) {
		results, err := e.SearchFTS(ctx, "zuhoren", 3)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "aktives-zuhoeren", results[0].Chunk.Id)
	})

	t.Run("metacharacters cannot break the query", func(t *testing.T) {
		results, err := e.SearchFTS(ctx, `Kommunikation" OR x AND (NEAR`, 3)
		require.NoError(t, err)
		assert.NotEmpty(t, results)
	})

	t.Run("no match yields empty without error", func(t *testing.T) {
		results, err := e.SearchFTS(ctx, "Quantenphysik", 3)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("query of only short terms yields empty", func(t *testing.T) {
		results, err := e.SearchFTS(ctx, "ab cd", 3)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("topK truncates", func(t *testing.T) {
		results, err := e.SearchFTS(ctx, "Denken Kommunikation Zuhören", 1)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(results), 1)
	})
}

func TestSanitizeFTSQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain terms quoted and ORed", "beobachtung gefühl", `"beobachtung" OR "gefühl"`},
		{"strips punctuation", "Was ist GFK?", `"Was" OR "ist" OR "GFK"`},
		{"drops short terms", "zu ab kommunikation", `"kommunikation"`},
		{"strips fts operators", `titel:"x" NEAR(y)`, `"titel" OR "NEAR"`},
		{"empty input", "", ""},
		{"only short terms", "ab zu", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFTSQuery(tt.input))
		})
	}
}

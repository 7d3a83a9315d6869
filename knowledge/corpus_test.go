package knowledge

import (
	"strings"
	"testing"

	"github.com/poiesic/klartext/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunks(t *testing.T) {
	chunks := Chunks()
	require.NotEmpty(t, chunks)
	assert.Equal(t, Count(), len(chunks))

	t.Run("every chunk is valid", func(t *testing.T) {
		for _, chunk := range chunks {
			assert.NoError(t, core.ValidateChunk(chunk), "chunk %s", chunk.Id)
		}
	})

	t.Run("ids are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, chunk := range chunks {
			assert.False(t, seen[chunk.Id], "duplicate id %s", chunk.Id)
			seen[chunk.Id] = true
		}
	})

	t.Run("accessor returns fresh copies", func(t *testing.T) {
		a := Chunks()
		b := Chunks()
		a[0].Title = "mutiert"
		assert.NotEqual(t, "mutiert", b[0].Title)
	})

	t.Run("every category is represented", func(t *testing.T) {
		categories := make(map[core.Category]bool)
		for _, chunk := range chunks {
			categories[chunk.Category] = true
		}
		for _, c := range []core.Category{
			core.CategoryGFK,
			core.CategoryDistortion,
			core.CategoryFourSides,
			core.CategoryListening,
			core.CategoryConflict,
		} {
			assert.True(t, categories[c], "no chunk for category %s", c)
		}
	})
}

func TestAliases(t *testing.T) {
	aliases := Aliases()
	require.NotEmpty(t, aliases)

	t.Run("gfk expands to the long form", func(t *testing.T) {
		assert.Contains(t, aliases["gfk"], "gewaltfreie kommunikation")
	})

	t.Run("keys are lowercase", func(t *testing.T) {
		for k := range aliases {
			assert.Equal(t, strings.ToLower(k), k)
		}
	})

	t.Run("accessor returns a copy", func(t *testing.T) {
		a := Aliases()
		a["gfk"] = nil
		b := Aliases()
		assert.NotNil(t, b["gfk"])
	})
}

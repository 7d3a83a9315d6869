package search

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/poiesic/klartext/core"
)

// artifactEntry is the wire form of one embedding artifact row.
type artifactEntry struct {
	Id        string    `json:"id"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
}

// ParseArtifact decodes and validates an embedding artifact. The artifact
// must carry exactly expectedCount entries of exactly dim finite values each,
// with non-empty id and content; any violation rejects the whole artifact,
// there is no partial load.
func ParseArtifact(r io.Reader, expectedCount, dim int) ([]*core.EmbeddingEntry, error) {
	var raw []artifactEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactInvalid, err)
	}

	if len(raw) != expectedCount {
		return nil, fmt.Errorf("%w: entry count %d, want %d", ErrArtifactInvalid, len(raw), expectedCount)
	}

	entries := make([]*core.EmbeddingEntry, len(raw))
	for i, e := range raw {
		category, err := core.ParseCategory(e.Category)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrArtifactInvalid, i, err)
		}
		entry := &core.EmbeddingEntry{
			Id:        e.Id,
			Category:  category,
			Content:   e.Content,
			Embedding: e.Embedding,
		}
		if err := core.ValidateEntry(entry, dim); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrArtifactInvalid, i, err)
		}
		entries[i] = entry
	}
	return entries, nil
}

// LoadArtifactFile reads and validates an embedding artifact from disk.
func LoadArtifactFile(path string, expectedCount, dim int) ([]*core.EmbeddingEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactInvalid, err)
	}
	defer f.Close()
	return ParseArtifact(f, expectedCount, dim)
}

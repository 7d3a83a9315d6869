package indexing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/klartext/ai"
	"github.com/poiesic/klartext/core"
	"github.com/poiesic/klartext/search"
)

// artifactEntry is the wire form of one embedding artifact row.
type artifactEntry struct {
	Id        string    `json:"id"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
}

// Builder generates the embedding artifact for a knowledge corpus.
// Chunks are embedded concurrently on a worker pool; the output preserves
// corpus order regardless of completion order.
type Builder struct {
	embedder ai.Embedder
	dim      int
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		if b.pool != nil {
			b.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a new artifact builder.
func NewBuilder(embedder ai.Embedder, dim int, opts ...Option) (*Builder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if dim <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension: %d", dim)
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		embedder: embedder,
		dim:      dim,
		pool:     pool,
		logger:   slog.Default().With("component", "indexing"),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}

	return b, nil
}

// Release releases the worker pool.
// The builder should not be used after calling Release.
func (b *Builder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}

// Build embeds every chunk and returns the resulting entries in corpus
// order. The embedded text combines title and content so that heading terms
// carry into the vector. Vectors are normalized to unit length.
// Any chunk failure fails the whole build.
func (b *Builder) Build(ctx context.Context, chunks []*core.KnowledgeChunk) ([]*core.EmbeddingEntry, error) {
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return nil, err
		}
	}

	entries := make([]*core.EmbeddingEntry, len(chunks))
	errs := make([]error, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		i, chunk := i, chunk
		submitErr := b.pool.Submit(func() {
			defer wg.Done()

			text := chunk.Title + ". " + chunk.Content
			vector, err := b.embedder.EmbedText(ctx, text)
			if err != nil {
				errs[i] = fmt.Errorf("embedding chunk %s: %w", chunk.Id, err)
				return
			}

			entry := &core.EmbeddingEntry{
				Id:        chunk.Id,
				Category:  chunk.Category,
				Content:   chunk.Content,
				Embedding: search.NormalizeVector(vector),
			}
			if err := core.ValidateEntry(entry, b.dim); err != nil {
				errs[i] = fmt.Errorf("chunk %s: %w", chunk.Id, err)
				return
			}
			entries[i] = entry
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	b.logger.Info("embedding artifact built", "chunks", len(entries), "dim", b.dim)
	return entries, nil
}

// WriteArtifact encodes entries as a JSON artifact.
func WriteArtifact(w io.Writer, entries []*core.EmbeddingEntry) error {
	raw := make([]artifactEntry, len(entries))
	for i, entry := range entries {
		raw[i] = artifactEntry{
			Id:        entry.Id,
			Category:  entry.Category.String(),
			Content:   entry.Content,
			Embedding: entry.Embedding,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}

// BuildArtifactFile builds the artifact and writes it to path atomically
// via a temp file rename.
func (b *Builder) BuildArtifactFile(ctx context.Context, path string, chunks []*core.KnowledgeChunk) error {
	entries, err := b.Build(ctx, chunks)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := WriteArtifact(f, entries); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

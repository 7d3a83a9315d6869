// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package klartext

import (
	"context"
	"log/slog"

	"github.com/poiesic/klartext/ai"
	"github.com/poiesic/klartext/ai/openai"
	"github.com/poiesic/klartext/core"
	"github.com/poiesic/klartext/grounding"
	"github.com/poiesic/klartext/indexing"
	"github.com/poiesic/klartext/knowledge"
	"github.com/poiesic/klartext/search"
	"github.com/poiesic/klartext/storage"
	"github.com/poiesic/klartext/storage/badger"
)

// Engine wires the knowledge corpus, the retrieval dispatcher, and the
// grounding pipeline into a single entry point. Keyword search is always
// available; semantic and full-text strategies depend on configuration.
type Engine struct {
	provider   ai.Provider
	dispatcher *search.Dispatcher
	pipeline   *grounding.Pipeline
	fulltext   *search.FullTextEngine
	backend    *badger.Backend
	sessions   storage.SessionRepository
	dim        int
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig        *ai.Config
	provider        ai.Provider
	artifactPath    string
	fullTextPath    string
	fullText        bool
	strategy        search.Strategy
	groundingConfig *grounding.Config
	sessionsPath    string
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider, bypassing the default
// langchaingo construction. Used primarily with ai/mock in tests.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithArtifact sets the path of the embedding artifact and enables the
// semantic and hybrid strategies. Loading is lazy; a missing or invalid
// artifact degrades retrieval to the remaining strategies.
func WithArtifact(path string) EngineOption {
	return func(o *engineOptions) {
		o.artifactPath = path
	}
}

// WithFullText enables the SQLite FTS5 strategy. An empty path keeps the
// database in memory.
func WithFullText(path string) EngineOption {
	return func(o *engineOptions) {
		o.fullText = true
		o.fullTextPath = path
	}
}

// WithStrategy sets the maximum retrieval strategy tier.
func WithStrategy(strategy search.Strategy) EngineOption {
	return func(o *engineOptions) {
		o.strategy = strategy
	}
}

// WithGroundingConfig overrides the grounding pipeline configuration.
func WithGroundingConfig(config *grounding.Config) EngineOption {
	return func(o *engineOptions) {
		o.groundingConfig = config
	}
}

// WithSessions enables the badger session store at the given directory.
func WithSessions(path string) EngineOption {
	return func(o *engineOptions) {
		o.sessionsPath = path
	}
}

// NewEngine builds a fully wired engine over the shipped knowledge corpus.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
		strategy: search.StrategyHybrid,
	}
	for _, opt := range opts {
		opt(options)
	}
	if err := options.aiConfig.Validate(); err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "engine")

	chunks := knowledge.Chunks()
	keyword, err := search.NewKeywordIndex(chunks)
	if err != nil {
		return nil, err
	}
	expander := search.NewExpander(knowledge.Aliases())

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	engine := &Engine{
		provider: provider,
		dim:      options.aiConfig.EmbeddingDim,
		logger:   logger,
	}

	dispatcherOpts := []search.DispatcherOption{
		search.WithStrategy(options.strategy),
	}

	if options.artifactPath != "" {
		dim := options.aiConfig.EmbeddingDim
		expected := knowledge.Count()
		cache, err := search.NewEmbeddingCache(func(ctx context.Context) ([]*core.EmbeddingEntry, error) {
			return search.LoadArtifactFile(options.artifactPath, expected, dim)
		})
		if err != nil {
			engine.Close()
			return nil, err
		}
		semantic, err := search.NewSemanticIndex(cache, provider.Embedder(), dim)
		if err != nil {
			engine.Close()
			return nil, err
		}
		hybrid, err := search.NewHybridSearcher(keyword, semantic)
		if err != nil {
			engine.Close()
			return nil, err
		}
		dispatcherOpts = append(dispatcherOpts, search.WithHybrid(hybrid))
	}

	if options.fullText {
		fulltext, err := search.NewFullTextEngine(options.fullTextPath, chunks)
		if err != nil {
			engine.Close()
			return nil, err
		}
		engine.fulltext = fulltext
		dispatcherOpts = append(dispatcherOpts, search.WithFullText(fulltext))
	}

	dispatcher, err := search.NewDispatcher(keyword, expander, dispatcherOpts...)
	if err != nil {
		engine.Close()
		return nil, err
	}
	engine.dispatcher = dispatcher

	groundingOpts := []grounding.Option{}
	if options.groundingConfig != nil {
		groundingOpts = append(groundingOpts, grounding.WithConfig(*options.groundingConfig))
	}
	pipeline, err := grounding.NewPipeline(dispatcher, groundingOpts...)
	if err != nil {
		engine.Close()
		return nil, err
	}
	engine.pipeline = pipeline

	if options.sessionsPath != "" {
		backend, err := badger.OpenBackend(options.sessionsPath, false)
		if err != nil {
			engine.Close()
			return nil, err
		}
		engine.backend = backend
		sessions, err := badger.NewSessionRepository(backend)
		if err != nil {
			engine.Close()
			return nil, err
		}
		engine.sessions = sessions
	}

	return engine, nil
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
		}
	}
	if e.fulltext != nil {
		if err := e.fulltext.Close(); err != nil {
			e.logger.Error("error closing full-text engine", "err", err)
			return err
		}
	}
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			e.logger.Error("error closing session storage", "err", err)
			return err
		}
	}
	return nil
}

// SearchKnowledge runs the retrieval cascade for a query.
func (e *Engine) SearchKnowledge(ctx context.Context, query string, topK int) []*core.SearchResult {
	return e.dispatcher.SearchKnowledge(ctx, query, topK)
}

// SearchKnowledgeWithMonitor runs the retrieval cascade with observer hooks.
func (e *Engine) SearchKnowledgeWithMonitor(ctx context.Context, query string, topK int, monitor search.SearchMonitor) []*core.SearchResult {
	return e.dispatcher.SearchKnowledgeWithMonitor(ctx, query, topK, monitor)
}

// ExecuteQuery answers a question grounded in retrieved knowledge.
func (e *Engine) ExecuteQuery(ctx context.Context, question string, history []core.ChatMessage) string {
	return e.pipeline.ExecuteQuery(ctx, question, history, e.provider.ChatModel())
}

// IsSemanticSearchReady reports whether the embedding artifact has been
// loaded successfully.
func (e *Engine) IsSemanticSearchReady() bool {
	return e.dispatcher.IsSemanticSearchReady()
}

// Sessions returns the session repository, or nil when sessions are
// disabled.
func (e *Engine) Sessions() storage.SessionRepository {
	return e.sessions
}

// NewIndexBuilder creates an artifact builder backed by the engine's
// embedder.
func (e *Engine) NewIndexBuilder(opts ...indexing.Option) (*indexing.Builder, error) {
	return indexing.NewBuilder(e.provider.Embedder(), e.dim, opts...)
}

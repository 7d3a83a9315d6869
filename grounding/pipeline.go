package grounding

import (
	"context"
	"log/slog"

	"github.com/poiesic/klartext/ai"
	"github.com/poiesic/klartext/core"
	"github.com/poiesic/klartext/search"
)

// Fixed user-facing responses. Retrieval and prompt-assembly failures never
// surface as errors to the caller.
const (
	// RejectedResponse is returned when sanitization deems the question
	// unprocessable.
	RejectedResponse = "Deine Frage konnte so nicht verarbeitet werden. " +
		"Bitte formuliere sie noch einmal anders."

	// ApologyResponse is returned when the language model call fails.
	ApologyResponse = "Entschuldigung, ich kann deine Frage gerade nicht " +
		"beantworten. Bitte versuche es gleich noch einmal."
)

// Config holds the grounding pipeline's tunable constants.
type Config struct {
	// RelevanceThreshold is the minimum best-result score required to inject
	// retrieved context into the prompt. Default: 0.3
	RelevanceThreshold float64

	// TopK is the number of results requested from retrieval. Default: 3
	TopK int

	// HistoryWindow bounds how many recent messages enter the prompt.
	// Default: 10
	HistoryWindow int

	// ChatOptions are forwarded to every model call.
	ChatOptions ai.ChatOptions
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		RelevanceThreshold: 0.3,
		TopK:               3,
		HistoryWindow:      10,
	}
}

// Pipeline grounds model answers in retrieved knowledge. Per query it takes
// one of three paths: the meta-question path (retrieval skipped, prompt from
// history alone), the low-relevance path (context omitted, history-only
// instructions) or the grounded path (labeled context blocks).
type Pipeline struct {
	dispatcher *search.Dispatcher
	config     Config
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithConfig overrides the pipeline configuration.
func WithConfig(config Config) Option {
	return func(p *Pipeline) {
		p.config = config
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// NewPipeline creates a grounding pipeline over the retrieval dispatcher.
func NewPipeline(dispatcher *search.Dispatcher, opts ...Option) (*Pipeline, error) {
	if dispatcher == nil {
		return nil, ErrDispatcherRequired
	}
	p := &Pipeline{
		dispatcher: dispatcher,
		config:     DefaultConfig(),
		logger:     slog.Default().With("component", "grounding"),
	}
	for _, opt := range opts {
		opt(p)
	}

	// A partially-filled Config must not disable the bounded context window
	// or the result count.
	defaults := DefaultConfig()
	if p.config.TopK <= 0 {
		p.config.TopK = defaults.TopK
	}
	if p.config.HistoryWindow <= 0 {
		p.config.HistoryWindow = defaults.HistoryWindow
	}

	return p, nil
}

// ExecuteQuery answers one user question. chat is an injected capability;
// the pipeline never constructs or configures it, and forwards ctx (with any
// caller timeout) untouched. The returned string is always user-facing:
// failures inside retrieval, prompt assembly or the model call degrade to
// fixed responses instead of propagating.
func (p *Pipeline) ExecuteQuery(ctx context.Context, question string, history []core.ChatMessage, chat ai.ChatModel) string {
	if chat == nil {
		p.logger.Error("no chat model injected")
		return ApologyResponse
	}

	sanitized, err := SanitizeQuestion(question)
	if err != nil {
		p.logger.Warn("question rejected", "err", err)
		return RejectedResponse
	}

	var results []*core.SearchResult
	if IsMetaQuestion(sanitized) {
		// The corpus cannot answer questions about the conversation itself.
		p.logger.Debug("meta-question detected, skipping retrieval")
	} else {
		results = p.dispatcher.SearchKnowledge(ctx, sanitized, p.config.TopK)
		if len(results) > 0 && results[0].Score < p.config.RelevanceThreshold {
			p.logger.Debug("best result below relevance threshold, omitting context",
				"score", results[0].Score, "threshold", p.config.RelevanceThreshold)
			results = nil
		}
	}

	messages := BuildPrompt(sanitized, history, results, p.config.HistoryWindow)

	answer, err := chat.GenerateChat(ctx, messages, p.config.ChatOptions)
	if err != nil {
		p.logger.Error("chat generation failed", "err", err)
		return ApologyResponse
	}
	return answer
}

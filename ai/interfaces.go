package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// MessageRole identifies the author of a prompt message.
type MessageRole int

const (
	// RoleSystem carries instructions that frame the whole exchange.
	RoleSystem MessageRole = iota + 1
	// RoleUser carries content authored by the human user.
	RoleUser
	// RoleAssistant carries content authored by the model.
	RoleAssistant
)

// Message is one entry of an assembled prompt.
type Message struct {
	Role    MessageRole
	Content string
}

// ChatOptions carries per-call generation parameters. The zero value lets the
// implementation use its defaults.
type ChatOptions struct {
	// Temperature controls sampling randomness. 0 means implementation default.
	Temperature float64

	// MaxTokens bounds the generated response length. 0 means no explicit bound.
	MaxTokens int
}

// ChatModel generates a chat completion from an assembled prompt.
// The engine never constructs or configures the underlying service beyond the
// injected implementation; cancellation and timeouts arrive via ctx and are
// forwarded untouched.
// Implementations must be thread-safe for concurrent use.
type ChatModel interface {
	// GenerateChat produces the model's response text for the given messages.
	// Returns an error if generation fails; callers own the fallback behavior.
	GenerateChat(ctx context.Context, messages []Message, opts ChatOptions) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and ChatModel instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// ChatModel returns the chat completion service.
	// The returned ChatModel is safe for concurrent use.
	ChatModel() ChatModel

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

package mock

import (
	"context"

	"github.com/poiesic/klartext/ai"
)

// MockChatModel is a test double for ai.ChatModel.
// It allows custom behavior injection via function fields.
type MockChatModel struct {
	// GenerateChatFunc is called by GenerateChat if set.
	// If nil, returns Response.
	GenerateChatFunc func(ctx context.Context, messages []ai.Message, opts ai.ChatOptions) (string, error)

	// Response is returned by the default behavior.
	Response string

	// LastMessages records the messages of the most recent call.
	LastMessages []ai.Message

	callCount int
}

// NewMockChatModel creates a mock chat model that echoes a canned response.
// Note: Returns concrete type to allow test assertions.
func NewMockChatModel() *MockChatModel {
	return &MockChatModel{Response: "mock response"}
}

// GenerateChat records the call and returns the configured behavior.
func (m *MockChatModel) GenerateChat(ctx context.Context, messages []ai.Message, opts ai.ChatOptions) (string, error) {
	m.callCount++
	m.LastMessages = append([]ai.Message(nil), messages...)

	if m.GenerateChatFunc != nil {
		return m.GenerateChatFunc(ctx, messages, opts)
	}
	return m.Response, nil
}

// CallCount returns the number of times GenerateChat was called.
func (m *MockChatModel) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockChatModel) Reset() {
	m.callCount = 0
	m.LastMessages = nil
	m.GenerateChatFunc = nil
	m.Response = "mock response"
}

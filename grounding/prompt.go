package grounding

import (
	"fmt"
	"strings"

	"github.com/poiesic/klartext/ai"
	"github.com/poiesic/klartext/core"
)

const systemPromptGrounded = "Du bist ein Kommunikations-Coach. Beantworte die Frage " +
	"ausschließlich anhand des bereitgestellten Wissenskontexts und des bisherigen " +
	"Gesprächs. Wenn der Kontext die Frage nicht beantwortet, sage das offen, statt " +
	"etwas zu erfinden. Antworte auf Deutsch, klar und knapp."

const systemPromptHistoryOnly = "Du bist ein Kommunikations-Coach. Für diese Frage liegt " +
	"kein passender Wissenskontext vor. Beantworte sie nur aus dem bisherigen Gespräch " +
	"heraus; wenn das nicht möglich ist, sage das offen, statt etwas zu erfinden. " +
	"Antworte auf Deutsch, klar und knapp."

// BuildPrompt assembles the final message sequence: system instructions, the
// trimmed chat history, an optional retrieved-context block and the sanitized
// question. With no results (or none above threshold) the model is instructed
// to answer from history only rather than being fed irrelevant context.
func BuildPrompt(question string, history []core.ChatMessage, results []*core.SearchResult, historyWindow int) []ai.Message {
	var messages []ai.Message

	if len(results) > 0 {
		var b strings.Builder
		b.WriteString(systemPromptGrounded)
		b.WriteString("\n\nWissenskontext:\n")
		for _, r := range results {
			fmt.Fprintf(&b, "\n[%s] (Kategorie: %s, Relevanz: %.0f%%)\n%s\n",
				r.Chunk.Title, r.Chunk.Category, r.Score*100, r.Chunk.Content)
		}
		messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: b.String()})
	} else {
		messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: systemPromptHistoryOnly})
	}

	for _, msg := range trimHistory(history, historyWindow) {
		role := ai.RoleUser
		if msg.Role == core.RoleAssistant {
			role = ai.RoleAssistant
		}
		messages = append(messages, ai.Message{Role: role, Content: msg.Content})
	}

	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: question})
	return messages
}

// trimHistory bounds the context window to the last n messages. n <= 0
// leaves the history unbounded; the pipeline clamps its window before
// calling BuildPrompt.
func trimHistory(history []core.ChatMessage, n int) []core.ChatMessage {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

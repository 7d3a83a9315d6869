package grounding

import (
	"regexp"
	"strings"
)

// metaPatterns detect questions about the conversation itself rather than
// the knowledge domain. The set is deliberately small and high-confidence: a
// miss falls through to normal retrieval, which is the safe direction.
var metaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`was habe ich (?:dich |dir )?(?:gerade|zuletzt|eben|vorhin) gefragt`),
	regexp.MustCompile(`was war meine (?:letzte|vorherige|erste) frage`),
	regexp.MustCompile(`was hast du (?:gerade|zuletzt|eben|vorhin) (?:gesagt|geantwortet|geschrieben)`),
	regexp.MustCompile(`wor(?:ü|u)ber (?:haben wir|sprechen wir|reden wir) (?:gerade|bisher|hier)`),
	regexp.MustCompile(`fasse (?:unser|das) gespr(?:ä|a)ch zusammen`),
	regexp.MustCompile(`what did i (?:just |last )?ask(?: you)?`),
	regexp.MustCompile(`what was my (?:last|previous|first) question`),
	regexp.MustCompile(`what did you (?:just |last )?(?:say|answer|write)`),
	regexp.MustCompile(`summari[sz]e (?:our|this) conversation`),
}

// IsMetaQuestion reports whether the question asks about the conversation
// itself. For such questions retrieval is skipped entirely: the corpus
// cannot answer questions about the chat, and injecting context would only
// mislead the model.
func IsMetaQuestion(question string) bool {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, p := range metaPatterns {
		if p.MatchString(q) {
			return true
		}
	}
	return false
}

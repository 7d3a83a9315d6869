package grounding

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultMaxQuestionLen caps the question length in runes before prompt
// insertion.
const DefaultMaxQuestionLen = 2000

// zeroWidthReplacer strips the zero-width characters used for homoglyph and
// smuggling tricks.
var zeroWidthReplacer = strings.NewReplacer(
	"\u200B", "", // zero width space
	"\u200C", "", // zero width non-joiner
	"\u200D", "", // zero width joiner
	"\u2060", "", // word joiner
	"\uFEFF", "", // byte order mark
)

// injectionPatterns are high-confidence prompt-injection markers (German and
// English). A match rejects the question outright.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignor(?:e|iere)\s+(?:all\s+|alle\s+)?(?:previous|prior|above|vorherigen|bisherigen)\s+(?:instructions|rules|anweisungen|regeln)`),
	regexp.MustCompile(`(?i)disregard\s+(?:all\s+)?(?:previous|prior)\s+instructions`),
	regexp.MustCompile(`(?i)\bsystem\s*prompt\b`),
	regexp.MustCompile(`(?i)\bsystemanweisung(?:en)?\b`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(?:a|an|the)\b`),
	regexp.MustCompile(`(?i)du\s+bist\s+(?:ab\s+)?jetzt\s+(?:ein|eine|der|die)\b`),
	regexp.MustCompile(`(?i)vergiss\s+(?:alle\s+)?(?:deine\s+)?(?:anweisungen|regeln)`),
}

// structureBreakers strip sequences that could break out of the prompt's own
// structure: bold markers, code fences, heading runs.
var structureBreakers = []*regexp.Regexp{
	regexp.MustCompile("```+"),
	regexp.MustCompile(`\*\*+`),
	regexp.MustCompile(`(?m)^#{1,6}\s*`),
}

var multiSpace = regexp.MustCompile(`\s{2,}`)

// SanitizeQuestion prepares a raw user question for prompt insertion:
// Unicode NFKC normalization, zero-width stripping, length capping, rejection
// of known injection patterns and removal of prompt-structure-breaking
// sequences. NFKC folds compatibility forms (fullwidth letters, ligatures)
// while keeping umlauts precomposed, matching the corpus and the alias table.
// Rejection is ErrQuestionRejected; the caller substitutes the fixed
// user-facing message.
func SanitizeQuestion(question string) (string, error) {
	s := norm.NFKC.String(question)
	s = zeroWidthReplacer.Replace(s)
	s = strings.TrimSpace(s)

	if runes := []rune(s); len(runes) > DefaultMaxQuestionLen {
		s = string(runes[:DefaultMaxQuestionLen])
	}

	for _, p := range injectionPatterns {
		if p.MatchString(s) {
			return "", fmt.Errorf("%w: injection pattern", ErrQuestionRejected)
		}
	}

	for _, p := range structureBreakers {
		s = p.ReplaceAllString(s, " ")
	}
	s = multiSpace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if s == "" {
		return "", fmt.Errorf("%w: empty after sanitization", ErrQuestionRejected)
	}
	return s, nil
}

package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kljensen/snowball"
)

// minTokenLen is the minimum rune length for a token (and for a stem) to be
// kept. Shorter fragments are noise for a corpus of this size.
const minTokenLen = 3

const trimCutset = ".,!?;:'\"-()[]{}"

// Tokenize normalizes text into a set of search tokens: lowercase, split on
// whitespace, punctuation trimmed, tokens shorter than minTokenLen dropped.
// For each surviving token the German stem is also emitted when it is long
// enough and differs from the original, so the set is the union of exact and
// stemmed forms. Numeric tokens bypass stemming. Deterministic: the same text
// always yields the same set.
func Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})

	for _, word := range strings.Fields(text) {
		cleaned := strings.ToLower(strings.Trim(word, trimCutset))
		if utf8.RuneCountInString(cleaned) < minTokenLen {
			continue
		}
		tokens[cleaned] = struct{}{}

		if isNumeric(cleaned) {
			continue
		}

		// Stemmer failure on malformed input keeps the exact form only.
		stem, err := snowball.Stem(cleaned, "german", false)
		if err != nil {
			continue
		}
		if stem != cleaned && utf8.RuneCountInString(stem) >= minTokenLen {
			tokens[stem] = struct{}{}
		}
	}

	return tokens
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

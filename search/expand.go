package search

import (
	"strings"
)

// Expander appends the spelled-out forms of known domain abbreviations to a
// query so downstream tokenization sees both the abbreviation and its
// expansion. The original query text is always preserved, never replaced.
type Expander struct {
	aliases map[string][]string
}

// NewExpander creates an expander over a static alias table. Keys are matched
// case-insensitively and insensitive to trailing punctuation.
func NewExpander(aliases map[string][]string) *Expander {
	normalized := make(map[string][]string, len(aliases))
	for key, terms := range aliases {
		normalized[strings.ToLower(key)] = append([]string(nil), terms...)
	}
	return &Expander{aliases: normalized}
}

// Expand returns the query with matching expansion terms appended. Queries
// with no matching alias pass through unchanged. Idempotent: expanding an
// already-expanded query adds nothing, because terms already present in the
// query are not appended again.
func (e *Expander) Expand(query string) string {
	var additions []string
	lower := strings.ToLower(query)

	for _, word := range strings.Fields(lower) {
		word = strings.TrimRight(word, trimCutset)
		terms, ok := e.aliases[word]
		if !ok {
			continue
		}
		for _, term := range terms {
			if strings.Contains(lower, term) {
				continue
			}
			already := false
			for _, a := range additions {
				if a == term {
					already = true
					break
				}
			}
			if !already {
				additions = append(additions, term)
			}
		}
	}

	if len(additions) == 0 {
		return query
	}
	return query + " " + strings.Join(additions, " ")
}

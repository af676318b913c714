// Package detector implements filler word detection in free text using
// case-insensitive whole-word matching against a configured vocabulary.
package detector

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Detector finds occurrences of a fixed vocabulary of filler terms in
// text. The vocabulary is normalized once at construction and never
// mutated, so a Detector is safe for concurrent use without locking.
type Detector struct {
	words []string
}

// New creates a Detector from the configured vocabulary. Terms are
// lowercased, trimmed, and deduplicated while preserving their first-seen
// order. Terms may be multi-word phrases ("you know").
func New(words []string) *Detector {
	seen := make(map[string]struct{}, len(words))
	normalized := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		normalized = append(normalized, w)
	}
	return &Detector{words: normalized}
}

// Words returns a copy of the normalized vocabulary in iteration order.
func (d *Detector) Words() []string {
	out := make([]string, len(d.words))
	copy(out, d.words)
	return out
}

// Detect returns every occurrence of a vocabulary term in text, with
// duplicates when a term appears more than once. A term matches only as a
// whole word or phrase: the characters immediately before and after the
// matched span must not be word-constituent (letter, digit, underscore).
//
// Results follow vocabulary iteration order, then text position within
// each term. This ordering is a deliberate contract, not an accident of
// implementation; notification and stats formatting rely on it being
// deterministic.
func (d *Detector) Detect(text string) []string {
	if text == "" || len(d.words) == 0 {
		return nil
	}

	lower := strings.ToLower(text)

	var found []string
	for _, word := range d.words {
		for off := 0; off <= len(lower)-len(word); {
			i := strings.Index(lower[off:], word)
			if i < 0 {
				break
			}
			start := off + i
			end := start + len(word)
			if boundaryBefore(lower, start) && boundaryAfter(lower, end) {
				found = append(found, word)
				off = end
			} else {
				off = start + 1
			}
		}
	}
	return found
}

// isWordChar reports whether r would be part of a word, matching the
// usual \w class: letters, digits, and underscore.
func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordChar(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordChar(r)
}

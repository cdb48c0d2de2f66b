// Package textutil provides the tokenization shared by the search
// index, query processing, ranking, and learning. All callers must
// tokenize identically or index lookups silently miss.
package textutil

import (
	"strings"
	"unicode"
)

// stopwords are excluded from tokenization. Kept small on purpose:
// domain words like "open" or "cost" must survive.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {},
	"not": {}, "you": {}, "all": {}, "can": {}, "had": {},
	"her": {}, "was": {}, "one": {}, "our": {}, "out": {},
	"has": {}, "his": {}, "how": {}, "its": {}, "may": {},
	"who": {}, "did": {}, "get": {}, "him": {}, "she": {},
	"this": {}, "that": {}, "with": {}, "have": {}, "from": {},
	"they": {}, "will": {}, "would": {}, "there": {}, "their": {},
	"what": {}, "about": {}, "which": {}, "when": {}, "your": {},
	"them": {}, "then": {}, "some": {}, "into": {}, "could": {},
	"should": {}, "does": {}, "been": {}, "were": {}, "where": {},
	"please": {}, "want": {}, "need": {}, "know": {}, "tell": {},
}

// Tokenize lowercases text, splits on non-alphanumeric runes, and
// drops stopwords and tokens shorter than three characters.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 3 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// UniqueTokens tokenizes and deduplicates, preserving first-seen order.
func UniqueTokens(text string) []string {
	tokens := Tokenize(text)
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// Normalize returns the canonical form of a query: its tokens joined
// by single spaces. Used to fold repeated knowledge-gap queries.
func Normalize(text string) string {
	return strings.Join(Tokenize(text), " ")
}

// Sentences splits text into sentences on terminal punctuation.
// Good enough for template synthesis; it does not handle
// abbreviations.
func Sentences(text string) []string {
	var out []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(b.String())
			if s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}

// Snippet returns a window of text centred on the first occurrence of
// any of the terms, at most width runes, with ellipses marking cuts.
// Falls back to the leading window when no term matches.
func Snippet(text string, terms []string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	lower := strings.ToLower(text)
	pos := -1
	for _, term := range terms {
		if i := strings.Index(lower, strings.ToLower(term)); i >= 0 && (pos < 0 || i < pos) {
			pos = i
		}
	}

	runes := []rune(text)
	if pos < 0 {
		return string(runes[:min(width, len(runes))]) + "..."
	}

	// Byte offset to rune offset.
	start := len([]rune(text[:pos]))
	start -= width / 2
	if start < 0 {
		start = 0
	}
	end := start + width
	if end > len(runes) {
		end = len(runes)
		start = max(0, end-width)
	}

	out := string(runes[start:end])
	if start > 0 {
		out = "..." + out
	}
	if end < len(runes) {
		out += "..."
	}
	return out
}

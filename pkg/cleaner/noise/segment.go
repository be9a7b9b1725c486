package noise

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitSentences splits text at '.', '!' or '?' followed by whitespace and an
// uppercase letter. The terminal punctuation stays with its sentence and the
// separating whitespace is dropped.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		if !isTerminal(text[i]) {
			continue
		}
		j := i + 1
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		if j == i+1 || j >= len(text) {
			continue
		}
		r, _ := utf8.DecodeRuneInString(text[j:])
		if !unicode.IsUpper(r) {
			continue
		}
		sentences = append(sentences, text[start:i+1])
		start = j
		i = j - 1
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

// splitRunTogether splits "first.Second" at the period and terminates every
// fragment. The period at the split point is consumed, matching the way
// scraped text glues adjacent blocks together.
func splitRunTogether(sentence string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(sentence)-1; i++ {
		if sentence[i] != '.' {
			continue
		}
		r, _ := utf8.DecodeRuneInString(sentence[i+1:])
		if !unicode.IsUpper(r) {
			continue
		}
		parts = append(parts, sentence[start:i])
		start = i + 1
	}
	parts = append(parts, sentence[start:])
	return parts
}

// terminate trims the fragment and appends a period when it does not already
// end in terminal punctuation.
func terminate(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}
	if !isTerminal(fragment[len(fragment)-1]) {
		fragment += "."
	}
	return fragment
}

func isTerminal(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

package ranker

import (
	"strings"
	"unicode"
)

// DefaultStopWords are common English function words ignored when building
// term vectors and counting key words.
var DefaultStopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "from", "up", "about", "into", "through", "during",
	"is", "are", "was", "were", "be", "been", "being", "have", "has", "had",
	"do", "does", "did", "will", "would", "should", "could", "may", "might",
	"can", "this", "that", "these", "those", "i", "you", "he", "she", "it",
	"we", "they", "them", "their", "what", "which", "who", "when", "where",
	"why", "how", "all", "each", "every", "both", "few", "more", "most",
	"other", "some", "such", "no", "nor", "not", "only", "own", "same",
	"so", "than", "too", "very", "s", "t", "just", "don", "now",
}

// DefaultBonusWords raise a sentence's cue score.
var DefaultBonusWords = []string{"important", "significant", "key", "major", "critical", "essential"}

// DefaultStigmaWords lower a sentence's cue score.
var DefaultStigmaWords = []string{"maybe", "perhaps", "possibly", "might", "could"}

// tokenize lowercases s and splits it into words of letters and digits.
// Apostrophes split words, so "don't" yields "don" and "t".
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func wordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}

// terms tokenizes s and drops stop words.
func terms(s string, stop map[string]bool) []string {
	words := tokenize(s)
	out := words[:0]
	for _, w := range words {
		if !stop[w] {
			out = append(out, w)
		}
	}
	return out
}

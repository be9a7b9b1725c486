package entity

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// chunk is a run of proper-noun tokens within a sentence.
type chunk struct {
	Words []string
	// Start is the index of the first token in the sentence.
	Start int
	// Hints are the tagger's NER labels for the chunk's tokens.
	Hints []string
	Label string
}

// Text joins the chunk words with single spaces.
func (c chunk) Text() string {
	return strings.Join(c.Words, " ")
}

// Words that may join two proper nouns inside one name
// ("Bank of England", "AT & T", "Institute for Fiscal Studies").
var connectors = map[string]bool{"of": true, "&": true, "de": true, "for": true}

// Tags a capitalized word may carry and still be part of a name when the
// tagger did not mark it NNP.
var nameTags = map[string]bool{"NN": true, "NNS": true, "JJ": true, "VBN": true, "VBG": true}

// chunkSentence groups the sentence's tokens into proper-noun chunks.
func chunkSentence(tokens []Token) []chunk {
	var (
		chunks  []chunk
		current *chunk
		pending []Token // connectors waiting for a following name token
	)

	flush := func() {
		if current != nil {
			chunks = append(chunks, *current)
		}
		current = nil
		pending = nil
	}

	for i, tok := range tokens {
		if isNameToken(tok, i) {
			if current == nil {
				current = &chunk{Start: i}
			}
			for _, p := range pending {
				current.Words = append(current.Words, p.Text)
				current.Hints = append(current.Hints, p.Label)
			}
			pending = nil
			current.Words = append(current.Words, tok.Text)
			current.Hints = append(current.Hints, tok.Label)
			continue
		}
		if current != nil && connectors[strings.ToLower(tok.Text)] && len(pending) == 0 {
			pending = append(pending, tok)
			continue
		}
		flush()
	}
	flush()

	return chunks
}

// isNameToken reports whether a token can be part of a proper-noun chunk.
// Sentence-initial words only count when tagged as proper nouns, since
// every sentence starts with a capital.
func isNameToken(tok Token, position int) bool {
	if tok.Tag == "NNP" || tok.Tag == "NNPS" {
		return startsUpper(tok.Text) || isAcronym(tok.Text)
	}
	if isAcronym(tok.Text) {
		return true
	}
	return position > 0 && startsUpper(tok.Text) && nameTags[tok.Tag]
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// isAcronym reports whether s is two or more letters, all uppercase
// (digits and '.' allowed, as in "U.N." or "G7").
func isAcronym(s string) bool {
	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			letters++
		case unicode.IsDigit(r), r == '.', r == '&':
		default:
			return false
		}
	}
	return letters >= 2
}

// labelChunk assigns a chunk label. Cue words win over the place gazetteer,
// which wins over name evidence, then the tagger's hints, then context.
// prev is the token before the chunk, or "" at sentence start.
func (l *lexicon) labelChunk(c *chunk, prev string) bool {
	words := c.Words

	// Leading titles mark a person and are not part of the name.
	titled := l.isTitle(prev)
	for len(words) > 1 && l.isTitle(words[0]) {
		words = words[1:]
		titled = true
	}
	if len(words) == 1 && l.isTitle(words[0]) {
		return false
	}
	c.Words = words

	if label, ok := l.cueLabel(words); ok {
		c.Label = label
		return true
	}
	if l.isPlace(words) {
		c.Label = LabelGPE
		return true
	}
	if titled || l.isFirstName(words[0]) {
		c.Label = LabelPerson
		return true
	}
	if hint := majorityHint(c.Hints); hint != "" {
		if _, ok := CategoryFor(hint); ok {
			c.Label = hint
			return true
		}
	}
	switch {
	case l.isPlacePreposition(prev):
		c.Label = LabelGPE
	case len(words) == 1 && isAcronym(words[0]):
		c.Label = LabelOrganization
	case len(words) >= 2:
		c.Label = LabelPerson
	default:
		return false
	}
	return true
}

// majorityHint returns the most common non-empty hint, preferring the
// earliest on ties.
func majorityHint(hints []string) string {
	counts := make(map[string]int)
	best := ""
	for _, h := range hints {
		if h == "" {
			continue
		}
		counts[h]++
		if best == "" || counts[h] > counts[best] {
			best = h
		}
	}
	return best
}

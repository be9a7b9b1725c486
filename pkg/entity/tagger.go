package entity

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Token is a tagged word. Tag is a Penn Treebank part-of-speech tag and
// Label an optional NER hint (e.g. PERSON, GPE) or "".
type Token struct {
	Text  string
	Tag   string
	Label string
}

// TaggedSentence is a sentence and its tokens.
type TaggedSentence struct {
	Text   string
	Tokens []Token
}

// Tagger splits text into sentences and tags every token.
type Tagger interface {
	Tag(text string) ([]TaggedSentence, error)
}

// ProseTagger tags text with the prose averaged-perceptron tagger and uses
// its entity recognizer for label hints.
type ProseTagger struct{}

// NewProseTagger loads the prose models and returns a tagger. Loading runs
// a small document through the full pipeline so model errors surface here.
func NewProseTagger() (*ProseTagger, error) {
	t := &ProseTagger{}
	if _, err := t.Tag("Tagger warm-up in London."); err != nil {
		return nil, fmt.Errorf("failed to load tagger models: %w", err)
	}
	return t, nil
}

// Tag implements Tagger.
func (t *ProseTagger) Tag(text string) ([]TaggedSentence, error) {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(true),
		prose.WithTagging(true),
		prose.WithExtraction(true),
	)
	if err != nil {
		return nil, err
	}

	sentences := doc.Sentences()
	if len(sentences) == 0 {
		return nil, nil
	}

	// Locate each sentence in the source so tokens can be assigned to the
	// sentence containing them.
	ends := make([]int, len(sentences))
	cursor := 0
	for i, s := range sentences {
		if idx := strings.Index(text[cursor:], s.Text); idx >= 0 {
			cursor += idx + len(s.Text)
		}
		ends[i] = cursor
	}
	ends[len(ends)-1] = len(text)

	out := make([]TaggedSentence, len(sentences))
	for i, s := range sentences {
		out[i].Text = s.Text
	}

	cursor = 0
	current := 0
	for _, tok := range doc.Tokens() {
		if idx := strings.Index(text[cursor:], tok.Text); idx >= 0 {
			cursor += idx
			for current < len(ends)-1 && cursor >= ends[current] {
				current++
			}
			cursor += len(tok.Text)
		}
		out[current].Tokens = append(out[current].Tokens, Token{
			Text:  tok.Text,
			Tag:   tok.Tag,
			Label: nerLabel(tok.Label),
		})
	}

	return out, nil
}

// nerLabel strips the IOB prefix from a prose token label.
func nerLabel(label string) string {
	if label == "" || label == "O" {
		return ""
	}
	if i := strings.IndexByte(label, '-'); i >= 0 {
		return label[i+1:]
	}
	return label
}

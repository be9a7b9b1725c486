package entity

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/jmylchreest/pagelens/internal/logger"
)

// Extractor runs the entity pipeline. The tagger and word lists are loaded
// on first use; a failed load fails that call only and is retried on the
// next one. An Extractor is safe for concurrent use.
type Extractor struct {
	cfg       Config
	newTagger func() (Tagger, error)

	mu     sync.Mutex
	ready  bool
	tagger Tagger
	lex    *lexicon
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTagger uses the given tagger instead of the prose tagger.
func WithTagger(t Tagger) Option {
	return func(e *Extractor) {
		e.newTagger = func() (Tagger, error) { return t, nil }
	}
}

// WithTaggerFactory sets how the tagger is created on first use.
func WithTaggerFactory(f func() (Tagger, error)) Option {
	return func(e *Extractor) {
		e.newTagger = f
	}
}

// NewExtractor creates an extractor. If cfg is nil, DefaultConfig() is used.
func NewExtractor(cfg *Config, opts ...Option) *Extractor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	e := &Extractor{
		cfg: *cfg,
		newTagger: func() (Tagger, error) {
			return NewProseTagger()
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// init loads the tagger and lexicon once. Unlike sync.Once, a failure leaves
// the extractor uninitialized so the next call tries again.
func (e *Extractor) init() (Tagger, *lexicon, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ready {
		return e.tagger, e.lex, nil
	}

	tagger, err := e.newTagger()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize tagger: %w", err)
	}
	e.tagger = tagger
	e.lex = newLexicon()
	e.ready = true
	logger.Debug("entity extractor initialized", "tagger", fmt.Sprintf("%T", tagger))

	return e.tagger, e.lex, nil
}

// Extract finds and categorizes entities in raw text.
func (e *Extractor) Extract(ctx context.Context, raw string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tagger, lex, err := e.init()
	if err != nil {
		return nil, err
	}

	sentences, err := tagger.Tag(raw)
	if err != nil {
		return nil, fmt.Errorf("tagging failed: %w", err)
	}

	var verify func(string) bool
	if e.cfg.VerifyInSource {
		verify = func(text string) bool { return occursAsWord(raw, text) }
	}

	result := &Result{
		Entities:   []Entity{},
		Sentences:  len(sentences),
		TextLength: utf8.RuneCountInString(raw),
	}
	seen := make(map[string]bool)

	for _, sentence := range sentences {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, c := range chunkSentence(sentence.Tokens) {
			prev := ""
			if c.Start > 0 {
				prev = sentence.Tokens[c.Start-1].Text
			}
			if !lex.labelChunk(&c, prev) {
				continue
			}

			category, ok := CategoryFor(c.Label)
			if !ok {
				continue
			}
			text := c.Text()
			if !e.keep(text) {
				continue
			}
			if verify != nil && !verify(text) {
				logger.Debug("entity not found in source", "text", text)
				continue
			}

			key := strings.ToLower(text) + "\x00" + string(category)
			if seen[key] {
				continue
			}
			seen[key] = true

			result.Entities = append(result.Entities, Entity{
				Text:       text,
				Category:   category,
				Type:       c.Label,
				Confidence: e.cfg.Confidence,
			})
		}
	}

	return result, nil
}

// keep applies the text filters: no empty or punctuation-only spans, no
// numbers, no single characters outside the allow-list.
func (e *Extractor) keep(text string) bool {
	if text == "" || isPunctuation(text) || isDigits(text) {
		return false
	}
	if utf8.RuneCountInString(text) == 1 {
		for _, allowed := range e.cfg.AllowSingle {
			if strings.EqualFold(text, allowed) {
				return true
			}
		}
		return false
	}
	return true
}

func isPunctuation(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// occursAsWord reports whether text appears in raw, case-insensitively, not
// adjacent to other letters or digits.
func occursAsWord(raw, text string) bool {
	re, err := regexp.Compile(`(?i)(?:^|[^\p{L}\p{N}])` + regexp.QuoteMeta(text) + `(?:$|[^\p{L}\p{N}])`)
	if err != nil {
		return false
	}
	return re.MatchString(raw)
}

// Package pagelens provides the public API for summarizing webpage text and
// extracting categorized named entities from it.
package pagelens

import (
	"github.com/jmylchreest/pagelens/pkg/cleaner/noise"
	"github.com/jmylchreest/pagelens/pkg/entity"
	"github.com/jmylchreest/pagelens/pkg/ranker"
	"github.com/jmylchreest/pagelens/pkg/structure"
)

// MinContentLength is the shortest cleaned text, in characters, that is
// summarized or analyzed.
const MinContentLength = 100

// Rankers names the ranking strategy used for each kind of output.
type Rankers struct {
	Headline string `json:"headline" yaml:"headline"`
	Facts    string `json:"facts" yaml:"facts"`
	Brief    string `json:"brief" yaml:"brief"`
	Answer   string `json:"answer" yaml:"answer"`
}

// DefaultRankers returns graph centrality for the headline, lexical features
// for facts and latent semantic analysis for brief summaries and answers.
func DefaultRankers() Rankers {
	return Rankers{
		Headline: "lexrank",
		Facts:    "edmundson",
		Brief:    "lsa",
		Answer:   "lsa",
	}
}

// Config holds all Analyzer configuration.
type Config struct {
	Cleaner       *noise.Config
	Rankers       Rankers
	RankerOptions ranker.Options
	DetectLists   bool
	Structure     *structure.Config
	Entities      *entity.Config

	// Tagger overrides the entity extractor's default tagger.
	Tagger entity.Tagger
}

// DefaultConfig returns the settings used by the HTTP API.
func DefaultConfig() Config {
	return Config{
		Cleaner:       noise.DefaultConfig(),
		Rankers:       DefaultRankers(),
		RankerOptions: ranker.DefaultOptions(),
		DetectLists:   true,
		Structure:     structure.DefaultConfig(),
		Entities:      entity.DefaultConfig(),
	}
}

// Option configures an Analyzer.
type Option func(*Config)

// WithCleaner sets the text cleaner configuration.
func WithCleaner(cfg *noise.Config) Option {
	return func(c *Config) {
		if cfg != nil {
			c.Cleaner = cfg
		}
	}
}

// WithRankers sets the ranking strategy per output. Empty names keep the
// current choice.
func WithRankers(r Rankers) Option {
	return func(c *Config) {
		if r.Headline != "" {
			c.Rankers.Headline = r.Headline
		}
		if r.Facts != "" {
			c.Rankers.Facts = r.Facts
		}
		if r.Brief != "" {
			c.Rankers.Brief = r.Brief
		}
		if r.Answer != "" {
			c.Rankers.Answer = r.Answer
		}
	}
}

// WithRankerOptions sets the options every ranker is built with.
func WithRankerOptions(opts ranker.Options) Option {
	return func(c *Config) {
		c.RankerOptions = opts
	}
}

// WithDetectLists enables or disables rendering list-like pages as sections
// or bullets instead of ranking sentences.
func WithDetectLists(enabled bool) Option {
	return func(c *Config) {
		c.DetectLists = enabled
	}
}

// WithStructureConfig sets the list detection thresholds.
func WithStructureConfig(cfg *structure.Config) Option {
	return func(c *Config) {
		if cfg != nil {
			c.Structure = cfg
		}
	}
}

// WithEntityConfig sets the entity extraction configuration.
func WithEntityConfig(cfg *entity.Config) Option {
	return func(c *Config) {
		if cfg != nil {
			c.Entities = cfg
		}
	}
}

// WithTagger sets the part-of-speech tagger used for entity extraction.
func WithTagger(t entity.Tagger) Option {
	return func(c *Config) {
		c.Tagger = t
	}
}

// Package ranker provides extractive sentence ranking strategies.
//
// Every Ranker selects the most salient sentences from an already cleaned
// document and returns them in original document order. Strategies are
// stateless and safe for concurrent use; they are constructed by name through
// the registry so callers can wire a different strategy per use case.
package ranker

import (
	"cmp"
	"errors"
	"slices"
)

// ErrInvalidCount is returned when fewer than one sentence is requested.
var ErrInvalidCount = errors.New("sentence count must be at least 1")

// Sentence is a ranked sentence. Index is its position in the input.
type Sentence struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Ranker selects the count most salient sentences.
type Ranker interface {
	// Rank scores sentences and returns at most count of them in document
	// order. Empty input returns an empty slice; fewer sentences than count
	// returns all of them.
	Rank(sentences []string, count int) ([]Sentence, error)

	// Name returns the strategy name for logging/debugging.
	Name() string
}

// Options tunes the ranking strategies. Each strategy reads the fields it
// needs; zero values fall back to DefaultOptions.
type Options struct {
	// StopWords are excluded from term vectors. Nil uses DefaultStopWords.
	StopWords []string `json:"stop_words" yaml:"stop_words"`

	// LexRank graph settings. Threshold is the cosine similarity an edge
	// must exceed; zero means the default and NoThreshold keeps every pair
	// with any overlap.
	Threshold     float64 `json:"threshold" yaml:"threshold"`
	Damping       float64 `json:"damping" yaml:"damping"`
	MaxIterations int     `json:"max_iterations" yaml:"max_iterations"`
	Tolerance     float64 `json:"tolerance" yaml:"tolerance"`

	// Edmundson cue words and method weights.
	BonusWords     []string `json:"bonus_words" yaml:"bonus_words"`
	StigmaWords    []string `json:"stigma_words" yaml:"stigma_words"`
	CueWeight      float64  `json:"cue_weight" yaml:"cue_weight"`
	KeyWeight      float64  `json:"key_weight" yaml:"key_weight"`
	LocationWeight float64  `json:"location_weight" yaml:"location_weight"`

	// MinDimensions is the smallest number of LSA topics considered.
	MinDimensions int `json:"min_dimensions" yaml:"min_dimensions"`
}

// NoThreshold disables the LexRank similarity threshold.
const NoThreshold = -1.0

// DefaultOptions returns the settings used by the API.
func DefaultOptions() Options {
	return Options{
		StopWords:      DefaultStopWords,
		Threshold:      0.1,
		Damping:        0.85,
		MaxIterations:  100,
		Tolerance:      1e-4,
		BonusWords:     DefaultBonusWords,
		StigmaWords:    DefaultStigmaWords,
		CueWeight:      1,
		KeyWeight:      1,
		LocationWeight: 1,
		MinDimensions:  3,
	}
}

// withDefaults fills unset fields from DefaultOptions. Weights are left as
// given so a strategy component can be disabled with an explicit zero; an
// all-zero Options gets the default weights.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.StopWords == nil {
		o.StopWords = d.StopWords
	}
	switch {
	case o.Threshold == 0:
		o.Threshold = d.Threshold
	case o.Threshold < 0:
		o.Threshold = 0
	}
	if o.Damping <= 0 || o.Damping >= 1 {
		o.Damping = d.Damping
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.BonusWords == nil {
		o.BonusWords = d.BonusWords
	}
	if o.StigmaWords == nil {
		o.StigmaWords = d.StigmaWords
	}
	if o.CueWeight == 0 && o.KeyWeight == 0 && o.LocationWeight == 0 {
		o.CueWeight, o.KeyWeight, o.LocationWeight = d.CueWeight, d.KeyWeight, d.LocationWeight
	}
	if o.MinDimensions <= 0 {
		o.MinDimensions = d.MinDimensions
	}
	return o
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// HeadlineCount is the number of sentences in a headline summary.
func HeadlineCount() int { return 2 }

// FactsCount is the number of "main facts" for a cleaned text of length n.
func FactsCount(n int) int { return Clamp(n/600, 3, 5) }

// BriefCount is the number of sentences in a brief summary.
func BriefCount(n int) int { return Clamp(n/500, 3, 6) }

// AnswerCount is the number of context sentences returned for a question.
func AnswerCount(n int) int { return Clamp(n/400, 5, 7) }

// Texts returns the sentence texts in order.
func Texts(sentences []Sentence) []string {
	out := make([]string, len(sentences))
	for i, s := range sentences {
		out[i] = s.Text
	}
	return out
}

// selectTop picks the count highest-scoring sentences, breaking ties by
// earlier index, and returns them in document order.
func selectTop(sentences []string, scores []float64, count int) []Sentence {
	ranked := make([]Sentence, len(sentences))
	for i, s := range sentences {
		ranked[i] = Sentence{Index: i, Text: s, Score: scores[i]}
	}

	slices.SortStableFunc(ranked, func(a, b Sentence) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	if count < len(ranked) {
		ranked = ranked[:count]
	}

	slices.SortFunc(ranked, func(a, b Sentence) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return ranked
}

// validate handles the checks shared by every strategy. It returns done when
// the result is already known.
func validate(sentences []string, count int) (result []Sentence, done bool, err error) {
	if count < 1 {
		return nil, true, ErrInvalidCount
	}
	if len(sentences) == 0 {
		return []Sentence{}, true, nil
	}
	return nil, false, nil
}

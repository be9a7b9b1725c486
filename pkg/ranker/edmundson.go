package ranker

import (
	"slices"
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// Edmundson ranks sentences by lexical features: cue words (bonus minus
// stigma occurrences), key words (document-frequent non-null words) and
// location (first and last sentence). The three scores are combined with
// the configured weights.
type Edmundson struct {
	opts   Options
	null   map[string]bool
	bonus  map[string]bool
	stigma map[string]bool

	// cue matches bonus and stigma words in one scan per sentence. Entries
	// are padded with spaces so hits are whole words.
	mu      sync.Mutex
	cue     *ahocorasick.Matcher
	cueKeys []string
	cueSign []float64
}

// NewEdmundson creates an Edmundson ranker.
func NewEdmundson(opts Options) *Edmundson {
	opts = opts.withDefaults()
	r := &Edmundson{
		opts:   opts,
		null:   wordSet(opts.StopWords),
		bonus:  wordSet(opts.BonusWords),
		stigma: wordSet(opts.StigmaWords),
	}
	for w := range r.bonus {
		r.cueKeys = append(r.cueKeys, " "+w+" ")
		r.cueSign = append(r.cueSign, 1)
	}
	for w := range r.stigma {
		r.cueKeys = append(r.cueKeys, " "+w+" ")
		r.cueSign = append(r.cueSign, -1)
	}
	if len(r.cueKeys) > 0 {
		r.cue = ahocorasick.NewStringMatcher(r.cueKeys)
	}
	return r
}

// Name returns the strategy name.
func (r *Edmundson) Name() string {
	return "edmundson"
}

// Rank implements Ranker.
func (r *Edmundson) Rank(sentences []string, count int) ([]Sentence, error) {
	if result, done, err := validate(sentences, count); done {
		return result, err
	}

	words := make([][]string, len(sentences))
	for i, s := range sentences {
		words[i] = tokenize(s)
	}

	cue := r.cueScores(words)
	key := r.keyScores(words)
	location := locationScores(len(sentences))

	scores := make([]float64, len(sentences))
	for i := range scores {
		scores[i] = r.opts.CueWeight*cue[i] + r.opts.KeyWeight*key[i] + r.opts.LocationWeight*location[i]
	}

	return selectTop(sentences, scores, count), nil
}

// cueScores adds one per bonus word occurrence and subtracts one per stigma
// word occurrence.
func (r *Edmundson) cueScores(words [][]string) []float64 {
	scores := make([]float64, len(words))
	if r.cue == nil {
		return scores
	}
	for i, ws := range words {
		if len(ws) == 0 {
			continue
		}
		// Double spacing keeps adjacent repeats from sharing a pad.
		padded := " " + strings.Join(ws, "  ") + " "

		r.mu.Lock()
		hits := r.cue.Match([]byte(padded))
		r.mu.Unlock()

		for _, hit := range hits {
			if hit >= len(r.cueKeys) {
				continue
			}
			scores[i] += r.cueSign[hit] * float64(strings.Count(padded, r.cueKeys[hit]))
		}
	}
	return scores
}

// keyScores rewards sentences containing words that recur across the
// document. The score is the mean frequency of the sentence's key words
// relative to the most frequent word, scaled down for sentences with fewer
// than three key words. It stays within [0, 1].
func (r *Edmundson) keyScores(words [][]string) []float64 {
	freq := make(map[string]int)
	for _, ws := range words {
		for _, w := range ws {
			if !r.null[w] && !r.bonus[w] && !r.stigma[w] {
				freq[w]++
			}
		}
	}

	maxFreq := 0
	for _, n := range freq {
		maxFreq = max(maxFreq, n)
	}

	scores := make([]float64, len(words))
	if maxFreq < 2 {
		return scores
	}
	for i, ws := range words {
		seen := make(map[string]bool)
		for _, w := range ws {
			if n := freq[w]; n >= 2 && !seen[w] {
				seen[w] = true
				scores[i] += float64(n) / float64(maxFreq)
			}
		}
		if len(seen) > 0 {
			scores[i] /= float64(len(seen))
			scores[i] *= min(float64(len(seen)), 3) / 3
		}
	}
	return scores
}

// locationScores gives the opening and closing sentences a point each.
func locationScores(n int) []float64 {
	scores := make([]float64, n)
	for _, i := range slices.Compact([]int{0, n - 1}) {
		scores[i] = 1
	}
	return scores
}

package ranker

import (
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// ErrSVD is returned when the term-sentence matrix cannot be factorized.
var ErrSVD = errors.New("lsa: singular value decomposition failed")

// LSA ranks sentences by latent semantic analysis: the term-sentence matrix
// is factorized with SVD and each sentence scores by its length in the space
// of the leading topics, weighted by their singular values.
type LSA struct {
	opts Options
	stop map[string]bool
}

// NewLSA creates an LSA ranker.
func NewLSA(opts Options) *LSA {
	opts = opts.withDefaults()
	return &LSA{opts: opts, stop: wordSet(opts.StopWords)}
}

// Name returns the strategy name.
func (r *LSA) Name() string {
	return "lsa"
}

// Rank implements Ranker.
func (r *LSA) Rank(sentences []string, count int) ([]Sentence, error) {
	if result, done, err := validate(sentences, count); done {
		return result, err
	}

	matrix, ok := r.termMatrix(sentences)
	if !ok {
		return selectTop(sentences, make([]float64, len(sentences)), count), nil
	}

	var svd mat.SVD
	if !svd.Factorize(matrix, mat.SVDThin) {
		return nil, ErrSVD
	}
	values := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	dims := r.dimensions(values)
	scores := make([]float64, len(sentences))
	for j := range scores {
		sum := 0.0
		for k := range dims {
			x := values[k] * v.At(j, k)
			sum += x * x
		}
		scores[j] = math.Sqrt(sum)
	}

	return selectTop(sentences, scores, count), nil
}

// termMatrix builds the terms x sentences matrix of max-normalized term
// frequencies. It reports false when no sentence has a content term.
func (r *LSA) termMatrix(sentences []string) (*mat.Dense, bool) {
	index := make(map[string]int)
	var vocab []string
	counts := make([]map[string]float64, len(sentences))

	for j, s := range sentences {
		tf := make(map[string]float64)
		for _, t := range terms(s, r.stop) {
			if _, ok := index[t]; !ok {
				index[t] = len(vocab)
				vocab = append(vocab, t)
			}
			tf[t]++
		}
		counts[j] = tf
	}
	if len(vocab) == 0 {
		return nil, false
	}

	matrix := mat.NewDense(len(vocab), len(sentences), nil)
	for j, tf := range counts {
		maxTF := 0.0
		for _, n := range tf {
			maxTF = math.Max(maxTF, n)
		}
		for t, n := range tf {
			matrix.Set(index[t], j, n/maxTF)
		}
	}
	return matrix, true
}

// dimensions is the number of topics used: the matrix rank, at least
// MinDimensions, bounded by the singular values available.
func (r *LSA) dimensions(values []float64) int {
	rank := 0
	if len(values) > 0 {
		tol := values[0] * 1e-10
		rank = len(slices.DeleteFunc(slices.Clone(values), func(s float64) bool { return s <= tol }))
	}
	return min(max(r.opts.MinDimensions, rank), len(values))
}

package ranker

import "math"

// LexRank ranks sentences by centrality in a similarity graph. Sentences are
// TF-IDF vectors; an edge joins two sentences whose cosine similarity exceeds
// the threshold, and scores come from a damped power iteration over the
// degree-normalized graph.
type LexRank struct {
	opts Options
	stop map[string]bool
}

// NewLexRank creates a LexRank ranker.
func NewLexRank(opts Options) *LexRank {
	opts = opts.withDefaults()
	return &LexRank{opts: opts, stop: wordSet(opts.StopWords)}
}

// Name returns the strategy name.
func (r *LexRank) Name() string {
	return "lexrank"
}

// Rank implements Ranker.
func (r *LexRank) Rank(sentences []string, count int) ([]Sentence, error) {
	if result, done, err := validate(sentences, count); done {
		return result, err
	}

	vectors := tfidfVectors(sentences, r.stop)
	adjacency := thresholdGraph(vectors, r.opts.Threshold)
	scores := pageRank(adjacency, r.opts.Damping, r.opts.MaxIterations, r.opts.Tolerance)

	return selectTop(sentences, scores, count), nil
}

// tfidfVectors builds one sparse vector per sentence. Term frequency is
// normalized by the sentence's most frequent term and IDF is smoothed so
// terms shared by every sentence keep a small positive weight.
func tfidfVectors(sentences []string, stop map[string]bool) []map[string]float64 {
	tfs := make([]map[string]float64, len(sentences))
	df := make(map[string]int)

	for i, s := range sentences {
		tf := make(map[string]float64)
		for _, t := range terms(s, stop) {
			tf[t]++
		}
		maxTF := 0.0
		for t, n := range tf {
			df[t]++
			maxTF = math.Max(maxTF, n)
		}
		for t := range tf {
			tf[t] /= maxTF
		}
		tfs[i] = tf
	}

	n := float64(len(sentences))
	for _, tf := range tfs {
		for t := range tf {
			tf[t] *= math.Log((1+n)/(1+float64(df[t]))) + 1
		}
	}
	return tfs
}

func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	dot := 0.0
	for t, w := range a {
		dot += w * b[t]
	}
	if dot == 0 {
		return 0
	}
	return dot / (norm(a) * norm(b))
}

func norm(v map[string]float64) float64 {
	sum := 0.0
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// thresholdGraph returns a symmetric 0/1 adjacency matrix without self loops.
func thresholdGraph(vectors []map[string]float64, threshold float64) [][]float64 {
	n := len(vectors)
	adjacency := make([][]float64, n)
	for i := range adjacency {
		adjacency[i] = make([]float64, n)
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			if cosine(vectors[i], vectors[j]) > threshold {
				adjacency[i][j] = 1
				adjacency[j][i] = 1
			}
		}
	}
	return adjacency
}

// pageRank runs a damped power iteration. Each node spreads its score evenly
// over its edges; isolated nodes only receive the teleport share.
func pageRank(adjacency [][]float64, damping float64, maxIterations int, tolerance float64) []float64 {
	n := len(adjacency)
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}

	// precompute outgoing weight sums for each node
	outgoing := make([]float64, n)
	for i := range n {
		for j := range n {
			outgoing[i] += adjacency[i][j]
		}
	}

	teleport := (1.0 - damping) / float64(n)
	for range maxIterations {
		next := make([]float64, n)
		change := 0.0

		for i := range n {
			link := 0.0
			for j := range n {
				if w := adjacency[j][i]; w > 0 && outgoing[j] > 0 {
					link += scores[j] * (w / outgoing[j])
				}
			}
			next[i] = teleport + damping*link
			change += math.Abs(next[i] - scores[i])
		}

		scores = next
		if change < tolerance {
			break
		}
	}

	return scores
}

package ranker

import (
	"fmt"
	"strings"

	"github.com/ramenjuniti/lexrankmmr"
)

// mmrSeparator is the sentence delimiter lexrankmmr splits on.
const mmrSeparator = "。"

// LexRankMMR delegates to lexrankmmr, which combines LexRank with maximal
// marginal relevance to avoid picking near-duplicate sentences.
type LexRankMMR struct {
	opts Options
}

// NewLexRankMMR creates a LexRank+MMR ranker.
func NewLexRankMMR(opts Options) *LexRankMMR {
	return &LexRankMMR{opts: opts.withDefaults()}
}

// Name returns the strategy name.
func (r *LexRankMMR) Name() string {
	return "lexrank-mmr"
}

// Rank implements Ranker. Scores are not exposed by the library, so the
// selected sentences carry their selection order as a descending score.
func (r *LexRankMMR) Rank(sentences []string, count int) ([]Sentence, error) {
	if result, done, err := validate(sentences, count); done {
		return result, err
	}

	// lexrankmmr splits on its own delimiter, so sentences are joined with it
	// and any occurrence inside a sentence is neutralized.
	parts := make([]string, len(sentences))
	for i, s := range sentences {
		parts[i] = strings.ReplaceAll(strings.TrimSpace(s), mmrSeparator, " ")
	}

	data, err := lexrankmmr.New(
		lexrankmmr.MaxLines(count),
		lexrankmmr.MaxCharacters(100000),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize lexrankmmr: %w", err)
	}
	if err := data.Summarize(strings.Join(parts, mmrSeparator)); err != nil {
		return nil, fmt.Errorf("summarization failed: %w", err)
	}

	// Map the selected text back to input positions; a repeated sentence
	// claims the earliest unused position.
	used := make([]bool, len(parts))
	scores := make([]float64, len(parts))
	picked := 0
	for rank, summary := range data.LineLimitedSummary {
		text := strings.TrimSpace(strings.TrimSuffix(summary.Sentence, mmrSeparator))
		for i, p := range parts {
			if !used[i] && p == text {
				used[i] = true
				scores[i] = float64(len(data.LineLimitedSummary) - rank)
				picked++
				break
			}
		}
	}

	selected := make([]Sentence, 0, picked)
	for i, s := range sentences {
		if used[i] {
			selected = append(selected, Sentence{Index: i, Text: s, Score: scores[i]})
		}
	}
	return selected, nil
}

package cleaner

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/pagelens/internal/logger"
)

// ChainCleaner runs cleaners in sequence, each on the previous output. A
// typical chain turns fetched HTML into text and then strips noise:
//
//	chain := cleaner.NewChain(
//	    cleaner.NewHTML(&cleaner.HTMLConfig{TerminateLines: true}),
//	    noise.New(noise.DefaultConfig()),
//	)
type ChainCleaner struct {
	stages []Cleaner
}

// NewChain creates a chain. Nil cleaners are skipped.
func NewChain(cleaners ...Cleaner) *ChainCleaner {
	stages := make([]Cleaner, 0, len(cleaners))
	for _, c := range cleaners {
		if c != nil {
			stages = append(stages, c)
		}
	}
	return &ChainCleaner{stages: stages}
}

// Clean runs every stage. The first failing stage stops the chain and its
// error is returned wrapped with the stage name.
func (c *ChainCleaner) Clean(content string) (string, error) {
	for i, stage := range c.stages {
		out, err := stage.Clean(content)
		if err != nil {
			return "", fmt.Errorf("stage %d (%s): %w", i+1, stage.Name(), err)
		}
		logger.Debug("cleaner stage done", "stage", stage.Name(), "in", len(content), "out", len(out))
		content = out
	}
	return content, nil
}

// Name returns the names of all chained cleaners.
func (c *ChainCleaner) Name() string {
	names := make([]string, len(c.stages))
	for i, stage := range c.stages {
		names[i] = stage.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}

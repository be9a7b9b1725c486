package ranker

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Factory creates rankers from options.
type Factory func(opts Options) (Ranker, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func init() {
	// Register all built-in strategies
	Register("lexrank", func(opts Options) (Ranker, error) {
		return NewLexRank(opts), nil
	})
	Register("edmundson", func(opts Options) (Ranker, error) {
		return NewEdmundson(opts), nil
	})
	Register("lsa", func(opts Options) (Ranker, error) {
		return NewLSA(opts), nil
	})
	Register("lexrank-mmr", func(opts Options) (Ranker, error) {
		return NewLexRankMMR(opts), nil
	})
}

// New creates a ranker by name.
func New(name string, opts Options) (Ranker, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown ranker: %s (available: %s)", name, strings.Join(Available(), ", "))
	}
	return factory(opts)
}

// Register adds a ranker factory, replacing any existing one with the same name.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Available returns the registered ranker names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered returns true if a ranker is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

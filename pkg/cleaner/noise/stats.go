package noise

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Drop reasons recorded in Stats.Dropped.
const (
	DropTooShort    = "too_short"
	DropUIPrefix    = "ui_prefix"
	DropTimestamp   = "timestamp"
	DropCaption     = "caption"
	DropLinkCluster = "link_cluster"
)

// Stats captures metrics about what the cleaner did.
type Stats struct {
	// Size metrics
	InputBytes  int `json:"input_bytes"`
	OutputBytes int `json:"output_bytes"`

	// Sentence counts
	SentencesSplit    int `json:"sentences_split"`
	SentencesKept     int `json:"sentences_kept"`
	DuplicatesRemoved int `json:"duplicates_removed"`

	// Dropped sentences by reason
	Dropped map[string]int `json:"dropped"`

	// Removal pattern hits (pattern name -> matches)
	PatternMatches map[string]int `json:"pattern_matches"`

	// Passes is the number of times the pipeline ran before its output
	// stopped changing.
	Passes int `json:"passes"`

	// Timing, summed over all passes. Serialized as milliseconds.
	StripDuration   time.Duration `json:"-"`
	SegmentDuration time.Duration `json:"-"`
	FilterDuration  time.Duration `json:"-"`
	TotalDuration   time.Duration `json:"-"`
}

// statsView is the serialized form of Stats.
type statsView struct {
	InputBytes        int            `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes       int            `json:"output_bytes" yaml:"output_bytes"`
	SentencesSplit    int            `json:"sentences_split" yaml:"sentences_split"`
	SentencesKept     int            `json:"sentences_kept" yaml:"sentences_kept"`
	DuplicatesRemoved int            `json:"duplicates_removed" yaml:"duplicates_removed"`
	Dropped           map[string]int `json:"dropped" yaml:"dropped"`
	PatternMatches    map[string]int `json:"pattern_matches" yaml:"pattern_matches"`
	Passes            int            `json:"passes" yaml:"passes"`
	StripMs           float64        `json:"strip_duration_ms" yaml:"strip_duration_ms"`
	SegmentMs         float64        `json:"segment_duration_ms" yaml:"segment_duration_ms"`
	FilterMs          float64        `json:"filter_duration_ms" yaml:"filter_duration_ms"`
	TotalMs           float64        `json:"total_duration_ms" yaml:"total_duration_ms"`
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func (s Stats) view() statsView {
	return statsView{
		InputBytes:        s.InputBytes,
		OutputBytes:       s.OutputBytes,
		SentencesSplit:    s.SentencesSplit,
		SentencesKept:     s.SentencesKept,
		DuplicatesRemoved: s.DuplicatesRemoved,
		Dropped:           s.Dropped,
		PatternMatches:    s.PatternMatches,
		Passes:            s.Passes,
		StripMs:           millis(s.StripDuration),
		SegmentMs:         millis(s.SegmentDuration),
		FilterMs:          millis(s.FilterDuration),
		TotalMs:           millis(s.TotalDuration),
	}
}

// MarshalJSON writes durations as fractional milliseconds.
func (s Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.view())
}

// MarshalYAML writes durations as fractional milliseconds.
func (s Stats) MarshalYAML() (any, error) {
	return s.view(), nil
}

// NewStats creates a new Stats instance with initialized maps.
func NewStats() *Stats {
	return &Stats{
		Dropped:        make(map[string]int),
		PatternMatches: make(map[string]int),
	}
}

// ReductionPercent returns the percentage reduction in size.
func (s *Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// TotalDropped returns the number of sentences removed by filters.
func (s *Stats) TotalDropped() int {
	total := 0
	for _, count := range s.Dropped {
		total += count
	}
	return total
}

// RecordDrop records that a sentence was dropped for the given reason.
func (s *Stats) RecordDrop(reason string) {
	s.Dropped[reason]++
}

// RecordMatch records that a removal pattern matched.
func (s *Stats) RecordMatch(name string, count int) {
	if count > 0 {
		s.PatternMatches[name] += count
	}
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Size: %d -> %d bytes (%.1f%% reduction)\n",
		s.InputBytes, s.OutputBytes, s.ReductionPercent()))

	sb.WriteString(fmt.Sprintf("Sentences: %d split, %d dropped, %d duplicates, %d kept\n",
		s.SentencesSplit, s.TotalDropped(), s.DuplicatesRemoved, s.SentencesKept))

	if len(s.Dropped) > 0 {
		sb.WriteString("Dropped by reason: ")
		sb.WriteString(joinCounts(s.Dropped))
		sb.WriteString("\n")
	}

	if len(s.PatternMatches) > 0 {
		sb.WriteString("Pattern matches: ")
		sb.WriteString(joinCounts(s.PatternMatches))
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Timing (%d passes): strip=%v, segment=%v, filter=%v, total=%v\n",
		s.Passes,
		s.StripDuration.Round(time.Microsecond),
		s.SegmentDuration.Round(time.Microsecond),
		s.FilterDuration.Round(time.Microsecond),
		s.TotalDuration.Round(time.Microsecond)))

	return sb.String()
}

// joinCounts renders a count map as sorted "key=n" pairs.
func joinCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ", ")
}

// Warning represents a non-fatal issue encountered during cleaning.
type Warning struct {
	Phase   string `json:"phase"`   // "strip", "segment", "filter"
	Message string `json:"message"` // Human-readable description
	Context string `json:"context"` // Pattern or sentence that caused the issue
}

// String returns a formatted warning message.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Phase, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Phase, w.Message)
}

// Result contains the output of a cleaning operation.
type Result struct {
	// Content is the cleaned text: Sentences joined by single spaces.
	Content string `json:"content"`

	// Sentences are the surviving sentences in document order.
	Sentences []string `json:"sentences"`

	// Stats contains metrics about what was done.
	Stats *Stats `json:"stats"`

	// Warnings contains non-fatal issues encountered.
	Warnings []Warning `json:"warnings,omitempty"`
}

// AddWarning adds a warning to the result.
func (r *Result) AddWarning(phase, message, context string) {
	r.Warnings = append(r.Warnings, Warning{
		Phase:   phase,
		Message: message,
		Context: context,
	})
}

// HasWarnings returns true if any warnings were recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Length returns the cleaned content length in characters.
func (r *Result) Length() int {
	return len([]rune(r.Content))
}

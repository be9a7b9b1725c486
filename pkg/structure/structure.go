// Package structure decides whether cleaned page text is list-like (an index
// or listing page rather than prose) and, if so, recovers its title and
// description lines so it can be rendered as sections or bullets instead of
// being summarized.
package structure

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Config holds the classifier thresholds. Lengths are in characters.
type Config struct {
	// MaxAvgLineWords is the average words per line below which a document
	// with MinLines..MaxLines lines is list-like.
	MaxAvgLineWords float64 `json:"max_avg_line_words" yaml:"max_avg_line_words"`
	MinLines        int     `json:"min_lines" yaml:"min_lines"`
	MaxLines        int     `json:"max_lines" yaml:"max_lines"`

	// MaxListWords is the word count below which any document with at least
	// MinLines lines is list-like.
	MaxListWords int `json:"max_list_words" yaml:"max_list_words"`

	// MinBodyLength is the length a description line must exceed to be kept.
	MinBodyLength int `json:"min_body_length" yaml:"min_body_length"`

	ShortTitleLength  int `json:"short_title_length" yaml:"short_title_length"`
	MinTitleUppercase int `json:"min_title_uppercase" yaml:"min_title_uppercase"`
	LongTitleLength   int `json:"long_title_length" yaml:"long_title_length"`
	MaxTitleCommas    int `json:"max_title_commas" yaml:"max_title_commas"`
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() *Config {
	return &Config{
		MaxAvgLineWords:   25,
		MinLines:          3,
		MaxLines:          20,
		MaxListWords:      2000,
		MinBodyLength:     30,
		ShortTitleLength:  80,
		MinTitleUppercase: 3,
		LongTitleLength:   100,
		MaxTitleCommas:    1,
	}
}

// Section is a title and the description lines it owns.
type Section struct {
	Title string   `json:"title"`
	Body  []string `json:"body"`
}

// Layout is the result of classifying a cleaned document.
type Layout struct {
	ListLike      bool      `json:"list_like"`
	Lines         []string  `json:"lines"`
	Sections      []Section `json:"sections,omitempty"`
	Preamble      []string  `json:"preamble,omitempty"`
	Bullets       []string  `json:"bullets,omitempty"`
	WordCount     int       `json:"word_count"`
	AvgLineLength float64   `json:"avg_line_length"`
}

// "Geneva, 2024" or "London, 4 February 2026"
var metadataLine = regexp.MustCompile(`^[A-Z][A-Za-z .'-]*,\s*(?:\d{1,2}\s+[A-Z][a-z]+\s+)?\d{4}$`)

// Classify splits cleaned text into period-delimited lines and detects list
// structure. Sections are only set when at least two titles were found and
// at least one of them owns a description; otherwise list-like documents
// get Bullets.
func Classify(cleaned string, cfg *Config) Layout {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	layout := Layout{
		Lines:     SplitLines(cleaned),
		WordCount: len(strings.Fields(cleaned)),
	}
	if n := len(layout.Lines); n > 0 {
		layout.AvgLineLength = float64(layout.WordCount) / float64(n)
	}
	layout.ListLike = cfg.isListLike(layout)
	if !layout.ListLike {
		return layout
	}

	var (
		sections []Section
		preamble []string
		titles   int
		bodies   int
	)
	for _, line := range layout.Lines {
		if cfg.IsTitle(line) {
			titles++
			sections = append(sections, Section{Title: line})
			continue
		}
		if utf8.RuneCountInString(line) <= cfg.MinBodyLength {
			continue
		}
		if len(sections) == 0 {
			preamble = append(preamble, line)
			continue
		}
		last := &sections[len(sections)-1]
		last.Body = append(last.Body, line)
		bodies++
	}

	if titles >= 2 && bodies > 0 {
		layout.Sections = sections
		layout.Preamble = preamble
		return layout
	}

	for _, line := range layout.Lines {
		if utf8.RuneCountInString(line) > cfg.MinBodyLength {
			layout.Bullets = append(layout.Bullets, line)
		}
	}
	return layout
}

// SplitLines splits text on periods, trimming and dropping empty lines.
func SplitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, ".") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (c *Config) isListLike(l Layout) bool {
	n := len(l.Lines)
	if l.AvgLineLength < c.MaxAvgLineWords && n >= c.MinLines && n <= c.MaxLines {
		return true
	}
	return l.WordCount < c.MaxListWords && n >= c.MinLines
}

// IsTitle reports whether a line looks like a heading: short with several
// capitals, or capitalized at both ends with at most one comma. Location and
// date metadata lines are never titles.
func (c *Config) IsTitle(line string) bool {
	if metadataLine.MatchString(line) {
		return false
	}

	length := utf8.RuneCountInString(line)
	if length < c.ShortTitleLength && countUpper(line) >= c.MinTitleUppercase {
		return true
	}

	first, _ := utf8.DecodeRuneInString(line)
	last, _ := utf8.DecodeLastRuneInString(line)
	return unicode.IsUpper(first) && unicode.IsUpper(last) &&
		length < c.LongTitleLength &&
		strings.Count(line, ",") <= c.MaxTitleCommas
}

func countUpper(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			n++
		}
	}
	return n
}

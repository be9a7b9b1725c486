package noise

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmylchreest/pagelens/internal/logger"
)

// Cleaner strips scraping noise from page text and normalizes it into
// sentences. It implements the cleaner.Cleaner interface.
type Cleaner struct {
	config      *Config
	extraPrefix *regexp.Regexp
}

// New creates a new Cleaner with the given configuration.
// If config is nil, DefaultConfig() is used.
func New(config *Config) *Cleaner {
	if config == nil {
		config = DefaultConfig()
	}
	c := &Cleaner{config: config}
	if len(config.ExtraPrefixes) > 0 {
		quoted := make([]string, 0, len(config.ExtraPrefixes))
		for _, p := range config.ExtraPrefixes {
			if p = strings.TrimSpace(p); p != "" {
				quoted = append(quoted, regexp.QuoteMeta(p))
			}
		}
		if len(quoted) > 0 {
			c.extraPrefix = regexp.MustCompile(`(?i)^(?:` + strings.Join(quoted, "|") + `)`)
		}
	}
	return c
}

// Name returns the cleaner name for logging.
func (c *Cleaner) Name() string {
	return "noise"
}

// Config returns the configuration in use.
func (c *Cleaner) Config() *Config {
	return c.config
}

// Clean returns the cleaned text. It never fails; input that yields no
// sentences produces an empty string.
func (c *Cleaner) Clean(text string) (string, error) {
	return c.CleanWithStats(text).Content, nil
}

// maxPasses bounds the number of times the pipeline reruns on its own
// output in CleanWithStats.
const maxPasses = 16

// CleanWithStats performs cleaning and returns the sentences and stats.
//
// Removing one block can expose another: a stamp cut out of a byline joins
// the byline back together, and a closed-up "Mr ." becomes "Mr.". The
// pipeline therefore reruns on its own output until the output no longer
// changes, so cleaning already cleaned text is a no-op.
func (c *Cleaner) CleanWithStats(text string) *Result {
	startTime := time.Now()
	result := &Result{
		Stats: NewStats(),
	}
	result.Stats.InputBytes = len(text)

	in := text
	for {
		result.Stats.Passes++
		result.Sentences, result.Content = c.pass(in, result.Stats)
		if result.Content == in {
			break
		}
		if result.Stats.Passes == maxPasses {
			result.AddWarning("fixpoint", "output still changing after the last pass", "")
			break
		}
		in = result.Content
	}

	result.Stats.SentencesKept = len(result.Sentences)
	result.Stats.OutputBytes = len(result.Content)
	result.Stats.TotalDuration = time.Since(startTime)

	if len(result.Sentences) == 0 && strings.TrimSpace(text) != "" {
		result.AddWarning("filter", "no sentences survived filtering", "")
	}

	if c.config.Debug {
		logger.Debug("text cleaned",
			"input_bytes", result.Stats.InputBytes,
			"output_bytes", result.Stats.OutputBytes,
			"split", result.Stats.SentencesSplit,
			"kept", result.Stats.SentencesKept,
			"passes", result.Stats.Passes,
			"dropped", result.Stats.Dropped,
			"patterns", result.Stats.PatternMatches)
	}

	return result
}

// pass runs strip, segment and filter once and returns the kept sentences
// and their joined content. Sentence splits are counted on the first pass
// only; drops, duplicates and pattern hits accumulate.
func (c *Cleaner) pass(text string, stats *Stats) ([]string, string) {
	stripStart := time.Now()
	text = c.strip(text, stats)
	stats.StripDuration += time.Since(stripStart)

	segmentStart := time.Now()
	candidates := c.segment(text)
	stats.SegmentDuration += time.Since(segmentStart)
	if stats.Passes == 1 {
		stats.SentencesSplit = len(candidates)
	}

	filterStart := time.Now()
	sentences := c.filter(candidates, stats)
	stats.FilterDuration += time.Since(filterStart)

	return sentences, tidy(strings.Join(sentences, " "))
}

// strip runs the text-level passes: normalization, token removal,
// boilerplate removal and abbreviation normalization, in that order.
func (c *Cleaner) strip(text string, stats *Stats) string {
	if c.config.NormalizeUnicode {
		text = normalizeUnicode(text)
	}
	text = tidy(text)

	if c.config.StripURLs {
		text = remove(text, urlPattern, stats)
	}
	if c.config.StripEmails {
		text = remove(text, emailPattern, stats)
	}

	if c.config.StripCaptions {
		for _, p := range captionPatterns {
			text = remove(text, p, stats)
		}
	}
	if c.config.StripBylines {
		text = remove(text, bylinePattern, stats)
	}
	if c.config.StripTimestamps {
		for _, p := range timestampPatterns {
			text = remove(text, p, stats)
		}
	}

	if c.config.NormalizeAbbreviations {
		for _, a := range abbreviations {
			text = a.re.ReplaceAllString(text, a.with)
		}
	}

	return text
}

// segment splits text into terminated sentence candidates.
func (c *Cleaner) segment(text string) []string {
	var out []string
	for _, sentence := range SplitSentences(text) {
		parts := []string{sentence}
		if c.config.SplitRunTogether {
			parts = splitRunTogether(sentence)
		}
		for _, part := range parts {
			if part = terminate(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// filter normalizes each candidate, drops noise and removes duplicates.
func (c *Cleaner) filter(candidates []string, stats *Stats) []string {
	kept := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))

	for _, sentence := range candidates {
		sentence = tidy(sentence)

		if reason := c.dropReason(sentence); reason != "" {
			stats.RecordDrop(reason)
			if c.config.Debug {
				logger.Debug("sentence dropped", "reason", reason, "sentence", sentence)
			}
			continue
		}

		if c.config.Deduplicate {
			key := strings.ToLower(sentence)
			if seen[key] {
				stats.DuplicatesRemoved++
				continue
			}
			seen[key] = true
		}

		kept = append(kept, sentence)
	}

	return kept
}

// dropReason returns why a sentence should be dropped, or "" to keep it.
func (c *Cleaner) dropReason(sentence string) string {
	if utf8.RuneCountInString(sentence) < c.config.MinSentenceLength || sentence == "" {
		return DropTooShort
	}
	if c.config.DropUIPrefixes {
		if uiPrefix.MatchString(sentence) {
			return DropUIPrefix
		}
	}
	if c.extraPrefix != nil && c.extraPrefix.MatchString(sentence) {
		return DropUIPrefix
	}
	if c.config.DropTimestampSentences && timestampSentence.MatchString(sentence) {
		return DropTimestamp
	}
	if c.config.DropCaptionSentences && captionMention.MatchString(sentence) {
		return DropCaption
	}
	if c.config.DropLinkClusters && strings.Count(sentence, "Published") > 1 {
		return DropLinkCluster
	}
	return ""
}

// remove deletes every match of p and records the hit count.
func remove(text string, p pattern, stats *Stats) string {
	matches := p.re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	stats.RecordMatch(p.name, len(matches))
	return p.re.ReplaceAllString(text, "")
}

// Package noise provides a configurable cleaner for scraped webpage text.
// It strips the structural noise that scraping leaves behind (bylines,
// captions, timestamps, navigation labels) and returns normalized,
// deduplicated sentences ready for ranking.
package noise

// DefaultMinSentenceLength is the shortest sentence (in characters) that
// survives filtering.
const DefaultMinSentenceLength = 30

// Config defines all configuration options for the noise cleaner.
// Passes run in a fixed order; each flag only enables or disables its pass.
type Config struct {
	// === Normalization ===

	// NormalizeUnicode applies NFKC normalization and maps non-breaking and
	// zero-width spaces before any pattern runs.
	NormalizeUnicode bool `json:"normalize_unicode" yaml:"normalize_unicode"`

	// === Token removal ===

	// StripURLs removes http... and www... tokens.
	StripURLs bool `json:"strip_urls" yaml:"strip_urls"`

	// StripEmails removes email-like tokens.
	StripEmails bool `json:"strip_emails" yaml:"strip_emails"`

	// === Boilerplate removal ===

	// StripCaptions removes image source, image caption and media caption blocks.
	StripCaptions bool `json:"strip_captions" yaml:"strip_captions"`

	// StripBylines removes "By <Name> <role>" blocks.
	StripBylines bool `json:"strip_bylines" yaml:"strip_bylines"`

	// StripTimestamps removes relative ("Published 3 hours ago") and absolute
	// publication stamps.
	StripTimestamps bool `json:"strip_timestamps" yaml:"strip_timestamps"`

	// === Segmentation ===

	// NormalizeAbbreviations drops the period from Mr., Mrs., Ms., Dr., U.S.
	// and U.K. so they are not read as sentence boundaries.
	NormalizeAbbreviations bool `json:"normalize_abbreviations" yaml:"normalize_abbreviations"`

	// SplitRunTogether splits "end.Start" sequences that lack a space.
	SplitRunTogether bool `json:"split_run_together" yaml:"split_run_together"`

	// === Sentence filters ===

	// DropUIPrefixes drops sentences starting with navigation or UI labels.
	DropUIPrefixes bool `json:"drop_ui_prefixes" yaml:"drop_ui_prefixes"`

	// DropTimestampSentences drops sentences that start with "N hours ago".
	DropTimestampSentences bool `json:"drop_timestamp_sentences" yaml:"drop_timestamp_sentences"`

	// DropCaptionSentences drops sentences mentioning a media or image caption.
	DropCaptionSentences bool `json:"drop_caption_sentences" yaml:"drop_caption_sentences"`

	// DropLinkClusters drops sentences containing "Published" more than once,
	// which are almost always runs of link titles.
	DropLinkClusters bool `json:"drop_link_clusters" yaml:"drop_link_clusters"`

	// Deduplicate removes case-insensitive duplicate sentences, keeping the first.
	Deduplicate bool `json:"deduplicate" yaml:"deduplicate"`

	// MinSentenceLength is the minimum sentence length in characters.
	// Zero disables the length floor.
	MinSentenceLength int `json:"min_sentence_length" yaml:"min_sentence_length"`

	// ExtraPrefixes are additional case-insensitive sentence prefixes to drop.
	ExtraPrefixes []string `json:"extra_prefixes" yaml:"extra_prefixes"`

	// Debug enables verbose logging of what was dropped and why.
	Debug bool `json:"debug" yaml:"debug"`
}

// DefaultConfig returns the full cleaning cascade used for summarization.
func DefaultConfig() *Config {
	return &Config{
		NormalizeUnicode: true,

		StripURLs:   true,
		StripEmails: true,

		StripCaptions:   true,
		StripBylines:    true,
		StripTimestamps: true,

		NormalizeAbbreviations: true,
		SplitRunTogether:       true,

		DropUIPrefixes:         true,
		DropTimestampSentences: true,
		DropCaptionSentences:   true,
		DropLinkClusters:       true,
		Deduplicate:            true,
		MinSentenceLength:      DefaultMinSentenceLength,
	}
}

// PresetMinimal only removes URLs and emails, segments, applies the length
// floor and deduplicates. Use it for text that is already article-shaped.
func PresetMinimal() *Config {
	return &Config{
		StripURLs:         true,
		StripEmails:       true,
		SplitRunTogether:  true,
		Deduplicate:       true,
		MinSentenceLength: DefaultMinSentenceLength,
	}
}

// PresetStrict extends the default cascade with extra navigation and
// promotional prefixes common on news and blog pages.
func PresetStrict() *Config {
	cfg := DefaultConfig()
	cfg.ExtraPrefixes = append(cfg.ExtraPrefixes,
		"Share",
		"Sign up",
		"Sign in",
		"Subscribe",
		"Read more",
		"Advertisement",
		"Follow us",
		"Copyright",
		"Cookie",
		"Skip to",
	)
	return cfg
}

// Preset returns the named preset: "default" (or empty), "minimal" or
// "strict". The second return value is false for unknown names.
func Preset(name string) (*Config, bool) {
	switch name {
	case "", "default":
		return DefaultConfig(), true
	case "minimal":
		return PresetMinimal(), true
	case "strict":
		return PresetStrict(), true
	default:
		return nil, false
	}
}

// Merge merges another config into this one.
// Enabled passes in other are enabled in the result, a positive
// MinSentenceLength overrides, and prefixes are appended without duplicates.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	merged := *c
	merged.ExtraPrefixes = append([]string(nil), c.ExtraPrefixes...)

	merged.NormalizeUnicode = merged.NormalizeUnicode || other.NormalizeUnicode
	merged.StripURLs = merged.StripURLs || other.StripURLs
	merged.StripEmails = merged.StripEmails || other.StripEmails
	merged.StripCaptions = merged.StripCaptions || other.StripCaptions
	merged.StripBylines = merged.StripBylines || other.StripBylines
	merged.StripTimestamps = merged.StripTimestamps || other.StripTimestamps
	merged.NormalizeAbbreviations = merged.NormalizeAbbreviations || other.NormalizeAbbreviations
	merged.SplitRunTogether = merged.SplitRunTogether || other.SplitRunTogether
	merged.DropUIPrefixes = merged.DropUIPrefixes || other.DropUIPrefixes
	merged.DropTimestampSentences = merged.DropTimestampSentences || other.DropTimestampSentences
	merged.DropCaptionSentences = merged.DropCaptionSentences || other.DropCaptionSentences
	merged.DropLinkClusters = merged.DropLinkClusters || other.DropLinkClusters
	merged.Deduplicate = merged.Deduplicate || other.Deduplicate
	merged.Debug = merged.Debug || other.Debug

	if other.MinSentenceLength > 0 {
		merged.MinSentenceLength = other.MinSentenceLength
	}

	if len(other.ExtraPrefixes) > 0 {
		seen := make(map[string]bool, len(merged.ExtraPrefixes))
		for _, p := range merged.ExtraPrefixes {
			seen[p] = true
		}
		for _, p := range other.ExtraPrefixes {
			if !seen[p] {
				merged.ExtraPrefixes = append(merged.ExtraPrefixes, p)
				seen[p] = true
			}
		}
	}

	return &merged
}

package pagelens

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"github.com/jmylchreest/pagelens/internal/logger"
	"github.com/jmylchreest/pagelens/pkg/cleaner/noise"
	"github.com/jmylchreest/pagelens/pkg/entity"
	"github.com/jmylchreest/pagelens/pkg/ranker"
	"github.com/jmylchreest/pagelens/pkg/structure"
)

// ErrNoText is returned when the input is empty. The message is shown to
// API clients as is.
var ErrNoText = errors.New("No text provided") //nolint:staticcheck // client-facing message

// ErrInvalidMode is returned for an unknown summary mode.
var ErrInvalidMode = errors.New("invalid summary mode")

// Fixed responses for content that cannot be summarized. They are results,
// not errors.
const (
	NotEnoughToSummarize = "Not enough content to summarize."
	NotEnoughToAnalyze   = "Not enough content to analyze."
	NoMeaningfulSummary  = "Unable to generate a meaningful summary from this content."
)

// maxHeadlineLength is the headline length above which it is re-split and
// cut back to two sentences.
const maxHeadlineLength = 500

// Mode selects the summary format.
type Mode string

const (
	// ModeDetailed is a two-sentence summary followed by main facts.
	ModeDetailed Mode = "detailed"
	// ModeBrief is a single block of the most representative sentences.
	ModeBrief Mode = "brief"
)

// ParseMode returns the mode named s. An empty string is ModeDetailed.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDetailed:
		return ModeDetailed, nil
	case ModeBrief:
		return ModeBrief, nil
	}
	return "", fmt.Errorf("%w: %q (use detailed or brief)", ErrInvalidMode, s)
}

// Analyzer summarizes text, answers questions from it and extracts
// entities. It is safe for concurrent use.
type Analyzer struct {
	config    Config
	cleaner   *noise.Cleaner
	headline  ranker.Ranker
	facts     ranker.Ranker
	brief     ranker.Ranker
	answer    ranker.Ranker
	extractor *entity.Extractor
}

// New creates an Analyzer.
func New(opts ...Option) (*Analyzer, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Analyzer{
		config:  cfg,
		cleaner: noise.New(cfg.Cleaner),
	}

	rankers := []struct {
		name string
		dst  *ranker.Ranker
	}{
		{cfg.Rankers.Headline, &a.headline},
		{cfg.Rankers.Facts, &a.facts},
		{cfg.Rankers.Brief, &a.brief},
		{cfg.Rankers.Answer, &a.answer},
	}
	for _, r := range rankers {
		rk, err := ranker.New(r.name, cfg.RankerOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to create ranker: %w", err)
		}
		*r.dst = rk
	}

	var entityOpts []entity.Option
	if cfg.Tagger != nil {
		entityOpts = append(entityOpts, entity.WithTagger(cfg.Tagger))
	}
	a.extractor = entity.NewExtractor(cfg.Entities, entityOpts...)

	logger.Debug("analyzer created",
		"headline", a.headline.Name(),
		"facts", a.facts.Name(),
		"brief", a.brief.Name(),
		"answer", a.answer.Name(),
		"detect_lists", cfg.DetectLists)

	return a, nil
}

// Config returns the analyzer configuration.
func (a *Analyzer) Config() Config {
	return a.config
}

// Clean runs the text cleaner and returns its full result.
func (a *Analyzer) Clean(text string) *noise.Result {
	return a.cleaner.CleanWithStats(text)
}

// Summarize returns a summary of text. Content too short to summarize, or
// that yields no sentences, produces one of the fixed responses rather than
// an error.
func (a *Analyzer) Summarize(ctx context.Context, text string, mode Mode) (summary string, err error) {
	defer recoverPanic(ctx, "summarize", &err)

	if text == "" {
		return "", ErrNoText
	}
	if mode == "" {
		mode = ModeDetailed
	}
	if mode != ModeDetailed && mode != ModeBrief {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	cleaned := a.cleaner.CleanWithStats(text)
	length := cleaned.Length()
	if length < MinContentLength {
		return NotEnoughToSummarize, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if a.config.DetectLists {
		layout := structure.Classify(cleaned.Content, a.config.Structure)
		if layout.ListLike {
			if rendered := structure.Render(layout); rendered != "" {
				logger.DebugContext(ctx, "summarized as list",
					"lines", len(layout.Lines),
					"sections", len(layout.Sections),
					"bullets", len(layout.Bullets))
				return rendered, nil
			}
		}
	}

	if mode == ModeBrief {
		return a.summarizeBrief(cleaned.Sentences, length)
	}
	return a.summarizeDetailed(ctx, cleaned.Sentences, length)
}

func (a *Analyzer) summarizeDetailed(ctx context.Context, sentences []string, length int) (string, error) {
	top, err := a.headline.Rank(sentences, ranker.HeadlineCount())
	if err != nil {
		return "", fmt.Errorf("headline ranking failed: %w", err)
	}
	headline := strings.Join(ranker.Texts(top), " ")
	if utf8.RuneCountInString(headline) > maxHeadlineLength {
		parts := splitAfterTerminal(headline)
		if len(parts) > ranker.HeadlineCount() {
			parts = parts[:ranker.HeadlineCount()]
		}
		headline = strings.Join(parts, " ")
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	facts, err := a.facts.Rank(sentences, ranker.FactsCount(length))
	if err != nil {
		return "", fmt.Errorf("facts ranking failed: %w", err)
	}

	if headline == "" {
		return NoMeaningfulSummary, nil
	}

	var sb strings.Builder
	sb.WriteString("**Summary:**\n\n")
	sb.WriteString(headline)
	sb.WriteString("\n\n")
	if len(facts) > 0 {
		sb.WriteString("**Main Facts:**\n\n• ")
		sb.WriteString(strings.Join(ranker.Texts(facts), "\n\n• "))
	}
	return sb.String(), nil
}

func (a *Analyzer) summarizeBrief(sentences []string, length int) (string, error) {
	top, err := a.brief.Rank(sentences, ranker.BriefCount(length))
	if err != nil {
		return "", fmt.Errorf("brief ranking failed: %w", err)
	}
	if len(top) == 0 {
		return NoMeaningfulSummary, nil
	}
	return strings.Join(ranker.Texts(top), " "), nil
}

// Answer returns the sentences of text most relevant as context for
// answering question. The question is not yet used for selection.
func (a *Analyzer) Answer(ctx context.Context, text, question string) (answer string, err error) {
	defer recoverPanic(ctx, "answer", &err)

	if text == "" {
		return "", ErrNoText
	}

	cleaned := a.cleaner.CleanWithStats(text)
	length := cleaned.Length()
	if length < MinContentLength {
		return NotEnoughToAnalyze, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	logger.DebugContext(ctx, "answering", "question", question, "sentences", len(cleaned.Sentences))

	top, err := a.answer.Rank(cleaned.Sentences, ranker.AnswerCount(length))
	if err != nil {
		return "", fmt.Errorf("answer ranking failed: %w", err)
	}
	if len(top) == 0 {
		return NoMeaningfulSummary, nil
	}
	return strings.Join(ranker.Texts(top), " "), nil
}

// Categorize extracts categorized named entities from the raw text.
func (a *Analyzer) Categorize(ctx context.Context, text string) (result *entity.Result, err error) {
	defer recoverPanic(ctx, "categorize", &err)

	if text == "" {
		return nil, ErrNoText
	}
	return a.extractor.Extract(ctx, text)
}

// terminalSpace matches sentence-ending punctuation and the whitespace after it.
var terminalSpace = regexp.MustCompile(`[.!?]\s+`)

// splitAfterTerminal splits text after each '.', '!' or '?' that is followed
// by whitespace. The punctuation stays with the preceding part.
func splitAfterTerminal(text string) []string {
	var parts []string
	start := 0
	for _, m := range terminalSpace.FindAllStringIndex(text, -1) {
		parts = append(parts, text[start:m[0]+1])
		start = m[1]
	}
	if start < len(text) {
		parts = append(parts, text[start:])
	}
	return parts
}

// recoverPanic turns a panic in the pipeline into an error. The stack is
// logged, never returned.
func recoverPanic(ctx context.Context, op string, err *error) {
	if r := recover(); r != nil {
		logger.ErrorContext(ctx, "analysis panicked",
			"operation", op,
			"panic", r,
			"stack", string(debug.Stack()))
		*err = fmt.Errorf("%s failed: %v", op, r)
	}
}

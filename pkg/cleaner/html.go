package cleaner

import (
	"bytes"
	"errors"
	"net/url"
	"strings"

	readability "codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"github.com/jmylchreest/pagelens/internal/logger"
)

// Extraction strategies for HTMLCleaner.
const (
	StrategyAuto        = "auto"
	StrategyTrafilatura = "trafilatura"
	StrategyReadability = "readability"
	StrategyText        = "text"
)

// ErrNoContent is returned when no strategy extracts any text.
var ErrNoContent = errors.New("no readable content found in HTML")

// HTMLConfig configures the HTML cleaner.
type HTMLConfig struct {
	// Strategy selects the extractor. "auto" (default) tries trafilatura,
	// then readability, then plain block text.
	Strategy string
	// IncludeTables keeps table text in trafilatura output.
	IncludeTables bool
	// BaseURL is used by readability for resolving relative URLs.
	BaseURL string
	// TerminateLines ends each line without terminal punctuation with a
	// period, so headings stay separate sentences once lines are joined.
	TerminateLines bool
}

// HTMLCleaner extracts the main readable text from a web page. It removes
// navigation, ads, headers and footers and returns plain text with one
// block per line, so list-like pages keep their line structure.
type HTMLCleaner struct {
	cfg    HTMLConfig
	opts   trafilatura.Options
	parser readability.Parser
}

// NewHTML creates a new HTML cleaner.
// Pass nil for default configuration.
func NewHTML(cfg *HTMLConfig) *HTMLCleaner {
	if cfg == nil {
		cfg = &HTMLConfig{}
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyAuto
	}

	return &HTMLCleaner{
		cfg: *cfg,
		opts: trafilatura.Options{
			ExcludeComments: true,
			ExcludeTables:   !cfg.IncludeTables,
			EnableFallback:  true,
		},
		parser: readability.NewParser(),
	}
}

// Clean extracts readable text from HTML.
func (c *HTMLCleaner) Clean(htmlContent string) (string, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return "", ErrNoContent
	}

	var extractors []func(string) (string, error)
	switch c.cfg.Strategy {
	case StrategyTrafilatura:
		extractors = append(extractors, c.trafilatura)
	case StrategyReadability:
		extractors = append(extractors, c.readability)
	case StrategyText:
		extractors = append(extractors, blockText)
	default:
		extractors = append(extractors, c.trafilatura, c.readability, blockText)
	}

	var lastErr error
	for _, extract := range extractors {
		text, err := extract(htmlContent)
		if err != nil {
			logger.Debug("html extraction failed", "strategy", c.cfg.Strategy, "error", err)
			lastErr = err
			continue
		}
		if text = normalizeLines(text); text != "" {
			if c.cfg.TerminateLines {
				text = terminateLines(text)
			}
			return text, nil
		}
	}

	if lastErr != nil {
		return "", errors.Join(ErrNoContent, lastErr)
	}
	return "", ErrNoContent
}

// Name returns the cleaner type.
func (c *HTMLCleaner) Name() string {
	return "html(" + c.cfg.Strategy + ")"
}

func (c *HTMLCleaner) trafilatura(htmlContent string) (string, error) {
	result, err := trafilatura.Extract(strings.NewReader(htmlContent), c.opts)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", nil
	}
	// ContentText flattens list items into one paragraph.
	if result.ContentNode != nil {
		if text := nodeLines(result.ContentNode); strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	return result.ContentText, nil
}

var blockElements = map[string]bool{
	"p": true, "li": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "blockquote": true, "pre": true, "td": true,
	"th": true, "dt": true, "dd": true, "div": true, "section": true,
	"article": true, "br": true, "tr": true, "ul": true, "ol": true,
	"table": true, "figcaption": true,
}

// nodeLines renders the text under root with a line break around every
// block-level element.
func nodeLines(root *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			sb.WriteByte('\n')
		}
	}
	walk(root)
	return sb.String()
}

func (c *HTMLCleaner) readability(htmlContent string) (string, error) {
	var baseURL *url.URL
	if c.cfg.BaseURL != "" {
		if u, err := url.Parse(c.cfg.BaseURL); err == nil {
			baseURL = u
		}
	}

	article, err := c.parser.Parse(strings.NewReader(htmlContent), baseURL)
	if err != nil {
		return "", err
	}
	if article.Node == nil {
		return "", nil
	}

	var buf bytes.Buffer
	if err := article.RenderText(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// blockText collects the text of block-level elements, one per line.
func blockText(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript, iframe, svg, nav, header, footer, aside, form").Remove()

	var lines []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, blockquote, pre, td, dt, dd").Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are visited on their own.
		if s.Find("p, li").Length() > 0 {
			return
		}
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			lines = append(lines, text)
		}
	})

	if len(lines) == 0 {
		return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
	}
	return strings.Join(lines, "\n"), nil
}

// normalizeLines collapses whitespace inside each line and drops blank lines.
func normalizeLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// terminateLines appends a period to lines not ending in '.', '!', '?' or
// a closing quote after one of those.
func terminateLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimRight(line, "\"')”’")
		if trimmed == "" || strings.ContainsAny(trimmed[len(trimmed)-1:], ".!?:") {
			continue
		}
		lines[i] = line + "."
	}
	return strings.Join(lines, "\n")
}

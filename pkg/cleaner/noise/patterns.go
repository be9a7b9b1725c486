package noise

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pattern is a named removal regex. The name keys Stats.PatternMatches.
type pattern struct {
	name string
	re   *regexp.Regexp
}

var (
	urlPattern   = pattern{"url", regexp.MustCompile(`http\S+|www\S+`)}
	emailPattern = pattern{"email", regexp.MustCompile(`\S+@\S+`)}

	// Caption blocks run to the end of the sentence; the image source variant
	// stops at the photo agency.
	captionPatterns = []pattern{
		{"image_source", regexp.MustCompile(`(?i)Image source,?\s*[^.!?]*?(?:Getty Images?|Reuters|AP|AFP|EPA)`)},
		{"image_caption", regexp.MustCompile(`(?i)Image caption,?\s*[^.!?]*`)},
		{"media_caption", regexp.MustCompile(`(?i)Media caption,?\s*[^.!?]*`)},
	}

	bylinePattern = pattern{"byline", regexp.MustCompile(`By\s*[A-Z][a-zA-Z\s,]+(?:Published|Report|Technology|correspondent|reporter)`)}

	timestampPatterns = []pattern{
		{"relative_stamp", regexp.MustCompile(`(?i)Published\s*\d+\s*(?:hours?|minutes?|days?|weeks?|months?)\s*ago`)},
		// Published4 February 2026, 06:03
		{"compact_stamp", regexp.MustCompile(`Published\d+\s*[A-Z][a-z]+\s*\d{4},\s*\d{2}:\d{2}`)},
		// 4 February 2026, 06:03 GMT
		{"spaced_stamp", regexp.MustCompile(`\d{1,2}\s+[A-Z][a-z]+\s+\d{4},\s+\d{2}:\d{2}\s+[A-Z]{3,4}`)},
	}

	abbreviations = []struct {
		re   *regexp.Regexp
		with string
	}{
		{regexp.MustCompile(`\bMr\.`), "Mr"},
		{regexp.MustCompile(`\bMrs\.`), "Mrs"},
		{regexp.MustCompile(`\bMs\.`), "Ms"},
		{regexp.MustCompile(`\bDr\.`), "Dr"},
		{regexp.MustCompile(`\bU\.S\.`), "US"},
		{regexp.MustCompile(`\bU\.K\.`), "UK"},
	}

	// The "By<Capital>" byline marker is matched case-sensitively so that
	// sentences opening with words like "Bypass" survive.
	uiPrefix = regexp.MustCompile(`^(?:(?i:Posted|Attribution|Comments?|Live\.|Watch:|Listen:|Gallery:|Video:|Related topics?|More on this story|Media caption|Image caption|Image source)|By[A-Z])`)

	timestampSentence = regexp.MustCompile(`(?i)^\d+\s*(?:hour|minute|day|week|month)s?\s*ago`)
	captionMention    = regexp.MustCompile(`(?i)Media caption|Image caption`)

	repeatedPeriods  = regexp.MustCompile(`\.\.+`)
	spaceBeforePunct = regexp.MustCompile(`\s+([.!?,;:])`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// invisibleSpaces maps characters that render as (or hide) whitespace.
var invisibleSpaces = strings.NewReplacer(
	"\u00a0", " ",
	"\u2007", " ",
	"\u202f", " ",
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
)

// normalizeUnicode applies NFKC and drops control characters other than
// ordinary whitespace.
func normalizeUnicode(s string) string {
	s = invisibleSpaces.Replace(s)
	t := transform.Chain(norm.NFKC, runes.Remove(runes.Predicate(func(r rune) bool {
		return unicode.IsControl(r) && !unicode.IsSpace(r)
	})))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// tidy removes whitespace before punctuation, collapses repeated periods and
// collapses whitespace runs. Applying it twice is a no-op.
func tidy(s string) string {
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	s = repeatedPeriods.ReplaceAllString(s, ".")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

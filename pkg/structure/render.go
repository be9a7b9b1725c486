package structure

import "strings"

const (
	// SectionSeparator is placed between rendered sections.
	SectionSeparator = "\n\n---\n\n"
	// Bullet prefixes each rendered bullet line.
	Bullet = "• "
)

// Render formats a list-like layout as titled sections, or as bullets when
// no sections were detected. It returns "" for prose layouts and for
// layouts with nothing to show.
func Render(l Layout) string {
	if !l.ListLike {
		return ""
	}

	if len(l.Sections) > 0 {
		blocks := make([]string, 0, len(l.Sections)+1)
		if len(l.Preamble) > 0 {
			blocks = append(blocks, joinSentences(l.Preamble))
		}
		for _, s := range l.Sections {
			block := "**" + s.Title + "**"
			if len(s.Body) > 0 {
				block += "\n\n" + joinSentences(s.Body)
			}
			blocks = append(blocks, block)
		}
		return strings.Join(blocks, SectionSeparator)
	}

	if len(l.Bullets) == 0 {
		return ""
	}
	bullets := make([]string, len(l.Bullets))
	for i, line := range l.Bullets {
		bullets[i] = Bullet + line + "."
	}
	return strings.Join(bullets, "\n\n")
}

func joinSentences(lines []string) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line + "."
	}
	return strings.Join(out, " ")
}

package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/pagelens/internal/logger"
	"github.com/jmylchreest/pagelens/internal/output"
	"github.com/jmylchreest/pagelens/pkg/cleaner"
	"github.com/jmylchreest/pagelens/pkg/cleaner/noise"
)

// cleanResult is the output of the clean command.
type cleanResult struct {
	Source    string          `json:"source,omitempty" yaml:"source,omitempty"`
	Content   string          `json:"content" yaml:"content"`
	Sentences []string        `json:"sentences,omitempty" yaml:"sentences,omitempty"`
	Stats     *noise.Stats    `json:"stats,omitempty" yaml:"stats,omitempty"`
	Warnings  []noise.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Text prints one sentence per line when sentences were requested, and the
// stats after the content.
func (r cleanResult) Text() string {
	var sb strings.Builder
	if len(r.Sentences) > 0 {
		sb.WriteString(strings.Join(r.Sentences, "\n"))
	} else {
		sb.WriteString(r.Content)
	}
	if r.Stats != nil {
		s := r.Stats
		fmt.Fprintf(&sb, "\n\n--- %s -> %s (%.1f%% reduction), %d of %d sentences kept\n",
			humanize.Bytes(uint64(s.InputBytes)),
			humanize.Bytes(uint64(s.OutputBytes)),
			s.ReductionPercent(), s.SentencesKept, s.SentencesSplit)
		sb.WriteString(strings.TrimRight(s.String(), "\n"))
	}
	for _, w := range r.Warnings {
		sb.WriteString("\nwarning: ")
		sb.WriteString(w.String())
	}
	return sb.String()
}

var cleanCmd = &cobra.Command{
	Use:   "clean [text...]",
	Short: "Show what the text cleaner keeps",
	Long: `Run only the text cleaner and print the surviving text. Use this to
see why a page summarizes poorly.

Examples:
  pagelens clean -f page.txt --stats
  pagelens clean --url "https://example.com/story" --sentences
  pagelens clean -f page.txt --preset strict --format json`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	addInputFlags(cleanCmd)
	addOutputFlags(cleanCmd)
	cleanCmd.Flags().String("preset", "", "text cleaner preset: default, minimal, strict (default from config)")
	cleanCmd.Flags().Bool("stats", false, "print cleaning statistics")
	cleanCmd.Flags().Bool("sentences", false, "print one sentence per line")
}

func runClean(cmd *cobra.Command, args []string) error {
	initLogger()

	in, err := inputOptionsFrom(cmd)
	if err != nil {
		return err
	}
	analyzer, err := newAnalyzer(cmd)
	if err != nil {
		return err
	}
	raw, pre, err := in.load(cmd.Context(), args)
	if err != nil {
		return err
	}

	withStats, _ := cmd.Flags().GetBool("stats")
	withSentences, _ := cmd.Flags().GetBool("sentences")
	formatName, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}
	textOut := format == output.FormatText

	// Plain text output needs no stats, so the whole pipeline runs as one chain.
	if !withStats && !withSentences && textOut {
		chain := cleaner.NewChain(pre, noise.New(analyzer.Config().Cleaner))
		content, err := chain.Clean(raw)
		if err != nil {
			return err
		}
		logger.Debug("cleaned", "cleaner", chain.Name())
		return writeResult(cmd, cleanResult{Source: in.source(), Content: content})
	}

	text, err := pre.Clean(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", pre.Name(), err)
	}
	res := analyzer.Clean(text)

	result := cleanResult{Source: in.source(), Content: res.Content, Warnings: res.Warnings}
	if withSentences || !textOut {
		result.Sentences = res.Sentences
	}
	if withStats {
		result.Stats = res.Stats
	}
	return writeResult(cmd, result)
}

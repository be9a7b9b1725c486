package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/pagelens/internal/config"
	"github.com/jmylchreest/pagelens/internal/logger"
	"github.com/jmylchreest/pagelens/internal/output"
	"github.com/jmylchreest/pagelens/pkg/cleaner/noise"
	"github.com/jmylchreest/pagelens/pkg/entity"
	"github.com/jmylchreest/pagelens/pkg/pagelens"
)

// summaryResult is the output of the summarize command.
type summaryResult struct {
	Source  string `json:"source,omitempty" yaml:"source,omitempty"`
	Mode    string `json:"mode" yaml:"mode"`
	Summary string `json:"summary" yaml:"summary"`
}

func (r summaryResult) Text() string { return r.Summary }

// answerResult is the output of the answer command.
type answerResult struct {
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Question string `json:"question,omitempty" yaml:"question,omitempty"`
	Answer   string `json:"answer" yaml:"answer"`
}

func (r answerResult) Text() string { return r.Answer }

// categorizeResult mirrors the /categorize response.
type categorizeResult struct {
	Source     string          `json:"source,omitempty" yaml:"source,omitempty"`
	Success    bool            `json:"success" yaml:"success"`
	Entities   []entity.Entity `json:"entities" yaml:"entities"`
	Count      int             `json:"count" yaml:"count"`
	TextLength int             `json:"text_length" yaml:"text_length"`
	Sentences  int             `json:"sentences" yaml:"sentences"`
}

// Text renders one entity per line followed by a totals line.
func (r categorizeResult) Text() string {
	var sb strings.Builder
	for _, e := range r.Entities {
		fmt.Fprintf(&sb, "%-18s %-32s %s\n", e.Category, e.Text, e.Type)
	}
	fmt.Fprintf(&sb, "%d entities, %d sentences, %d characters", r.Count, r.Sentences, r.TextLength)
	return sb.String()
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [text...]",
	Short: "Summarize webpage text",
	Long: `Summarize text from arguments, a file, a URL or standard input.

Detailed mode prints a two-sentence summary followed by the main facts.
Brief mode prints a single short paragraph. Pages that read like lists
(menus, indexes, listings) are shown as sections or bullets instead.

Examples:
  pagelens summarize -f article.txt
  pagelens summarize --mode brief --url "https://example.com/story"
  curl -s https://example.com | pagelens summarize --html --format json`,
	RunE: runSummarize,
}

var answerCmd = &cobra.Command{
	Use:   "answer [text...]",
	Short: "Select the sentences that best answer a question",
	Long: `Return the most representative sentences of the text as context for
a question.

Examples:
  pagelens answer -q "When does the harbour reopen?" -f article.txt`,
	RunE: runAnswer,
}

var categorizeCmd = &cobra.Command{
	Use:   "categorize [text...]",
	Short: "Extract categorized named entities",
	Long: `List the people, organizations, places, properties, vehicles and
events mentioned in the text.

Examples:
  pagelens categorize -f article.txt
  pagelens categorize --url "https://example.com/story" --format yaml`,
	RunE: runCategorize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd, answerCmd, categorizeCmd)

	for _, cmd := range []*cobra.Command{summarizeCmd, answerCmd, categorizeCmd} {
		addInputFlags(cmd)
		addOutputFlags(cmd)
		cmd.Flags().String("preset", "", "text cleaner preset: default, minimal, strict (default from config)")
	}

	summarizeCmd.Flags().StringP("mode", "m", string(pagelens.ModeDetailed), "summary mode: detailed, brief")
	summarizeCmd.Flags().Bool("no-lists", false, "always rank sentences, even for list-like pages")
	answerCmd.Flags().StringP("question", "q", "", "question to answer")
}

func addOutputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("format", string(output.FormatText), "output format: text, json, jsonl, yaml")
	flags.StringP("output", "o", "", "output file (default: stdout)")
}

// newAnalyzer builds an analyzer from the configuration plus per-command
// flag overrides.
func newAnalyzer(cmd *cobra.Command, extra ...pagelens.Option) (*pagelens.Analyzer, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	opts := cfg.AnalyzerOptions()

	if name, _ := cmd.Flags().GetString("preset"); name != "" {
		preset, ok := noise.Preset(name)
		if !ok {
			return nil, fmt.Errorf("unknown --preset %q (use default, minimal or strict)", name)
		}
		opts = append(opts, pagelens.WithCleaner(preset))
	}
	return pagelens.New(append(opts, extra...)...)
}

// writeResult writes result in the --format chosen, to --output or stdout.
func writeResult(cmd *cobra.Command, result any) (err error) {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	dst := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		dst = f
		logger.Debug("writing output", "path", path, "format", format)
	}

	w, err := output.NewWriter(dst, format, output.WithPretty(true))
	if err != nil {
		return err
	}
	if err := w.Write(result); err != nil {
		return err
	}
	return w.Close()
}

// prepare reads the input and builds the analyzer shared by the analysis
// commands.
func prepare(cmd *cobra.Command, args []string, extra ...pagelens.Option) (*pagelens.Analyzer, inputOptions, string, error) {
	initLogger()

	in, err := inputOptionsFrom(cmd)
	if err != nil {
		return nil, in, "", err
	}
	analyzer, err := newAnalyzer(cmd, extra...)
	if err != nil {
		return nil, in, "", err
	}
	text, err := in.read(cmd.Context(), args)
	if err != nil {
		return nil, in, "", err
	}
	return analyzer, in, text, nil
}

func (o inputOptions) source() string {
	if o.URL != "" {
		return o.URL
	}
	if o.File != "-" {
		return o.File
	}
	return ""
}

func runSummarize(cmd *cobra.Command, args []string) error {
	modeName, _ := cmd.Flags().GetString("mode")
	mode, err := pagelens.ParseMode(modeName)
	if err != nil {
		return err
	}

	var extra []pagelens.Option
	if noLists, _ := cmd.Flags().GetBool("no-lists"); noLists {
		extra = append(extra, pagelens.WithDetectLists(false))
	}

	analyzer, in, text, err := prepare(cmd, args, extra...)
	if err != nil {
		return err
	}

	summary, err := analyzer.Summarize(cmd.Context(), text, mode)
	if err != nil {
		return err
	}
	return writeResult(cmd, summaryResult{Source: in.source(), Mode: string(mode), Summary: summary})
}

func runAnswer(cmd *cobra.Command, args []string) error {
	question, _ := cmd.Flags().GetString("question")

	analyzer, in, text, err := prepare(cmd, args)
	if err != nil {
		return err
	}

	answer, err := analyzer.Answer(cmd.Context(), text, question)
	if err != nil {
		return err
	}
	return writeResult(cmd, answerResult{Source: in.source(), Question: question, Answer: answer})
}

func runCategorize(cmd *cobra.Command, args []string) error {
	analyzer, in, text, err := prepare(cmd, args)
	if err != nil {
		return err
	}

	result, err := analyzer.Categorize(cmd.Context(), text)
	if err != nil {
		return err
	}
	logInfo("found %d entities", len(result.Entities))

	return writeResult(cmd, categorizeResult{
		Source:     in.source(),
		Success:    true,
		Entities:   result.Entities,
		Count:      len(result.Entities),
		TextLength: result.TextLength,
		Sentences:  result.Sentences,
	})
}

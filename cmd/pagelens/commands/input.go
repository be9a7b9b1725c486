package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/pagelens/internal/logger"
	"github.com/jmylchreest/pagelens/pkg/cleaner"
	"github.com/jmylchreest/pagelens/pkg/fetcher"
)

var errNoInput = errors.New("no input: pass text as arguments, use -f FILE, --url URL or pipe to stdin")

// inputOptions selects where analysis input comes from.
type inputOptions struct {
	File     string
	URL      string
	HTML     bool
	Strategy string
	MaxSize  uint64
	Timeout  time.Duration

	// fetcher is used for --url; nil uses a static fetcher.
	fetcher fetcher.Fetcher
	stdin   io.Reader
}

func addInputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("file", "f", "", "read input from file (- for stdin)")
	flags.StringP("url", "u", "", "fetch input from URL (implies --html)")
	flags.Bool("html", false, "treat input as HTML and extract the main text first")
	flags.String("extractor", cleaner.StrategyAuto, "HTML text extractor: auto, trafilatura, readability, text")
	flags.String("max-size", "5MB", "largest accepted input (e.g. 500KB, 5MB)")
	flags.Duration("timeout", 30*time.Second, "fetch timeout for --url")
}

func inputOptionsFrom(cmd *cobra.Command) (inputOptions, error) {
	flags := cmd.Flags()
	opts := inputOptions{stdin: cmd.InOrStdin()}
	opts.File, _ = flags.GetString("file")
	opts.URL, _ = flags.GetString("url")
	opts.HTML, _ = flags.GetBool("html")
	opts.Strategy, _ = flags.GetString("extractor")
	opts.Timeout, _ = flags.GetDuration("timeout")

	maxSize, _ := flags.GetString("max-size")
	n, err := humanize.ParseBytes(maxSize)
	if err != nil || n == 0 {
		return opts, fmt.Errorf("invalid --max-size %q", maxSize)
	}
	opts.MaxSize = n

	switch opts.Strategy {
	case cleaner.StrategyAuto, cleaner.StrategyTrafilatura, cleaner.StrategyReadability, cleaner.StrategyText:
	default:
		return opts, fmt.Errorf("unknown --extractor %q", opts.Strategy)
	}
	if opts.File != "" && opts.URL != "" {
		return opts, errors.New("use only one of --file and --url")
	}
	return opts, nil
}

// read returns the input text. HTML input is reduced to its main text with
// one block per line.
func (o inputOptions) read(ctx context.Context, args []string) (string, error) {
	text, pre, err := o.load(ctx, args)
	if err != nil {
		return "", err
	}
	out, err := pre.Clean(text)
	if err != nil {
		return "", fmt.Errorf("%s: %w", pre.Name(), err)
	}
	logger.Debug("input prepared", "cleaner", pre.Name(), "size", humanize.Bytes(uint64(len(out))))
	return out, nil
}

// load returns the raw input and the cleaner that turns it into plain text.
func (o inputOptions) load(ctx context.Context, args []string) (string, cleaner.Cleaner, error) {
	var (
		text    string
		isHTML  = o.HTML
		baseURL string
		err     error
	)

	switch {
	case o.URL != "":
		text, isHTML, err = o.fetch(ctx)
		baseURL = o.URL
	case o.File == "-":
		text, err = readLimited(o.stdin, o.MaxSize)
	case o.File != "":
		text, err = readFile(o.File, o.MaxSize)
	case len(args) > 0:
		text = strings.Join(args, " ")
		if uint64(len(text)) > o.MaxSize {
			err = fmt.Errorf("input exceeds %s", humanize.Bytes(o.MaxSize))
		}
	case o.stdin != nil && !isTerminal(o.stdin):
		text, err = readLimited(o.stdin, o.MaxSize)
	default:
		return "", nil, errNoInput
	}
	if err != nil {
		return "", nil, err
	}

	logger.Debug("input read", "size", humanize.Bytes(uint64(len(text))), "html", isHTML)

	if !isHTML {
		return text, cleaner.NewNoop(), nil
	}
	return text, cleaner.NewHTML(&cleaner.HTMLConfig{
		Strategy:       o.Strategy,
		BaseURL:        baseURL,
		TerminateLines: true,
	}), nil
}

func (o inputOptions) fetch(ctx context.Context) (string, bool, error) {
	f := o.fetcher
	if f == nil {
		f = fetcher.NewStatic(fetcher.StaticConfig{
			Timeout:     o.Timeout,
			MaxBodySize: int(o.MaxSize),
		})
	}

	start := time.Now()
	page, err := f.Fetch(ctx, o.URL)
	if err != nil {
		return "", false, fmt.Errorf("failed to fetch %s: %w", o.URL, err)
	}
	logger.Debug("page fetched",
		"url", page.URL,
		"fetcher", f.Type(),
		"status", page.StatusCode,
		"title", page.Title,
		"size", humanize.Bytes(uint64(len(page.HTML))),
		"duration", time.Since(start))

	return page.HTML, !strings.HasPrefix(page.ContentType, "text/plain"), nil
}

func readFile(path string, limit uint64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	return readLimited(f, limit)
}

func readLimited(r io.Reader, limit uint64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if uint64(len(data)) > limit {
		return "", fmt.Errorf("input exceeds %s", humanize.Bytes(limit))
	}
	return string(data), nil
}

// isTerminal reports whether r is an interactive terminal, in which case
// waiting on it for input would hang.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

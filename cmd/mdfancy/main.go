package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/mdfancy"
	"pkt.systems/mdfancy/internal/cache"
	"pkt.systems/mdfancy/internal/server"
	"pkt.systems/version"
)

const defaultThemeName = "default"

func init() {
	version.SetDefaultModule("pkt.systems/mdfancy")
}

type options struct {
	themeName   string
	listThemes  bool
	styleName   string
	listStyles  bool
	outPath     string
	width       int
	frontMatter bool
	yes         bool
	copy        bool
	count       bool
	verbose     bool
	showVersion bool
	serveAddr   string
	redisAddr   string
	redisPass   string
	redisDB     int
	cacheTTL    time.Duration
	liveDelay   time.Duration
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	flags := pflag.NewFlagSet("mdfancy", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.themeName, "theme", "t", defaultThemeName, "Theme name")
	flags.BoolVar(&opts.listThemes, "list-themes", false, "List available themes")
	flags.StringVarP(&opts.styleName, "style", "s", "", "Style the input as a whole with one style instead of converting markdown")
	flags.BoolVar(&opts.listStyles, "list-styles", false, "List available styles")
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout")
	flags.IntVarP(&opts.width, "width", "w", 0, "Wrap output at this many columns (0 disables wrapping)")
	flags.BoolVar(&opts.frontMatter, "strip-front-matter", false, "Remove a leading YAML, TOML or JSON front matter block")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "Convert large inputs without asking")
	flags.BoolVarP(&opts.copy, "copy", "c", false, "Copy the result to the clipboard with OSC 52")
	flags.BoolVar(&opts.count, "count", false, "Print character counts of the result to stderr")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&opts.showVersion, "version", false, "Print version and exit")
	flags.StringVar(&opts.serveAddr, "serve", "", "Serve the HTTP API on this address instead of converting")
	flags.StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for caching conversions (serve mode)")
	flags.StringVar(&opts.redisPass, "redis-password", "", "Redis password")
	flags.IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	flags.DurationVar(&opts.cacheTTL, "cache-ttl", time.Hour, "Lifetime of cached conversions")
	flags.DurationVar(&opts.liveDelay, "live-delay", server.DefaultLiveDelay, "Pause before the live endpoint converts")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: mdfancy [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nInputs may be files, file:// or http(s) URLs. If none is given, Markdown is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	switch {
	case opts.showVersion:
		fmt.Fprintln(stdout, version.Module(), version.Current())
		return 0
	case opts.listThemes:
		printThemes(stdout)
		return 0
	case opts.listStyles:
		for _, s := range mdfancy.Styles() {
			fmt.Fprintln(stdout, s)
		}
		return 0
	case opts.serveAddr != "":
		return serve(opts, logger)
	}

	theme, ok := mdfancy.ThemeByName(opts.themeName)
	if !ok {
		fmt.Fprintf(stderr, "unknown theme %q\n\n", opts.themeName)
		printThemes(stderr)
		return 2
	}
	var style mdfancy.Style
	if opts.styleName != "" {
		if style, ok = mdfancy.ParseStyle(opts.styleName); !ok {
			fmt.Fprintf(stderr, "unknown style %q\n", opts.styleName)
			return 2
		}
	}

	reader, closer, err := openInputs(flags.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "open input: %v\n", err)
		return 1
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	src, err := readInput(reader)
	if err != nil {
		fmt.Fprintf(stderr, "read input: %v\n", err)
		return 1
	}
	text := string(src)

	if mdfancy.IsLargeInput(text) && !opts.yes {
		n := len([]rune(text))
		if len(flags.Args()) > 0 && isTerminal(stdin) {
			if !confirmLarge(stdin, stderr, n) {
				fmt.Fprintln(stderr, "aborted")
				return 1
			}
		} else {
			logger.Warn("large input, conversion may be slow", "characters", n)
		}
	}

	var out string
	if opts.styleName != "" {
		out = mdfancy.StyleText(text, style)
	} else {
		conv := mdfancy.NewConverter(
			mdfancy.WithTheme(theme),
			mdfancy.WithLogger(logger),
			mdfancy.WithFrontMatter(opts.frontMatter),
		)
		if out, err = conv.Convert(text); err != nil {
			logger.Error("markdown conversion failed", "error", err)
			fmt.Fprintln(stderr, mdfancy.FallbackMessage)
			return 1
		}
	}
	out = mdfancy.Wrap(out, opts.width)

	writer, closeOut, err := resolveOutput(opts.outPath, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}
	if _, err := io.WriteString(writer, out+"\n"); err != nil {
		fmt.Fprintf(stderr, "write output: %v\n", err)
		return 1
	}

	if opts.count {
		st := mdfancy.Stats(out)
		fmt.Fprintf(stderr, "%d characters, %d columns, %d bytes\n", st.Characters, st.Width, st.Bytes)
	}
	if opts.copy {
		copyToClipboard(stderr, out, logger)
	}
	return 0
}

func serve(opts options, logger *slog.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if !opts.verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	cfg := server.Config{
		Addr:             opts.serveAddr,
		Logger:           logger,
		LiveDelay:        opts.liveDelay,
		StripFrontMatter: opts.frontMatter,
	}
	if opts.redisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rc, err := cache.NewRedis(pingCtx, cache.Options{
			Addr:     opts.redisAddr,
			Password: opts.redisPass,
			DB:       opts.redisDB,
			TTL:      opts.cacheTTL,
		})
		cancel()
		if err != nil {
			logger.Error("redis unavailable", "addr", opts.redisAddr, "error", err)
			return 1
		}
		defer func() { _ = rc.Close() }()
		cfg.Cache = rc
	}
	if err := server.New(cfg).Run(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		return 1
	}
	return 0
}

func printThemes(w io.Writer) {
	for _, name := range mdfancy.AvailableThemes() {
		fmt.Fprintln(w, name)
	}
}

// confirmLarge asks whether to continue with an input of n characters.
func confirmLarge(in io.Reader, out io.Writer, n int) bool {
	fmt.Fprintf(out, "Input has %d characters (more than %d); conversion may be slow. Continue? [y/N] ", n, mdfancy.LargeInputThreshold)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func copyToClipboard(w io.Writer, text string, logger *slog.Logger) {
	if !isTerminal(w) {
		logger.Warn("clipboard copy needs a terminal on stderr")
		return
	}
	if !mdfancy.DetectOSC52Support() {
		logger.Warn("terminal may not support OSC 52 clipboard copy")
	}
	_, _ = io.WriteString(w, mdfancy.ClipboardSequence(text))
}

func readInput(r io.Reader) ([]byte, error) {
	src, err := io.ReadAll(io.LimitReader(r, mdfancy.MaxInputBytes+1))
	if err != nil {
		return nil, err
	}
	if len(src) > mdfancy.MaxInputBytes {
		return nil, fmt.Errorf("%w: maximum is 1MB", mdfancy.ErrInputTooLarge)
	}
	if err := mdfancy.ValidateInput(src); err != nil {
		return nil, err
	}
	return src, nil
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(args []string, stdin io.Reader) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	m := &multiInputReader{sources: sources}
	return m, m, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(raw string) (io.Reader, io.Closer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	src, err := mdfancy.Fetch(ctx, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	return strings.NewReader(string(src)), nil, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	clean := normalizePath(path)
	info, err := os.Stat(clean)
	if err != nil {
		return nil, nil, err
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("%s is a directory", clean)
	}
	if err := mdfancy.ValidateFile(clean, "", info.Size()); err != nil {
		return nil, nil, err
	}
	f, err := os.Open(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

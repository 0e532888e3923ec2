package mdfancy

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConvertDocumentExamples(t *testing.T) {
	b := func(s string) string { return StyleText(s, Bold) }
	i := func(s string) string { return StyleText(s, Italic) }
	m := func(s string) string { return StyleText(s, Monospace) }
	rule := strings.Repeat("━", 20)
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "heading and emphasis",
			in:   "# Title\n\nSome **bold** and *italic* text.",
			want: "🔹 " + b("Title") + " 🔹\n\nSome " + b("bold") + " and " + i("italic") + " text.",
		},
		{
			name: "h2",
			in:   "## Section",
			want: "━━ " + b("Section") + " ━━",
		},
		{
			name: "h3 is not consumed by h1",
			in:   "### Small",
			want: "▸ " + b("Small"),
		},
		{
			name: "heading text is trimmed",
			in:   "#   Padded  ",
			want: "🔹 " + b("Padded") + " 🔹",
		},
		{
			name: "headings get blank lines around them",
			in:   "intro\n## Part\nbody",
			want: "intro\n\n━━ " + b("Part") + " ━━\n\nbody",
		},
		{
			name: "four hashes stay literal",
			in:   "#### deep",
			want: "#### deep",
		},
		{
			name: "strikethrough",
			in:   "~~gone~~",
			want: "g\u0335o\u0335n\u0335e\u0335",
		},
		{
			name: "underline",
			in:   "an __under__ line",
			want: "an " + StyleText("under", Underline) + " line",
		},
		{
			name: "underline inside a word stays",
			in:   "snake__case__name",
			want: "snake__case__name",
		},
		{
			name: "underline followed by asterisk stays",
			in:   "__x__*",
			want: "__x__*",
		},
		{
			name: "script",
			in:   "^^^fancy^^^",
			want: StyleText("fancy", Script),
		},
		{
			name: "fenced code",
			in:   "```code```",
			want: m("code"),
		},
		{
			name: "fenced code over lines",
			in:   "```\nx := 1\n```",
			want: m("x := 1"),
		},
		{
			name: "bold before italic",
			in:   "**strong** *soft*",
			want: b("strong") + " " + i("soft"),
		},
		{
			name: "inline code",
			in:   "run `make test` now",
			want: "run " + m("make test") + " now",
		},
		{
			name: "bullets",
			in:   "- one\n  * two\n+ three",
			want: "▸ one\n▸ two\n▸ three",
		},
		{
			name: "styled bullets are normalized",
			in:   "  • a\n\t○ b\n ► c",
			want: "• a\n○ b\n► c",
		},
		{
			name: "ordered lists renumber by position",
			in:   "3. foo\n1. bar\n5. baz",
			want: "1. foo\n2. bar\n3. baz",
		},
		{
			name: "ordered lists with repeated text",
			in:   "1. same\n1. same\n  7. same",
			want: "1. same\n2. same\n3. same",
		},
		{
			name: "links",
			in:   "See [site](https://example.com).",
			want: "See site (https://example.com).",
		},
		{
			name: "blockquote",
			in:   "> wise words",
			want: "❝ wise words ❞",
		},
		{
			name: "horizontal rule",
			in:   "above\n---\nbelow",
			want: "above\n" + rule + "\nbelow",
		},
		{
			name: "long horizontal rule",
			in:   "-----",
			want: rule,
		},
		{
			name: "two dashes stay",
			in:   "--",
			want: "--",
		},
		{
			name: "blank runs collapse",
			in:   "a\n\n\n\n\nb",
			want: "a\n\nb",
		},
		{
			name: "crlf input",
			in:   "# T\r\nbody\r\n",
			want: "🔹 " + b("T") + " 🔹\n\nbody",
		},
		{
			name: "danish heading",
			in:   "# Blåbær",
			want: "🔹 " + b("Bl") + "\U0001D5EE\u030A" + b("b") + "\U0001D5EE\U0001D5F2" + b("r") + " 🔹",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ConvertDocument(tc.in); got != tc.want {
				t.Fatalf("ConvertDocument(%q)\nwant: %q\n got: %q", tc.in, tc.want, got)
			}
		})
	}
}

func TestConvertEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t\n"} {
		if got := ConvertDocument(in); got != EmptyInputMessage {
			t.Fatalf("ConvertDocument(%q)=%q want prompt", in, got)
		}
	}
}

func TestConvertIsStableOnItsOutput(t *testing.T) {
	src := strings.Join([]string{
		"# Release notes",
		"",
		"## What changed",
		"",
		"- **Faster** startup",
		"- ~~Old~~ flag removed",
		"",
		"1. Install",
		"2. Run `tool`",
		"",
		"> Ship it",
		"",
		"---",
		"",
		"Read [more](https://example.com).",
	}, "\n")
	once := ConvertDocument(src)
	twice := ConvertDocument(once)
	if once != twice {
		t.Fatalf("second pass changed output\nfirst:  %q\nsecond: %q", once, twice)
	}
	for _, marker := range []string{"**", "~~", "`", "# ", "> ", "- "} {
		if strings.Contains(once, marker) {
			t.Fatalf("marker %q left in output %q", marker, once)
		}
	}
}

func TestItalicStaysOnOneLine(t *testing.T) {
	got := ConvertDocument("* one\n* two")
	if got != "▸ one\n▸ two" {
		t.Fatalf("asterisk bullets mangled: %q", got)
	}
}

func TestConvertContainsPanickingStage(t *testing.T) {
	c := NewConverter(
		WithLogger(quietLogger()),
		WithRules(
			Rule{Name: "boom", Apply: func(string) string { panic("boom") }},
			Rule{Name: "upper", Apply: strings.ToUpper},
		),
	)
	out, err := c.Convert("abc")
	if out != "ABC" {
		t.Fatalf("later stages did not run: %q", out)
	}
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected ConversionError, got %v", err)
	}
	if convErr.Stage != "boom" {
		t.Fatalf("unexpected stage %q", convErr.Stage)
	}
}

func TestConvertPanicWithError(t *testing.T) {
	sentinel := errors.New("sentinel")
	c := NewConverter(
		WithLogger(quietLogger()),
		WithRules(Rule{Name: "err", Apply: func(string) string { panic(sentinel) }}),
	)
	out, err := c.Convert("keep")
	if out != "keep" {
		t.Fatalf("faulted stage changed document: %q", out)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
}

func TestConvertDocumentFallsBack(t *testing.T) {
	saved := defaultConverter
	defer func() { defaultConverter = saved }()
	defaultConverter = NewConverter(
		WithLogger(quietLogger()),
		WithRules(Rule{Name: "boom", Apply: func(string) string { panic("boom") }}),
	)
	if got := ConvertDocument("text"); got != FallbackMessage {
		t.Fatalf("expected fallback message, got %q", got)
	}
}

func TestConvertWithThemes(t *testing.T) {
	classic, _ := ThemeByName("classic")
	c := NewConverter(WithTheme(classic))
	out, err := c.Convert("> quoted\n- item\n---")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := "“ quoted ”\n• item\n" + strings.Repeat("─", 20)
	if out != want {
		t.Fatalf("classic theme\nwant: %q\n got: %q", want, out)
	}

	minimal, _ := ThemeByName("minimal")
	out, err = NewConverter(WithTheme(minimal)).Convert("# Title\n> q")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if want := StyleText("Title", Bold) + "\n\nq"; out != want {
		t.Fatalf("minimal theme\nwant: %q\n got: %q", want, out)
	}
}

func TestConvertStripsFrontMatter(t *testing.T) {
	src := "---\ntitle: Post\n---\n\n# Hello"
	out, err := NewConverter(WithFrontMatter(true)).Convert(src)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if strings.Contains(out, "title") {
		t.Fatalf("front matter kept: %q", out)
	}
	if want := "🔹 " + StyleText("Hello", Bold) + " 🔹"; out != want {
		t.Fatalf("want %q got %q", want, out)
	}
	out, _ = NewConverter(WithFrontMatter(true)).Convert("---\ntitle: only\n---\n")
	if out != EmptyInputMessage {
		t.Fatalf("expected prompt for front matter only input, got %q", out)
	}
}

func TestDefaultRulesOrder(t *testing.T) {
	want := []string{
		"h3", "h2", "h1", "strikethrough", "underline", "script", "fence",
		"bold", "italic", "code", "bullets", "styled-bullets", "ordered",
		"links", "quotes", "rules", "cleanup",
	}
	rules := DefaultRules(nil)
	if len(rules) != len(want) {
		t.Fatalf("got %d rules want %d", len(rules), len(want))
	}
	for i, r := range rules {
		if r.Name != want[i] {
			t.Fatalf("rule %d is %q want %q", i, r.Name, want[i])
		}
	}
}

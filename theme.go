package mdfancy

import (
	"sort"
	"strings"
)

// Glyphs holds the decorations the converter puts around structural
// markdown. Empty markers are omitted together with their padding space.
type Glyphs struct {
	H1         string
	H2         string
	H3         string
	Bullet     string
	QuoteOpen  string
	QuoteClose string
	Rule       string
}

// Theme provides named glyphs for conversion.
type Theme interface {
	Name() string
	Glyphs() Glyphs
}

type theme struct {
	name   string
	glyphs Glyphs
}

func (t theme) Name() string   { return t.name }
func (t theme) Glyphs() Glyphs { return t.glyphs }

// NewTheme returns a Theme from a Glyphs definition.
func NewTheme(name string, glyphs Glyphs) Theme {
	return theme{name: name, glyphs: glyphs}
}

const ruleWidth = 20

var builtinThemes = map[string]Theme{
	"default": theme{name: "default", glyphs: Glyphs{
		H1:         "🔹",
		H2:         "━━",
		H3:         "▸",
		Bullet:     "▸",
		QuoteOpen:  "❝",
		QuoteClose: "❞",
		Rule:       strings.Repeat("━", ruleWidth),
	}},
	"classic": theme{name: "classic", glyphs: Glyphs{
		H1:         "■",
		H2:         "══",
		H3:         "›",
		Bullet:     "•",
		QuoteOpen:  "“",
		QuoteClose: "”",
		Rule:       strings.Repeat("─", ruleWidth),
	}},
	"minimal": theme{name: "minimal", glyphs: Glyphs{
		Bullet: "-",
		Rule:   strings.Repeat("-", ruleWidth),
	}},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}

// joinMarked joins the non-empty parts with single spaces.
func joinMarked(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String()
}

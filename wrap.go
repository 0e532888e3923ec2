package mdfancy

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// Wrap breaks text into lines of at most width cells. Lines are broken at
// spaces first; words longer than width are split. Widths of zero or less
// return text unchanged.
func Wrap(text string, width int) string {
	if width <= 0 || text == "" {
		return text
	}
	return wrap.String(wordwrap.String(text, width), width)
}

// Truncate shortens text to at most limit cells, ending it with an ellipsis
// when anything was cut.
func Truncate(text string, limit int) string {
	if ansi.PrintableRuneWidth(text) <= limit {
		return text
	}
	if limit <= 0 {
		return ""
	}
	if limit == 1 {
		return "…"
	}
	var b strings.Builder
	width := 0
	for _, r := range text {
		w := ansi.PrintableRuneWidth(string(r))
		if width+w > limit-1 {
			break
		}
		b.WriteRune(r)
		width += w
	}
	return b.String() + "…"
}

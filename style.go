package mdfancy

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Style names a Unicode text style applied by StyleText.
type Style string

const (
	Bold          Style = "bold"
	Italic        Style = "italic"
	Monospace     Style = "monospace"
	Script        Style = "script"
	Strikethrough Style = "strikethrough"
	Underline     Style = "underline"
)

var styleOrder = []Style{Bold, Italic, Monospace, Script, Strikethrough, Underline}

// Styles returns the known style names.
func Styles() []Style {
	out := make([]Style, len(styleOrder))
	copy(out, styleOrder)
	return out
}

// ParseStyle resolves a style name, ignoring case and surrounding space.
func ParseStyle(name string) (Style, bool) {
	s := Style(strings.ToLower(strings.TrimSpace(name)))
	_, ok := styleTables[s]
	return s, ok
}

// styleTable is either arithmetic (a styled rune is base + ASCII code) or
// combining (a mark follows each ASCII letter and digit). A zero base means
// the style has no glyphs for that range.
type styleTable struct {
	upper      rune
	lower      rune
	digits     rune
	combining  rune
	exceptions map[rune]string
}

var styleTables = map[Style]styleTable{
	Bold: {
		upper:  120211,
		lower:  120205,
		digits: 120764,
		exceptions: map[rune]string{
			'æ': "𝗮𝗲", 'Æ': "𝗔𝗘",
			'ø': "𝗼\u0338", 'Ø': "𝗢\u0338",
			'å': "𝗮\u030A", 'Å': "𝗔\u030A",
		},
	},
	Italic: {
		upper: 119795,
		lower: 119789,
		exceptions: map[rune]string{
			'æ': "𝑎𝑒", 'Æ': "𝐴𝐸",
			'ø': "𝑜\u0338", 'Ø': "𝑂\u0338",
			'å': "𝑎\u030A", 'Å': "𝐴\u030A",
			// U+1D455 is reserved.
			'h': "ℎ",
		},
	},
	Monospace: {
		upper:  120367,
		lower:  120361,
		digits: 120774,
		exceptions: map[rune]string{
			'æ': "𝚊𝚎", 'Æ': "𝙰𝙴",
			'ø': "𝚘\u0338", 'Ø': "𝙾\u0338",
			'å': "𝚊\u030A", 'Å': "𝙰\u030A",
		},
	},
	Script: {
		upper: 119899,
		lower: 119893,
		exceptions: map[rune]string{
			'æ': "𝒶ℯ", 'Æ': "𝒜ℰ",
			'ø': "ℴ\u0338", 'Ø': "𝒪\u0338",
			'å': "𝒶\u030A", 'Å': "𝒜\u030A",
			// Letterlike Symbols fill the reserved script slots.
			'B': "ℬ", 'E': "ℰ", 'F': "ℱ", 'H': "ℋ", 'I': "ℐ",
			'L': "ℒ", 'M': "ℳ", 'R': "ℛ",
			'e': "ℯ", 'g': "ℊ", 'o': "ℴ",
		},
	},
	Strikethrough: {
		combining: '\u0335',
		exceptions: map[rune]string{
			'æ': "æ\u0335", 'Æ': "Æ\u0335",
			'ø': "ø\u0335", 'Ø': "Ø\u0335",
			'å': "å\u0335", 'Å': "Å\u0335",
		},
	},
	Underline: {
		combining: '\u0332',
		exceptions: map[rune]string{
			'æ': "æ\u0332", 'Æ': "Æ\u0332",
			'ø': "ø\u0332", 'Ø': "Ø\u0332",
			'å': "å\u0332", 'Å': "Å\u0332",
		},
	},
}

// StyleText maps the ASCII letters and digits of text to the Unicode glyphs
// of style. Characters the style cannot express are kept as-is, and unknown
// styles return text unchanged.
func StyleText(text string, style Style) string {
	if text == "" {
		return ""
	}
	table, ok := styleTables[style]
	if !ok {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) * 4)
	var it norm.Iter
	it.InitString(norm.NFC, text)
	for !it.Done() {
		start := it.Pos()
		composed := it.Next()
		segment := text[start:it.Pos()]
		if len(segment) != len(composed) {
			// A decomposed å still gets its exception.
			if r, size := utf8.DecodeRune(composed); size == len(composed) {
				if repl, ok := table.exceptions[r]; ok {
					b.WriteString(repl)
					continue
				}
			}
		}
		table.writeSegment(&b, segment)
	}
	return b.String()
}

func (t styleTable) writeSegment(b *strings.Builder, segment string) {
	for i := 0; i < len(segment); {
		r, size := utf8.DecodeRuneInString(segment[i:])
		src := segment[i : i+size]
		i += size
		if r == utf8.RuneError && size == 1 {
			b.WriteString(src)
			continue
		}
		t.writeRune(b, r, src)
	}
}

func (t styleTable) writeRune(b *strings.Builder, r rune, src string) {
	if repl, ok := t.exceptions[r]; ok {
		b.WriteString(repl)
		return
	}
	if t.combining != 0 {
		b.WriteString(src)
		if isASCIIAlnum(r) {
			b.WriteRune(t.combining)
		}
		return
	}
	var base rune
	switch {
	case r >= 'A' && r <= 'Z':
		base = t.upper
	case r >= 'a' && r <= 'z':
		base = t.lower
	case r >= '0' && r <= '9':
		base = t.digits
	}
	if base == 0 {
		b.WriteString(src)
		return
	}
	styled := base + r
	if !utf8.ValidRune(styled) {
		b.WriteString(src)
		return
	}
	b.WriteRune(styled)
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

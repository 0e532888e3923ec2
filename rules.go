package mdfancy

import (
	"regexp"
	"strconv"
	"strings"
)

// Rule is one rewrite step of the conversion pipeline. Apply must be total:
// it returns its input unchanged when nothing matches.
type Rule struct {
	Name  string
	Apply func(string) string
}

var (
	h3Pattern           = regexp.MustCompile(`(?m)^### (.+)$`)
	h2Pattern           = regexp.MustCompile(`(?m)^## (.+)$`)
	h1Pattern           = regexp.MustCompile(`(?m)^# (.+)$`)
	strikePattern       = regexp.MustCompile(`~~(.+?)~~`)
	scriptPattern       = regexp.MustCompile(`\^\^\^(.+?)\^\^\^`)
	fencePattern        = regexp.MustCompile("```([^`]+?)```")
	boldPattern         = regexp.MustCompile(`\*\*(.+?)\*\*`)
	codePattern         = regexp.MustCompile("`([^`]+?)`")
	bulletPattern       = regexp.MustCompile(`(?m)^[ \t]*[-*+] (.+)$`)
	styledBulletPattern = regexp.MustCompile(`(?m)^[ \t]*([•○►]) (.+)$`)
	orderedPattern      = regexp.MustCompile(`(?m)^[ \t]*\d+\. (.+)$`)
	linkPattern         = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	quotePattern        = regexp.MustCompile(`(?m)^> (.+)$`)
	rulePattern         = regexp.MustCompile(`(?m)^---+$`)
	blankRunPattern     = regexp.MustCompile(`\n\n\n+`)
)

// DefaultRules returns the conversion pipeline in application order.
// Headings run longest marker first, and fenced code runs before bold,
// italic and inline code so nested markers are not processed twice.
func DefaultRules(t Theme) []Rule {
	if t == nil {
		t = DefaultTheme()
	}
	g := t.Glyphs()
	return []Rule{
		{Name: "h3", Apply: func(s string) string {
			return replaceGroups(h3Pattern, s, func(m []string) string {
				return "\n" + joinMarked(g.H3, StyleText(strings.TrimSpace(m[1]), Bold)) + "\n"
			})
		}},
		{Name: "h2", Apply: func(s string) string {
			return replaceGroups(h2Pattern, s, func(m []string) string {
				return "\n" + joinMarked(g.H2, StyleText(strings.TrimSpace(m[1]), Bold), g.H2) + "\n"
			})
		}},
		{Name: "h1", Apply: func(s string) string {
			return replaceGroups(h1Pattern, s, func(m []string) string {
				return "\n" + joinMarked(g.H1, StyleText(strings.TrimSpace(m[1]), Bold), g.H1) + "\n"
			})
		}},
		{Name: "strikethrough", Apply: styleRule(strikePattern, Strikethrough)},
		{Name: "underline", Apply: func(s string) string {
			return replaceUnderline(s, func(text string) string { return StyleText(text, Underline) })
		}},
		{Name: "script", Apply: styleRule(scriptPattern, Script)},
		{Name: "fence", Apply: styleRule(fencePattern, Monospace)},
		{Name: "bold", Apply: styleRule(boldPattern, Bold)},
		{Name: "italic", Apply: func(s string) string {
			return replaceItalic(s, func(text string) string { return StyleText(text, Italic) })
		}},
		{Name: "code", Apply: styleRule(codePattern, Monospace)},
		{Name: "bullets", Apply: func(s string) string {
			return replaceGroups(bulletPattern, s, func(m []string) string {
				return joinMarked(g.Bullet, m[1])
			})
		}},
		{Name: "styled-bullets", Apply: func(s string) string {
			return replaceGroups(styledBulletPattern, s, func(m []string) string {
				return m[1] + " " + m[2]
			})
		}},
		{Name: "ordered", Apply: renumber},
		{Name: "links", Apply: func(s string) string {
			return linkPattern.ReplaceAllString(s, "${1} (${2})")
		}},
		{Name: "quotes", Apply: func(s string) string {
			return replaceGroups(quotePattern, s, func(m []string) string {
				return joinMarked(g.QuoteOpen, m[1], g.QuoteClose)
			})
		}},
		{Name: "rules", Apply: func(s string) string {
			return rulePattern.ReplaceAllLiteralString(s, g.Rule)
		}},
		{Name: "cleanup", Apply: func(s string) string {
			return strings.TrimSpace(blankRunPattern.ReplaceAllLiteralString(s, "\n\n"))
		}},
	}
}

func styleRule(re *regexp.Regexp, style Style) func(string) string {
	return func(s string) string {
		return replaceGroups(re, s, func(m []string) string {
			return StyleText(m[1], style)
		})
	}
}

// renumber numbers ordered list items by their position among all matching
// lines, so repeated item text still gets its own index.
func renumber(s string) string {
	n := 0
	return replaceGroups(orderedPattern, s, func(m []string) string {
		n++
		return strconv.Itoa(n) + ". " + m[1]
	})
}

// replaceGroups is ReplaceAllStringFunc with access to submatches.
func replaceGroups(re *regexp.Regexp, s string, fn func([]string) string) string {
	idx := re.FindAllStringSubmatchIndex(s, -1)
	if len(idx) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	groups := make([]string, re.NumSubexp()+1)
	for _, loc := range idx {
		for g := range groups {
			if loc[2*g] < 0 {
				groups[g] = ""
				continue
			}
			groups[g] = s[loc[2*g]:loc[2*g+1]]
		}
		b.WriteString(s[last:loc[0]])
		b.WriteString(fn(groups))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// replaceUnderline rewrites __text__ spans on a single line. The opening
// marker must start a word and must not follow an asterisk; the closing
// marker must not be followed by one.
func replaceUnderline(s string, fn func(string) string) string {
	var b strings.Builder
	last := 0
	for i := 0; i+1 < len(s); {
		if s[i] != '_' || s[i+1] != '_' || (i > 0 && (isWordByte(s[i-1]) || s[i-1] == '*')) {
			i++
			continue
		}
		end := closingUnderline(s, i+2)
		if end < 0 {
			i++
			continue
		}
		b.WriteString(s[last:i])
		b.WriteString(fn(s[i+2 : end]))
		last = end + 2
		i = last
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

func closingUnderline(s string, start int) int {
	for j := start + 1; j+1 < len(s); j++ {
		if s[j-1] == '\n' {
			return -1
		}
		if s[j] == '_' && s[j+1] == '_' && (j+2 >= len(s) || s[j+2] != '*') {
			return j
		}
	}
	return -1
}

// replaceItalic rewrites *text* spans where both markers are single
// asterisks and the text stays on one line.
func replaceItalic(s string, fn func(string) string) string {
	var b strings.Builder
	last := 0
	for i := 0; i < len(s); {
		if s[i] != '*' || (i > 0 && s[i-1] == '*') {
			i++
			continue
		}
		j := i + 1
		for j < len(s) && s[j] != '*' && s[j] != '\n' {
			j++
		}
		if j == i+1 || j >= len(s) || s[j] != '*' || (j+1 < len(s) && s[j+1] == '*') {
			i++
			continue
		}
		b.WriteString(s[last:i])
		b.WriteString(fn(s[i+1 : j]))
		last = j + 1
		i = last
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Package mdfancy converts a small markdown dialect into plain text decorated
// with Unicode styled glyphs, for pasting into places that render neither
// markdown nor rich text.
//
// Emphasis is expressed with Mathematical Alphanumeric Symbols (bold, italic,
// monospace, script) or combining marks (strikethrough, underline). Headings,
// bullets, quotes and rules are replaced by theme glyphs. Conversion is a
// fixed, ordered list of rewrite rules applied to the whole document.
//
// Example:
//
//	out := mdfancy.ConvertDocument("# Title\n\nSome **bold** and *italic* text.")
//	fmt.Println(out)
//
// StyleText can be used on its own:
//
//	mdfancy.StyleText("hello", mdfancy.Script) // 𝒽ℯ𝓁𝓁ℴ
//
// A Converter built with NewConverter accepts options such as WithTheme and
// WithFrontMatter, and reports stages that failed instead of replacing the
// whole result with FallbackMessage.
package mdfancy

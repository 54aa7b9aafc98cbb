package parser

import "strings"

// quotedBody is the inner body of a double-quoted string literal: either a
// literal `\"` escape or any non-quote character. Unlike the Python
// original this needs no lookbehind assertion — a bare backslash that
// isn't immediately followed by a quote simply falls through to the
// `[^"]` alternative, so the alternation alone guarantees the following
// unescaped `"` really terminates the literal.
const quotedBody = `(?:\\"|[^"])*`

// unescapeLiteral undoes the single escape the grammar defines: `\"` to
// `"`. No other backslash sequences are special.
func unescapeLiteral(s string) string {
	return strings.ReplaceAll(s, `\"`, `"`)
}

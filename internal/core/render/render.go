// Package render prepares untrusted reminder text for display surfaces.
package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes & < > " and ' for surfaces that interpret markup, such
// as desktop notification bodies.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

// Terminal removes escape sequences and control characters so backend text
// cannot move the cursor or restyle the terminal. Newlines and tabs become
// spaces.
func Terminal(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			return ' '
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, s)
}

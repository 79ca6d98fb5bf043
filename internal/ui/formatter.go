package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

func PadRight(str string, width int) string {
	w := runewidth.StringWidth(str)
	if w < width {
		return str + strings.Repeat(" ", width-w)
	}
	return str
}

// Truncate shortens str to at most width display cells, marking the cut with "...".
// A width of zero or less leaves str untouched.
func Truncate(str string, width int) string {
	if width <= 0 || runewidth.StringWidth(str) <= width {
		return str
	}
	return runewidth.Truncate(str, width, ellipsis)
}

// TruncateRunes keeps the first n runes of str
func TruncateRunes(str string, n int) string {
	r := []rune(str)
	if n < 0 || len(r) <= n {
		return str
	}
	return string(r[:n])
}

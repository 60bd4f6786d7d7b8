package util

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis is the default marker appended to truncated text.
const Ellipsis = "…"

// CharCount counts characters the way the instance does: one per code point.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate shortens s to at most n characters, replacing the dropped tail with
// marker. Text that already fits is returned unchanged. n <= 0 disables it.
func Truncate(s string, n int, marker string) string {
	if n <= 0 || CharCount(s) <= n {
		return s
	}
	keep := n - CharCount(marker)
	if keep <= 0 {
		return string([]rune(marker)[:n])
	}
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for _, r := range s {
		if i == keep {
			break
		}
		b.WriteRune(r)
		i++
	}
	b.WriteString(marker)
	return b.String()
}

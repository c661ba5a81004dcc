// Package render provides text helpers for the terminal screens.
package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Sanitize drops control characters and invalid UTF-8 so names read from
// skin.ini can't break the terminal. Tabs and non-breaking spaces become
// plain spaces.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\u00a0':
			return ' '
		case r == unicode.ReplacementChar, unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.ToValidUTF8(s, ""))
}

// Truncate shortens s to maxWidth cells, ending in "..." when cut. Wide
// characters count as two cells.
func Truncate(s string, maxWidth int) string {
	return runewidth.Truncate(Sanitize(s), maxWidth, "...")
}

// TruncateAndPad truncates s if needed and pads it to exactly width cells.
func TruncateAndPad(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// Row places left and right at opposite ends of a width-wide line, keeping
// at least one space between them.
func Row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Meter draws fraction (0-1) as a bar of width cells.
func Meter(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	fraction = min(max(fraction, 0), 1)
	filled := int(fraction*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

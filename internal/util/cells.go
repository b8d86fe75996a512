// Package util holds the terminal text helpers shared by the dashboard and
// the list command. Widths are terminal columns, so wide runes and ANSI
// styling are measured the way they are drawn.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks text that was cut to fit.
const Ellipsis = "…"

// Truncate cuts s to at most width columns, ending in Ellipsis when anything
// was dropped. Escape sequences survive the cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, Ellipsis)
}

// PadRight appends spaces until s is width columns wide. Wider text is
// returned as is.
func PadRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// Cell fits s into exactly width columns.
func Cell(s string, width int) string {
	return PadRight(Truncate(s, width), width)
}

// Spread places left and right at the two ends of a width-column line,
// keeping at least one space between them. A line that cannot fit is
// truncated from the right.
func Spread(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return Truncate(left+strings.Repeat(" ", gap)+right, width)
}

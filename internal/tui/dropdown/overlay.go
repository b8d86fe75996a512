package dropdown

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/procdash/internal/util"
)

// Overlay draws panel over base with its top-left cell at (x, y). Both may
// contain ANSI styling. Rows of the panel that fall outside base are
// clipped; base lines shorter than x are padded.
func Overlay(base, panel string, x, y int) string {
	if panel == "" {
		return base
	}
	baseLines := strings.Split(base, "\n")
	panelLines := strings.Split(panel, "\n")

	panelWidth := 0
	for _, l := range panelLines {
		panelWidth = max(panelWidth, ansi.StringWidth(l))
	}

	for i, line := range panelLines {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		target := baseLines[row]
		targetWidth := ansi.StringWidth(target)

		left := util.PadRight(ansi.Truncate(target, max(x, 0), ""), x)
		line = util.PadRight(line, panelWidth)

		right := ""
		if end := x + panelWidth; end < targetWidth {
			right = ansi.TruncateLeft(target, end, "")
		}

		baseLines[row] = left + line + right
	}
	return strings.Join(baseLines, "\n")
}

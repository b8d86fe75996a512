package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/procdash/internal/tui/filter"
	"github.com/Iron-Ham/procdash/internal/tui/keymap"
	"github.com/Iron-Ham/procdash/internal/tui/region"
)

// Fixed rows outside the scrolling body.
const (
	headerHeight = 1
	statusHeight = 1
)

// Body lines, counted from the top of the scrollable content.
const (
	toolbarLine = 0
	filterLine  = 1
	tableLine   = 2
)

const (
	// cellPadding is the horizontal padding of a table cell, which the
	// filter row mirrors so inputs sit above their columns.
	cellPadding = 2
	// tableHeaderHeight is the header row plus its bottom border.
	tableHeaderHeight = 2
	toolbarGap        = 1
)

// Region ids besides the dropdown ones.
const (
	filterRegionPrefix = "filter:"
	tableRegion        = "table"
)

func filterRegion(id filter.FieldID) string { return filterRegionPrefix + string(id) }

// bodyHeight is the number of rows the scrolling body gets.
func (m Model) bodyHeight() int {
	helpHeight := lipgloss.Height(m.help.View(keymap.NewHelpKeys(m.keys, m.mode())))
	return max(m.height-headerHeight-statusHeight-helpHeight, 1)
}

// syncLayout re-renders the body into the viewport, records where every
// clickable element ended up on screen and repositions open dropdowns.
// It runs after every update, so scrolling, resizing, paging and column
// changes all move the panels with their triggers.
func (m *Model) syncLayout() {
	if !m.ready {
		return
	}

	m.viewport.Width = m.width
	m.viewport.Height = m.bodyHeight()

	lines := strings.Split(m.renderBody(), "\n")
	bodyWidth := 0
	for _, l := range lines {
		bodyWidth = max(bodyWidth, ansi.StringWidth(l))
	}
	m.scroll.x = max(0, min(m.scroll.x, bodyWidth-m.width))
	// Cut each line to the visible columns so nothing wraps.
	for i, l := range lines {
		if m.scroll.x > 0 {
			l = ansi.TruncateLeft(l, m.scroll.x, "")
		}
		lines[i] = ansi.Truncate(l, m.width, "")
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.scroll.y = m.viewport.YOffset

	m.layoutRegions()
	m.dropdowns.recalculate()
	m.layoutPanels()
}

// toScreen converts a body cell to a screen cell.
func (m Model) toScreen(x, line int) (int, int) {
	return x - m.scroll.x, headerHeight + line - m.scroll.y
}

// setBodyRegion registers rect clipped to the visible body. Regions
// scrolled out of view are not registered at all.
func (m Model) setBodyRegion(id string, rect region.Rect) {
	top := headerHeight
	bottom := headerHeight + m.viewport.Height
	x0, y0 := max(rect.X, 0), max(rect.Y, top)
	x1, y1 := min(rect.Right(), m.width), min(rect.Bottom(), bottom)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	m.regions.Set(id, region.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0})
}

func (m Model) layoutRegions() {
	m.regions.Reset()

	x := 0
	for _, id := range m.dropdowns.order {
		w := lipgloss.Width(m.renderTrigger(id))
		sx, sy := m.toScreen(x, toolbarLine)
		m.setBodyRegion(triggerRegion(id), region.Rect{X: sx, Y: sy, W: w, H: 1})
		x += w + toolbarGap
	}

	x = 0
	for _, id := range m.inputs.Fields() {
		c, _ := filter.Lookup(id)
		sx, sy := m.toScreen(x+cellPadding/2, filterLine)
		m.setBodyRegion(filterRegion(id), region.Rect{X: sx, Y: sy, W: c.Width, H: 1})
		x += c.Width + cellPadding
	}

	if rows := len(m.table.Rows()); rows > 0 {
		// x is now the table width.
		sx, sy := m.toScreen(0, tableLine+tableHeaderHeight)
		m.setBodyRegion(tableRegion, region.Rect{X: sx, Y: sy, W: x, H: rows})
	}
}

// filterCellX is the unclipped screen column where the input for id
// starts.
func (m Model) filterCellX(id filter.FieldID) (int, bool) {
	x := 0
	for _, f := range m.inputs.Fields() {
		c, _ := filter.Lookup(f)
		if f == id {
			sx, _ := m.toScreen(x+cellPadding/2, filterLine)
			return sx, true
		}
		x += c.Width + cellPadding
	}
	return 0, false
}

// layoutPanels registers the rect of every open panel. Panels draw over
// the whole screen, so they are not clipped to the body.
func (m Model) layoutPanels() {
	for _, id := range m.dropdowns.order {
		pos, ok := m.dropdowns.get(id).Position()
		if !ok {
			continue
		}
		panel := m.renderPanel(id)
		// Position is in body coordinates; draw relative to the screen.
		m.regions.Set(panelRegion(id), region.Rect{
			X: pos.Left - m.scroll.x,
			Y: pos.Top - m.scroll.y,
			W: lipgloss.Width(panel),
			H: lipgloss.Height(panel),
		})
	}
}

// scrollBy moves the body. The following layout pass recomputes open
// dropdown positions from the new offsets.
func (m *Model) scrollBy(dx, dy int) {
	m.scroll.x = max(m.scroll.x+dx, 0)
	if dy != 0 {
		m.viewport.SetYOffset(m.viewport.YOffset + dy)
	}
	m.scroll.y = m.viewport.YOffset
}

// revealCursorRow scrolls the body so the selected table row is visible.
func (m *Model) revealCursorRow() {
	line := tableLine + tableHeaderHeight + m.table.Cursor()
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
	m.scroll.y = m.viewport.YOffset
}

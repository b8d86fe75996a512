package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/procdash/internal/tui/filter"
	"github.com/Iron-Ham/procdash/internal/tui/pointer"
)

// Wheel steps in cells.
const (
	wheelRows = 3
	wheelCols = 4
)

// handleMouse routes wheel events to scrolling and presses first to the
// pointer router (outside-click dismissal), then to whatever region was
// hit.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollBy(0, -wheelRows)
			return nil
		case tea.MouseButtonWheelDown:
			m.scrollBy(0, wheelRows)
			return nil
		case tea.MouseButtonWheelLeft:
			m.scrollBy(-wheelCols, 0)
			return nil
		case tea.MouseButtonWheelRight:
			m.scrollBy(wheelCols, 0)
			return nil
		}
	}

	ev, ok := pointer.FromMouse(msg)
	if !ok {
		return nil
	}
	m.router.Dispatch(ev)

	if ev.Button != pointer.ButtonLeft {
		return nil
	}
	return m.click(ev.X, ev.Y)
}

// click acts on the topmost region under (x, y): an open panel, then a
// trigger, then a filter input, then a table row. Panels and triggers keep
// filter focus; any other press blurs the filters.
func (m *Model) click(x, y int) tea.Cmd {
	ids := m.regions.At(x, y)

	for _, id := range m.dropdowns.order {
		if slices.Contains(ids, panelRegion(id)) {
			rect, _ := m.regions.Lookup(panelRegion(id))
			// One border row above the first item.
			item := y - rect.Y - 1
			if item < 0 || item >= m.itemCount(id) {
				return nil
			}
			return m.selectItem(id, item)
		}
	}

	for _, id := range m.dropdowns.order {
		if slices.Contains(ids, triggerRegion(id)) {
			cursor := 0
			if id == dropdownPageSize {
				cursor = m.pageSizeIndex()
			}
			m.dropdowns.toggle(id, cursor)
			return nil
		}
	}

	for _, id := range ids {
		if field, ok := strings.CutPrefix(id, filterRegionPrefix); ok {
			return m.clickFilter(filter.FieldID(field), x)
		}
	}

	m.blurFilters()

	if slices.Contains(ids, tableRegion) {
		// The region may be clipped; rows count from the unclipped top.
		_, top := m.toScreen(0, tableLine+tableHeaderHeight)
		if row := y - top; row >= 0 && row < len(m.table.Rows()) {
			m.table.SetCursor(row)
		}
		return nil
	}
	return nil
}

// clickFilter focuses the input for id and puts the caret under the
// pointer.
func (m *Model) clickFilter(id filter.FieldID, x int) tea.Cmd {
	cmd := m.focusField(id)
	if in, ok := m.inputs.Lookup(id); ok {
		if left, found := m.filterCellX(id); found {
			in.SetCursor(x - left)
		}
		m.tracker.SetCaret(in.Position())
	}
	return cmd
}

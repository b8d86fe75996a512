package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/procdash/internal/event"
	"github.com/Iron-Ham/procdash/internal/tui/filter"
	"github.com/Iron-Ham/procdash/internal/tui/keymap"
)

// handleKeypress resolves msg against the keymap of the current mode.
// Unbound keys in filter mode edit the focused input.
func (m *Model) handleKeypress(msg tea.KeyMsg) tea.Cmd {
	mode := m.mode()
	command, ok := m.keys.Lookup(msg, mode)
	if !ok {
		if mode == keymap.ModeFilter {
			return m.typeIntoFilter(msg)
		}
		return nil
	}

	// Plain "q" must not quit while the user is typing a filter.
	if command == keymap.CmdQuit && msg.Type == tea.KeyRunes {
		if _, typing := m.focusedField(); typing {
			return nil
		}
	}
	return m.execute(command)
}

func (m *Model) execute(command keymap.Command) tea.Cmd {
	switch command {
	case keymap.CmdQuit:
		return m.quit()

	// Browse
	case keymap.CmdFocusFilter:
		fields := m.inputs.Fields()
		if len(fields) == 0 {
			return m.setStatus("no visible columns to filter", false)
		}
		return m.focusField(fields[0])
	case keymap.CmdRowDown:
		m.table.MoveDown(1)
		m.revealCursorRow()
	case keymap.CmdRowUp:
		m.table.MoveUp(1)
		m.revealCursorRow()
	case keymap.CmdNextPage:
		if m.pages.page+1 < m.totalPages() {
			m.pages.page++
			return m.fetch()
		}
	case keymap.CmdPrevPage:
		if m.pages.page > 0 {
			m.pages.page--
			return m.fetch()
		}
	case keymap.CmdScrollDown:
		m.scrollBy(0, max(m.bodyHeight()/2, 1))
	case keymap.CmdScrollUp:
		m.scrollBy(0, -max(m.bodyHeight()/2, 1))
	case keymap.CmdRefresh:
		return m.fetch()
	case keymap.CmdToggleHelp:
		m.help.ShowAll = !m.help.ShowAll

	// Filters
	case keymap.CmdNextField, keymap.CmdPrevField:
		delta := 1
		if command == keymap.CmdPrevField {
			delta = -1
		}
		current, _ := m.focusedField()
		if next, ok := m.inputs.Next(current, delta); ok {
			return m.focusField(next)
		}
	case keymap.CmdBlur:
		m.blurFilters()
	case keymap.CmdClearFilters:
		return m.clearFilters()

	// Dropdowns
	case keymap.CmdTogglePageSize:
		m.dropdowns.toggle(dropdownPageSize, m.pageSizeIndex())
	case keymap.CmdToggleColumns:
		m.dropdowns.toggle(dropdownColumns, 0)
	case keymap.CmdDropdownUp:
		if id, ok := m.dropdowns.openID(); ok {
			m.dropdowns.moveCursor(-1, m.itemCount(id))
		}
	case keymap.CmdDropdownDown:
		if id, ok := m.dropdowns.openID(); ok {
			m.dropdowns.moveCursor(1, m.itemCount(id))
		}
	case keymap.CmdDropdownSelect:
		if id, ok := m.dropdowns.openID(); ok {
			return m.selectItem(id, m.dropdowns.cursor)
		}
	case keymap.CmdCloseDropdown:
		m.dropdowns.closeAll(event.DismissEscape)
	}
	return nil
}

// focusField moves keyboard focus to id and starts tracking it.
func (m *Model) focusField(id filter.FieldID) tea.Cmd {
	cmd := m.inputs.Focus(id)
	caret := 0
	if in, ok := m.inputs.Lookup(id); ok {
		caret = in.Position()
	}
	m.tracker.Focus(id, caret)
	return cmd
}

func (m *Model) blurFilters() {
	m.inputs.BlurAll()
	m.tracker.Blur()
}

// typeIntoFilter edits the tracked input and hands the new local filter
// set to the synchronizer.
func (m *Model) typeIntoFilter(msg tea.KeyMsg) tea.Cmd {
	id, ok := m.focusedField()
	if !ok {
		return nil
	}

	var cmds []tea.Cmd
	in, _ := m.inputs.Lookup(id)
	if !in.Focused() {
		// A keystroke between a rebuild and its restoration.
		cmds = append(cmds, m.inputs.Focus(id))
		token, _ := m.tracker.Current()
		in.SetCursor(token.Caret)
	}

	cmds = append(cmds, m.inputs.Update(id, msg))
	m.tracker.SetCaret(in.Position())
	m.local = m.local.With(id, in.Value())
	cmds = append(cmds, m.sync.Observe(m.local))
	return tea.Batch(cmds...)
}

// clearFilters empties every local filter value; the commit follows the
// usual debounce.
func (m *Model) clearFilters() tea.Cmd {
	m.local = filter.FieldSet{}
	for _, id := range m.inputs.Fields() {
		if ti := m.inputs.Get(id); ti != nil {
			ti.SetValue("")
		}
	}
	m.tracker.SetCaret(0)
	return m.sync.Observe(m.local)
}

// pageSizeIndex is the page-size item matching the current size.
func (m Model) pageSizeIndex() int {
	for i, size := range m.pageSizes() {
		if size == m.pages.size {
			return i
		}
	}
	return 0
}

func (m Model) itemCount(id string) int {
	switch id {
	case dropdownPageSize:
		return len(m.pageSizes())
	case dropdownColumns:
		return len(filter.Columns)
	}
	return 0
}

// selectItem applies item i of dropdown id. Choosing a page size closes
// the panel; toggling a column keeps it open.
func (m *Model) selectItem(id string, i int) tea.Cmd {
	m.dropdowns.cursor = i
	switch id {
	case dropdownPageSize:
		sizes := m.pageSizes()
		if i < 0 || i >= len(sizes) {
			return nil
		}
		m.dropdowns.close(id, event.DismissSelect)
		if sizes[i] == m.pages.size {
			return nil
		}
		m.pages.size = sizes[i]
		m.pages.reset("page_size")
		return m.fetch()

	case dropdownColumns:
		if i < 0 || i >= len(filter.Columns) {
			return nil
		}
		return m.toggleColumn(filter.Columns[i].ID)
	}
	return nil
}

// toggleColumn shows or hides a column. The filter row is remounted; if
// the hidden column had focus, the restoration finds no input and skips.
func (m *Model) toggleColumn(id filter.FieldID) tea.Cmd {
	if m.hidden[id] {
		delete(m.hidden, id)
	} else {
		m.hidden[id] = true
	}
	m.logger.Debug("column visibility changed", "field", string(id), "hidden", m.hidden[id])
	m.rebuildTable()
	m.rebuildFilterRow()
	return m.restorer.Request()
}

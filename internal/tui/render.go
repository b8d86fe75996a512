package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/procdash/internal/tui/dropdown"
	"github.com/Iron-Ham/procdash/internal/tui/filter"
	"github.com/Iron-Ham/procdash/internal/tui/keymap"
	"github.com/Iron-Ham/procdash/internal/util"
)

// View renders the model
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderStatusBar(),
		m.help.View(keymap.NewHelpKeys(m.keys, m.mode())),
	)

	for _, id := range m.dropdowns.order {
		if !m.dropdowns.get(id).IsOpen() {
			continue
		}
		if rect, ok := m.regions.Lookup(panelRegion(id)); ok {
			view = dropdown.Overlay(view, m.renderPanel(id), rect.X, rect.Y)
		}
	}
	return view
}

// renderHeader shows the title, the unfiltered total and the number of
// matches for the committed filters.
func (m Model) renderHeader() string {
	parts := []string{m.styles.Title.Render("Purchase requests")}

	total := "…"
	if m.counter.Loaded() {
		total = fmt.Sprintf("%d", m.counter.Total())
	}
	parts = append(parts, m.styles.Muted.Render("total ")+m.styles.Count.Render(total))

	if m.pages.current != nil {
		parts = append(parts, m.styles.Muted.Render("matching ")+
			m.styles.Count.Render(fmt.Sprintf("%d", m.pages.current.TotalElements)))
	}
	if n := len(m.sync.Committed()); n > 0 {
		parts = append(parts, m.styles.Warning.Render(fmt.Sprintf("%d filter(s)", n)))
	}
	if m.pages.loading {
		parts = append(parts, m.spinner.View())
	}

	line := strings.Join(parts, m.styles.Muted.Render("  ·  "))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

// renderBody is the scrollable content: toolbar, filter row, table and
// pagination footer.
func (m Model) renderBody() string {
	return strings.Join([]string{
		m.renderToolbar(),
		m.renderFilterRow(),
		m.table.View(),
		m.renderFooter(),
	}, "\n")
}

func (m Model) renderToolbar() string {
	triggers := make([]string, 0, len(m.dropdowns.order))
	for _, id := range m.dropdowns.order {
		triggers = append(triggers, m.renderTrigger(id))
	}
	return strings.Join(triggers, strings.Repeat(" ", toolbarGap))
}

func (m Model) renderTrigger(id string) string {
	var label string
	switch id {
	case dropdownPageSize:
		label = fmt.Sprintf("Page size: %d ▾", m.pages.size)
	case dropdownColumns:
		label = fmt.Sprintf("Columns %d/%d ▾", len(m.visibleFields()), len(filter.Columns))
	}
	if m.dropdowns.get(id).IsOpen() {
		return m.styles.TriggerOpen.Render(label)
	}
	return m.styles.Trigger.Render(label)
}

// renderFilterRow lays the inputs out over their table columns.
func (m Model) renderFilterRow() string {
	focused, hasFocus := m.focusedField()
	var b strings.Builder
	for _, id := range m.inputs.Fields() {
		c, _ := filter.Lookup(id)
		style := m.styles.FilterCell
		if hasFocus && id == focused {
			style = m.styles.FilterCellFocused
		}
		content := ""
		if ti := m.inputs.Get(id); ti != nil {
			content = ti.View()
		}
		b.WriteString(" ")
		// One line per cell: the layout maps the filter row to a single body line.
		b.WriteString(style.Inline(true).Width(c.Width).MaxWidth(c.Width).Render(util.Truncate(content, c.Width)))
		b.WriteString(" ")
	}
	return b.String()
}

func (m Model) renderFooter() string {
	if m.pages.current == nil {
		return m.styles.Footer.Render(fmt.Sprintf("page %d · %d per page", m.pages.page+1, m.pages.size))
	}
	return m.styles.Footer.Render(fmt.Sprintf("page %d/%d · %d per page · %d matching",
		m.pages.page+1, m.totalPages(), m.pages.size, m.pages.current.TotalElements))
}

// renderPanel draws the items of dropdown id with the cursor highlighted.
func (m Model) renderPanel(id string) string {
	var items []string
	switch id {
	case dropdownPageSize:
		for _, size := range m.pageSizes() {
			mark := " "
			if size == m.pages.size {
				mark = "●"
			}
			items = append(items, fmt.Sprintf("%s %4d", mark, size))
		}
	case dropdownColumns:
		for _, c := range filter.Columns {
			mark := "[x]"
			if m.hidden[c.ID] {
				mark = "[ ]"
			}
			items = append(items, mark+" "+c.Label)
		}
	}

	width := 0
	for _, item := range items {
		width = max(width, lipgloss.Width(item))
	}
	lines := make([]string, len(items))
	for i, item := range items {
		style := m.styles.PanelItem
		if i == m.dropdowns.cursor {
			style = m.styles.PanelSelected
		}
		lines[i] = style.Width(width).Render(item)
	}
	return m.styles.Panel.Render(strings.Join(lines, "\n"))
}

// renderStatusBar shows the current notice on the left and the session
// user on the right.
func (m Model) renderStatusBar() string {
	left := m.status
	if m.statusErr {
		left = m.styles.Error.Render(left)
	}
	right := ""
	if m.session.Username != "" {
		right = m.session.Username + " · until " + m.session.ExpiresAt.Local().Format("15:04")
	}

	inner := max(m.width-m.styles.StatusBar.GetHorizontalFrameSize(), 0)
	return m.styles.StatusBar.Width(m.width).Render(util.Spread(left, right, inner))
}

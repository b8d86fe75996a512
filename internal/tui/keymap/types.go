// Package keymap provides key binding definitions and lookup for the
// dashboard. Bindings are declared per input mode and resolved to named
// commands, so the Update loop switches on commands instead of raw keys.
package keymap

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current input mode of the dashboard.
// Different modes have different key bindings active.
type Mode string

const (
	ModeBrowse   Mode = "browse"   // Table has the keyboard
	ModeFilter   Mode = "filter"   // A filter input has focus; unbound keys edit it
	ModeDropdown Mode = "dropdown" // A dropdown panel is open
)

// Command represents a named action that can be triggered by a key binding.
type Command string

// Browse mode commands
const (
	CmdFocusFilter Command = "focus_filter"
	CmdRowDown     Command = "row_down"
	CmdRowUp       Command = "row_up"
	CmdNextPage    Command = "next_page"
	CmdPrevPage    Command = "prev_page"
	CmdScrollDown  Command = "scroll_down"
	CmdScrollUp    Command = "scroll_up"
	CmdRefresh     Command = "refresh"
	CmdToggleHelp  Command = "toggle_help"
)

// Filter mode commands
const (
	CmdNextField    Command = "next_field"
	CmdPrevField    Command = "prev_field"
	CmdBlur         Command = "blur"
	CmdClearFilters Command = "clear_filters"
)

// Dropdown commands, some also bound in the other modes
const (
	CmdTogglePageSize Command = "toggle_page_size"
	CmdToggleColumns  Command = "toggle_columns"
	CmdDropdownUp     Command = "dropdown_up"
	CmdDropdownDown   Command = "dropdown_down"
	CmdDropdownSelect Command = "dropdown_select"
	CmdCloseDropdown  Command = "close_dropdown"
)

// CmdQuit exits the dashboard.
const CmdQuit Command = "quit"

// Binding maps one or more keys to a command. Keys are spelled the way
// tea.KeyMsg.String does: "ctrl+p", "shift+tab", "q", " " for space.
type Binding struct {
	Keys        []string
	Command     Command
	Description string // Help bar label
	Category    string // Full help group
}

// Matches reports whether msg is one of the binding's keys.
func (b Binding) Matches(msg tea.KeyMsg) bool {
	return slices.Contains(b.Keys, msg.String())
}

// HelpKeys returns the keys joined for display, with space spelled out.
func (b Binding) HelpKeys() string {
	out := ""
	for i, k := range b.Keys {
		if i > 0 {
			out += "/"
		}
		if k == " " {
			k = "space"
		}
		out += k
	}
	return out
}

// Keymap holds the bindings of every mode, in declaration order.
type Keymap struct {
	Name  string
	Modes map[Mode][]Binding
}

// Lookup resolves msg in mode. The first matching binding wins.
func (km *Keymap) Lookup(msg tea.KeyMsg, mode Mode) (Command, bool) {
	for _, b := range km.Modes[mode] {
		if b.Matches(msg) {
			return b.Command, true
		}
	}
	return "", false
}

// Bindings returns the bindings of mode.
func (km *Keymap) Bindings(mode Mode) []Binding {
	return km.Modes[mode]
}

// Categories returns the categories used in mode, in declaration order.
func (km *Keymap) Categories(mode Mode) []string {
	var categories []string
	for _, b := range km.Modes[mode] {
		if b.Category != "" && !slices.Contains(categories, b.Category) {
			categories = append(categories, b.Category)
		}
	}
	return categories
}

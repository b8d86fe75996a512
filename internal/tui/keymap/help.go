package keymap

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// HelpKeys adapts one mode of a Keymap to help.KeyMap.
type HelpKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

var _ help.KeyMap = HelpKeys{}

// NewHelpKeys builds the help entries for mode: every binding in the short
// view, grouped by category in the full view.
func NewHelpKeys(km *Keymap, mode Mode) HelpKeys {
	categories := km.Categories(mode)
	h := HelpKeys{full: make([][]key.Binding, len(categories))}

	for _, b := range km.Bindings(mode) {
		kb := key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.HelpKeys(), b.Description))
		h.short = append(h.short, kb)
		for i, c := range categories {
			if b.Category == c {
				h.full[i] = append(h.full[i], kb)
			}
		}
	}
	return h
}

// ShortHelp implements help.KeyMap.
func (h HelpKeys) ShortHelp() []key.Binding {
	return h.short
}

// FullHelp implements help.KeyMap.
func (h HelpKeys) FullHelp() [][]key.Binding {
	return h.full
}

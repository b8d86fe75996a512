package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBindingMatches(t *testing.T) {
	tests := []struct {
		name    string
		binding Binding
		msg     tea.KeyMsg
		want    bool
	}{
		{"rune", Binding{Keys: []string{"n"}}, runes("n"), true},
		{"other rune", Binding{Keys: []string{"n"}}, runes("p"), false},
		{"second key", Binding{Keys: []string{"n", "right"}}, tea.KeyMsg{Type: tea.KeyRight}, true},
		{"ctrl key", Binding{Keys: []string{"ctrl+p"}}, tea.KeyMsg{Type: tea.KeyCtrlP}, true},
		{"tab is not shift+tab", Binding{Keys: []string{"tab"}}, tea.KeyMsg{Type: tea.KeyShiftTab}, false},
		{"alt is distinct", Binding{Keys: []string{"x"}}, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true}, false},
		{"alt binding", Binding{Keys: []string{"alt+x"}}, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true}, true},
		{"rune vs special", Binding{Keys: []string{"q"}}, tea.KeyMsg{Type: tea.KeyEnter}, false},
		{"space", Binding{Keys: []string{" "}}, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.binding.Matches(tt.msg); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestBindingHelpKeys(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{[]string{"ctrl+p"}, "ctrl+p"},
		{[]string{"n", "right"}, "n/right"},
		{[]string{"enter", " "}, "enter/space"},
	}
	for _, tt := range tests {
		if got := (Binding{Keys: tt.keys}).HelpKeys(); got != tt.want {
			t.Errorf("HelpKeys(%q) = %q, want %q", tt.keys, got, tt.want)
		}
	}
}

func TestDefaultKeymap(t *testing.T) {
	km := DefaultKeymap()

	tests := []struct {
		name string
		mode Mode
		msg  tea.KeyMsg
		want Command
	}{
		{"slash focuses filter", ModeBrowse, runes("/"), CmdFocusFilter},
		{"n next page", ModeBrowse, runes("n"), CmdNextPage},
		{"right next page", ModeBrowse, tea.KeyMsg{Type: tea.KeyRight}, CmdNextPage},
		{"left prev page", ModeBrowse, tea.KeyMsg{Type: tea.KeyLeft}, CmdPrevPage},
		{"pgdown scrolls", ModeBrowse, tea.KeyMsg{Type: tea.KeyPgDown}, CmdScrollDown},
		{"q quits when browsing", ModeBrowse, runes("q"), CmdQuit},
		{"tab cycles fields", ModeFilter, tea.KeyMsg{Type: tea.KeyTab}, CmdNextField},
		{"shift+tab cycles back", ModeFilter, tea.KeyMsg{Type: tea.KeyShiftTab}, CmdPrevField},
		{"esc blurs", ModeFilter, tea.KeyMsg{Type: tea.KeyEsc}, CmdBlur},
		{"enter blurs", ModeFilter, tea.KeyMsg{Type: tea.KeyEnter}, CmdBlur},
		{"ctrl+x clears", ModeFilter, tea.KeyMsg{Type: tea.KeyCtrlX}, CmdClearFilters},
		{"ctrl+p page size", ModeFilter, tea.KeyMsg{Type: tea.KeyCtrlP}, CmdTogglePageSize},
		{"ctrl+c quits while typing", ModeFilter, tea.KeyMsg{Type: tea.KeyCtrlC}, CmdQuit},
		{"enter selects", ModeDropdown, tea.KeyMsg{Type: tea.KeyEnter}, CmdDropdownSelect},
		{"space selects", ModeDropdown, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, CmdDropdownSelect},
		{"esc closes", ModeDropdown, tea.KeyMsg{Type: tea.KeyEsc}, CmdCloseDropdown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := km.Lookup(tt.msg, tt.mode)
			if !ok || got != tt.want {
				t.Errorf("Lookup() = (%q, %v), want %q", got, ok, tt.want)
			}
		})
	}

	// Typing in a filter must reach the input.
	for _, r := range "qnp/jk? " {
		if cmd, ok := km.Lookup(runes(string(r)), ModeFilter); ok {
			t.Errorf("rune %q is bound to %q in filter mode", r, cmd)
		}
	}
	for _, k := range []tea.KeyType{tea.KeyLeft, tea.KeyRight, tea.KeyBackspace} {
		if cmd, ok := km.Lookup(tea.KeyMsg{Type: k}, ModeFilter); ok {
			t.Errorf("%s is bound to %q in filter mode", k, cmd)
		}
	}

	if _, ok := km.Lookup(tea.KeyMsg{Type: tea.KeyEnter}, "nope"); ok {
		t.Error("unknown mode should have no bindings")
	}
}

func TestCategories(t *testing.T) {
	got := DefaultKeymap().Categories(ModeBrowse)
	want := []string{"Filters", "Table", "Dropdowns", "General"}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHelpKeys(t *testing.T) {
	km := DefaultKeymap()
	h := NewHelpKeys(km, ModeBrowse)

	short := h.ShortHelp()
	if len(short) != len(km.Bindings(ModeBrowse)) {
		t.Errorf("ShortHelp() = %d entries, want one per binding", len(short))
	}
	found := false
	for _, b := range short {
		if b.Help().Desc == "next page" {
			found = true
			if b.Help().Key != "n/right" {
				t.Errorf("next page help key = %q, want n/right", b.Help().Key)
			}
		}
	}
	if !found {
		t.Error("next page missing from help")
	}

	full := h.FullHelp()
	if len(full) != 4 {
		t.Fatalf("FullHelp() groups = %d, want 4", len(full))
	}
	total := 0
	for _, g := range full {
		total += len(g)
	}
	if total != len(short) {
		t.Errorf("full help has %d entries, short has %d", total, len(short))
	}
}

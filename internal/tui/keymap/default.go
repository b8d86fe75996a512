package keymap

// DefaultKeymap returns the built-in key bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name: "default",
		Modes: map[Mode][]Binding{
			ModeBrowse: {
				{Keys: []string{"/"}, Command: CmdFocusFilter, Description: "filter", Category: "Filters"},
				{Keys: []string{"ctrl+x"}, Command: CmdClearFilters, Description: "clear filters", Category: "Filters"},

				{Keys: []string{"j", "down"}, Command: CmdRowDown, Description: "down", Category: "Table"},
				{Keys: []string{"k", "up"}, Command: CmdRowUp, Description: "up", Category: "Table"},
				{Keys: []string{"n", "right"}, Command: CmdNextPage, Description: "next page", Category: "Table"},
				{Keys: []string{"p", "left"}, Command: CmdPrevPage, Description: "prev page", Category: "Table"},
				{Keys: []string{"pgdown"}, Command: CmdScrollDown, Description: "scroll down", Category: "Table"},
				{Keys: []string{"pgup"}, Command: CmdScrollUp, Description: "scroll up", Category: "Table"},
				{Keys: []string{"r"}, Command: CmdRefresh, Description: "reload", Category: "Table"},

				{Keys: []string{"ctrl+p"}, Command: CmdTogglePageSize, Description: "page size", Category: "Dropdowns"},
				{Keys: []string{"ctrl+o"}, Command: CmdToggleColumns, Description: "columns", Category: "Dropdowns"},

				{Keys: []string{"?"}, Command: CmdToggleHelp, Description: "help", Category: "General"},
				{Keys: []string{"q", "ctrl+c"}, Command: CmdQuit, Description: "quit", Category: "General"},
			},
			ModeFilter: {
				{Keys: []string{"tab"}, Command: CmdNextField, Description: "next field", Category: "Filters"},
				{Keys: []string{"shift+tab"}, Command: CmdPrevField, Description: "prev field", Category: "Filters"},
				{Keys: []string{"esc", "enter"}, Command: CmdBlur, Description: "done", Category: "Filters"},
				{Keys: []string{"ctrl+x"}, Command: CmdClearFilters, Description: "clear filters", Category: "Filters"},

				{Keys: []string{"ctrl+p"}, Command: CmdTogglePageSize, Description: "page size", Category: "Dropdowns"},
				{Keys: []string{"ctrl+o"}, Command: CmdToggleColumns, Description: "columns", Category: "Dropdowns"},

				{Keys: []string{"ctrl+c"}, Command: CmdQuit, Description: "quit", Category: "General"},
			},
			ModeDropdown: {
				{Keys: []string{"up", "k"}, Command: CmdDropdownUp, Description: "up", Category: "Dropdowns"},
				{Keys: []string{"down", "j"}, Command: CmdDropdownDown, Description: "down", Category: "Dropdowns"},
				{Keys: []string{"enter", " "}, Command: CmdDropdownSelect, Description: "select", Category: "Dropdowns"},
				{Keys: []string{"esc"}, Command: CmdCloseDropdown, Description: "close", Category: "Dropdowns"},
				{Keys: []string{"ctrl+p"}, Command: CmdTogglePageSize, Description: "page size", Category: "Dropdowns"},
				{Keys: []string{"ctrl+o"}, Command: CmdToggleColumns, Description: "columns", Category: "Dropdowns"},

				{Keys: []string{"q", "ctrl+c"}, Command: CmdQuit, Description: "quit", Category: "General"},
			},
		},
	}
}

// Package tui is the procdash dashboard: one page of purchase requests under
// a debounced filter row, a toolbar with two dropdowns, and the total number
// of requests in the header.
package tui

import (
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/procdash/internal/api"
	"github.com/Iron-Ham/procdash/internal/auth"
	"github.com/Iron-Ham/procdash/internal/config"
	"github.com/Iron-Ham/procdash/internal/event"
	"github.com/Iron-Ham/procdash/internal/logging"
	"github.com/Iron-Ham/procdash/internal/tui/count"
	"github.com/Iron-Ham/procdash/internal/tui/filter"
	"github.com/Iron-Ham/procdash/internal/tui/keymap"
	tuimsg "github.com/Iron-Ham/procdash/internal/tui/msg"
	"github.com/Iron-Ham/procdash/internal/tui/pointer"
	"github.com/Iron-Ham/procdash/internal/tui/region"
	"github.com/Iron-Ham/procdash/internal/tui/styles"
)

// Client is the part of the API the dashboard talks to.
type Client interface {
	tuimsg.Lister
	count.Counter
}

// Options wires a Model.
type Options struct {
	Config  *config.Config
	Client  Client
	Session auth.Session
	Bus     *event.Bus
	Logger  *logging.Logger
	Styles  *styles.Styles
	Keymap  *keymap.Keymap
	// Scheduler delivers debounce and focus-restore messages. Nil means
	// real timers.
	Scheduler filter.Scheduler
	// ConfigUpdates carries msg.ConfigReloadedMsg and msg.ConfigErrorMsg
	// from the config watcher.
	ConfigUpdates <-chan tea.Msg
}

// pageState is the paging and fetch state. It lives behind a pointer so
// the synchronizer's page-reset callback and Init can change it.
type pageState struct {
	page    int
	size    int
	seq     uint64 // Latest fetch; older responses are dropped
	loading bool
	current *api.Page
	bus     *event.Bus
}

func (p *pageState) reset(reason string) {
	prev := p.page
	p.page = 0
	p.bus.Publish(event.NewPageResetEvent(prev, reason))
}

// scroll is the body's scroll offset in cells, read by the dropdown
// positioners.
type scroll struct {
	x, y int
}

// Model holds the dashboard state.
type Model struct {
	cfg     *config.Config
	client  Client
	session auth.Session
	bus     *event.Bus
	logger  *logging.Logger
	styles  *styles.Styles
	keys    *keymap.Keymap
	updates <-chan tea.Msg

	// Filters
	local    filter.FieldSet
	tracker  *filter.Tracker
	inputs   *filter.InputRegistry
	sync     *filter.Synchronizer
	restorer *filter.Restorer
	hidden   map[filter.FieldID]bool

	pages *pageState

	// Pointer plumbing
	regions   *region.Registry
	router    *pointer.Router
	scroll    *scroll
	dropdowns *dropdowns

	counter *count.Loader

	table    table.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model

	// UI state
	width     int
	height    int
	ready     bool
	quitting  bool
	status    string
	statusErr bool
	statusID  uint64
}

// NewModel creates the dashboard model.
func NewModel(opts Options) Model {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	if opts.Styles == nil {
		opts.Styles = styles.New(nil)
	}
	if opts.Keymap == nil {
		opts.Keymap = keymap.DefaultKeymap()
	}
	cfg := opts.Config

	m := Model{
		cfg:     cfg,
		client:  opts.Client,
		session: opts.Session,
		bus:     opts.Bus,
		logger:  opts.Logger.WithComponent("dashboard"),
		styles:  opts.Styles,
		keys:    opts.Keymap,
		updates: opts.ConfigUpdates,
		local:   filter.FieldSet{},
		tracker: filter.NewTracker(),
		inputs:  filter.NewInputRegistry(),
		hidden:  hiddenFields(cfg.TUI.HiddenColumns),
		pages:   &pageState{size: cfg.TUI.PageSize, bus: opts.Bus},
		regions: region.NewRegistry(),
		router:  pointer.NewRouter(),
		scroll:  &scroll{},
	}

	m.restorer = filter.NewRestorer(filter.RestoreOptions{
		Scheduler:   opts.Scheduler,
		Tracker:     m.tracker,
		Inputs:      m.inputs,
		MaxAttempts: cfg.TUI.RestoreAttempts,
		Logger:      opts.Logger,
	})
	pages := m.pages
	m.sync = filter.NewSynchronizer(filter.SyncOptions{
		Quiet:     cfg.TUI.Debounce(),
		Scheduler: opts.Scheduler,
		Tracker:   m.tracker,
		Inputs:    m.inputs,
		SetPage:   func(int) { pages.reset("filter") },
		Restorer:  m.restorer,
		Bus:       opts.Bus,
		Logger:    opts.Logger,
	})
	m.dropdowns = newDropdowns(m.regions, m.router, m.scroll, cfg.TUI.DropdownOffset, opts.Bus, opts.Logger)
	m.counter = count.NewLoader(opts.Client, 0, opts.Bus, opts.Logger)

	m.table = table.New(table.WithStyles(m.styles.Table()), table.WithFocused(true))
	m.viewport = viewport.New(0, 0)
	m.viewport.MouseWheelEnabled = false
	m.spinner = spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(m.styles.Muted))
	m.help = help.New()
	m.help.Styles = m.styles.Help()

	m.rebuildFilterRow()
	m.rebuildTable()
	return m
}

// hiddenFields expands glob patterns over field ids. Patterns were
// validated with the config, so a bad one hides nothing.
func hiddenFields(patterns []string) map[filter.FieldID]bool {
	hidden := make(map[filter.FieldID]bool)
	for _, p := range patterns {
		ids, err := filter.MatchFields([]string{p})
		if err != nil {
			continue
		}
		for _, id := range ids {
			hidden[id] = true
		}
	}
	return hidden
}

// visibleFields returns the shown columns in table order.
func (m Model) visibleFields() []filter.FieldID {
	var out []filter.FieldID
	for _, id := range filter.AllFields() {
		if !m.hidden[id] {
			out = append(out, id)
		}
	}
	return out
}

// mode picks the keymap mode: an open dropdown captures keys first, then a
// focused filter input.
func (m Model) mode() keymap.Mode {
	if m.dropdowns.anyOpen() {
		return keymap.ModeDropdown
	}
	if _, ok := m.focusedField(); ok {
		return keymap.ModeFilter
	}
	return keymap.ModeBrowse
}

// focusedField is the tracked field when its input exists. The input may
// be momentarily unfocused between a rebuild and the restoration.
func (m Model) focusedField() (filter.FieldID, bool) {
	token, ok := m.tracker.Current()
	if !ok {
		return "", false
	}
	if _, exists := m.inputs.Lookup(token.Field); !exists {
		return "", false
	}
	return token.Field, true
}

// rebuildFilterRow remounts the filter inputs for the visible columns,
// seeded from the local filter values.
func (m *Model) rebuildFilterRow() {
	m.inputs.Rebuild(m.visibleFields(), m.local)
}

// rebuildTable replaces columns and rows from the current page.
func (m *Model) rebuildTable() {
	fields := m.visibleFields()
	cols := make([]table.Column, 0, len(fields))
	width := 0
	for _, id := range fields {
		c, _ := filter.Lookup(id)
		cols = append(cols, table.Column{Title: c.Label, Width: c.Width})
		width += c.Width + cellPadding
	}

	var rows []table.Row
	if m.pages.current != nil {
		for _, pr := range m.pages.current.Content {
			rows = append(rows, table.Row(pr.Cells(fields)))
		}
	}

	// Rows must never have more cells than there are columns.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.SetWidth(width)
	m.table.SetHeight(len(rows) + tableHeaderHeight)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// query builds the request for the current page and committed filters.
func (m Model) query() api.Query {
	return api.Query{Page: m.pages.page, Size: m.pages.size, Filters: m.sync.Committed()}
}

// fetch requests the current page. Responses to older requests are
// dropped on arrival.
func (m Model) fetch() tea.Cmd {
	m.pages.seq++
	m.pages.loading = true
	q := m.query()
	m.logger.Debug("fetching page", "seq", m.pages.seq, "page", q.Page, "size", q.Size, "filters", len(q.Filters))
	return tea.Batch(tuimsg.FetchPage(m.client, m.pages.seq, q), m.spinner.Tick)
}

// totalPages is at least 1 so the footer reads "page 1/1" when empty.
func (m Model) totalPages() int {
	if m.pages.current == nil || m.pages.current.TotalPages < 1 {
		return 1
	}
	return m.pages.current.TotalPages
}

// setStatus shows a notice and returns the command clearing it.
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusID++
	m.status = text
	m.statusErr = isErr
	return tuimsg.ClearStatusAfter(statusLifetime, m.statusID)
}

// teardown stops every component holding timers or listeners. Messages
// they scheduled earlier become no-ops. It is safe to call more than once.
func (m Model) teardown() {
	m.sync.Stop()
	m.restorer.Stop()
	m.dropdowns.stop()
	m.counter.Stop()
}

// pageSizes returns the choices offered by the page-size dropdown.
func (m Model) pageSizes() []int {
	sizes := slices.Clone(m.cfg.TUI.PageSizes)
	if !slices.Contains(sizes, m.pages.size) {
		sizes = append(sizes, m.pages.size)
		slices.Sort(sizes)
	}
	return sizes
}

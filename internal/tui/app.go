package tui

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/procdash/internal/config"
	"github.com/Iron-Ham/procdash/internal/errors"
	"github.com/Iron-Ham/procdash/internal/event"
	"github.com/Iron-Ham/procdash/internal/tui/count"
	"github.com/Iron-Ham/procdash/internal/tui/filter"
	tuimsg "github.com/Iron-Ham/procdash/internal/tui/msg"
)

// statusLifetime is how long a status-bar notice stays up.
const statusLifetime = 5 * time.Second

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	updates chan tea.Msg
}

// New creates the dashboard. When watchConfig is set, edits to the config
// file are applied to the running dashboard.
func New(opts Options, watchConfig bool) *App {
	a := &App{}
	if watchConfig && opts.ConfigUpdates == nil {
		a.updates = make(chan tea.Msg, 1)
		opts.ConfigUpdates = a.updates
	}
	a.model = NewModel(opts)
	return a
}

// Run starts the dashboard and blocks until it exits.
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if a.updates != nil {
		config.Watch(
			func(cfg *config.Config) { a.offer(tuimsg.ConfigReloadedMsg{Config: cfg}) },
			func(err error) { a.offer(tuimsg.ConfigErrorMsg{Err: err}) },
		)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		if _, ok := <-sigChan; ok && a.program != nil {
			a.program.Quit()
		}
	}()

	final, err := a.program.Run()

	signal.Stop(sigChan)
	close(sigChan)

	if m, ok := final.(Model); ok {
		m.teardown()
	} else {
		a.model.teardown()
	}
	return err
}

// offer hands a config message to the model, dropping it when the previous
// one has not been picked up yet.
func (a *App) offer(m tea.Msg) {
	select {
	case a.updates <- m:
	default:
	}
}

// Init loads the first page and the total count.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.counter.Init(), tuimsg.Listen(m.updates))
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	if !m.quitting {
		m.syncLayout()
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return nil

	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case filter.CommitDueMsg:
		committed, restore := m.sync.HandleCommitDue(msg)
		if !committed {
			return nil
		}
		return tea.Batch(m.fetch(), restore)

	case filter.RestoreFocusMsg:
		return m.restorer.Handle(msg, m.local)

	case tuimsg.PageLoadedMsg:
		return m.handlePageLoaded(msg)

	case count.LoadedMsg:
		m.counter.Handle(msg)
		return nil

	case spinner.TickMsg:
		if !m.pages.loading {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case tuimsg.StatusMsg:
		return m.setStatus(msg.Text, false)

	case tuimsg.ErrMsg:
		return m.handleError("operation", msg.Err)

	case tuimsg.ClearStatusMsg:
		if msg.ID == m.statusID {
			m.status = ""
			m.statusErr = false
		}
		return nil

	case tuimsg.ConfigReloadedMsg:
		m.applyConfig(msg.Config)
		return tea.Batch(m.setStatus("config reloaded", false), tuimsg.Listen(m.updates))

	case tuimsg.ConfigErrorMsg:
		m.logger.Warn("config change rejected", "error", msg.Err)
		return tea.Batch(m.setStatus("config not reloaded: "+msg.Err.Error(), true), tuimsg.Listen(m.updates))
	}
	return nil
}

// handlePageLoaded applies the latest page, remounts the filter row and
// asks for focus to be restored on the rebuilt inputs.
func (m *Model) handlePageLoaded(msg tuimsg.PageLoadedMsg) tea.Cmd {
	if msg.Seq != m.pages.seq {
		m.logger.Debug("stale page dropped", "seq", msg.Seq, "latest", m.pages.seq)
		return nil
	}
	m.pages.loading = false
	if msg.Err != nil {
		return m.handleError("load page", msg.Err)
	}

	m.pages.current = msg.Page
	m.rebuildTable()
	m.rebuildFilterRow()
	return m.restorer.Request()
}

// handleError logs err and shows it in the status bar. An unauthorized
// response ends the session.
func (m *Model) handleError(op string, err error) tea.Cmd {
	// User-facing errors are explained in the status bar; anything else is
	// a bug and only the log has the detail.
	if errors.IsUserFacing(err) {
		m.logger.Warn(op+" failed", "error", err, "severity", errors.GetSeverity(err).String())
	} else {
		m.logger.Error(op+" failed", "error", err, "severity", errors.GetSeverity(err).String())
	}
	if errors.Is(err, errors.ErrUnauthorized) {
		m.bus.Publish(event.NewSessionEndedEvent(m.session.Username, "unauthorized"))
	}
	return m.setStatus(errors.Describe(err), true)
}

// applyConfig takes over the settings that can change while running.
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.cfg = cfg
	m.sync.SetQuiet(cfg.TUI.Debounce())
	m.dropdowns.setOffset(cfg.TUI.DropdownOffset)
	m.logger.Info("config reloaded",
		"debounce_ms", cfg.TUI.DebounceMs,
		"dropdown_offset", cfg.TUI.DropdownOffset)
	m.bus.Publish(event.NewConfigReloadedEvent(cfg.TUI.DebounceMs, cfg.TUI.DropdownOffset))
}

// quit tears everything down and ends the program.
func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.teardown()
	return tea.Quit
}

package filter

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Scheduler turns "deliver msg after d" into a command. The synchronizer and
// restorer never start timers themselves; cancellation is by ignoring
// messages whose generation is no longer current.
type Scheduler interface {
	After(d time.Duration, msg tea.Msg) tea.Cmd
}

// TickScheduler schedules with tea.Tick.
type TickScheduler struct{}

// After implements Scheduler.
func (TickScheduler) After(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// RenderDelay is the deferral used to let the next View settle before
// focus is restored.
const RenderDelay = 16 * time.Millisecond

// CommitDueMsg fires when a debounce window elapses.
type CommitDueMsg struct {
	Generation uint64
}

// RestoreFocusMsg fires when a deferred focus restoration is due.
type RestoreFocusMsg struct {
	Seq     uint64
	Attempt int
}

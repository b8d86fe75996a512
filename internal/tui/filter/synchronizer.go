package filter

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/procdash/internal/event"
	"github.com/Iron-Ham/procdash/internal/logging"
)

// DefaultQuiet is the debounce window between the last keystroke and the
// commit.
const DefaultQuiet = 500 * time.Millisecond

// pendingCommit is the single armed debounce: its generation and the local
// snapshot it will commit.
type pendingCommit struct {
	generation uint64
	snapshot   FieldSet
}

// SyncOptions wires a Synchronizer to the rest of the dashboard.
type SyncOptions struct {
	Quiet     time.Duration
	Scheduler Scheduler
	Tracker   *Tracker
	Inputs    InputLookup
	// SetPage is called with 0 exactly once per commit.
	SetPage  func(page int)
	Restorer *Restorer
	Bus      *event.Bus
	Logger   *logging.Logger
}

// Synchronizer promotes local filter edits into the committed filter set
// after a quiet period. At most one commit is pending at a time, and only
// the latest local state in a burst is ever committed.
type Synchronizer struct {
	quiet     time.Duration
	scheduler Scheduler
	tracker   *Tracker
	inputs    InputLookup
	setPage   func(int)
	restorer  *Restorer
	bus       *event.Bus
	logger    *logging.Logger

	committed  FieldSet
	pending    *pendingCommit
	generation uint64
	stopped    bool
}

// NewSynchronizer creates a Synchronizer with an empty committed set.
func NewSynchronizer(opts SyncOptions) *Synchronizer {
	if opts.Quiet < 0 {
		opts.Quiet = 0
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TickScheduler{}
	}
	if opts.Tracker == nil {
		opts.Tracker = NewTracker()
	}
	if opts.SetPage == nil {
		opts.SetPage = func(int) {}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	return &Synchronizer{
		quiet:     opts.Quiet,
		scheduler: opts.Scheduler,
		tracker:   opts.Tracker,
		inputs:    opts.Inputs,
		setPage:   opts.SetPage,
		restorer:  opts.Restorer,
		bus:       opts.Bus,
		logger:    opts.Logger.WithComponent("filter"),
		committed: FieldSet{},
	}
}

// Observe is called with the local filter set after every edit. When local
// diverges from the committed set and differs from what is already armed, it
// arms a fresh debounce and returns the command that will deliver it. When
// local matches the committed set again, any pending commit is cancelled.
func (s *Synchronizer) Observe(local FieldSet) tea.Cmd {
	if s.stopped {
		return nil
	}

	if !local.Diverges(s.committed) {
		if s.pending != nil {
			s.logger.Debug("pending commit cancelled, local matches committed",
				"generation", s.pending.generation)
			s.cancel()
		}
		return nil
	}

	if s.pending != nil && s.pending.snapshot.Equal(local) {
		return nil
	}

	s.generation++
	s.pending = &pendingCommit{generation: s.generation, snapshot: local.Clone()}
	s.logger.Debug("commit armed",
		"generation", s.generation,
		"changed", len(local.Changed(s.committed)),
		"quiet_ms", s.quiet.Milliseconds())

	return s.scheduler.After(s.quiet, CommitDueMsg{Generation: s.generation})
}

// HandleCommitDue applies the pending commit if msg belongs to it. Messages
// from superseded or cancelled generations, or arriving after Stop, are
// ignored. It reports whether a commit happened, plus the follow-up command
// restoring focus.
func (s *Synchronizer) HandleCommitDue(msg CommitDueMsg) (bool, tea.Cmd) {
	if s.stopped || s.pending == nil || msg.Generation != s.pending.generation {
		return false, nil
	}

	snapshot := s.pending.snapshot
	s.pending = nil

	token, focused := s.captureFocus()

	s.committed = snapshot
	s.setPage(0)

	s.logger.Debug("filters committed",
		"generation", msg.Generation,
		"fields", len(snapshot),
		"focused", string(token.Field),
		"caret", token.Caret)

	s.bus.Publish(event.NewFilterCommittedEvent(snapshot.Strings(), string(token.Field), token.Caret, msg.Generation))

	if !focused || s.restorer == nil {
		return true, nil
	}
	return true, s.restorer.Request()
}

// captureFocus refreshes the tracked caret from the live input before the
// commit invalidates it.
func (s *Synchronizer) captureFocus() (FocusToken, bool) {
	token, ok := s.tracker.Current()
	if !ok {
		return FocusToken{}, false
	}
	if s.inputs != nil {
		if in, found := s.inputs.Lookup(token.Field); found && in.Focused() {
			token.Caret = in.Position()
			s.tracker.SetCaret(token.Caret)
		}
	}
	return token, true
}

func (s *Synchronizer) cancel() {
	s.pending = nil
	s.generation++
}

// Committed returns a copy of the committed filter set.
func (s *Synchronizer) Committed() FieldSet {
	return s.committed.Clone()
}

// Pending reports whether a commit is armed.
func (s *Synchronizer) Pending() bool {
	return s.pending != nil
}

// SetQuiet changes the debounce window for commits armed from now on.
func (s *Synchronizer) SetQuiet(d time.Duration) {
	if d >= 0 {
		s.quiet = d
	}
}

// Quiet returns the debounce window.
func (s *Synchronizer) Quiet() time.Duration {
	return s.quiet
}

// Stop cancels any pending commit and makes every later call a no-op.
func (s *Synchronizer) Stop() {
	if s.stopped {
		return
	}
	s.cancel()
	s.stopped = true
	s.logger.Debug("synchronizer stopped")
}

package filter

import (
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/procdash/internal/logging"
)

// DefaultRestoreAttempts bounds how often a restoration re-queries for an
// input that does not exist yet.
const DefaultRestoreAttempts = 5

// RestoreOptions wires a Restorer.
type RestoreOptions struct {
	Scheduler   Scheduler
	Tracker     *Tracker
	Inputs      InputLookup
	Delay       time.Duration
	MaxAttempts int
	Logger      *logging.Logger
}

// Restorer puts keyboard focus and caret back on the input named by the
// current FocusToken after the filter row has been rebuilt.
type Restorer struct {
	scheduler   Scheduler
	tracker     *Tracker
	inputs      InputLookup
	delay       time.Duration
	maxAttempts int
	logger      *logging.Logger

	seq     uint64
	stopped bool
}

// NewRestorer creates a Restorer.
func NewRestorer(opts RestoreOptions) *Restorer {
	if opts.Scheduler == nil {
		opts.Scheduler = TickScheduler{}
	}
	if opts.Tracker == nil {
		opts.Tracker = NewTracker()
	}
	if opts.Delay <= 0 {
		opts.Delay = RenderDelay
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultRestoreAttempts
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	return &Restorer{
		scheduler:   opts.Scheduler,
		tracker:     opts.Tracker,
		inputs:      opts.Inputs,
		delay:       opts.Delay,
		maxAttempts: opts.MaxAttempts,
		logger:      opts.Logger.WithComponent("focus"),
	}
}

// SetInputs swaps the lookup the restorer queries.
func (r *Restorer) SetInputs(inputs InputLookup) {
	r.inputs = inputs
}

// Request schedules a restoration one render later. A newer request
// supersedes any older one still in flight.
func (r *Restorer) Request() tea.Cmd {
	if r.stopped {
		return nil
	}
	r.seq++
	return r.scheduler.After(r.delay, RestoreFocusMsg{Seq: r.seq, Attempt: 1})
}

// Handle performs the restoration msg was scheduled for, using the token
// current now rather than when it was requested. local is the locally
// tracked filter set. Restoration is skipped silently when nothing is
// focused, when the input never appears, or when the rendered value no
// longer equals the local value.
func (r *Restorer) Handle(msg RestoreFocusMsg, local FieldSet) tea.Cmd {
	if r.stopped || msg.Seq != r.seq {
		return nil
	}

	token, ok := r.tracker.Current()
	if !ok {
		return nil
	}

	var in Input
	found := false
	if r.inputs != nil {
		in, found = r.inputs.Lookup(token.Field)
	}
	if !found {
		if msg.Attempt < r.maxAttempts {
			return r.scheduler.After(r.delay, RestoreFocusMsg{Seq: msg.Seq, Attempt: msg.Attempt + 1})
		}
		r.logger.Debug("restore skipped, input not found",
			logging.KeyField, string(token.Field),
			"attempts", msg.Attempt)
		return nil
	}

	value := in.Value()
	if value != local.Get(token.Field) {
		r.logger.Debug("restore skipped, rendered value differs", logging.KeyField, string(token.Field))
		return nil
	}

	caret := clampCaret(token.Caret, utf8.RuneCountInString(value))
	cmd := r.inputs.Focus(token.Field)
	in.SetCursor(caret)
	r.tracker.SetCaret(caret)
	return cmd
}

func clampCaret(caret, length int) int {
	return max(0, min(caret, length))
}

// Stop discards in-flight restorations.
func (r *Restorer) Stop() {
	r.stopped = true
	r.seq++
}

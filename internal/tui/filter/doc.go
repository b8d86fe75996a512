// Package filter keeps the purchase-request filter row consistent while the
// user types.
//
// Two [FieldSet] values exist at once: the local set, which echoes every
// keystroke, and the committed set, which drives the API query. The
// [Synchronizer] promotes local into committed after a quiet period (a
// trailing-edge debounce), resets pagination once per commit and asks the
// [Restorer] to put focus back where it was, because a commit refetches the
// page and the filter row is rebuilt when the page arrives.
//
// # Main Types
//
//   - [FieldID], [Columns]: the fixed enumeration of filterable columns
//   - [FieldSet]: field id to filter text
//   - [Tracker], [FocusToken]: which input has focus and where its caret is
//   - [InputRegistry]: the live textinputs, addressable by FieldID
//   - [Synchronizer]: debounced local to committed promotion
//   - [Restorer]: deferred focus and caret restoration
//   - [Scheduler]: delayed message delivery, [TickScheduler] in production
//
// # Timers
//
// Nothing in this package owns a timer. Delays are requested from a
// [Scheduler] as commands that deliver a [CommitDueMsg] or
// [RestoreFocusMsg]; a message whose generation or sequence number is no
// longer current is ignored, which is how timers are cancelled. Tests use a
// scheduler that records messages and deliver them by hand.
//
// # Usage
//
//	sync := filter.NewSynchronizer(filter.SyncOptions{
//	    Quiet:    cfg.TUI.Debounce(),
//	    Tracker:  tracker,
//	    Inputs:   inputs,
//	    SetPage:  m.setPage,
//	    Restorer: restorer,
//	})
//
//	// after every keystroke
//	cmd := sync.Observe(local)
//
//	// in Update
//	case filter.CommitDueMsg:
//	    committed, cmd := sync.HandleCommitDue(msg)
package filter

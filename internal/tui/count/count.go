// Package count loads the unfiltered purchase-request total shown in the
// dashboard header.
package count

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/procdash/internal/event"
	"github.com/Iron-Ham/procdash/internal/logging"
)

// Counter returns the number of records ignoring all filters.
type Counter interface {
	TotalCount(ctx context.Context) (int64, error)
}

// LoadedMsg carries the result of the one-shot fetch.
type LoadedMsg struct {
	Generation uint64
	Total      int64
	Err        error
}

// Loader fetches the total once per dashboard session. A failure is logged
// and leaves the published total unchanged; there is no retry.
type Loader struct {
	counter Counter
	bus     *event.Bus
	logger  *logging.Logger

	total      int64
	loaded     bool
	started    bool
	stopped    bool
	generation uint64
}

// NewLoader creates a loader publishing initial until the fetch succeeds.
func NewLoader(counter Counter, initial int64, bus *event.Bus, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Loader{
		counter: counter,
		bus:     bus,
		logger:  logger.WithComponent("count"),
		total:   initial,
	}
}

// Init returns the command performing the fetch. Only the first call does
// anything.
func (l *Loader) Init() tea.Cmd {
	if l.started || l.stopped || l.counter == nil {
		return nil
	}
	l.started = true
	l.generation++
	gen := l.generation
	counter := l.counter

	return func() tea.Msg {
		total, err := counter.TotalCount(context.Background())
		return LoadedMsg{Generation: gen, Total: total, Err: err}
	}
}

// Handle applies msg and reports whether the published total changed.
// Results arriving after Stop are dropped.
func (l *Loader) Handle(msg LoadedMsg) bool {
	if l.stopped || msg.Generation != l.generation {
		l.logger.Debug("stale count result dropped", "generation", msg.Generation)
		return false
	}

	if msg.Err != nil {
		l.logger.Error("total count failed", "error", msg.Err.Error())
		l.bus.Publish(event.NewCountFailedEvent(msg.Err))
		return false
	}

	changed := !l.loaded || l.total != msg.Total
	l.total = msg.Total
	l.loaded = true
	l.logger.Debug("total count loaded", "total", msg.Total)
	l.bus.Publish(event.NewCountLoadedEvent(msg.Total))
	return changed
}

// Total returns the published count.
func (l *Loader) Total() int64 {
	return l.total
}

// Loaded reports whether a fetch has succeeded.
func (l *Loader) Loaded() bool {
	return l.loaded
}

// Stop makes any in-flight result a no-op.
func (l *Loader) Stop() {
	l.stopped = true
	l.generation++
}

package dropdown

import (
	"slices"

	"github.com/Iron-Ham/procdash/internal/event"
	"github.com/Iron-Ham/procdash/internal/logging"
	"github.com/Iron-Ham/procdash/internal/tui/pointer"
)

// Descriptor is what a dropdown's owner tells the dispatcher about it.
// Selector names the regions (trigger and panel, comma-separated) a click
// may land in without closing the dropdown.
type Descriptor struct {
	ID       string
	Open     bool
	Close    func()
	Selector string
}

// HitTester resolves selectors against the last render.
type HitTester interface {
	Contains(selector string, x, y int) bool
}

// Dispatcher closes open dropdowns on pointer-downs outside them. It holds
// a listener on the pointer router only while at least one descriptor is
// open.
type Dispatcher struct {
	router *pointer.Router
	hits   HitTester
	bus    *event.Bus
	logger *logging.Logger

	descriptors []Descriptor
	detach      func()
	stopped     bool
}

// NewDispatcher creates a detached dispatcher.
func NewDispatcher(router *pointer.Router, hits HitTester, bus *event.Bus, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Dispatcher{
		router: router,
		hits:   hits,
		bus:    bus,
		logger: logger.WithComponent("dropdown"),
	}
}

// Sync replaces the descriptor set with the owners' current state and
// attaches or detaches the global listener accordingly. Owners call it
// after every change to their open state.
func (d *Dispatcher) Sync(descs ...Descriptor) {
	if d.stopped {
		return
	}
	d.descriptors = append(d.descriptors[:0], descs...)

	anyOpen := false
	for _, desc := range d.descriptors {
		if desc.Open {
			anyOpen = true
			break
		}
	}

	switch {
	case anyOpen && d.detach == nil:
		d.detach = d.router.Add(d.handle)
		d.logger.Debug("outside-dismiss listener attached")
	case !anyOpen && d.detach != nil:
		d.detach()
		d.detach = nil
		d.logger.Debug("outside-dismiss listener detached")
	}
}

// Attached reports whether the global listener is registered.
func (d *Dispatcher) Attached() bool {
	return d.detach != nil
}

// handle evaluates every open descriptor on its own, so one click can close
// several unrelated dropdowns while leaving the one it landed in open.
func (d *Dispatcher) handle(ev pointer.Event) {
	if d.stopped {
		return
	}
	// Close may call back into Sync.
	for _, desc := range slices.Clone(d.descriptors) {
		if !desc.Open || desc.Close == nil {
			continue
		}
		if d.hits != nil && d.hits.Contains(desc.Selector, ev.X, ev.Y) {
			continue
		}
		desc.Close()
		d.logger.Debug("dropdown dismissed", "dropdown", desc.ID, "x", ev.X, "y", ev.Y)
		d.bus.Publish(event.NewDropdownDismissedEvent(desc.ID, event.DismissOutside))
	}
}

// Stop detaches the listener for good.
func (d *Dispatcher) Stop() {
	if d.detach != nil {
		d.detach()
		d.detach = nil
	}
	d.descriptors = nil
	d.stopped = true
}

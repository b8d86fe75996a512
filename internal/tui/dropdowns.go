package tui

import (
	"github.com/Iron-Ham/procdash/internal/event"
	"github.com/Iron-Ham/procdash/internal/logging"
	"github.com/Iron-Ham/procdash/internal/tui/dropdown"
	"github.com/Iron-Ham/procdash/internal/tui/pointer"
	"github.com/Iron-Ham/procdash/internal/tui/region"
)

// Dropdown ids, also used in region ids and events.
const (
	dropdownPageSize = "page-size"
	dropdownColumns  = "columns"
)

func triggerRegion(id string) string { return "trigger:" + id }
func panelRegion(id string) string   { return "panel:" + id }

// dropdowns owns the toolbar's two panels and their outside-click
// dismissal. At most one panel is open at a time; cursor is the
// highlighted item of the open one.
type dropdowns struct {
	regions    *region.Registry
	dispatcher *dropdown.Dispatcher
	bus        *event.Bus
	logger     *logging.Logger

	order  []string
	panels map[string]*dropdown.Positioner
	cursor int
}

func newDropdowns(regions *region.Registry, router *pointer.Router, sc *scroll, offset int, bus *event.Bus, logger *logging.Logger) *dropdowns {
	if logger == nil {
		logger = logging.NopLogger()
	}
	scrollFn := dropdown.ScrollFunc(func() (int, int) { return sc.x, sc.y })
	d := &dropdowns{
		regions:    regions,
		dispatcher: dropdown.NewDispatcher(router, regions, bus, logger),
		bus:        bus,
		logger:     logger.WithComponent("dropdown"),
		order:      []string{dropdownPageSize, dropdownColumns},
		panels:     make(map[string]*dropdown.Positioner),
	}
	for _, id := range d.order {
		d.panels[id] = dropdown.NewPositioner(triggerRegion(id), regions, scrollFn, offset)
	}
	return d
}

func (d *dropdowns) get(id string) *dropdown.Positioner {
	return d.panels[id]
}

func (d *dropdowns) anyOpen() bool {
	_, ok := d.openID()
	return ok
}

// openID returns the open dropdown, if any.
func (d *dropdowns) openID() (string, bool) {
	for _, id := range d.order {
		if d.panels[id].IsOpen() {
			return id, true
		}
	}
	return "", false
}

// toggle opens id with the cursor on item cursor, closing any other open
// panel, or closes id if it is already open.
func (d *dropdowns) toggle(id string, cursor int) {
	p := d.panels[id]
	if p == nil {
		return
	}
	if p.IsOpen() {
		d.close(id, event.DismissToggle)
		return
	}
	for _, other := range d.order {
		if other != id && d.panels[other].IsOpen() {
			d.close(other, event.DismissToggle)
		}
	}
	p.Open()
	d.cursor = cursor
	d.logger.Debug("dropdown opened", "dropdown", id)
	d.resync()
}

// close closes id and announces why.
func (d *dropdowns) close(id, reason string) {
	p := d.panels[id]
	if p == nil || !p.IsOpen() {
		return
	}
	d.closeQuietly(id)
	d.bus.Publish(event.NewDropdownDismissedEvent(id, reason))
	d.resync()
}

func (d *dropdowns) closeAll(reason string) {
	for _, id := range d.order {
		d.close(id, reason)
	}
}

func (d *dropdowns) closeQuietly(id string) {
	d.panels[id].Close()
	d.regions.Remove(panelRegion(id))
}

// moveCursor moves the highlight by delta within n items, clamped.
func (d *dropdowns) moveCursor(delta, n int) {
	if n <= 0 {
		d.cursor = 0
		return
	}
	d.cursor = max(0, min(d.cursor+delta, n-1))
}

// resync tells the dispatcher the current open states.
func (d *dropdowns) resync() {
	descs := make([]dropdown.Descriptor, 0, len(d.order))
	for _, id := range d.order {
		descs = append(descs, dropdown.Descriptor{
			ID:   id,
			Open: d.panels[id].IsOpen(),
			Close: func() {
				d.closeQuietly(id)
				d.resync()
			},
			Selector: triggerRegion(id) + "," + panelRegion(id),
		})
	}
	d.dispatcher.Sync(descs...)
}

func (d *dropdowns) recalculate() {
	for _, id := range d.order {
		d.panels[id].Recalculate()
	}
}

func (d *dropdowns) setOffset(offset int) {
	for _, id := range d.order {
		d.panels[id].SetOffset(offset)
	}
}

// stop detaches the outside-click listener and closes every panel
// without events.
func (d *dropdowns) stop() {
	d.dispatcher.Stop()
	for _, id := range d.order {
		d.closeQuietly(id)
	}
}

package dropdown

import (
	"testing"

	"github.com/Iron-Ham/procdash/internal/event"
	"github.com/Iron-Ham/procdash/internal/tui/pointer"
	"github.com/Iron-Ham/procdash/internal/tui/region"
)

// fakeDropdown is a minimal dropdown owner.
type fakeDropdown struct {
	id     string
	open   bool
	closes int
}

func (f *fakeDropdown) descriptor() Descriptor {
	return Descriptor{
		ID:       f.id,
		Open:     f.open,
		Close:    func() { f.open = false; f.closes++ },
		Selector: f.id + ".trigger," + f.id + ".panel",
	}
}

func newDispatcherHarness() (*Dispatcher, *pointer.Router, *region.Registry) {
	router := pointer.NewRouter()
	regions := region.NewRegistry()
	regions.Set("a.trigger", region.Rect{X: 0, Y: 0, W: 10, H: 1})
	regions.Set("a.panel", region.Rect{X: 0, Y: 2, W: 10, H: 5})
	regions.Set("b.trigger", region.Rect{X: 20, Y: 0, W: 10, H: 1})
	regions.Set("b.panel", region.Rect{X: 20, Y: 2, W: 10, H: 5})
	return NewDispatcher(router, regions, nil, nil), router, regions
}

func TestDispatcher_AttachesOnlyWhileOpen(t *testing.T) {
	d, router, _ := newDispatcherHarness()
	a := &fakeDropdown{id: "a"}

	d.Sync(a.descriptor())
	if d.Attached() || router.Len() != 0 {
		t.Fatal("listener attached with nothing open")
	}

	a.open = true
	d.Sync(a.descriptor())
	d.Sync(a.descriptor())
	if !d.Attached() || router.Len() != 1 {
		t.Fatalf("listener count = %d, want exactly 1", router.Len())
	}

	a.open = false
	d.Sync(a.descriptor())
	if d.Attached() || router.Len() != 0 {
		t.Errorf("listener not detached, router has %d", router.Len())
	}
}

func TestDispatcher_OutsideClickClosesAll(t *testing.T) {
	d, router, _ := newDispatcherHarness()
	a := &fakeDropdown{id: "a", open: true}
	b := &fakeDropdown{id: "b", open: true}
	d.Sync(a.descriptor(), b.descriptor())

	router.Dispatch(pointer.Event{X: 50, Y: 20, Button: pointer.ButtonLeft})

	if a.open || b.open {
		t.Errorf("open after outside click: a=%v b=%v", a.open, b.open)
	}
}

func TestDispatcher_InsideClickKeepsOwnerOpen(t *testing.T) {
	tests := []struct {
		name string
		x, y int
	}{
		{"on a's trigger", 3, 0},
		{"inside a's panel", 5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, router, _ := newDispatcherHarness()
			a := &fakeDropdown{id: "a", open: true}
			b := &fakeDropdown{id: "b", open: true}
			d.Sync(a.descriptor(), b.descriptor())

			router.Dispatch(pointer.Event{X: tt.x, Y: tt.y, Button: pointer.ButtonLeft})

			if !a.open {
				t.Error("a closed by a click inside it")
			}
			if b.open {
				t.Error("b should close on a click outside it")
			}
		})
	}
}

func TestDispatcher_ClosedDescriptorsIgnored(t *testing.T) {
	d, router, _ := newDispatcherHarness()
	a := &fakeDropdown{id: "a", open: true}
	b := &fakeDropdown{id: "b"}
	d.Sync(a.descriptor(), b.descriptor())

	router.Dispatch(pointer.Event{X: 50, Y: 20})

	if b.closes != 0 {
		t.Errorf("closed dropdown b had Close called %d times", b.closes)
	}
	if a.closes != 1 {
		t.Errorf("a.closes = %d, want 1", a.closes)
	}
}

func TestDispatcher_PublishesDismissal(t *testing.T) {
	router := pointer.NewRouter()
	bus := event.NewBus()
	var got []event.DropdownDismissedEvent
	bus.Subscribe(event.TypeDropdownDismissed, func(e event.Event) {
		got = append(got, e.(event.DropdownDismissedEvent))
	})
	d := NewDispatcher(router, region.NewRegistry(), bus, nil)
	a := &fakeDropdown{id: "a", open: true}
	d.Sync(a.descriptor())

	router.Dispatch(pointer.Event{X: 1, Y: 1})

	if len(got) != 1 || got[0].Dropdown != "a" || got[0].Reason != event.DismissOutside {
		t.Errorf("events = %+v", got)
	}
}

func TestDispatcher_CloseResyncs(t *testing.T) {
	d, router, _ := newDispatcherHarness()
	a := &fakeDropdown{id: "a", open: true}
	b := &fakeDropdown{id: "b", open: true}

	// Owners that re-sync from inside Close, as the dashboard model does.
	var sync func()
	descA := a.descriptor()
	descB := b.descriptor()
	closeA, closeB := descA.Close, descB.Close
	descA.Close = func() { closeA(); sync() }
	descB.Close = func() { closeB(); sync() }
	sync = func() {
		da, db := a.descriptor(), b.descriptor()
		da.Close, db.Close = descA.Close, descB.Close
		d.Sync(da, db)
	}
	d.Sync(descA, descB)

	router.Dispatch(pointer.Event{X: 50, Y: 20})

	if a.open || b.open {
		t.Errorf("a=%v b=%v, want both closed", a.open, b.open)
	}
	if d.Attached() {
		t.Error("listener should detach once everything is closed")
	}
}

func TestDispatcher_Stop(t *testing.T) {
	d, router, _ := newDispatcherHarness()
	a := &fakeDropdown{id: "a", open: true}
	d.Sync(a.descriptor())

	d.Stop()
	if router.Len() != 0 {
		t.Fatalf("router has %d listeners after Stop", router.Len())
	}

	d.Sync(a.descriptor())
	if d.Attached() {
		t.Error("Sync after Stop re-attached")
	}
	router.Dispatch(pointer.Event{X: 50, Y: 20})
	if !a.open {
		t.Error("dispatch after Stop closed a dropdown")
	}
}

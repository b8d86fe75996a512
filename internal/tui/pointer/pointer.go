// Package pointer fans out global pointer-down events to whoever is
// listening. It is the terminal counterpart of a document-level mousedown
// listener: listeners are added and removed at runtime and the router holds
// none when nobody cares.
package pointer

import tea "github.com/charmbracelet/bubbletea"

// Button identifies the pressed mouse button.
type Button int

// Buttons that produce pointer-down events.
const (
	ButtonLeft Button = iota + 1
	ButtonMiddle
	ButtonRight
)

// Event is a pointer-down at screen cell (X, Y).
type Event struct {
	X, Y   int
	Button Button
}

// FromMouse converts a Bubble Tea mouse message. Only presses of the left,
// middle and right buttons are pointer-down events; motion, release and
// wheel messages are not.
func FromMouse(msg tea.MouseMsg) (Event, bool) {
	if msg.Action != tea.MouseActionPress {
		return Event{}, false
	}
	var b Button
	switch msg.Button {
	case tea.MouseButtonLeft:
		b = ButtonLeft
	case tea.MouseButtonMiddle:
		b = ButtonMiddle
	case tea.MouseButtonRight:
		b = ButtonRight
	default:
		return Event{}, false
	}
	return Event{X: msg.X, Y: msg.Y, Button: b}, true
}

// Listener receives pointer-down events.
type Listener func(Event)

type entry struct {
	id int
	fn Listener
}

// Router delivers every dispatched event to the registered listeners in
// registration order.
type Router struct {
	nextID    int
	listeners []entry
}

// NewRouter returns a router with no listeners.
func NewRouter() *Router {
	return &Router{}
}

// Add registers l and returns the function removing it. Calling the
// remover more than once is harmless.
func (r *Router) Add(l Listener) (remove func()) {
	r.nextID++
	id := r.nextID
	r.listeners = append(r.listeners, entry{id: id, fn: l})

	return func() {
		for i, e := range r.listeners {
			if e.id == id {
				r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers ev. Listeners added or removed by a listener take
// effect from the next event.
func (r *Router) Dispatch(ev Event) {
	snapshot := append([]entry(nil), r.listeners...)
	for _, e := range snapshot {
		e.fn(ev)
	}
}

// Len returns the number of registered listeners.
func (r *Router) Len() int {
	return len(r.listeners)
}

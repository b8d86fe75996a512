package filter

import (
	"slices"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Input is the part of a rendered text input the synchronizer and restorer
// need. *textinput.Model satisfies it.
type Input interface {
	Value() string
	Position() int
	SetCursor(pos int)
	Focused() bool
}

// InputLookup finds live inputs by field id and moves focus between them.
type InputLookup interface {
	Lookup(id FieldID) (Input, bool)
	Focus(id FieldID) tea.Cmd
}

// InputRegistry owns one textinput per visible filter field.
type InputRegistry struct {
	order  []FieldID
	inputs map[FieldID]*textinput.Model
	width  int
}

// NewInputRegistry returns an empty registry.
func NewInputRegistry() *InputRegistry {
	return &InputRegistry{inputs: make(map[FieldID]*textinput.Model)}
}

// Rebuild throws away every input and creates fresh, unfocused ones for
// fields, seeded from values with the caret at the end. Any focus held by
// the old inputs is lost; restoring it is the Restorer's job.
func (r *InputRegistry) Rebuild(fields []FieldID, values FieldSet) {
	r.order = slices.Clone(fields)
	r.inputs = make(map[FieldID]*textinput.Model, len(fields))

	for _, id := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		if c, ok := Lookup(id); ok {
			ti.Placeholder = c.Label
			ti.Width = c.Width
		}
		if r.width > 0 {
			ti.Width = r.width
		}
		ti.SetValue(values.Get(id))
		ti.CursorEnd()
		r.inputs[id] = &ti
	}
}

// SetWidth fixes every input to w cells. Zero restores per-column widths on
// the next Rebuild.
func (r *InputRegistry) SetWidth(w int) {
	r.width = w
	for _, ti := range r.inputs {
		if w > 0 {
			ti.Width = w
		}
	}
}

// Lookup implements InputLookup.
func (r *InputRegistry) Lookup(id FieldID) (Input, bool) {
	ti, ok := r.inputs[id]
	if !ok {
		return nil, false
	}
	return ti, true
}

// Get returns the textinput for id, or nil.
func (r *InputRegistry) Get(id FieldID) *textinput.Model {
	return r.inputs[id]
}

// Focus implements InputLookup. Every other input is blurred.
func (r *InputRegistry) Focus(id FieldID) tea.Cmd {
	target, ok := r.inputs[id]
	if !ok {
		return nil
	}
	for other, ti := range r.inputs {
		if other != id {
			ti.Blur()
		}
	}
	return target.Focus()
}

// BlurAll removes focus from every input.
func (r *InputRegistry) BlurAll() {
	for _, ti := range r.inputs {
		ti.Blur()
	}
}

// Focused returns the focused input, if any.
func (r *InputRegistry) Focused() (FieldID, *textinput.Model, bool) {
	for _, id := range r.order {
		if ti := r.inputs[id]; ti.Focused() {
			return id, ti, true
		}
	}
	return "", nil, false
}

// Fields returns the registered field ids in display order.
func (r *InputRegistry) Fields() []FieldID {
	return slices.Clone(r.order)
}

// Values reads the current text of every input.
func (r *InputRegistry) Values() FieldSet {
	out := make(FieldSet, len(r.inputs))
	for id, ti := range r.inputs {
		if v := ti.Value(); v != "" {
			out[id] = v
		}
	}
	return out
}

// Next returns the field delta positions after from, wrapping around. If
// from is not registered the first (or last, for negative delta) field is
// returned.
func (r *InputRegistry) Next(from FieldID, delta int) (FieldID, bool) {
	n := len(r.order)
	if n == 0 {
		return "", false
	}
	i := slices.Index(r.order, from)
	if i < 0 {
		if delta < 0 {
			return r.order[n-1], true
		}
		return r.order[0], true
	}
	return r.order[((i+delta)%n+n)%n], true
}

// Update forwards msg to the input for id.
func (r *InputRegistry) Update(id FieldID, msg tea.Msg) tea.Cmd {
	ti, ok := r.inputs[id]
	if !ok {
		return nil
	}
	updated, cmd := ti.Update(msg)
	*ti = updated
	return cmd
}

// Package region records where things were drawn on screen so pointer
// events can be hit-tested against them.
//
// The render pass calls [Registry.Set] for every element that pointer
// handling cares about (dropdown triggers and panels, filter inputs). Rects
// are in screen cells, relative to the top-left corner of the terminal, the
// same space tea.MouseMsg coordinates use.
package region

import "strings"

// Rect is a screen rectangle in cells. The zero Rect is empty.
type Rect struct {
	X, Y int
	W, H int
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	if r.Empty() {
		return false
	}
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Right is the first column past r.
func (r Rect) Right() int { return r.X + r.W }

// Bottom is the first row below r.
func (r Rect) Bottom() int { return r.Y + r.H }

// Registry maps region ids to the rect they occupied in the last render.
type Registry struct {
	rects map[string]Rect
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rects: make(map[string]Rect)}
}

// Set records the rect for id, replacing any previous one.
func (r *Registry) Set(id string, rect Rect) {
	r.rects[id] = rect
}

// Lookup returns the rect recorded for id.
func (r *Registry) Lookup(id string) (Rect, bool) {
	rect, ok := r.rects[id]
	return rect, ok
}

// Remove forgets id.
func (r *Registry) Remove(id string) {
	delete(r.rects, id)
}

// Reset forgets every region. Called at the start of a render pass so
// elements that are no longer drawn stop matching.
func (r *Registry) Reset() {
	clear(r.rects)
}

// Len returns the number of recorded regions.
func (r *Registry) Len() int {
	return len(r.rects)
}

// Contains reports whether (x, y) lies in any region named by selector, a
// comma-separated list of ids ("pagesize.trigger,pagesize.panel"). Unknown
// ids never match.
func (r *Registry) Contains(selector string, x, y int) bool {
	for id := range strings.SplitSeq(selector, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if rect, ok := r.rects[id]; ok && rect.Contains(x, y) {
			return true
		}
	}
	return false
}

// At returns the ids whose rect contains (x, y), in no particular order.
func (r *Registry) At(x, y int) []string {
	var ids []string
	for id, rect := range r.rects {
		if rect.Contains(x, y) {
			ids = append(ids, id)
		}
	}
	return ids
}

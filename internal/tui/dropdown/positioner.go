// Package dropdown positions floating panels under their trigger and closes
// them when the user clicks elsewhere.
//
// A [Positioner] owns one panel's open state and its document position. A
// [Dispatcher] watches global pointer-downs while at least one panel is
// open and closes every open panel the click landed outside of. The two are
// independent of the filter pipeline; neither touches keyboard focus.
package dropdown

import "github.com/Iron-Ham/procdash/internal/tui/region"

// Position is the top-left cell of a panel in document coordinates, i.e.
// screen coordinates plus the page scroll offset.
type Position struct {
	Top  int
	Left int
}

// RectLookup finds where a trigger was last drawn.
type RectLookup interface {
	Lookup(id string) (region.Rect, bool)
}

// ScrollSource reports the current page scroll offset in cells.
type ScrollSource interface {
	ScrollOffset() (x, y int)
}

// ScrollFunc adapts a function to ScrollSource.
type ScrollFunc func() (x, y int)

// ScrollOffset implements ScrollSource.
func (f ScrollFunc) ScrollOffset() (int, int) { return f() }

// Positioner keeps one dropdown panel anchored below its trigger.
type Positioner struct {
	trigger string
	rects   RectLookup
	scroll  ScrollSource
	offset  int

	open bool
	pos  *Position
}

// NewPositioner anchors a panel to the region named trigger. offset is the
// number of rows between the trigger's bottom edge and the panel.
func NewPositioner(trigger string, rects RectLookup, scroll ScrollSource, offset int) *Positioner {
	if scroll == nil {
		scroll = ScrollFunc(func() (int, int) { return 0, 0 })
	}
	return &Positioner{
		trigger: trigger,
		rects:   rects,
		scroll:  scroll,
		offset:  offset,
	}
}

// Trigger returns the region id the panel is anchored to.
func (p *Positioner) Trigger() string {
	return p.trigger
}

// Open opens the panel and computes its position from the trigger's
// current rect.
func (p *Positioner) Open() {
	p.open = true
	p.Recalculate()
}

// Close closes the panel and forgets its position.
func (p *Positioner) Close() {
	p.open = false
	p.pos = nil
}

// Toggle flips the open state and reports the new one.
func (p *Positioner) Toggle() bool {
	if p.open {
		p.Close()
	} else {
		p.Open()
	}
	return p.open
}

// IsOpen reports whether the panel is open.
func (p *Positioner) IsOpen() bool {
	return p.open
}

// Recalculate re-reads the trigger rect and scroll offset. Call it after
// scrolling, resizing or anything else that moves the trigger. A closed
// panel, or one whose trigger is not on screen, has no position.
func (p *Positioner) Recalculate() {
	if !p.open {
		p.pos = nil
		return
	}

	var rect region.Rect
	ok := false
	if p.rects != nil {
		rect, ok = p.rects.Lookup(p.trigger)
	}
	if !ok || rect.Empty() {
		p.pos = nil
		return
	}

	sx, sy := p.scroll.ScrollOffset()
	p.pos = &Position{
		Top:  rect.Bottom() + sy + p.offset,
		Left: rect.X + sx,
	}
}

// Position returns where the panel should be drawn. ok is false when the
// panel must not be drawn at all.
func (p *Positioner) Position() (pos Position, ok bool) {
	if !p.open || p.pos == nil {
		return Position{}, false
	}
	return *p.pos, true
}

// SetOffset changes the gap below the trigger and repositions an open
// panel.
func (p *Positioner) SetOffset(offset int) {
	p.offset = max(offset, 0)
	p.Recalculate()
}

// Offset returns the gap below the trigger.
func (p *Positioner) Offset() int {
	return p.offset
}

package filter

// FocusToken records which filter input owns keyboard focus and where its
// caret is.
type FocusToken struct {
	Field FieldID
	Caret int
}

// Tracker holds the current FocusToken, if any. It is set on focus-in of a
// tracked input and cleared on an explicit blur. Rebuilding the inputs does
// not clear it.
type Tracker struct {
	token   FocusToken
	present bool
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Focus records that field gained focus with the caret at caret.
func (t *Tracker) Focus(field FieldID, caret int) {
	t.token = FocusToken{Field: field, Caret: caret}
	t.present = true
}

// SetCaret updates the caret of the focused field. It is a no-op when
// nothing is focused.
func (t *Tracker) SetCaret(caret int) {
	if t.present {
		t.token.Caret = caret
	}
}

// Blur clears the token.
func (t *Tracker) Blur() {
	t.token = FocusToken{}
	t.present = false
}

// Current returns the token and whether one is set.
func (t *Tracker) Current() (FocusToken, bool) {
	return t.token, t.present
}

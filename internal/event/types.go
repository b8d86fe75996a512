package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns "category.action", e.g. "filter.committed".
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeFilterCommitted   = "filter.committed"
	TypePageReset         = "page.reset"
	TypeCountLoaded       = "count.loaded"
	TypeCountFailed       = "count.failed"
	TypeDropdownDismissed = "dropdown.dismissed"
	TypeSessionStarted    = "session.started"
	TypeSessionEnded      = "session.ended"
	TypeConfigReloaded    = "config.reloaded"
)

// baseEvent provides common fields for all events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Filter Events
// -----------------------------------------------------------------------------

// FilterCommittedEvent is emitted when typed filter values become the
// committed query.
type FilterCommittedEvent struct {
	baseEvent
	Filters      map[string]string // Non-empty committed values by field id
	FocusedField string            // Field that held focus at commit time, if any
	Caret        int               // Caret offset captured from the live input
	Generation   uint64            // Debounce generation that fired
}

// NewFilterCommittedEvent creates a FilterCommittedEvent.
func NewFilterCommittedEvent(filters map[string]string, focusedField string, caret int, generation uint64) FilterCommittedEvent {
	return FilterCommittedEvent{
		baseEvent:    newBaseEvent(TypeFilterCommitted),
		Filters:      filters,
		FocusedField: focusedField,
		Caret:        caret,
		Generation:   generation,
	}
}

// PageResetEvent is emitted when the table is sent back to page 0.
type PageResetEvent struct {
	baseEvent
	Previous int    // Page index before the reset
	Reason   string // "filter" or "page_size"
}

// NewPageResetEvent creates a PageResetEvent.
func NewPageResetEvent(previous int, reason string) PageResetEvent {
	return PageResetEvent{
		baseEvent: newBaseEvent(TypePageReset),
		Previous:  previous,
		Reason:    reason,
	}
}

// -----------------------------------------------------------------------------
// Count Events
// -----------------------------------------------------------------------------

// CountLoadedEvent is emitted when the unfiltered total arrives.
type CountLoadedEvent struct {
	baseEvent
	Total int64
}

// NewCountLoadedEvent creates a CountLoadedEvent.
func NewCountLoadedEvent(total int64) CountLoadedEvent {
	return CountLoadedEvent{baseEvent: newBaseEvent(TypeCountLoaded), Total: total}
}

// CountFailedEvent is emitted when the total count request fails.
// The previously published count stays in place.
type CountFailedEvent struct {
	baseEvent
	Err error
}

// NewCountFailedEvent creates a CountFailedEvent.
func NewCountFailedEvent(err error) CountFailedEvent {
	return CountFailedEvent{baseEvent: newBaseEvent(TypeCountFailed), Err: err}
}

// -----------------------------------------------------------------------------
// Dropdown Events
// -----------------------------------------------------------------------------

// Dismissal reasons.
const (
	DismissOutside = "outside"
	DismissEscape  = "escape"
	DismissToggle  = "toggle"
	DismissSelect  = "select"
)

// DropdownDismissedEvent is emitted when an open dropdown closes.
type DropdownDismissedEvent struct {
	baseEvent
	Dropdown string // Dropdown name, e.g. "page-size"
	Reason   string // One of the Dismiss* constants
}

// NewDropdownDismissedEvent creates a DropdownDismissedEvent.
func NewDropdownDismissedEvent(dropdown, reason string) DropdownDismissedEvent {
	return DropdownDismissedEvent{
		baseEvent: newBaseEvent(TypeDropdownDismissed),
		Dropdown:  dropdown,
		Reason:    reason,
	}
}

// -----------------------------------------------------------------------------
// Session Events
// -----------------------------------------------------------------------------

// SessionStartedEvent is emitted after a successful login, or when the
// dashboard starts with a valid stored session.
type SessionStartedEvent struct {
	baseEvent
	Username  string
	ExpiresAt time.Time
}

// NewSessionStartedEvent creates a SessionStartedEvent.
func NewSessionStartedEvent(username string, expiresAt time.Time) SessionStartedEvent {
	return SessionStartedEvent{
		baseEvent: newBaseEvent(TypeSessionStarted),
		Username:  username,
		ExpiresAt: expiresAt,
	}
}

// SessionEndedEvent is emitted on logout or when the API rejects the token.
type SessionEndedEvent struct {
	baseEvent
	Username string
	Reason   string // "logout", "expired", "unauthorized"
}

// NewSessionEndedEvent creates a SessionEndedEvent.
func NewSessionEndedEvent(username, reason string) SessionEndedEvent {
	return SessionEndedEvent{
		baseEvent: newBaseEvent(TypeSessionEnded),
		Username:  username,
		Reason:    reason,
	}
}

// -----------------------------------------------------------------------------
// Config Events
// -----------------------------------------------------------------------------

// ConfigReloadedEvent is emitted when a changed config file has been applied
// to the running dashboard.
type ConfigReloadedEvent struct {
	baseEvent
	DebounceMs     int
	DropdownOffset int
}

// NewConfigReloadedEvent creates a ConfigReloadedEvent.
func NewConfigReloadedEvent(debounceMs, dropdownOffset int) ConfigReloadedEvent {
	return ConfigReloadedEvent{
		baseEvent:      newBaseEvent(TypeConfigReloaded),
		DebounceMs:     debounceMs,
		DropdownOffset: dropdownOffset,
	}
}

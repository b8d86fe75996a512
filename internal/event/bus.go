package event

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/Iron-Ham/procdash/internal/logging"
)

// Handler is a function that handles an event.
type Handler func(Event)

// Subscription identifies a registered handler. The zero value never
// identifies one.
type Subscription uint64

// AllEvents subscribes a handler to every event type.
const AllEvents = "*"

type subscription struct {
	id        Subscription
	eventType string
	handler   Handler
}

// Bus is a synchronous pub-sub event bus. Dashboard components announce
// state changes on it without knowing who listens; the commands attach the
// logger as a listener of everything.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription // registration order
	lastID Subscription
	logger *logging.Logger
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{logger: logging.NopLogger()}
}

// WithLogger sets the logger used to report panicking handlers.
func (b *Bus) WithLogger(l *logging.Logger) *Bus {
	if l != nil {
		b.logger = l.WithComponent("event")
	}
	return b
}

// Subscribe registers handler for eventType, or for every type when
// eventType is AllEvents.
func (b *Bus) Subscribe(eventType string, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastID++
	b.subs = append(b.subs, subscription{id: b.lastID, eventType: eventType, handler: handler})
	return b.lastID
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(handler Handler) Subscription {
	return b.Subscribe(AllEvents, handler)
}

// Unsubscribe removes a subscription. It reports whether id was registered.
func (b *Bus) Unsubscribe(id Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.id == id {
			// Copy so a Publish holding the old slice is unaffected.
			b.subs = append(append([]subscription(nil), b.subs[:i]...), b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish runs the handlers for event on the caller's goroutine: those
// subscribed to its type first, then the AllEvents handlers, each group in
// registration order. A panicking handler is logged and skipped.
// Publishing on a nil Bus is a no-op.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, sub := range subs {
		if sub.eventType == event.EventType() {
			b.call(sub.handler, event)
		}
	}
	for _, sub := range subs {
		if sub.eventType == AllEvents {
			b.call(sub.handler, event)
		}
	}
}

func (b *Bus) call(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"event", event.EventType(),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	handler(event)
}

// Clear removes all subscriptions.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = nil
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

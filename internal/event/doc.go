// Package event provides a pub-sub event bus for decoupled communication
// between procdash components.
//
// The filter synchronizer, count loader and dropdown dispatcher publish what
// they did; the dashboard command subscribes a wildcard handler that writes
// every event to the log, and the TUI model reacts to the ones it renders.
//
// # Main Types
//
//   - [Event]: Interface that all events implement (EventType, Timestamp)
//   - [Bus]: Synchronous pub-sub dispatcher, safe for concurrent use
//   - [Handler]: func(Event)
//
// # Event Types
//
//   - [FilterCommittedEvent] ("filter.committed")
//   - [PageResetEvent] ("page.reset")
//   - [CountLoadedEvent], [CountFailedEvent] ("count.loaded", "count.failed")
//   - [DropdownDismissedEvent] ("dropdown.dismissed")
//   - [SessionStartedEvent], [SessionEndedEvent] ("session.started", "session.ended")
//   - [ConfigReloadedEvent] ("config.reloaded")
//
// # Usage
//
//	bus := event.NewBus().WithLogger(logger)
//	bus.Subscribe(event.TypeCountLoaded, func(e event.Event) {
//	    total := e.(event.CountLoadedEvent).Total
//	    ...
//	})
//	bus.Publish(event.NewCountLoadedEvent(42))
//
// Handlers run synchronously on the publishing goroutine. Inside the TUI
// that is the Bubble Tea update loop, so handlers must not block.
package event

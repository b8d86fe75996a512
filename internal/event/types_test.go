package event

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/procdash/internal/logging"
)

func TestEventTypes(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{NewFilterCommittedEvent(nil, "", 0, 1), "filter.committed"},
		{NewPageResetEvent(3, "filter"), "page.reset"},
		{NewCountLoadedEvent(42), "count.loaded"},
		{NewCountFailedEvent(errors.New("boom")), "count.failed"},
		{NewDropdownDismissedEvent("columns", DismissOutside), "dropdown.dismissed"},
		{NewSessionStartedEvent("ana", time.Now()), "session.started"},
		{NewSessionEndedEvent("ana", "logout"), "session.ended"},
		{NewConfigReloadedEvent(300, 2), "config.reloaded"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.event.EventType(); got != tt.want {
				t.Errorf("EventType() = %q, want %q", got, tt.want)
			}
			if tt.event.Timestamp().IsZero() {
				t.Error("Timestamp() should be set")
			}
		})
	}
}

func TestBus_PanicIsLogged(t *testing.T) {
	var buf bytes.Buffer
	bus := NewBus().WithLogger(logging.NewWriterLogger(&buf, logging.LevelDebug))

	bus.Subscribe(TypeCountLoaded, func(Event) { panic("bad handler") })
	bus.Publish(NewCountLoadedEvent(7))

	out := buf.String()
	if !strings.Contains(out, "event handler panicked") || !strings.Contains(out, "bad handler") {
		t.Errorf("expected panic to be logged, got %q", out)
	}
	if !strings.Contains(out, `"component":"event"`) {
		t.Errorf("expected component attribute, got %q", out)
	}
}

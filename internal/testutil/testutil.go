// Package testutil provides testing utilities for procdash tests: a
// recording scheduler for timer-driven TUI components and an in-memory
// purchase-request API server.
package testutil

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Scheduled is one delayed message captured by a Scheduler.
type Scheduled struct {
	Delay time.Duration
	Msg   tea.Msg
}

// Scheduler records every After call instead of starting a timer. The
// returned command yields the message immediately, so tests either run the
// command or pull messages from the recorder and deliver them in whatever
// order the test needs.
type Scheduler struct {
	mu    sync.Mutex
	items []Scheduled
}

// NewScheduler returns an empty recording scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After records msg and returns a command producing it.
func (s *Scheduler) After(d time.Duration, msg tea.Msg) tea.Cmd {
	s.mu.Lock()
	s.items = append(s.items, Scheduled{Delay: d, Msg: msg})
	s.mu.Unlock()
	return func() tea.Msg { return msg }
}

// All returns everything scheduled so far.
func (s *Scheduler) All() []Scheduled {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Scheduled(nil), s.items...)
}

// Len returns the number of recorded messages.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Last returns the most recently scheduled message.
func (s *Scheduler) Last() (Scheduled, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return Scheduled{}, false
	}
	return s.items[len(s.items)-1], true
}

// Drain returns and forgets everything scheduled so far.
func (s *Scheduler) Drain() []Scheduled {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.items
	s.items = nil
	return out
}

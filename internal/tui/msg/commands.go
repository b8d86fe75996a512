package msg

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/procdash/internal/api"
)

// Lister fetches pages of purchase requests.
type Lister interface {
	List(ctx context.Context, q api.Query) (*api.Page, error)
}

// FetchPage returns a command that loads one page. The filters are cloned
// so later edits cannot leak into the request.
func FetchPage(l Lister, seq uint64, q api.Query) tea.Cmd {
	q.Filters = q.Filters.Clone()
	return func() tea.Msg {
		if l == nil {
			return PageLoadedMsg{Seq: seq, Query: q, Page: &api.Page{Number: q.Page, Size: q.Size}}
		}
		page, err := l.List(context.Background(), q)
		return PageLoadedMsg{Seq: seq, Query: q, Page: page, Err: err}
	}
}

// ClearStatusAfter returns a command clearing notice id after d.
func ClearStatusAfter(d time.Duration, id uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}

// Listen returns a command delivering the next message from ch. It yields
// nil once ch is closed. Re-issue it after every delivery to keep
// listening.
func Listen(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		m, ok := <-ch
		if !ok {
			return nil
		}
		return m
	}
}

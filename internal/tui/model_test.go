package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/procdash/internal/api"
	"github.com/Iron-Ham/procdash/internal/auth"
	"github.com/Iron-Ham/procdash/internal/config"
	"github.com/Iron-Ham/procdash/internal/errors"
	"github.com/Iron-Ham/procdash/internal/event"
	"github.com/Iron-Ham/procdash/internal/logging"
	"github.com/Iron-Ham/procdash/internal/testutil"
	"github.com/Iron-Ham/procdash/internal/tui/filter"
	tuimsg "github.com/Iron-Ham/procdash/internal/tui/msg"
)

type fakeClient struct {
	total    int64
	countErr error
	queries  []api.Query
}

func (f *fakeClient) List(_ context.Context, q api.Query) (*api.Page, error) {
	f.queries = append(f.queries, q)
	return samplePage(q.Size), nil
}

func (f *fakeClient) TotalCount(context.Context) (int64, error) {
	return f.total, f.countErr
}

func samplePage(n int) *api.Page {
	p := &api.Page{TotalElements: int64(n * 3), TotalPages: 3, Size: n}
	for i := range n {
		p.Content = append(p.Content, api.PurchaseRequest{
			ID:   api.Value(fmt.Sprint(i + 1)),
			Name: api.Value(fmt.Sprintf("Request %d", i+1)),
		})
	}
	return p
}

type harness struct {
	model  Model
	sched  *testutil.Scheduler
	bus    *event.Bus
	client *fakeClient
}

func newHarness(t *testing.T, width, height int) *harness {
	t.Helper()
	h := &harness{
		sched:  testutil.NewScheduler(),
		bus:    event.NewBus(),
		client: &fakeClient{total: 42},
	}
	h.model = NewModel(Options{
		Client:    h.client,
		Session:   auth.Session{Username: "buyer", ExpiresAt: time.Now().Add(time.Hour)},
		Bus:       h.bus,
		Scheduler: h.sched,
	})
	h.send(tea.WindowSizeMsg{Width: width, Height: height})
	h.send(tuimsg.PageLoadedMsg{Seq: h.model.pages.seq, Page: samplePage(5)})
	h.sched.Drain()
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// loadPage delivers a page of n rows for the latest fetch.
func (h *harness) loadPage(n int) {
	h.send(tuimsg.PageLoadedMsg{Seq: h.model.pages.seq, Page: samplePage(n)})
}

// press sends s as a single key event.
func (h *harness) press(s string) tea.Cmd {
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) key(k tea.KeyType) tea.Cmd {
	return h.send(tea.KeyMsg{Type: k})
}

func (h *harness) click(x, y int) tea.Cmd {
	return h.send(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

// scheduled returns the messages of type T scheduled since the last drain.
func scheduled[T any](h *harness) []T {
	var out []T
	for _, s := range h.sched.Drain() {
		if m, ok := s.Msg.(T); ok {
			out = append(out, m)
		}
	}
	return out
}

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel(Options{})

	if m.pages.size != config.Default().TUI.PageSize {
		t.Errorf("page size = %d, want %d", m.pages.size, config.Default().TUI.PageSize)
	}
	if got := len(m.inputs.Fields()); got != len(filter.Columns) {
		t.Errorf("filter inputs = %d, want %d", got, len(filter.Columns))
	}
	if m.sync.Quiet() != 500*time.Millisecond {
		t.Errorf("quiet = %v, want 500ms", m.sync.Quiet())
	}
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() before size = %q", got)
	}
}

func TestNewModel_HiddenColumnGlobs(t *testing.T) {
	cfg := config.Default()
	cfg.TUI.HiddenColumns = []string{"created-*", "updated-at"}
	m := NewModel(Options{Config: cfg})

	for _, id := range []filter.FieldID{filter.FieldCreatedAt, filter.FieldUpdatedAt} {
		if !m.hidden[id] {
			t.Errorf("%s should be hidden", id)
		}
		if _, ok := m.inputs.Lookup(id); ok {
			t.Errorf("%s should have no filter input", id)
		}
	}
	if m.hidden[filter.FieldCreation] {
		t.Error("creation-date does not match the patterns")
	}
}

func TestPageLoaded_DropsStaleResponses(t *testing.T) {
	h := newHarness(t, 200, 40)

	h.model.fetch()
	stale := h.model.pages.seq
	h.model.fetch()
	latest := h.model.pages.seq

	h.send(tuimsg.PageLoadedMsg{Seq: latest, Page: samplePage(7)})
	h.send(tuimsg.PageLoadedMsg{Seq: stale, Page: samplePage(2)})

	if got := len(h.model.table.Rows()); got != 7 {
		t.Errorf("rows = %d, want 7 from the latest response", got)
	}
	if h.model.pages.loading {
		t.Error("loading should be cleared by the latest response")
	}
}

func TestFetch_SendsCommittedFilters(t *testing.T) {
	h := newHarness(t, 200, 40)
	h.model.sync.Observe(filter.FieldSet{filter.FieldName: "desk"})
	for _, due := range scheduled[filter.CommitDueMsg](h) {
		h.send(due)
	}

	q := h.model.query()
	if q.Filters.Get(filter.FieldName) != "desk" {
		t.Errorf("query filters = %v", q.Filters)
	}
	if q.Page != 0 || q.Size != 20 {
		t.Errorf("query page/size = %d/%d", q.Page, q.Size)
	}
}

func TestCount_ShownInHeader(t *testing.T) {
	h := newHarness(t, 200, 40)
	if strings.Contains(h.model.renderHeader(), "42") {
		t.Fatal("total shown before it was loaded")
	}

	msg := h.model.counter.Init()()
	h.send(msg)

	if !h.model.counter.Loaded() {
		t.Fatal("count not loaded")
	}
	if !strings.Contains(h.model.renderHeader(), "42") {
		t.Errorf("header %q lacks the total", h.model.renderHeader())
	}
}

func TestCount_FailureKeepsPlaceholder(t *testing.T) {
	h := newHarness(t, 200, 40)
	h.client.countErr = errors.ErrRequestFailed

	var failed int
	h.bus.Subscribe(event.TypeCountFailed, func(event.Event) { failed++ })

	h.send(h.model.counter.Init()())

	if h.model.counter.Loaded() {
		t.Error("failed count should not mark the total loaded")
	}
	if failed != 1 {
		t.Errorf("count.failed events = %d, want 1", failed)
	}
	if !strings.Contains(h.model.renderHeader(), "…") {
		t.Error("header should keep the placeholder")
	}
}

func TestPageLoaded_UnauthorizedEndsSession(t *testing.T) {
	h := newHarness(t, 200, 40)

	var ended []event.SessionEndedEvent
	h.bus.Subscribe(event.TypeSessionEnded, func(e event.Event) {
		ended = append(ended, e.(event.SessionEndedEvent))
	})

	h.model.fetch()
	err := errors.NewAPIError("list purchase requests", errors.ErrUnauthorized).WithStatus(401)
	h.send(tuimsg.PageLoadedMsg{Seq: h.model.pages.seq, Err: err})

	if len(ended) != 1 || ended[0].Username != "buyer" || ended[0].Reason != "unauthorized" {
		t.Fatalf("session ended events = %+v", ended)
	}
	if !h.model.statusErr || !strings.Contains(h.model.status, "login") {
		t.Errorf("status = %q (err=%v)", h.model.status, h.model.statusErr)
	}
	if got := len(h.model.table.Rows()); got != 5 {
		t.Errorf("rows = %d, the previous page should stay", got)
	}
}

func TestHandleError_LogLevelByAudience(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		level  string
		status string
	}{
		{"user facing", errors.NewAPIError("list purchase requests", errors.ErrRequestFailed).WithStatus(502), "WARN", "HTTP 502"},
		{"internal", errors.New("nil page"), "ERROR", "see 'procdash logs'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, 200, 40)
			var logs bytes.Buffer
			h.model.logger = logging.NewWriterLogger(&logs, logging.LevelDebug)

			h.send(tuimsg.ErrMsg{Err: tt.err})

			if !strings.Contains(logs.String(), `"level":"`+tt.level+`"`) {
				t.Errorf("log = %s, want level %s", logs.String(), tt.level)
			}
			if !h.model.statusErr || !strings.Contains(h.model.status, tt.status) {
				t.Errorf("status = %q", h.model.status)
			}
		})
	}
}

func TestClearStatus_OnlyLatestNotice(t *testing.T) {
	h := newHarness(t, 200, 40)
	h.send(tuimsg.StatusMsg{Text: "first"})
	firstID := h.model.statusID
	h.send(tuimsg.StatusMsg{Text: "second"})

	h.send(tuimsg.ClearStatusMsg{ID: firstID})
	if h.model.status != "second" {
		t.Errorf("status = %q, older clear must not remove the newer notice", h.model.status)
	}
	h.send(tuimsg.ClearStatusMsg{ID: h.model.statusID})
	if h.model.status != "" {
		t.Errorf("status = %q, want cleared", h.model.status)
	}
}

func TestConfigReload_AppliesLiveSettings(t *testing.T) {
	h := newHarness(t, 200, 40)

	var reloaded []event.ConfigReloadedEvent
	h.bus.Subscribe(event.TypeConfigReloaded, func(e event.Event) {
		reloaded = append(reloaded, e.(event.ConfigReloadedEvent))
	})

	h.key(tea.KeyCtrlP)
	before, _ := h.model.dropdowns.get(dropdownPageSize).Position()

	cfg := config.Default()
	cfg.TUI.DebounceMs = 120
	cfg.TUI.DropdownOffset = 3
	h.send(tuimsg.ConfigReloadedMsg{Config: cfg})

	if h.model.sync.Quiet() != 120*time.Millisecond {
		t.Errorf("quiet = %v, want 120ms", h.model.sync.Quiet())
	}
	after, ok := h.model.dropdowns.get(dropdownPageSize).Position()
	if !ok || after.Top != before.Top+2 {
		t.Errorf("panel top = %d, want %d", after.Top, before.Top+2)
	}
	if len(reloaded) != 1 || reloaded[0].DebounceMs != 120 {
		t.Errorf("config.reloaded events = %+v", reloaded)
	}
}

func TestConfigError_KeepsSettings(t *testing.T) {
	h := newHarness(t, 200, 40)
	h.send(tuimsg.ConfigErrorMsg{Err: errors.NewValidationError("must be positive").WithField("tui.debounce_ms")})

	if h.model.sync.Quiet() != 500*time.Millisecond {
		t.Errorf("quiet = %v, want unchanged", h.model.sync.Quiet())
	}
	if !h.model.statusErr {
		t.Error("rejected config should be reported as an error")
	}
}

func TestTeardown_LaterMessagesAreNoOps(t *testing.T) {
	h := newHarness(t, 200, 40)
	countMsg := h.model.counter.Init()()

	h.key(tea.KeyCtrlP)
	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	h.typeText("7")
	dues := scheduled[filter.CommitDueMsg](h)
	if len(dues) != 1 {
		t.Fatalf("commits armed = %d, want 1", len(dues))
	}

	h.model.teardown()

	h.send(dues[0])
	h.send(countMsg)

	if len(h.model.sync.Committed()) != 0 {
		t.Error("commit applied after teardown")
	}
	if h.model.counter.Loaded() {
		t.Error("count applied after teardown")
	}
	if h.model.router.Len() != 0 {
		t.Error("pointer listener left attached")
	}
}

func TestView_RendersDashboard(t *testing.T) {
	h := newHarness(t, 200, 40)
	h.send(h.model.counter.Init()())

	view := h.model.View()
	for _, want := range []string{"Purchase requests", "42", "Request 1", "Request 5", "Page size: 20", "buyer", "page 1/3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q", want)
		}
	}

	// The open panel draws over the first rows.
	h.key(tea.KeyCtrlP)
	view = h.model.View()
	if !strings.Contains(view, "Purchase requests") || !strings.Contains(view, "page 1/3") {
		t.Error("header and footer should stay visible under the panel")
	}
	if !strings.Contains(view, "●   20") {
		t.Error("open page-size panel should mark the current size")
	}
}

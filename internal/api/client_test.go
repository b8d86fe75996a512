package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Iron-Ham/procdash/internal/auth"
	"github.com/Iron-Ham/procdash/internal/config"
	"github.com/Iron-Ham/procdash/internal/errors"
	"github.com/Iron-Ham/procdash/internal/testutil"
	"github.com/Iron-Ham/procdash/internal/tui/filter"
)

func newTestClient(t *testing.T, srv *testutil.APIServer, opts ...Option) *Client {
	t.Helper()
	session := auth.NewSession(srv.Username, srv.Token, srv.ExpiresAt, time.Now())
	c, err := NewClient(srv.BaseURL(), append([]Option{WithSession(srv.CookieName, session)}, opts...)...)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestNewClient_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "ftp://host/api", "http://"} {
		t.Run(raw, func(t *testing.T) {
			_, err := NewClient(raw)
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("NewClient(%q) error = %v, want invalid input", raw, err)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.API.BaseURL = "https://example.com/api/"
	cfg.API.TimeoutMs = 1500
	cfg.API.RequestsPerSecond = 0

	c, err := FromConfig(cfg, auth.Session{Token: "abc"}, nil)
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	if c.baseURL != "https://example.com/api" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
	if c.httpClient.Timeout != 1500*time.Millisecond {
		t.Errorf("timeout = %v", c.httpClient.Timeout)
	}
	if c.limiter != nil {
		t.Error("rps 0 should disable the limiter")
	}
	if c.token != "abc" || c.cookieName != cfg.Auth.CookieName {
		t.Errorf("session = %q/%q", c.cookieName, c.token)
	}
}

func TestClient_List(t *testing.T) {
	srv := testutil.NewAPIServer(t, testutil.SampleRecords(7))
	c := newTestClient(t, srv)

	page, err := c.List(context.Background(), Query{Page: 1, Size: 3})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.TotalElements != 7 || page.TotalPages != 3 || page.Number != 1 {
		t.Errorf("page meta = %+v", page)
	}
	if len(page.Content) != 3 || page.Content[0].ID != "004" {
		t.Fatalf("content = %+v", page.Content)
	}
	if got := page.Content[0].Field(filter.FieldBudget); got != "4000" {
		t.Errorf("budget = %q, want 4000", got)
	}
	if srv.LastRequestID() == "" {
		t.Error("X-Request-ID header not sent")
	}
}

func TestClient_ListFilters(t *testing.T) {
	srv := testutil.NewAPIServer(t, testutil.SampleRecords(6))
	c := newTestClient(t, srv)

	page, err := c.List(context.Background(), Query{
		Size:    10,
		Filters: filter.FieldSet{filter.FieldCompany: "GLOB", filter.FieldName: ""},
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.TotalElements != 3 {
		t.Errorf("TotalElements = %d, want 3", page.TotalElements)
	}
	for _, pr := range page.Content {
		if pr.Company != "globex" {
			t.Errorf("unexpected company %q", pr.Company)
		}
	}

	q := srv.LastQuery()
	if !strings.Contains(q, "company=GLOB") {
		t.Errorf("query %q missing company filter", q)
	}
	if strings.Contains(q, "name=") {
		t.Errorf("query %q should omit empty filters", q)
	}
}

func TestClient_ListCamelCaseParams(t *testing.T) {
	srv := testutil.NewAPIServer(t, testutil.SampleRecords(6))
	c := newTestClient(t, srv)

	page, err := c.List(context.Background(), Query{Size: 10, Filters: filter.FieldSet{filter.FieldPlanYear: "2025"}})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.TotalElements != 2 {
		t.Errorf("TotalElements = %d, want 2", page.TotalElements)
	}
	if !strings.Contains(srv.LastQuery(), "planYear=2025") {
		t.Errorf("query = %q", srv.LastQuery())
	}
}

func TestClient_TotalCount(t *testing.T) {
	srv := testutil.NewAPIServer(t, testutil.SampleRecords(42))
	c := newTestClient(t, srv)

	total, err := c.TotalCount(context.Background())
	if err != nil {
		t.Fatalf("TotalCount() error = %v", err)
	}
	if total != 42 {
		t.Errorf("TotalCount() = %d, want 42", total)
	}
	if q := srv.LastQuery(); !strings.Contains(q, "page=0") || !strings.Contains(q, "size=1") {
		t.Errorf("query = %q, want page=0&size=1", q)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	srv := testutil.NewAPIServer(t, nil)
	c, err := NewClient(srv.BaseURL(), WithSession(srv.CookieName, auth.Session{Token: "wrong"}))
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.List(context.Background(), Query{})
	if !errors.Is(err, errors.ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	var se *errors.SessionError
	if !errors.As(err, &se) {
		t.Errorf("error %T is not a SessionError", err)
	}
}

func TestClient_ServerError(t *testing.T) {
	srv := testutil.NewAPIServer(t, nil)
	srv.FailWith(http.StatusServiceUnavailable)
	c := newTestClient(t, srv)

	_, err := c.List(context.Background(), Query{})

	var apiErr *errors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable || apiErr.Endpoint != listPath {
		t.Errorf("APIError = %+v", apiErr)
	}
	if apiErr.RequestID == "" {
		t.Error("APIError should carry the request id")
	}
	if !errors.IsRetryable(err) {
		t.Error("503 should be retryable")
	}
	if !errors.Is(err, errors.ErrRequestFailed) {
		t.Error("error should match ErrRequestFailed")
	}
}

func TestClient_NotFound(t *testing.T) {
	srv := testutil.NewAPIServer(t, nil)
	srv.FailWith(http.StatusNotFound)
	c := newTestClient(t, srv)

	_, err := c.List(context.Background(), Query{})

	var nf *errors.NotFoundError
	if !errors.As(err, &nf) || nf.ResourceID != listPath {
		t.Fatalf("error = %v, want the endpoint reported missing", err)
	}
	if !errors.Is(err, errors.ErrRequestFailed) {
		t.Error("error should match ErrRequestFailed")
	}
	if errors.IsRetryable(err) {
		t.Error("404 should not be retryable")
	}
}

func TestErrorSnippet(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"short", "  bad filter  ", len("bad filter")},
		{"ascii cut", strings.Repeat("a", maxErrorBody+10), maxErrorBody},
		// "é" is two bytes; the limit falls inside the last one.
		{"rune boundary", "a" + strings.Repeat("é", maxErrorBody), maxErrorBody - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorSnippet([]byte(tt.body))
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("snippet %q is not valid UTF-8", got)
			}
		})
	}
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": "nope"`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.List(context.Background(), Query{})
	if !errors.Is(err, errors.ErrDecode) {
		t.Errorf("error = %v, want ErrDecode", err)
	}
}

func TestClient_Canceled(t *testing.T) {
	srv := testutil.NewAPIServer(t, nil)
	release := srv.Hold()
	defer release()
	c := newTestClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.List(ctx, Query{})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, errors.ErrCanceled) {
			t.Errorf("error = %v, want ErrCanceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("List did not return after cancel")
	}
}

func TestClient_SharesIdenticalQueries(t *testing.T) {
	srv := testutil.NewAPIServer(t, testutil.SampleRecords(3))
	release := srv.Hold()
	c := newTestClient(t, srv)

	const callers = 5
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.List(context.Background(), Query{Size: 2})
			errs <- err
		}()
	}

	// Give every caller time to join the in-flight request.
	time.Sleep(100 * time.Millisecond)
	release()
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("List() error = %v", err)
		}
	}
	if got := srv.ListCalls(); got != 1 {
		t.Errorf("server saw %d list calls, want 1", got)
	}
}

func TestClient_RateLimit(t *testing.T) {
	srv := testutil.NewAPIServer(t, nil)
	c := newTestClient(t, srv, WithRateLimit(20, 1))

	start := time.Now()
	for i := range 3 {
		if _, err := c.List(context.Background(), Query{Page: i}); err != nil {
			t.Fatalf("List() error = %v", err)
		}
	}
	// 1 burst token, then two waits of 50ms each.
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("3 requests at 20/s took %v, want >= ~100ms", elapsed)
	}
}

func TestClient_Login(t *testing.T) {
	srv := testutil.NewAPIServer(t, testutil.SampleRecords(2))
	c, err := NewClient(srv.BaseURL(), WithCookieName(srv.CookieName))
	if err != nil {
		t.Fatal(err)
	}

	s, err := c.Login(context.Background(), "ana", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if s.Token != srv.Token || s.Username != "ana" || s.Version != auth.SessionVersion {
		t.Errorf("session = %+v", s)
	}
	if !s.ExpiresAt.Equal(srv.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", s.ExpiresAt, srv.ExpiresAt)
	}

	// The client is authenticated after login.
	if _, err := c.List(context.Background(), Query{}); err != nil {
		t.Errorf("List() after login error = %v", err)
	}
}

func TestClient_LoginRejected(t *testing.T) {
	srv := testutil.NewAPIServer(t, nil)
	c, err := NewClient(srv.BaseURL())
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Login(context.Background(), "ana", "wrong")
	var se *errors.SessionError
	if !errors.As(err, &se) || se.Username != "ana" {
		t.Fatalf("error = %v, want SessionError for ana", err)
	}
	if !errors.Is(err, errors.ErrUnauthorized) {
		t.Error("error should match ErrUnauthorized")
	}
}

func TestClient_LoginCookieOnly(t *testing.T) {
	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "from-cookie", Expires: expires})
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithCookieName("sid"))
	if err != nil {
		t.Fatal(err)
	}

	s, err := c.Login(context.Background(), "bo", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if s.Token != "from-cookie" || !s.ExpiresAt.Equal(expires) {
		t.Errorf("session = %+v", s)
	}
}

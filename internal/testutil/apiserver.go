package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Record is one purchase request as the API serves it, keyed by JSON name.
type Record map[string]any

// APIServer is an in-memory purchase-request API. Filtering is a
// case-insensitive substring match of every non-paging query parameter
// against the record field of the same name.
type APIServer struct {
	*httptest.Server

	CookieName string
	Username   string
	Password   string
	Token      string
	ExpiresAt  time.Time

	mu       sync.Mutex
	records  []Record
	failWith int
	hold     chan struct{}

	listCalls  atomic.Int64
	lastQuery  atomic.Value
	lastReqIDs atomic.Value
}

// NewAPIServer starts a server holding records. It is closed when the test
// ends. The API root is s.URL + "/api".
func NewAPIServer(t *testing.T, records []Record) *APIServer {
	t.Helper()

	s := &APIServer{
		CookieName: "token",
		Username:   "ana",
		Password:   "secret",
		Token:      "tok-ana",
		ExpiresAt:  time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		records:    records,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/purchase-requests", s.handleList)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the API root to configure clients with.
func (s *APIServer) BaseURL() string {
	return s.URL + "/api"
}

// FailWith makes every list request answer with status until reset with 0.
func (s *APIServer) FailWith(status int) {
	s.mu.Lock()
	s.failWith = status
	s.mu.Unlock()
}

// Hold blocks list requests until the returned release func is called.
func (s *APIServer) Hold() (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.hold = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.hold = nil
			s.mu.Unlock()
			close(ch)
		})
	}
}

// ListCalls returns how many list requests reached the server.
func (s *APIServer) ListCalls() int64 {
	return s.listCalls.Load()
}

// LastQuery returns the raw query string of the latest list request.
func (s *APIServer) LastQuery() string {
	q, _ := s.lastQuery.Load().(string)
	return q
}

// LastRequestID returns the X-Request-ID of the latest list request.
func (s *APIServer) LastRequestID() string {
	id, _ := s.lastReqIDs.Load().(string)
	return id
}

func (s *APIServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if body.Username != s.Username || body.Password != s.Password {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: s.CookieName, Value: s.Token, Expires: s.ExpiresAt, Path: "/"})
	writeJSON(w, map[string]any{"token": s.Token, "expiresAt": s.ExpiresAt.Format(time.RFC3339)})
}

func (s *APIServer) handleList(w http.ResponseWriter, r *http.Request) {
	s.listCalls.Add(1)
	s.lastQuery.Store(r.URL.RawQuery)
	s.lastReqIDs.Store(r.Header.Get("X-Request-ID"))

	s.mu.Lock()
	fail, hold := s.failWith, s.hold
	records := append([]Record(nil), s.records...)
	s.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}

	if c, err := r.Cookie(s.CookieName); err != nil || c.Value != s.Token {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if fail != 0 {
		http.Error(w, http.StatusText(fail), fail)
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, err := strconv.Atoi(q.Get("size"))
	if err != nil || size <= 0 {
		size = 20
	}

	var matched []Record
	for _, rec := range records {
		if matches(rec, q) {
			matched = append(matched, rec)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return fmt.Sprint(matched[i]["id"]) < fmt.Sprint(matched[j]["id"])
	})

	total := len(matched)
	start := min(page*size, total)
	end := min(start+size, total)
	content := matched[start:end]
	if content == nil {
		content = []Record{}
	}

	writeJSON(w, map[string]any{
		"content":       content,
		"totalElements": total,
		"totalPages":    (total + size - 1) / size,
		"number":        page,
		"size":          size,
	})
}

func matches(rec Record, q map[string][]string) bool {
	for key, values := range q {
		if key == "page" || key == "size" || key == "sort" || len(values) == 0 {
			continue
		}
		got := strings.ToLower(fmt.Sprint(rec[key]))
		if !strings.Contains(got, strings.ToLower(values[0])) {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// SampleRecords returns n records with predictable values: record i has
// id i+1, name "request-<i+1>", company "acme" for even i and "globex" for
// odd i, and planYear 2024 + i%3.
func SampleRecords(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		company := "acme"
		if i%2 == 1 {
			company = "globex"
		}
		out[i] = Record{
			"id":           fmt.Sprintf("%03d", i+1),
			"name":         fmt.Sprintf("request-%d", i+1),
			"company":      company,
			"planYear":     strconv.Itoa(2024 + i%3),
			"budgetAmount": float64(1000 * (i + 1)),
			"title":        "Purchase " + strconv.Itoa(i+1),
		}
	}
	return out
}

// Package api is the HTTP client for the purchase-request API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/Iron-Ham/procdash/internal/auth"
	"github.com/Iron-Ham/procdash/internal/config"
	"github.com/Iron-Ham/procdash/internal/errors"
	"github.com/Iron-Ham/procdash/internal/logging"
)

const (
	// listPath is the purchase-request listing endpoint.
	listPath = "/purchase-requests"

	// loginPath exchanges credentials for a session token.
	loginPath = "/auth/login"

	// defaultTimeout is the per-request HTTP timeout.
	defaultTimeout = 10 * time.Second

	// maxErrorBody bounds how much of a failed response ends up in an error.
	maxErrorBody = 512
)

// Client talks to the purchase-request API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cookieName string
	token      string
	limiter    *rate.Limiter
	group      singleflight.Group
	logger     *logging.Logger
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRateLimit paces requests to rps per second with the given burst. A
// non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithSession authenticates requests with the session token sent as the
// named cookie.
func WithSession(cookieName string, s auth.Session) Option {
	return func(c *Client) {
		if cookieName != "" {
			c.cookieName = cookieName
		}
		c.token = s.Token
	}
}

// WithCookieName sets the session cookie name without a session, for login.
func WithCookieName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.cookieName = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.WithComponent("api")
		}
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.NewValidationError("invalid API base URL").
			WithField("api.base_url").
			WithValue(baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		cookieName: "token",
		logger:     logging.NopLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FromConfig builds a client from the api and auth config sections.
func FromConfig(cfg *config.Config, s auth.Session, logger *logging.Logger) (*Client, error) {
	return NewClient(cfg.API.BaseURL,
		WithTimeout(cfg.API.Timeout()),
		WithRateLimit(cfg.API.RequestsPerSecond, cfg.API.Burst),
		WithSession(cfg.Auth.CookieName, s),
		WithLogger(logger),
	)
}

// List fetches one page. Identical queries already in flight share the
// request and its result; callers must treat the returned Page as
// read-only.
func (c *Client) List(ctx context.Context, q Query) (*Page, error) {
	values := q.Values()
	key := values.Encode()

	v, err, shared := c.group.Do(key, func() (any, error) {
		return c.list(ctx, values)
	})
	if shared {
		c.logger.Debug("list request shared", "query", key)
	}
	if err != nil {
		return nil, err
	}
	return v.(*Page), nil
}

// TotalCount returns the number of purchase requests ignoring all filters.
func (c *Client) TotalCount(ctx context.Context) (int64, error) {
	page, err := c.List(ctx, Query{Page: 0, Size: 1})
	if err != nil {
		return 0, err
	}
	return page.TotalElements, nil
}

func (c *Client) list(ctx context.Context, values url.Values) (*Page, error) {
	reqID := uuid.NewString()
	endpoint := c.baseURL + listPath + "?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: c.token})
	}

	body, err := c.do(ctx, req, "list purchase requests", listPath, reqID)
	if err != nil {
		return nil, err
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, errors.NewAPIError("decode page", fmt.Errorf("%w: %v", errors.ErrDecode, err)).
			WithEndpoint(listPath).
			WithRequestID(reqID)
	}
	if page.Content == nil {
		page.Content = []PurchaseRequest{}
	}
	return &page, nil
}

// Login exchanges credentials for a session. The token comes from the
// response body or, failing that, from the session cookie.
func (c *Client) Login(ctx context.Context, username, password string) (auth.Session, error) {
	payload, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return auth.Session{}, errors.Wrap(err, "marshal request")
	}

	reqID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(payload))
	if err != nil {
		return auth.Session{}, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	resp, body, err := c.send(ctx, req, "login", loginPath, reqID)
	if err != nil {
		var se *errors.SessionError
		if errors.As(err, &se) {
			se.WithUsername(username)
		}
		return auth.Session{}, err
	}

	var lr loginResponse
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &lr); err != nil {
			return auth.Session{}, errors.NewAPIError("decode login response", fmt.Errorf("%w: %v", errors.ErrDecode, err)).
				WithEndpoint(loginPath).
				WithRequestID(reqID)
		}
	}

	var expires time.Time
	if lr.ExpiresAt != "" {
		if expires, err = time.Parse(time.RFC3339, lr.ExpiresAt); err != nil {
			return auth.Session{}, errors.NewAPIError("decode login expiry", fmt.Errorf("%w: %v", errors.ErrDecode, err)).
				WithEndpoint(loginPath).
				WithRequestID(reqID)
		}
	}

	token := lr.Token
	for _, ck := range resp.Cookies() {
		if ck.Name != c.cookieName {
			continue
		}
		if token == "" {
			token = ck.Value
		}
		if expires.IsZero() && !ck.Expires.IsZero() {
			expires = ck.Expires
		}
	}
	if token == "" {
		return auth.Session{}, errors.NewAPIError("login response carried no token", errors.ErrDecode).
			WithEndpoint(loginPath).
			WithRequestID(reqID)
	}

	c.token = token
	c.logger.Info("logged in", "username", username, "expires_at", expires)
	return auth.NewSession(username, token, expires, c.now()), nil
}

// do sends req and returns the body of a successful response.
func (c *Client) do(ctx context.Context, req *http.Request, op, path, reqID string) ([]byte, error) {
	_, body, err := c.send(ctx, req, op, path, reqID)
	return body, err
}

// send waits for the limiter, performs req and maps failures onto the
// error taxonomy.
func (c *Client) send(ctx context.Context, req *http.Request, op, path, reqID string) (*http.Response, []byte, error) {
	log := c.logger.WithRequest(reqID)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, c.transportError(ctx, op, path, reqID, err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", "op", op, "error", err.Error())
		return nil, nil, c.transportError(ctx, op, path, reqID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.NewAPIError(op, errors.Wrap(err, "read response")).
			WithEndpoint(path).
			WithRequestID(reqID).
			WithRetryable(true)
	}

	log.Debug("request done",
		"op", op,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		log.Warn("request rejected", "op", op, "status", resp.StatusCode)
		return nil, nil, errors.NewSessionError(op, errors.ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		log.Warn("request rejected", "op", op, "status", resp.StatusCode)
		msg := op
		if snippet := errorSnippet(body); snippet != "" {
			msg = op + " (" + snippet + ")"
		}
		var cause error = errors.ErrRequestFailed
		if resp.StatusCode == http.StatusNotFound {
			cause = errors.NewNotFoundError("endpoint", path).WithCause(errors.ErrRequestFailed)
		}
		return nil, nil, errors.NewAPIError(msg, cause).
			WithEndpoint(path).
			WithStatus(resp.StatusCode).
			WithRequestID(reqID)
	}
	return resp, body, nil
}

func (c *Client) transportError(ctx context.Context, op, path, reqID string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("%s: %w: %w", op, errors.ErrCanceled, err)
	case errors.Is(ctx.Err(), context.DeadlineExceeded), isTimeout(err):
		return errors.NewTimeoutError(op, c.httpClient.Timeout).WithCause(err)
	}
	return errors.NewAPIError(op, err).
		WithEndpoint(path).
		WithRequestID(reqID).
		WithRetryable(true)
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func errorSnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxErrorBody {
		return s
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

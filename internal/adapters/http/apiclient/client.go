// Package apiclient talks JSON to the parking backend. Every call prefixes
// the logical path with a fixed API root, sends session cookies, reads the
// body once and classifies the response as a Success or a Failure. A 401
// response evicts the cached session role before classification.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/okian/parkspot/pkg/logger"
	"github.com/okian/parkspot/pkg/metrics"
)

// DefaultRoot is the API root prefix.
const DefaultRoot = "/api"

// RequestIDHeader carries a per-call identifier.
const RequestIDHeader = "X-Request-ID"

const contentTypeJSON = "application/json"

// SessionClearer is the part of the session the client needs.
type SessionClearer interface {
	Clear(ctx context.Context) error
}

// Client issues API calls. It holds no per-call state and is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	baseURL    string
	root       string
	session    SessionClearer
	logger     logger.Logger
	requestIDs bool
}

// New creates a client. Without WithHTTPClient it uses a fresh http.Client
// with a cookie jar, so cookies set by the backend are sent back.
func New(opts ...Option) *Client {
	c := &Client{
		root:       DefaultRoot,
		logger:     logger.Nop(),
		requestIDs: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	var hc http.Client
	if c.httpClient != nil {
		hc = *c.httpClient
	}
	if hc.Jar == nil {
		hc.Jar = newJar()
	}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.httpClient = &hc
	return c
}

func newJar() http.CookieJar {
	// cookiejar.New only fails on invalid options.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return jar
}

// Jar exposes the cookie jar so callers can persist or seed cookies.
func (c *Client) Jar() http.CookieJar { return c.httpClient.Jar }

// URL returns the target URL for a logical path.
func (c *Client) URL(path string) string {
	return c.baseURL + c.root + path
}

// Do performs one call. POST, PUT and PATCH always send body as JSON, so a
// nil body goes out as null; other methods ignore body and send nothing.
// The returned error is non-nil only when no response was classified:
// marshal, request construction, transport or body read failures. Transport
// errors are returned as the http.Client produced them.
func (c *Client) Do(ctx context.Context, method, path string, body any) (Result, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	requestID := req.Header.Get(RequestIDHeader)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPITransportError(method)
		c.logger.Warn(ctx, "api request failed",
			logger.String("method", method),
			logger.String("path", path),
			logger.String("request_id", requestID),
			logger.Error(err))
		return nil, err
	}

	raw, err := readBody(resp)
	if err != nil {
		metrics.RecordAPITransportError(method)
		c.logger.Warn(ctx, "api response read failed",
			logger.String("method", method),
			logger.String("path", path),
			logger.String("request_id", requestID),
			logger.Error(err))
		return nil, err
	}
	parsed := parseResponse(resp.StatusCode, resp.Status, raw)

	if parsed.status == http.StatusUnauthorized {
		c.evictSession(ctx, path)
	}

	res := parsed.toResult(raw)
	elapsed := time.Since(start)
	outcome := "success"
	if !parsed.ok {
		outcome = "failure"
	}
	metrics.RecordAPIRequest(method, outcome, strconv.Itoa(parsed.status))
	metrics.RecordAPIRequestDuration(method, outcome, float64(elapsed.Milliseconds()))
	c.logger.Debug(ctx, "api request",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", parsed.status),
		logger.Duration("elapsed", elapsed),
		logger.String("request_id", requestID))

	return res, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	withBody := sendsBody(method)
	if withBody {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if withBody {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if c.requestIDs {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	return req, nil
}

func sendsBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// readBody reads and closes the response body exactly once.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// evictSession clears the session marker. Failures, panics included, are
// logged and swallowed so the call still completes.
func (c *Client) evictSession(ctx context.Context, path string) {
	if c.session == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordSessionClearFailure()
			c.logger.Warn(ctx, "session clear panicked", logger.String("path", path), logger.Any("panic", r))
		}
	}()

	if err := c.session.Clear(ctx); err != nil {
		metrics.RecordSessionClearFailure()
		c.logger.Warn(ctx, "session clear failed", logger.String("path", path), logger.Error(err))
		return
	}
	metrics.RecordSessionCleared()
	c.logger.Info(ctx, "session cleared after 401", logger.String("path", path))
}

// Get reads path.
func (c *Client) Get(ctx context.Context, path string) (any, error) {
	return c.call(ctx, http.MethodGet, path, nil)
}

// Post creates at path with body.
func (c *Client) Post(ctx context.Context, path string, body any) (any, error) {
	return c.call(ctx, http.MethodPost, path, body)
}

// Put updates path with body.
func (c *Client) Put(ctx context.Context, path string, body any) (any, error) {
	return c.call(ctx, http.MethodPut, path, body)
}

// Delete removes path.
func (c *Client) Delete(ctx context.Context, path string) (any, error) {
	return c.call(ctx, http.MethodDelete, path, nil)
}

// Fetch performs Do and decodes a successful body into out. A successful
// response without JSON leaves out untouched.
func (c *Client) Fetch(ctx context.Context, method, path string, body, out any) error {
	res, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	switch r := res.(type) {
	case Success:
		if out == nil || r.Value == nil {
			return nil
		}
		return r.Decode(out)
	case Failure:
		return r.Err()
	default:
		return fmt.Errorf("unexpected result %T", res)
	}
}

func (c *Client) call(ctx context.Context, method, path string, body any) (any, error) {
	res, err := c.Do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	switch r := res.(type) {
	case Success:
		return r.Value, nil
	case Failure:
		return nil, r.Err()
	default:
		return nil, fmt.Errorf("unexpected result %T", res)
	}
}

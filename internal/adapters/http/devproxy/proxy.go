// Package devproxy forwards API calls from the front-end origin to the
// backend during local development, so the browser sees a single origin.
package devproxy

import (
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/parkspot/pkg/logger"
	"github.com/okian/parkspot/pkg/metrics"
)

const requestIDHeader = "X-Request-ID"

var cookieDomainAttr = regexp.MustCompile(`(?i);\s*domain=[^;]*`)

// Proxy strips the API root from incoming paths and forwards them to the
// backend, rewriting cookie domains on the way back.
type Proxy struct {
	root         string
	target       *url.URL
	cookieDomain string
	logger       logger.Logger
	rp           *httputil.ReverseProxy
}

// Option applies a configuration option to the Proxy.
type Option func(*Proxy)

// WithRoot sets the prefix that is stripped before forwarding.
func WithRoot(root string) Option {
	return func(p *Proxy) {
		p.root = strings.TrimRight(root, "/")
	}
}

// WithCookieDomain sets the Domain written into proxied Set-Cookie headers.
// Empty leaves cookies untouched.
func WithCookieDomain(domain string) Option {
	return func(p *Proxy) {
		p.cookieDomain = domain
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Proxy) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithTransport replaces the transport used to reach the backend.
func WithTransport(rt http.RoundTripper) Option {
	return func(p *Proxy) {
		if rt != nil {
			p.rp.Transport = rt
		}
	}
}

// New creates a proxy to target.
func New(target *url.URL, opts ...Option) *Proxy {
	p := &Proxy{
		root:   "/api",
		target: target,
		logger: logger.Nop(),
	}
	p.rp = &httputil.ReverseProxy{
		Rewrite:        p.rewrite,
		ModifyResponse: p.modifyResponse,
		ErrorHandler:   p.handleError,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Pattern is the ServeMux pattern the proxy should be mounted on. Only paths
// below the root are forwarded.
func (p *Proxy) Pattern() string { return p.root + "/" }

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.rp.ServeHTTP(w, r)
}

func (p *Proxy) rewrite(pr *httputil.ProxyRequest) {
	pr.Out.URL.Path = p.strip(pr.In.URL.Path)
	if pr.In.URL.RawPath != "" {
		pr.Out.URL.RawPath = p.strip(pr.In.URL.RawPath)
	}
	// SetURL also points the Host header at the backend.
	pr.SetURL(p.target)
	pr.SetXForwarded()

	if pr.In.Header.Get(requestIDHeader) == "" {
		pr.Out.Header.Set(requestIDHeader, uuid.NewString())
	}
}

func (p *Proxy) strip(path string) string {
	path = strings.TrimPrefix(path, p.root)
	if path == "" {
		return "/"
	}
	return path
}

func (p *Proxy) modifyResponse(resp *http.Response) error {
	if p.cookieDomain == "" {
		return nil
	}
	cookies := resp.Header.Values("Set-Cookie")
	if len(cookies) == 0 {
		return nil
	}
	rewritten := make([]string, len(cookies))
	for i, c := range cookies {
		rewritten[i] = cookieDomainAttr.ReplaceAllStringFunc(c, func(string) string {
			return "; Domain=" + p.cookieDomain
		})
	}
	resp.Header.Del("Set-Cookie")
	for _, c := range rewritten {
		resp.Header.Add("Set-Cookie", c)
	}
	return nil
}

type errorResponse struct {
	Message string `json:"message"`
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	metrics.RecordProxyUpstreamError()
	p.logger.Error(r.Context(), "backend unreachable",
		logger.String("path", r.URL.Path),
		logger.String("backend", p.target.String()),
		logger.Error(err))

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	_ = json.NewEncoder(w).Encode(errorResponse{Message: "backend unavailable"})
}

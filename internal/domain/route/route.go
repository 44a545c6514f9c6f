// Package route holds the client-side route table: an ordered list of path
// patterns bound to views, with the access metadata a navigation guard needs.
package route

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Sentinel errors returned by New.
var (
	ErrInvalidPattern   = errors.New("invalid route pattern")
	ErrDuplicatePattern = errors.New("duplicate route pattern")
)

// View identifies a renderable page.
type View string

// Meta carries access requirements. The table never enforces them.
type Meta struct {
	RequiresAuth  bool
	RequiresAdmin bool
}

// IsZero reports whether no requirement is set.
func (m Meta) IsZero() bool { return !m.RequiresAuth && !m.RequiresAdmin }

// Route binds a pattern to a view. Segments written as ":name" capture any
// non-empty path segment under that name.
type Route struct {
	Pattern string
	View    View
	Meta    Meta
}

// Match is the result of a successful lookup.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
}

// Param returns the captured value for name, or "".
func (m Match) Param(name string) string { return m.Params[name] }

type segment struct {
	literal string
	param   string
}

type compiled struct {
	route    Route
	segments []segment
}

// Table is an immutable, ordered route list. Lookups walk it in declaration
// order and the first structural match wins.
type Table struct {
	entries []compiled
}

// New compiles routes in the given order.
func New(routes ...Route) (*Table, error) {
	t := &Table{entries: make([]compiled, 0, len(routes))}
	seen := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		segs, err := compile(r.Pattern)
		if err != nil {
			return nil, err
		}
		if r.View == "" {
			return nil, fmt.Errorf("%w: %q has no view", ErrInvalidPattern, r.Pattern)
		}
		key := shape(segs)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePattern, r.Pattern)
		}
		seen[key] = struct{}{}
		t.entries = append(t.entries, compiled{route: r, segments: segs})
	}
	return t, nil
}

// MustNew is New for package-level tables; it panics on error.
func MustNew(routes ...Route) *Table {
	t, err := New(routes...)
	if err != nil {
		panic(err)
	}
	return t
}

// Routes returns the routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.route
	}
	return out
}

// Match returns the first route whose pattern structurally matches path.
// Query and fragment are ignored, one trailing slash is tolerated and static
// segments compare case-insensitively.
func (t *Table) Match(path string) (Match, bool) {
	path = clean(path)
	parts := split(path)
	for _, e := range t.entries {
		params, ok := e.match(parts)
		if ok {
			return Match{Route: e.route, Path: path, Params: params}, true
		}
	}
	return Match{}, false
}

func (e compiled) match(parts []string) (map[string]string, bool) {
	if len(parts) != len(e.segments) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range e.segments {
		part := parts[i]
		if seg.param == "" {
			if !strings.EqualFold(seg.literal, part) {
				return nil, false
			}
			continue
		}
		if part == "" {
			return nil, false
		}
		if params == nil {
			params = make(map[string]string, 1)
		}
		if v, err := url.PathUnescape(part); err == nil {
			part = v
		}
		params[seg.param] = part
	}
	return params, true
}

func compile(pattern string) ([]segment, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("%w: %q must start with /", ErrInvalidPattern, pattern)
	}
	parts := split(clean(pattern))
	segs := make([]segment, len(parts))
	names := make(map[string]struct{})
	for i, p := range parts {
		if !strings.HasPrefix(p, ":") {
			segs[i] = segment{literal: p}
			continue
		}
		name := p[1:]
		if name == "" {
			return nil, fmt.Errorf("%w: %q has an unnamed parameter", ErrInvalidPattern, pattern)
		}
		if _, dup := names[name]; dup {
			return nil, fmt.Errorf("%w: %q repeats parameter %q", ErrInvalidPattern, pattern, name)
		}
		names[name] = struct{}{}
		segs[i] = segment{param: name}
	}
	return segs, nil
}

// shape is a key under which patterns differing only in parameter names or
// letter case collide.
func shape(segs []segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteByte('/')
		if s.param != "" {
			b.WriteByte(':')
			continue
		}
		b.WriteString(strings.ToLower(s.literal))
	}
	return b.String()
}

func clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

// split returns the segments after the leading slash; "/" yields none.
func split(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

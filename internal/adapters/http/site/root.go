// Package site serves the single-page application shell in history mode:
// real assets are served as files and every path known to the route table
// gets index.html so the client-side router can take over.
package site

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/okian/parkspot/internal/domain/route"
)

// Error constants.
var (
	ErrNoIndex = errors.New("site has no index.html")
)

const indexFile = "index.html"

// Handler serves assets from files and the shell for known routes.
type Handler struct {
	files  fs.FS
	table  *route.Table
	static http.Handler
}

// NewHandler creates a handler over files. A nil files uses the embedded shell.
func NewHandler(table *route.Table, files fs.FS) (*Handler, error) {
	if files == nil {
		files = FS()
	}
	if _, err := fs.Stat(files, indexFile); err != nil {
		return nil, ErrNoIndex
	}
	return &Handler{
		files:  files,
		table:  table,
		static: http.FileServer(http.FS(files)),
	}, nil
}

// Register attaches the site to mux at "/".
func Register(_ context.Context, mux *http.ServeMux, h *Handler) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", h)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/")
	if name == indexFile {
		h.serveIndex(w, r)
		return
	}
	if name != "" {
		if info, err := fs.Stat(h.files, name); err == nil && !info.IsDir() {
			h.static.ServeHTTP(w, r)
			return
		}
	}

	if _, ok := h.table.Match(r.URL.Path); !ok {
		http.NotFound(w, r)
		return
	}
	h.serveIndex(w, r)
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	b, err := fs.ReadFile(h.files, indexFile)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(b)
}

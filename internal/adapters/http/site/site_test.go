package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/okian/parkspot/internal/domain/route"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given the site registered on a mux", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()
		h, err := NewHandler(route.Default(), nil)
		So(err, ShouldBeNil)
		Register(ctx, mux, h)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			return w
		}

		Convey("Then the login view gets the shell", func() {
			w := get("/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, `<div id="app">`)
		})

		Convey("Then deep links into known views get the shell", func() {
			for _, p := range []string{"/lots", "/admin/summary", "/admin/lots/42/spots", "/reservations?tab=active"} {
				w := get(p)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `<div id="app">`)
			}
		})

		Convey("Then assets are served as files", func() {
			w := get("/app.css")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/css")
		})

		Convey("Then unknown paths are not found", func() {
			So(get("/admin/lots/42").Code, ShouldEqual, http.StatusNotFound)
			So(get("/missing.js").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then writes are rejected", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/lots", nil))
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestSiteCustomFiles(t *testing.T) {
	Convey("Given a custom file system", t, func() {
		Convey("When it has no index.html", func() {
			_, err := NewHandler(route.Default(), fstest.MapFS{"app.js": {Data: []byte("x")}})

			Convey("Then the handler is refused", func() {
				So(err, ShouldEqual, ErrNoIndex)
			})
		})

		Convey("When it has an index.html", func() {
			h, err := NewHandler(route.Default(), fstest.MapFS{"index.html": {Data: []byte("<p>dev</p>")}})
			So(err, ShouldBeNil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user", nil))

			Convey("Then known routes serve it", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldEqual, "<p>dev</p>")
			})
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		h, _ := NewHandler(route.Default(), nil)

		Convey("Then registering panics", func() {
			So(func() { Register(context.Background(), nil, h) }, ShouldPanic)
		})
	})
}

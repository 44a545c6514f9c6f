package parkctl_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/parkspot/internal/adapters/http/apiclient"
	"github.com/okian/parkspot/internal/adapters/store"
	"github.com/okian/parkspot/internal/navigation"
	"github.com/okian/parkspot/internal/parkctl"
	. "github.com/smartystreets/goconvey/convey"
)

// newBackend serves a tiny slice of the parking API under /api with a
// cookie-backed login.
func newBackend() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.Password != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		role := "user"
		if req.Username == "admin" {
			role = "admin"
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: req.Username, Path: "/"})
		_, _ = w.Write([]byte(`{"message":"Login successful","user_id":7,"role":"` + role + `"}`))
	})
	mux.HandleFunc("POST /api/logout", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "", Path: "/", MaxAge: -1})
		_, _ = w.Write([]byte(`{"message":"Logged out"}`))
	})
	mux.HandleFunc("GET /api/parkinglots", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if c, err := r.Cookie("session"); err != nil || c.Value == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Login required"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"prime_location_name":"Central"}]`))
	})
	mux.HandleFunc("POST /api/parkinglots/{id}/reserve", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			_, _ = w.Write([]byte(`{"message":"Unsupported Media Type"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Spot reserved","lot":"` + r.PathValue("id") + `"}`))
	})
	return httptest.NewServer(mux)
}

func TestRunner(t *testing.T) {
	Convey("Given a backend and a session file", t, func() {
		ctx := context.Background()
		srv := newBackend()
		defer srv.Close()

		cfg := &parkctl.Config{
			BaseURL:     srv.URL,
			APIRoot:     "/api",
			SessionFile: filepath.Join(t.TempDir(), "session.json"),
			Timeout:     5 * time.Second,
		}
		run := func(args ...string) (string, error) {
			var out bytes.Buffer
			r, err := parkctl.New(cfg, &out, nil)
			So(err, ShouldBeNil)
			err = r.Run(ctx, args)
			return out.String(), err
		}
		role := func() (string, bool) {
			v, ok, err := store.NewFile(cfg.SessionFile).Get(ctx, "role")
			So(err, ShouldBeNil)
			return v, ok
		}

		Convey("When nobody is logged in", func() {
			out, err := run("whoami")

			Convey("Then whoami says so", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "not logged in")
			})

			Convey("And protected reads fail with the backend message", func() {
				_, err := run("get", "/parkinglots")
				So(errors.Is(err, apiclient.ErrRequestFailed), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "Login required")
			})
		})

		Convey("When logging in", func() {
			out, err := run("login", "alice", "s3cret")

			Convey("Then the role is remembered", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "role: user")
				v, ok := role()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "user")
			})

			Convey("And the session cookie carries over to the next invocation", func() {
				out, err := run("get", "parkinglots")
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, `"prime_location_name": "Central"`)
			})

			Convey("And whoami prints the role", func() {
				out, err := run("whoami")
				So(err, ShouldBeNil)
				So(out, ShouldEqual, "user\n")
			})

			Convey("And the admin views are refused", func() {
				out, err := run("route", "/admin/lots/42/spots")
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "view:     lot-spots")
				So(out, ShouldContainSubstring, "param:    id=42")
				So(out, ShouldContainSubstring, "denied")
			})

			Convey("And logging out forgets both role and cookie", func() {
				_, err := run("logout")
				So(err, ShouldBeNil)
				_, ok := role()
				So(ok, ShouldBeFalse)

				_, err = run("get", "/parkinglots")
				So(errors.Is(err, apiclient.ErrRequestFailed), ShouldBeTrue)
			})
		})

		Convey("When the backend rejects a remembered session", func() {
			So(store.NewFile(cfg.SessionFile).Set(ctx, "role", "admin"), ShouldBeNil)
			out, err := run("get", "/parkinglots")

			Convey("Then the role marker is cleared from the file", func() {
				So(err, ShouldNotBeNil)
				So(out, ShouldContainSubstring, "session expired")
				_, ok := role()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a login is rejected", func() {
			_, err := run("login", "alice", "wrong")

			Convey("Then the backend message is returned and no role is stored", func() {
				So(err.Error(), ShouldEqual, "Invalid credentials")
				_, ok := role()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When posting without a JSON argument", func() {
			out, err := run("post", "/parkinglots/3/reserve")

			Convey("Then the request still declares JSON and succeeds", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, `"message": "Spot reserved"`)
				So(out, ShouldContainSubstring, `"lot": "3"`)
			})
		})

		Convey("When resolving routes without a session", func() {
			Convey("Then guarded views redirect to login", func() {
				out, err := run("route", "/admin/summary")
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "redirect to /")
			})

			Convey("And open views are allowed", func() {
				out, err := run("route", "/lots")
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "view:     parking-lots")
				So(out, ShouldContainSubstring, "allowed")
			})

			Convey("And unknown paths are reported", func() {
				_, err := run("route", "/nowhere")
				So(errors.Is(err, navigation.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the arguments are wrong", func() {
			cases := []struct {
				name string
				args []string
				kind error
			}{
				{"no command", nil, parkctl.ErrUsage},
				{"an unknown command", []string{"frobnicate"}, parkctl.ErrUsage},
				{"a get without a path", []string{"get"}, parkctl.ErrUsage},
				{"a login without a password", []string{"login", "alice"}, parkctl.ErrUsage},
				{"a malformed body", []string{"post", "/x", "{nope"}, parkctl.ErrInvalidBody},
			}
			for _, tc := range cases {
				_, err := run(tc.args...)
				So(errors.Is(err, tc.kind), ShouldBeTrue)
			}
		})

		Convey("When asked for help", func() {
			out, err := run("help")

			Convey("Then the command list is printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "login USER PASSWORD")
			})
		})
	})

	Convey("Given no session file", t, func() {
		srv := newBackend()
		defer srv.Close()
		ctx := context.Background()
		var out bytes.Buffer
		r, err := parkctl.New(&parkctl.Config{BaseURL: srv.URL, APIRoot: "/api"}, &out, nil)
		So(err, ShouldBeNil)

		Convey("When logging in and reading with the same runner", func() {
			So(r.Run(ctx, []string{"login", "admin", "s3cret"}), ShouldBeNil)
			err := r.Run(ctx, []string{"get", "/parkinglots"})

			Convey("Then the session lives in memory", func() {
				So(err, ShouldBeNil)
				So(r.Run(ctx, []string{"whoami"}), ShouldBeNil)
				So(out.String(), ShouldEndWith, "admin\n")
			})
		})
	})

	Convey("Given an invalid base URL", t, func() {
		_, err := parkctl.New(&parkctl.Config{BaseURL: "not a url", APIRoot: "/api"}, &bytes.Buffer{}, nil)

		Convey("Then New refuses it", func() {
			So(errors.Is(err, parkctl.ErrUsage), ShouldBeTrue)
		})
	})
}

package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/okian/parkspot/internal/adapters/store"
	"github.com/okian/parkspot/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStore(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		ctx := context.Background()
		s := store.NewMemory()

		Convey("When a value is set", func() {
			So(s.Set(ctx, "role", "admin"), ShouldBeNil)

			Convey("Then it can be read back", func() {
				v, ok, err := s.Get(ctx, "role")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "admin")
			})

			Convey("And deleting it twice is fine", func() {
				So(s.Delete(ctx, "role"), ShouldBeNil)
				So(s.Delete(ctx, "role"), ShouldBeNil)
				_, ok, _ := s.Get(ctx, "role")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When many goroutines clear the same session", func() {
			sess := session.New(s)
			So(sess.Login(ctx, session.RoleUser), ShouldBeNil)

			var wg sync.WaitGroup
			errs := make(chan error, 16)
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs <- sess.Clear(ctx)
				}()
			}
			wg.Wait()
			close(errs)

			Convey("Then every clear succeeds and the marker is gone", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
				So(sess.Authenticated(ctx), ShouldBeFalse)
			})
		})
	})
}

func TestFileStore(t *testing.T) {
	Convey("Given a file store in a fresh directory", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "state", "session.json")
		s := store.NewFile(path)

		Convey("Then reading before any write finds nothing", func() {
			_, ok, err := s.Get(ctx, "role")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
			So(s.Path(), ShouldEqual, path)
		})

		Convey("When values are written", func() {
			So(s.Set(ctx, "role", "admin"), ShouldBeNil)
			So(s.Set(ctx, "cookies", "session=abc"), ShouldBeNil)

			Convey("Then a second store on the same path sees them", func() {
				other := store.NewFile(path)
				v, ok, err := other.Get(ctx, "role")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "admin")
			})

			Convey("And no temp file is left behind", func() {
				leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
				So(err, ShouldBeNil)
				So(leftovers, ShouldBeEmpty)
			})

			Convey("And the file is private to the user", func() {
				info, err := os.Stat(path)
				So(err, ShouldBeNil)
				So(info.Mode().Perm(), ShouldEqual, os.FileMode(0o600))
			})

			Convey("And deleting one key keeps the other", func() {
				So(s.Delete(ctx, "role"), ShouldBeNil)
				So(s.Delete(ctx, "role"), ShouldBeNil)
				_, ok, _ := s.Get(ctx, "role")
				So(ok, ShouldBeFalse)
				v, _, _ := s.Get(ctx, "cookies")
				So(v, ShouldEqual, "session=abc")
			})
		})

		Convey("When separate stores write the same file concurrently", func() {
			writers := []*store.File{store.NewFile(path), store.NewFile(path)}
			var wg sync.WaitGroup
			errs := make(chan error, 2*20)
			for _, w := range writers {
				wg.Add(1)
				go func(w *store.File) {
					defer wg.Done()
					for i := 0; i < 20; i++ {
						errs <- w.Set(ctx, "role", "user")
					}
				}(w)
			}
			wg.Wait()
			close(errs)

			Convey("Then every write lands whole and no temp file remains", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
				v, ok, err := store.NewFile(path).Get(ctx, "role")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "user")
				leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
				So(leftovers, ShouldBeEmpty)
			})
		})

		Convey("When the file holds garbage", func() {
			So(os.MkdirAll(filepath.Dir(path), 0o700), ShouldBeNil)
			So(os.WriteFile(path, []byte("{not json"), 0o600), ShouldBeNil)

			Convey("Then reads report corruption", func() {
				_, _, err := s.Get(ctx, "role")
				So(errors.Is(err, store.ErrCorrupt), ShouldBeTrue)
			})

			Convey("And a session on top of it reports a store error", func() {
				err := session.New(s).Clear(ctx)
				So(errors.Is(err, session.ErrStore), ShouldBeTrue)
			})
		})
	})
}

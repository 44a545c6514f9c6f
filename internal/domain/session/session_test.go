package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/parkspot/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

type mapStore struct {
	data map[string]string
	err  error
}

func (m *mapStore) Get(_ context.Context, key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStore) Set(_ context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

func (m *mapStore) Delete(_ context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.data, key)
	return nil
}

func TestSession(t *testing.T) {
	Convey("Given an empty session", t, func() {
		ctx := context.Background()
		store := &mapStore{data: map[string]string{}}
		s := session.New(store)

		Convey("Then it is not authenticated", func() {
			_, ok, err := s.Role(ctx)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
			So(s.Authenticated(ctx), ShouldBeFalse)
			So(s.Privileged(ctx), ShouldBeFalse)
		})

		Convey("When an admin logs in", func() {
			So(s.Login(ctx, " admin "), ShouldBeNil)

			Convey("Then the role marker is stored under the role key", func() {
				So(store.data[session.RoleKey], ShouldEqual, session.RoleAdmin)
				So(s.Authenticated(ctx), ShouldBeTrue)
				So(s.Privileged(ctx), ShouldBeTrue)
			})

			Convey("And clearing twice leaves the marker absent", func() {
				So(s.Clear(ctx), ShouldBeNil)
				So(s.Clear(ctx), ShouldBeNil)
				_, ok := store.data[session.RoleKey]
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a regular user logs in", func() {
			So(s.Login(ctx, session.RoleUser), ShouldBeNil)

			Convey("Then they are authenticated but not privileged", func() {
				So(s.Authenticated(ctx), ShouldBeTrue)
				So(s.Privileged(ctx), ShouldBeFalse)
			})
		})

		Convey("When the role is blank", func() {
			err := s.Login(ctx, "  ")

			Convey("Then login is rejected", func() {
				So(errors.Is(err, session.ErrEmptyRole), ShouldBeTrue)
			})
		})

		Convey("When the store fails", func() {
			cause := errors.New("disk full")
			store.err = cause

			Convey("Then errors wrap both the kind and the cause", func() {
				err := s.Clear(ctx)
				So(errors.Is(err, session.ErrStore), ShouldBeTrue)
				So(errors.Is(err, cause), ShouldBeTrue)
				So(s.Authenticated(ctx), ShouldBeFalse)
			})
		})
	})
}

// Package session owns the locally cached role marker. It is created on
// login, read by the navigation guard and cleared by the API client when the
// backend answers 401.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// RoleKey is the single key this package keeps in its Store.
const RoleKey = "role"

// Roles issued by the backend.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Sentinel errors.
var (
	ErrEmptyRole = errors.New("empty role")
	ErrStore     = errors.New("session store failed")
)

// Store is a small persistent key-value store. Deleting an absent key is a
// no-op.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Session is the explicit session context shared by the API client and the
// navigation guard.
type Session struct {
	store Store
}

// New wraps store.
func New(store Store) *Session {
	return &Session{store: store}
}

// Login records the role returned by a successful login.
func (s *Session) Login(ctx context.Context, role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return ErrEmptyRole
	}
	if err := s.store.Set(ctx, RoleKey, role); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrStore, RoleKey, err)
	}
	return nil
}

// Role returns the cached role and whether one is present.
func (s *Session) Role(ctx context.Context) (string, bool, error) {
	role, ok, err := s.store.Get(ctx, RoleKey)
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %w", ErrStore, RoleKey, err)
	}
	if !ok || role == "" {
		return "", false, nil
	}
	return role, true, nil
}

// Authenticated reports whether a role marker exists. Store failures count
// as unauthenticated.
func (s *Session) Authenticated(ctx context.Context) bool {
	_, ok, err := s.Role(ctx)
	return err == nil && ok
}

// Privileged reports whether the cached role is admin.
func (s *Session) Privileged(ctx context.Context) bool {
	role, ok, err := s.Role(ctx)
	return err == nil && ok && role == RoleAdmin
}

// Clear removes the role marker. Clearing an empty session succeeds.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, RoleKey); err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrStore, RoleKey, err)
	}
	return nil
}

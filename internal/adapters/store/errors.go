package store

import "errors"

// Sentinel kinds for store errors.
var (
	ErrRead    = errors.New("store read failed")
	ErrWrite   = errors.New("store write failed")
	ErrCorrupt = errors.New("store file corrupt")
)

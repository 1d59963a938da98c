package model

import "errors"

// Storage-level outcomes shared by every table backend.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrMatchNotFound   = errors.New("match not found")
	ErrAlreadyPaired   = errors.New("user already paired in cycle")
	// ErrStaleWrite means a guarded update matched no row because the
	// observed values changed underneath it.
	ErrStaleWrite = errors.New("stale write")
)

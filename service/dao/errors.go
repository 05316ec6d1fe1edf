package dao

import "errors"

// Sentinel errors returned by every Service implementation; match them with
// errors.Is.
var (
	// ErrNotFound reports a missing record.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID reports an empty record id.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity reports an attempt to save nil.
	ErrNilEntity = errors.New("dao: nil entity")
)

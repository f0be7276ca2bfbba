package algo

import "errors"

var (
	// ErrInvalidInput is returned (wrapped) when an argument violates the
	// documented precondition in a way the function can detect cheaply.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoMatch is returned by [MatchKeysLocks] when keys and locks are not
	// the same multiset of sizes.
	ErrNoMatch = errors.New("no matching lock for key")
)

package mr

import "errors"

var (
	// ErrRelation wraps every failed relation check.
	ErrRelation = errors.New("relation violated")

	// ErrPanic wraps a panic recovered from a generator, the algorithm,
	// a transform or a check.
	ErrPanic = errors.New("panic")

	// ErrExec wraps an error returned by the algorithm for a generated or
	// transformed input. Generators only produce valid inputs, so this is
	// always a failure.
	ErrExec = errors.New("algorithm rejected input")

	// ErrUnknownRelation is returned when a relation filter names a
	// relation the suite does not define.
	ErrUnknownRelation = errors.New("unknown relation")
)

package mr

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Equal returns nil when want and got are deeply equal, otherwise an error
// wrapping [ErrRelation] with a (-want +got) diff. Nil and empty slices and
// maps compare equal.
func Equal[T any](want, got T, opts ...cmp.Option) error {
	opts = append(opts, cmpopts.EquateEmpty())

	if diff := cmp.Diff(want, got, opts...); diff != "" {
		return fmt.Errorf("%w (-want +got):\n%s", ErrRelation, diff)
	}

	return nil
}

// Expect returns nil when cond holds, otherwise an error wrapping
// [ErrRelation] with the formatted message.
func Expect(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrRelation, fmt.Sprintf(format, args...))
}

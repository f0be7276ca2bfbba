package suites

import (
	"slices"

	"github.com/calvinalkan/mrsuite/pkg/algo"
	"github.com/calvinalkan/mrsuite/pkg/mr"
)

// SearchInput is a sorted array and the value to look for.
type SearchInput struct {
	A      []int `json:"a"`
	Target int   `json:"target"`
}

const maxSearchLen = 40

type searchRelation = mr.Relation[SearchInput, int]

// BinarySearch returns the suite for [algo.BinarySearch].
func BinarySearch() *mr.Suite[SearchInput, int] {
	return &mr.Suite[SearchInput, int]{
		Name:     "binarysearch",
		Doc:      "leftmost index of a value in a sorted array",
		Generate: generateSearch,
		Exec: func(in SearchInput) (int, error) {
			return algo.BinarySearch(in.A, in.Target), nil
		},
		Clone: func(in SearchInput) SearchInput {
			return SearchInput{A: slices.Clone(in.A), Target: in.Target}
		},
		Relations: []searchRelation{
			{
				Name: "append-larger",
				Doc:  "appending a value above the maximum keeps the result",
				Transform: func(src mr.Source, in SearchInput) (SearchInput, bool) {
					in.A = append(in.A, upperBound(in)+1+src.IntN(10))

					return in, true
				},
				Check: sameResult,
			},
			{
				Name: "prepend-smaller",
				Doc:  "prepending a value below the minimum shifts a found index by one",
				Transform: func(src mr.Source, in SearchInput) (SearchInput, bool) {
					in.A = slices.Insert(in.A, 0, lowerBound(in)-1-src.IntN(10))

					return in, true
				},
				Check: func(c mr.Case[SearchInput, int]) error {
					want := -1
					if c.SourceOut != -1 {
						want = c.SourceOut + 1
					}

					return mr.Equal(want, c.FollowUpOut)
				},
			},
			{
				Name: "shift",
				Doc:  "adding a constant to every element and to the target keeps the result",
				Transform: func(src mr.Source, in SearchInput) (SearchInput, bool) {
					k := mr.IntRange(src, -1000, 1000)
					in.A = mapInts(in.A, func(v int) int { return v + k })
					in.Target += k

					return in, true
				},
				Check: sameResult,
			},
			{
				Name: "scale",
				Doc:  "multiplying every element and the target by a positive constant keeps the result",
				Transform: func(src mr.Source, in SearchInput) (SearchInput, bool) {
					c := mr.IntRange(src, 2, 10)
					in.A = mapInts(in.A, func(v int) int { return v * c })
					in.Target *= c

					return in, true
				},
				Check: sameResult,
			},
			{
				Name: "negate-reverse",
				Doc:  "searching -target in the reversed negated array finds the mirrored rightmost match",
				Transform: func(_ mr.Source, in SearchInput) (SearchInput, bool) {
					in.A = reversed(mapInts(in.A, func(v int) int { return -v }))
					in.Target = -in.Target

					return in, true
				},
				Check: func(c mr.Case[SearchInput, int]) error {
					if c.SourceOut == -1 {
						return mr.Equal(-1, c.FollowUpOut)
					}

					last := lastIndex(c.Source.A, c.Source.Target)

					return mr.Equal(len(c.Source.A)-1-last, c.FollowUpOut)
				},
			},
			{
				Name: "remove-target",
				Doc:  "removing every occurrence of the target makes it absent",
				Transform: func(_ mr.Source, in SearchInput) (SearchInput, bool) {
					in.A = slices.DeleteFunc(in.A, func(v int) bool { return v == in.Target })

					return in, true
				},
				Check: func(c mr.Case[SearchInput, int]) error {
					return mr.Equal(-1, c.FollowUpOut)
				},
			},
			{
				Name: "insert-absent",
				Doc:  "inserting an absent target at its sorted position finds it there",
				Transform: func(_ mr.Source, in SearchInput) (SearchInput, bool) {
					if slices.Contains(in.A, in.Target) {
						return in, false
					}

					in.A = slices.Insert(in.A, insertionPoint(in.A, in.Target), in.Target)

					return in, true
				},
				Check: func(c mr.Case[SearchInput, int]) error {
					if err := mr.Equal(-1, c.SourceOut); err != nil {
						return err
					}

					return mr.Equal(insertionPoint(c.Source.A, c.Source.Target), c.FollowUpOut)
				},
			},
			{
				Name: "duplicate-elements",
				Doc:  "writing every element twice doubles a found index",
				Transform: func(_ mr.Source, in SearchInput) (SearchInput, bool) {
					in.A = doubled(in.A)

					return in, true
				},
				Check: func(c mr.Case[SearchInput, int]) error {
					want := -1
					if c.SourceOut != -1 {
						want = 2 * c.SourceOut
					}

					return mr.Equal(want, c.FollowUpOut)
				},
			},
			{
				Name: "drop-smaller",
				Doc:  "dropping every element below the target moves a found index to 0",
				Transform: func(_ mr.Source, in SearchInput) (SearchInput, bool) {
					in.A = slices.DeleteFunc(in.A, func(v int) bool { return v < in.Target })

					return in, true
				},
				Check: func(c mr.Case[SearchInput, int]) error {
					want := -1
					if c.SourceOut != -1 {
						want = 0
					}

					return mr.Equal(want, c.FollowUpOut)
				},
			},
		},
	}
}

func generateSearch(src mr.Source) SearchInput {
	n := src.IntN(maxSearchLen + 1)
	a := make([]int, n)

	v := mr.IntRange(src, -100, 100)
	for i := range a {
		a[i] = v
		v += src.IntN(6)
	}

	in := SearchInput{A: a}

	if n > 0 && mr.Chance(src, 7, 10) {
		in.Target = mr.Pick(src, a)
	} else {
		in.Target = mr.IntRange(src, lowerBound(in)-5, upperBound(in)+5)
	}

	return in
}

func sameResult(c mr.Case[SearchInput, int]) error {
	return mr.Equal(c.SourceOut, c.FollowUpOut)
}

// lowerBound returns the smallest value in play: the first element or the
// target, whichever is smaller.
func lowerBound(in SearchInput) int {
	if len(in.A) == 0 {
		return in.Target
	}

	return min(in.A[0], in.Target)
}

// upperBound returns the largest value in play.
func upperBound(in SearchInput) int {
	if len(in.A) == 0 {
		return in.Target
	}

	return max(in.A[len(in.A)-1], in.Target)
}

func insertionPoint(a []int, target int) int {
	idx := slices.IndexFunc(a, func(v int) bool { return v >= target })
	if idx < 0 {
		return len(a)
	}

	return idx
}

func lastIndex(a []int, target int) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] == target {
			return i
		}
	}

	return -1
}

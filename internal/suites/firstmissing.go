package suites

import (
	"slices"

	"github.com/calvinalkan/mrsuite/pkg/algo"
	"github.com/calvinalkan/mrsuite/pkg/mr"
)

const maxMissingLen = 30

type missingRelation = mr.Relation[[]int, int]

// FirstMissingPositive returns the suite for [algo.FirstMissingPositive].
func FirstMissingPositive() *mr.Suite[[]int, int] {
	return &mr.Suite[[]int, int]{
		Name: "firstmissing",
		Doc:  "smallest positive integer absent from an array",
		Generate: func(src mr.Source) []int {
			// Values cluster around [1, n] so the answer is usually inside
			// the array's range rather than trivially 1.
			n := src.IntN(maxMissingLen + 1)

			return randomInts(src, n, -5, n+5)
		},
		Exec: func(in []int) (int, error) {
			return algo.FirstMissingPositive(in), nil
		},
		Clone: slices.Clone[[]int],
		Relations: []missingRelation{
			{
				Name: "permute",
				Doc:  "shuffling the array keeps the result",
				Transform: func(src mr.Source, in []int) ([]int, bool) {
					shuffleInts(src, in)

					return in, true
				},
				Check: sameMissing,
			},
			{
				Name: "add-non-positive",
				Doc:  "adding zeros and negative values keeps the result",
				Transform: func(src mr.Source, in []int) ([]int, bool) {
					extra := randomInts(src, mr.IntRange(src, 1, 5), -20, 0)
					in = append(in, extra...)
					shuffleInts(src, in)

					return in, true
				},
				Check: sameMissing,
			},
			{
				Name: "self-concat",
				Doc:  "duplicating every value keeps the result",
				Transform: func(_ mr.Source, in []int) ([]int, bool) {
					return append(in, in...), true
				},
				Check: sameMissing,
			},
			{
				Name: "deduplicate",
				Doc:  "removing duplicate values keeps the result",
				Transform: func(_ mr.Source, in []int) ([]int, bool) {
					slices.Sort(in)

					return slices.Compact(in), true
				},
				Check: sameMissing,
			},
			{
				Name: "add-result",
				Doc:  "adding the missing value makes the result strictly larger",
				Transform: func(_ mr.Source, in []int) ([]int, bool) {
					return append(in, algo.FirstMissingPositive(slices.Clone(in))), true
				},
				Check: func(c mr.Case[[]int, int]) error {
					return mr.Expect(c.FollowUpOut > c.SourceOut, "result %d not above %d after adding it", c.FollowUpOut, c.SourceOut)
				},
			},
			{
				Name: "remove-below-result",
				Doc:  "removing every copy of a value below the result makes that value the result",
				Transform: func(src mr.Source, in []int) ([]int, bool) {
					r := algo.FirstMissingPositive(slices.Clone(in))
					if r <= 1 {
						return in, false
					}

					v := mr.IntRange(src, 1, r-1)

					return slices.DeleteFunc(in, func(x int) bool { return x == v }), true
				},
				Check: func(c mr.Case[[]int, int]) error {
					removed := removedValue(c.Source, c.FollowUp)

					return mr.Equal(removed, c.FollowUpOut)
				},
			},
			{
				Name: "add-larger",
				Doc:  "adding values above the result keeps the result",
				Transform: func(src mr.Source, in []int) ([]int, bool) {
					r := algo.FirstMissingPositive(slices.Clone(in))
					for range mr.IntRange(src, 1, 5) {
						in = append(in, r+mr.IntRange(src, 1, 20))
					}

					return in, true
				},
				Check: sameMissing,
			},
		},
	}
}

func sameMissing(c mr.Case[[]int, int]) error {
	return mr.Equal(c.SourceOut, c.FollowUpOut)
}

// removedValue returns the value present in src but absent from dst.
// Returns 0 if there is none.
func removedValue(src, dst []int) int {
	for _, v := range src {
		if !slices.Contains(dst, v) {
			return v
		}
	}

	return 0
}

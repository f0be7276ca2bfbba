package suites

import (
	"slices"

	"github.com/calvinalkan/mrsuite/pkg/algo"
	"github.com/calvinalkan/mrsuite/pkg/mr"
)

const (
	maxSortLen   = 60
	sortValueMin = -100
	sortValueMax = 100
)

type sortRelation = mr.Relation[[]int, []int]

// QuickSort returns the suite for [algo.QuickSort], cross-checked against
// [algo.HeapSort].
func QuickSort() *mr.Suite[[]int, []int] {
	return sortSuite("quicksort", "in-place quicksort", algo.QuickSort[int], "heapsort", algo.HeapSort[int])
}

// HeapSort returns the suite for [algo.HeapSort], cross-checked against
// [algo.QuickSort].
func HeapSort() *mr.Suite[[]int, []int] {
	return sortSuite("heapsort", "in-place heap sort", algo.HeapSort[int], "quicksort", algo.QuickSort[int])
}

// sortSuite builds the shared sorting catalog around sortFn. other is an
// independent sort used for the differential relation.
func sortSuite(name, doc string, sortFn func([]int), otherName string, other func([]int)) *mr.Suite[[]int, []int] {
	sorted := func(s []int) []int {
		out := slices.Clone(s)
		sortFn(out)

		return out
	}

	return &mr.Suite[[]int, []int]{
		Name: name,
		Doc:  doc,
		Generate: func(src mr.Source) []int {
			return randomInts(src, src.IntN(maxSortLen+1), sortValueMin, sortValueMax)
		},
		Exec: func(in []int) ([]int, error) {
			sortFn(in)

			return in, nil
		},
		Clone: slices.Clone[[]int],
		Relations: []sortRelation{
			{
				Name: "permute",
				Doc:  "shuffling the input does not change the output",
				Transform: func(src mr.Source, in []int) ([]int, bool) {
					shuffleInts(src, in)

					return in, true
				},
				Check: sameSorted,
			},
			{
				Name: "reverse",
				Doc:  "reversing the input does not change the output",
				Transform: func(_ mr.Source, in []int) ([]int, bool) {
					slices.Reverse(in)

					return in, true
				},
				Check: sameSorted,
			},
			{
				Name: "shift",
				Doc:  "adding a constant to every element adds it to every output element",
				Transform: func(src mr.Source, in []int) ([]int, bool) {
					k := mr.IntRange(src, -1000, 1000)

					return mapInts(in, func(v int) int { return v + k }), true
				},
				Check: func(c mr.Case[[]int, []int]) error {
					if len(c.Source) == 0 {
						return mr.Equal(c.SourceOut, c.FollowUpOut)
					}

					k := c.FollowUp[0] - c.Source[0]

					return mr.Equal(mapInts(c.SourceOut, func(v int) int { return v + k }), c.FollowUpOut)
				},
			},
			{
				Name: "negate",
				Doc:  "negating the input yields the output negated and reversed",
				Transform: func(_ mr.Source, in []int) ([]int, bool) {
					return mapInts(in, func(v int) int { return -v }), true
				},
				Check: func(c mr.Case[[]int, []int]) error {
					return mr.Equal(reversed(mapInts(c.SourceOut, func(v int) int { return -v })), c.FollowUpOut)
				},
			},
			{
				Name: "self-concat",
				Doc:  "sorting the input concatenated with itself writes every output element twice",
				Transform: func(_ mr.Source, in []int) ([]int, bool) {
					return append(in, in...), true
				},
				Check: func(c mr.Case[[]int, []int]) error {
					return mr.Equal(doubled(c.SourceOut), c.FollowUpOut)
				},
			},
			{
				Name: "append-element",
				Doc:  "appending a value inserts it at its sorted position in the output",
				Transform: func(src mr.Source, in []int) ([]int, bool) {
					return append(in, mr.IntRange(src, sortValueMin-10, sortValueMax+10)), true
				},
				Check: func(c mr.Case[[]int, []int]) error {
					x := c.FollowUp[len(c.FollowUp)-1]
					want := slices.Insert(slices.Clone(c.SourceOut), insertionPoint(c.SourceOut, x), x)

					return mr.Equal(want, c.FollowUpOut)
				},
			},
			{
				Name: "remove-max",
				Doc:  "removing one largest element drops the last output element",
				Transform: func(_ mr.Source, in []int) ([]int, bool) {
					if len(in) == 0 {
						return in, false
					}

					i := maxIndex(in)

					return slices.Delete(in, i, i+1), true
				},
				Check: func(c mr.Case[[]int, []int]) error {
					return mr.Equal(c.SourceOut[:len(c.SourceOut)-1], c.FollowUpOut)
				},
			},
			{
				Name: "idempotent",
				Doc:  "sorting the output again leaves it unchanged",
				Transform: func(_ mr.Source, in []int) ([]int, bool) {
					return sorted(in), true
				},
				Check: func(c mr.Case[[]int, []int]) error {
					if err := mr.Equal(c.SourceOut, c.FollowUp); err != nil {
						return err
					}

					return mr.Equal(c.SourceOut, c.FollowUpOut)
				},
			},
			{
				Name: "agrees-with-" + otherName,
				Doc:  "the output equals what " + otherName + " produces for the same input",
				Transform: func(_ mr.Source, in []int) ([]int, bool) {
					return in, true
				},
				Check: func(c mr.Case[[]int, []int]) error {
					want := slices.Clone(c.Source)
					other(want)

					return mr.Equal(want, c.SourceOut)
				},
			},
		},
	}
}

func sameSorted(c mr.Case[[]int, []int]) error {
	return mr.Equal(c.SourceOut, c.FollowUpOut)
}

func maxIndex(s []int) int {
	best := 0
	for i, v := range s {
		if v > s[best] {
			best = i
		}
	}

	return best
}

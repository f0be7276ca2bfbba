package suites

import (
	"errors"
	"slices"

	"github.com/calvinalkan/mrsuite/pkg/algo"
	"github.com/calvinalkan/mrsuite/pkg/mr"
)

// KeyLockInput is a set of keys and a set of locks, given in any order.
type KeyLockInput struct {
	Keys  []int `json:"keys"`
	Locks []int `json:"locks"`
}

// KeyLockOutput is the arrangement [algo.MatchKeysLocks] produced, or
// NoMatch when it reported that some key has no lock.
type KeyLockOutput struct {
	Keys    []int `json:"keys,omitempty"`
	Locks   []int `json:"locks,omitempty"`
	NoMatch bool  `json:"no_match,omitempty"`
}

const maxPairs = 30

type keyLockRelation = mr.Relation[KeyLockInput, KeyLockOutput]

// KeyLock returns the suite for [algo.MatchKeysLocks].
func KeyLock() *mr.Suite[KeyLockInput, KeyLockOutput] {
	return &mr.Suite[KeyLockInput, KeyLockOutput]{
		Name:     "keylock",
		Doc:      "match keys to locks comparing only keys against locks",
		Generate: generateKeyLock,
		Exec: func(in KeyLockInput) (KeyLockOutput, error) {
			err := algo.MatchKeysLocks(in.Keys, in.Locks)
			if errors.Is(err, algo.ErrNoMatch) {
				return KeyLockOutput{NoMatch: true}, nil
			}

			if err != nil {
				return KeyLockOutput{}, err
			}

			return KeyLockOutput{Keys: in.Keys, Locks: in.Locks}, nil
		},
		Clone: func(in KeyLockInput) KeyLockInput {
			return KeyLockInput{Keys: slices.Clone(in.Keys), Locks: slices.Clone(in.Locks)}
		},
		Relations: []keyLockRelation{
			{
				Name: "permute-keys",
				Doc:  "shuffling the keys keeps the arrangement",
				Transform: func(src mr.Source, in KeyLockInput) (KeyLockInput, bool) {
					shuffleInts(src, in.Keys)

					return in, true
				},
				Check: sameArrangement,
			},
			{
				Name: "permute-locks",
				Doc:  "shuffling the locks keeps the arrangement",
				Transform: func(src mr.Source, in KeyLockInput) (KeyLockInput, bool) {
					shuffleInts(src, in.Locks)

					return in, true
				},
				Check: sameArrangement,
			},
			{
				Name: "swap-roles",
				Doc:  "treating the locks as keys and the keys as locks keeps the arrangement",
				Transform: func(_ mr.Source, in KeyLockInput) (KeyLockInput, bool) {
					return KeyLockInput{Keys: in.Locks, Locks: in.Keys}, true
				},
				Check: sameArrangement,
			},
			{
				Name: "shift-sizes",
				Doc:  "adding a constant to every size adds it to every matched pair",
				Transform: func(src mr.Source, in KeyLockInput) (KeyLockInput, bool) {
					k := mr.IntRange(src, -500, 500)
					add := func(v int) int { return v + k }

					return KeyLockInput{Keys: mapInts(in.Keys, add), Locks: mapInts(in.Locks, add)}, true
				},
				Check: func(c mr.Case[KeyLockInput, KeyLockOutput]) error {
					if len(c.Source.Keys) == 0 {
						return mr.Equal(c.SourceOut, c.FollowUpOut)
					}

					k := c.FollowUp.Keys[0] - c.Source.Keys[0]
					add := func(v int) int { return v + k }

					want := KeyLockOutput{Keys: mapInts(c.SourceOut.Keys, add), Locks: mapInts(c.SourceOut.Locks, add)}

					return mr.Equal(want, c.FollowUpOut)
				},
			},
			{
				Name: "add-pair",
				Doc:  "adding a fresh key and its lock inserts the pair at its sorted position",
				Transform: func(src mr.Source, in KeyLockInput) (KeyLockInput, bool) {
					size := freshSize(src, in.Keys)
					in.Keys = slices.Insert(in.Keys, src.IntN(len(in.Keys)+1), size)
					in.Locks = slices.Insert(in.Locks, src.IntN(len(in.Locks)+1), size)

					return in, true
				},
				Check: func(c mr.Case[KeyLockInput, KeyLockOutput]) error {
					size := removedValue(c.FollowUp.Keys, c.Source.Keys)
					pos := insertionPoint(c.SourceOut.Keys, size)

					want := KeyLockOutput{
						Keys:  slices.Insert(slices.Clone(c.SourceOut.Keys), pos, size),
						Locks: slices.Insert(slices.Clone(c.SourceOut.Locks), pos, size),
					}

					return mr.Equal(want, c.FollowUpOut)
				},
			},
			{
				Name: "break-lock",
				Doc:  "replacing one lock by a size no key has makes matching fail",
				Transform: func(src mr.Source, in KeyLockInput) (KeyLockInput, bool) {
					if len(in.Locks) == 0 {
						return in, false
					}

					in.Locks[src.IntN(len(in.Locks))] = freshSize(src, in.Keys)

					return in, true
				},
				Check: func(c mr.Case[KeyLockInput, KeyLockOutput]) error {
					return mr.Expect(c.FollowUpOut.NoMatch, "matched %v with %v although one lock fits no key", c.FollowUpOut.Keys, c.FollowUpOut.Locks)
				},
			},
			{
				Name: "agrees-with-sort",
				Doc:  "matched keys and locks both equal the sorted key sizes",
				Transform: func(_ mr.Source, in KeyLockInput) (KeyLockInput, bool) {
					return in, true
				},
				Check: func(c mr.Case[KeyLockInput, KeyLockOutput]) error {
					want := slices.Clone(c.Source.Keys)
					algo.QuickSort(want)

					return mr.Equal(KeyLockOutput{Keys: want, Locks: want}, c.SourceOut)
				},
			},
		},
	}
}

// generateKeyLock draws distinct sizes and hands them out as keys and as
// locks in two independent orders.
func generateKeyLock(src mr.Source) KeyLockInput {
	n := src.IntN(maxPairs + 1)
	base := mr.IntRange(src, -100, 100)

	sizes := mr.Perm(src, 3*n+1)[:n]
	for i := range sizes {
		sizes[i] += base
	}

	locks := slices.Clone(sizes)
	shuffleInts(src, locks)

	return KeyLockInput{Keys: sizes, Locks: locks}
}

// freshSize returns a size not in used. After a few unlucky draws it
// falls back to one above the largest used size, so exhausted byte streams
// cannot loop forever.
func freshSize(src mr.Source, used []int) int {
	for range 16 {
		size := mr.IntRange(src, -200, 200)
		if !slices.Contains(used, size) {
			return size
		}
	}

	if len(used) == 0 {
		return 0
	}

	return slices.Max(used) + 1
}

func sameArrangement(c mr.Case[KeyLockInput, KeyLockOutput]) error {
	return mr.Equal(c.SourceOut, c.FollowUpOut)
}

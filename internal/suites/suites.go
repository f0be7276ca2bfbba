// Package suites holds the metamorphic relation catalog for every algorithm
// in [algo]. Each catalog is a [mr.Suite]: an input generator honoring the
// algorithm's precondition plus the relations expected to hold.
package suites

import (
	"slices"

	"github.com/calvinalkan/mrsuite/pkg/mr"
)

// All returns every suite in a stable order.
func All() []mr.Runner {
	return []mr.Runner{
		BinarySearch(),
		QuickSort(),
		HeapSort(),
		EditDistance(),
		FirstMissingPositive(),
		Dijkstra(),
		KeyLock(),
		Regions(),
	}
}

// Names returns the names of all suites, in the order of [All].
func Names() []string {
	var names []string
	for _, r := range All() {
		names = append(names, r.Info().Name)
	}

	return names
}

// Lookup returns the suite called name.
func Lookup(name string) (mr.Runner, bool) {
	all := All()

	idx := slices.IndexFunc(all, func(r mr.Runner) bool { return r.Info().Name == name })
	if idx < 0 {
		return nil, false
	}

	return all[idx], true
}

// randomInts returns n values drawn uniformly from [lo, hi].
func randomInts(src mr.Source, n, lo, hi int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = mr.IntRange(src, lo, hi)
	}

	return out
}

func shuffleInts(src mr.Source, s []int) {
	mr.Shuffle(src, len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

func reversed[T any](s []T) []T {
	out := slices.Clone(s)
	slices.Reverse(out)

	return out
}

func mapInts(s []int, f func(int) int) []int {
	out := make([]int, len(s))
	for i, v := range s {
		out[i] = f(v)
	}

	return out
}

func doubled(s []int) []int {
	out := make([]int, 0, 2*len(s))
	for _, v := range s {
		out = append(out, v, v)
	}

	return out
}

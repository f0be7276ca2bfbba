package algo

import "cmp"

// QuickSort sorts s ascending in place.
//
// Lomuto partition around the middle element. Recurses into the smaller
// side and loops on the larger one, so stack depth stays O(log n).
func QuickSort[T cmp.Ordered](s []T) {
	lo, hi := 0, len(s)-1

	for lo < hi {
		p := partition(s, lo, hi)

		if p-lo < hi-p {
			QuickSort(s[lo:p])
			lo = p + 1
		} else {
			QuickSort(s[p+1 : hi+1])
			hi = p - 1
		}
	}
}

func partition[T cmp.Ordered](s []T, lo, hi int) int {
	mid := lo + (hi-lo)/2
	s[mid], s[hi] = s[hi], s[mid]
	pivot := s[hi]

	i := lo
	for j := lo; j < hi; j++ {
		if cmp.Less(s[j], pivot) {
			s[i], s[j] = s[j], s[i]
			i++
		}
	}

	s[i], s[hi] = s[hi], s[i]

	return i
}

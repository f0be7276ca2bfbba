package algo

// BinarySearch returns the lowest index i with a[i] == target, or -1 when
// target is absent. a must be sorted ascending.
func BinarySearch(a []int, target int) int {
	lo, hi := 0, len(a)

	// Invariant: a[:lo] < target <= a[hi:].
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if a[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo < len(a) && a[lo] == target {
		return lo
	}

	return -1
}

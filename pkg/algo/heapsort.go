package algo

import "cmp"

// HeapSort sorts s ascending in place using a binary max-heap.
func HeapSort[T cmp.Ordered](s []T) {
	n := len(s)

	for i := n/2 - 1; i >= 0; i-- {
		siftDown(s, i, n)
	}

	for end := n - 1; end > 0; end-- {
		s[0], s[end] = s[end], s[0]
		siftDown(s, 0, end)
	}
}

// siftDown restores the heap property for the subtree rooted at root,
// considering only s[:n].
func siftDown[T cmp.Ordered](s []T, root, n int) {
	for {
		child := 2*root + 1
		if child >= n {
			return
		}

		if child+1 < n && cmp.Less(s[child], s[child+1]) {
			child++
		}

		if !cmp.Less(s[root], s[child]) {
			return
		}

		s[root], s[child] = s[child], s[root]
		root = child
	}
}

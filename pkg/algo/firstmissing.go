package algo

// FirstMissingPositive returns the smallest integer >= 1 that does not
// occur in nums.
//
// nums is reordered in place: every value v in [1, len(nums)] is moved to
// index v-1. The contents (as a multiset) are unchanged.
func FirstMissingPositive(nums []int) int {
	n := len(nums)

	for i := range nums {
		for {
			v := nums[i]
			if v < 1 || v > n || nums[v-1] == v {
				break
			}

			nums[i], nums[v-1] = nums[v-1], nums[i]
		}
	}

	for i, v := range nums {
		if v != i+1 {
			return i + 1
		}
	}

	return n + 1
}

package algo

// EditDistance returns the Levenshtein distance between a and b, counted
// in runes. Insertions, deletions and substitutions each cost 1.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	// Single rolling row over b; prev[j] is the distance between the
	// processed prefix of a and rb[:j].
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i

		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}

		prev, cur = cur, prev
	}

	return prev[len(rb)]
}

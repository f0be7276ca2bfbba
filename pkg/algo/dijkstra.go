package algo

import "fmt"

// Unreachable is the distance reported for vertices with no path from the
// source.
const Unreachable = -1

// ShortestPaths returns the length of the shortest path from src to every
// vertex of the graph described by the adjacency matrix w.
//
// w must be square. w[i][j] > 0 is the weight of the edge i->j and 0 means
// there is no edge; the diagonal is ignored. Vertices that cannot be reached
// get [Unreachable].
//
// The next vertex to settle is found by a linear scan, which makes the
// whole run O(V^2). That is the right trade for dense adjacency matrices.
func ShortestPaths(w [][]int, src int) ([]int, error) {
	n := len(w)

	err := validateMatrix(w)
	if err != nil {
		return nil, err
	}

	if src < 0 || src >= n {
		return nil, fmt.Errorf("%w: source %d out of range [0,%d)", ErrInvalidInput, src, n)
	}

	dist := make([]int, n)
	done := make([]bool, n)

	for i := range dist {
		dist[i] = Unreachable
	}

	dist[src] = 0

	for range n {
		u := -1

		for v := range n {
			if done[v] || dist[v] == Unreachable {
				continue
			}

			if u == -1 || dist[v] < dist[u] {
				u = v
			}
		}

		if u == -1 {
			break
		}

		done[u] = true

		for v, weight := range w[u] {
			if v == u || weight == 0 || done[v] {
				continue
			}

			if alt := dist[u] + weight; dist[v] == Unreachable || alt < dist[v] {
				dist[v] = alt
			}
		}
	}

	return dist, nil
}

func validateMatrix(w [][]int) error {
	for i, row := range w {
		if len(row) != len(w) {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidInput, i, len(row), len(w))
		}

		for j, weight := range row {
			if weight < 0 {
				return fmt.Errorf("%w: negative weight %d at [%d][%d]", ErrInvalidInput, weight, i, j)
			}
		}
	}

	return nil
}

// CloneMatrix returns a deep copy of w.
func CloneMatrix(w [][]int) [][]int {
	if w == nil {
		return nil
	}

	out := make([][]int, len(w))
	for i, row := range w {
		out[i] = append([]int(nil), row...)
	}

	return out
}

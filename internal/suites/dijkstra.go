package suites

import (
	"fmt"

	"github.com/calvinalkan/mrsuite/pkg/algo"
	"github.com/calvinalkan/mrsuite/pkg/mr"
)

// GraphInput is an undirected weighted graph as a symmetric adjacency
// matrix plus the source vertex.
type GraphInput struct {
	W   [][]int `json:"w"`
	Src int     `json:"src"`
}

const (
	maxVertices = 12
	maxWeight   = 20
)

type graphRelation = mr.Relation[GraphInput, []int]

// Dijkstra returns the suite for [algo.ShortestPaths].
//
// Generated graphs are undirected, which is what makes the source-swapping
// relations valid.
func Dijkstra() *mr.Suite[GraphInput, []int] {
	return &mr.Suite[GraphInput, []int]{
		Name:     "dijkstra",
		Doc:      "single-source shortest paths over an adjacency matrix",
		Generate: generateGraph,
		Exec: func(in GraphInput) ([]int, error) {
			return algo.ShortestPaths(in.W, in.Src)
		},
		Clone: func(in GraphInput) GraphInput {
			return GraphInput{W: algo.CloneMatrix(in.W), Src: in.Src}
		},
		Relations: []graphRelation{
			{
				Name: "scale-weights",
				Doc:  "multiplying every weight by c multiplies every distance by c",
				Transform: func(src mr.Source, in GraphInput) (GraphInput, bool) {
					c := mr.IntRange(src, 2, 5)
					for _, row := range in.W {
						for j := range row {
							row[j] *= c
						}
					}

					return in, true
				},
				Check: func(c mr.Case[GraphInput, []int]) error {
					factor := scaleFactor(c.Source.W, c.FollowUp.W)
					want := mapInts(c.SourceOut, func(d int) int {
						if d == algo.Unreachable {
							return d
						}

						return d * factor
					})

					return mr.Equal(want, c.FollowUpOut)
				},
			},
			{
				Name: "relabel",
				Doc:  "renumbering the vertices renumbers the distances the same way",
				Transform: func(src mr.Source, in GraphInput) (GraphInput, bool) {
					return relabel(in, mr.Perm(src, len(in.W))), true
				},
				Check: func(c mr.Case[GraphInput, []int]) error {
					perm := recoverPerm(c.Source, c.FollowUp)
					if perm == nil {
						return fmt.Errorf("%w: cannot recover vertex mapping", mr.ErrRelation)
					}

					want := make([]int, len(c.SourceOut))
					for old, d := range c.SourceOut {
						want[perm[old]] = d
					}

					return mr.Equal(want, c.FollowUpOut)
				},
			},
			{
				Name: "add-edge",
				Doc:  "adding an edge never makes a distance longer or a vertex unreachable",
				Transform: func(src mr.Source, in GraphInput) (GraphInput, bool) {
					i, j, ok := pickPair(src, in.W, false)
					if !ok {
						return in, false
					}

					w := mr.IntRange(src, 1, maxWeight)
					in.W[i][j], in.W[j][i] = w, w

					return in, true
				},
				Check: func(c mr.Case[GraphInput, []int]) error {
					return notLonger(c.FollowUpOut, c.SourceOut)
				},
			},
			{
				Name: "remove-edge",
				Doc:  "removing an edge never makes a distance shorter or a vertex reachable",
				Transform: func(src mr.Source, in GraphInput) (GraphInput, bool) {
					i, j, ok := pickPair(src, in.W, true)
					if !ok {
						return in, false
					}

					in.W[i][j], in.W[j][i] = 0, 0

					return in, true
				},
				Check: func(c mr.Case[GraphInput, []int]) error {
					return notLonger(c.SourceOut, c.FollowUpOut)
				},
			},
			{
				Name: "swap-source",
				Doc:  "in an undirected graph d(s,t) equals d(t,s)",
				Transform: func(src mr.Source, in GraphInput) (GraphInput, bool) {
					in.Src = src.IntN(len(in.W))

					return in, true
				},
				Check: func(c mr.Case[GraphInput, []int]) error {
					return mr.Equal(c.SourceOut[c.FollowUp.Src], c.FollowUpOut[c.Source.Src])
				},
			},
			{
				Name: "neighbor-source",
				Doc:  "moving the source across an edge of weight w moves every distance by at most w",
				Transform: func(src mr.Source, in GraphInput) (GraphInput, bool) {
					var neighbors []int

					for v, w := range in.W[in.Src] {
						if v != in.Src && w > 0 {
							neighbors = append(neighbors, v)
						}
					}

					if len(neighbors) == 0 {
						return in, false
					}

					in.Src = mr.Pick(src, neighbors)

					return in, true
				},
				Check: func(c mr.Case[GraphInput, []int]) error {
					w := c.Source.W[c.Source.Src][c.FollowUp.Src]

					for v := range c.SourceOut {
						a, b := c.SourceOut[v], c.FollowUpOut[v]
						if (a == algo.Unreachable) != (b == algo.Unreachable) {
							return fmt.Errorf("%w: vertex %d reachable from only one of two adjacent sources", mr.ErrRelation, v)
						}

						if a != algo.Unreachable && abs(a-b) > w {
							return fmt.Errorf("%w: vertex %d moved from %d to %d across an edge of weight %d", mr.ErrRelation, v, a, b, w)
						}
					}

					return nil
				},
			},
			{
				Name: "add-isolated-vertex",
				Doc:  "adding a vertex without edges keeps every distance and leaves it unreachable",
				Transform: func(_ mr.Source, in GraphInput) (GraphInput, bool) {
					return addVertex(in, -1, 0), true
				},
				Check: func(c mr.Case[GraphInput, []int]) error {
					return mr.Equal(append(cloneInts(c.SourceOut), algo.Unreachable), c.FollowUpOut)
				},
			},
			{
				Name: "add-leaf",
				Doc:  "adding a vertex hanging off u by weight w keeps every distance and puts it at d(u)+w",
				Transform: func(src mr.Source, in GraphInput) (GraphInput, bool) {
					return addVertex(in, src.IntN(len(in.W)), mr.IntRange(src, 1, maxWeight)), true
				},
				Check: func(c mr.Case[GraphInput, []int]) error {
					n := len(c.Source.W)

					leafDist := algo.Unreachable

					for u, w := range c.FollowUp.W[n] {
						if w > 0 && c.SourceOut[u] != algo.Unreachable {
							leafDist = c.SourceOut[u] + w
						}
					}

					return mr.Equal(append(cloneInts(c.SourceOut), leafDist), c.FollowUpOut)
				},
			},
		},
	}
}

func generateGraph(src mr.Source) GraphInput {
	n := mr.IntRange(src, 1, maxVertices)
	density := mr.IntRange(src, 1, 6)

	w := make([][]int, n)
	for i := range w {
		w[i] = make([]int, n)
	}

	for i := range n {
		for j := i + 1; j < n; j++ {
			if mr.Chance(src, density, 10) {
				weight := mr.IntRange(src, 1, maxWeight)
				w[i][j], w[j][i] = weight, weight
			}
		}
	}

	return GraphInput{W: w, Src: src.IntN(n)}
}

// relabel moves vertex i to perm[i].
func relabel(in GraphInput, perm []int) GraphInput {
	n := len(in.W)

	w := make([][]int, n)
	for i := range w {
		w[i] = make([]int, n)
	}

	for i := range n {
		for j := range n {
			w[perm[i]][perm[j]] = in.W[i][j]
		}
	}

	return GraphInput{W: w, Src: perm[in.Src]}
}

// recoverPerm finds the relabeling that maps src onto dst. The transform
// used a random permutation the check cannot see, so it is rebuilt from
// the matrices: try every target for each vertex, backtracking on
// conflicts. Graphs are small enough for this to be instant.
func recoverPerm(src, dst GraphInput) []int {
	n := len(src.W)
	perm := make([]int, n)
	used := make([]bool, n)

	var assign func(i int) bool

	assign = func(i int) bool {
		if i == n {
			return true
		}

		for t := range n {
			if used[t] || (i == src.Src) != (t == dst.Src) {
				continue
			}

			ok := true

			for j := range i {
				if src.W[i][j] != dst.W[t][perm[j]] || src.W[j][i] != dst.W[perm[j]][t] {
					ok = false

					break
				}
			}

			if !ok {
				continue
			}

			perm[i], used[t] = t, true
			if assign(i + 1) {
				return true
			}

			used[t] = false
		}

		return false
	}

	if !assign(0) {
		return nil
	}

	return perm
}

// pickPair returns a random pair i < j that has an edge (withEdge) or has
// none (!withEdge).
func pickPair(src mr.Source, w [][]int, withEdge bool) (int, int, bool) {
	var pairs [][2]int

	for i := range w {
		for j := i + 1; j < len(w); j++ {
			if (w[i][j] > 0) == withEdge {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}

	if len(pairs) == 0 {
		return 0, 0, false
	}

	p := mr.Pick(src, pairs)

	return p[0], p[1], true
}

// addVertex appends a vertex connected to u with weight w, or isolated
// when u < 0.
func addVertex(in GraphInput, u, w int) GraphInput {
	n := len(in.W)

	for i := range in.W {
		in.W[i] = append(in.W[i], 0)
	}

	in.W = append(in.W, make([]int, n+1))

	if u >= 0 {
		in.W[u][n], in.W[n][u] = w, w
	}

	return in
}

// notLonger checks that every distance in shorter is reachable whenever it
// is in longer and never exceeds it.
func notLonger(shorter, longer []int) error {
	for v := range longer {
		if longer[v] == algo.Unreachable {
			continue
		}

		if shorter[v] == algo.Unreachable || shorter[v] > longer[v] {
			return fmt.Errorf("%w: vertex %d: %d should not exceed %d", mr.ErrRelation, v, shorter[v], longer[v])
		}
	}

	return nil
}

// scaleFactor returns the factor the transform multiplied weights by, or 1
// when the graph has no edges.
func scaleFactor(before, after [][]int) int {
	for i, row := range before {
		for j, w := range row {
			if w > 0 {
				return after[i][j] / w
			}
		}
	}

	return 1
}

func cloneInts(s []int) []int {
	return append([]int(nil), s...)
}

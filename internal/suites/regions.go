package suites

import (
	"encoding/json"
	"fmt"

	"github.com/calvinalkan/mrsuite/pkg/algo"
	"github.com/calvinalkan/mrsuite/pkg/mr"
)

// Board is a grid of [algo.Open] and [algo.Blocked] cells. It encodes to
// JSON as one string per row.
type Board [][]byte

// MarshalJSON implements [json.Marshaler].
func (b Board) MarshalJSON() ([]byte, error) {
	rows := make([]string, len(b))
	for i, row := range b {
		rows[i] = string(row)
	}

	return json.Marshal(rows)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (b *Board) UnmarshalJSON(data []byte) error {
	var rows []string

	err := json.Unmarshal(data, &rows)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}

	out := make(Board, len(rows))
	for i, row := range rows {
		out[i] = []byte(row)
	}

	*b = out

	return nil
}

const maxBoardSide = 9

type boardRelation = mr.Relation[Board, Board]

// Regions returns the suite for [algo.CaptureSurrounded].
func Regions() *mr.Suite[Board, Board] {
	capture := func(b Board) Board {
		out := Board(algo.CloneBoard(b))
		algo.CaptureSurrounded(out)

		return out
	}

	return &mr.Suite[Board, Board]{
		Name:     "regions",
		Doc:      "capture open regions not connected to the border",
		Generate: generateBoard,
		Exec: func(in Board) (Board, error) {
			err := algo.ValidateBoard(in)
			if err != nil {
				return nil, err
			}

			algo.CaptureSurrounded(in)

			return in, nil
		},
		Clone: func(in Board) Board { return algo.CloneBoard(in) },
		Relations: []boardRelation{
			geometric("transpose", "transposing the board transposes the result", transpose),
			geometric("flip-horizontal", "mirroring columns mirrors the result", flipHorizontal),
			geometric("flip-vertical", "mirroring rows mirrors the result", flipVertical),
			geometric("rotate", "rotating the board a quarter turn rotates the result", rotate),
			{
				Name: "idempotent",
				Doc:  "capturing the result again changes nothing, and capturing never opens cells",
				Transform: func(_ mr.Source, in Board) (Board, bool) {
					return capture(in), true
				},
				Check: func(c mr.Case[Board, Board]) error {
					if err := mr.Equal(c.SourceOut, c.FollowUpOut); err != nil {
						return err
					}

					return openSubset(c.SourceOut, c.Source)
				},
			},
			{
				Name: "frame-blocked",
				Doc:  "surrounding the board with blocked cells captures every open cell",
				Transform: func(_ mr.Source, in Board) (Board, bool) {
					return frame(in, algo.Blocked), true
				},
				Check: func(c mr.Case[Board, Board]) error {
					return mr.Equal(filled(len(c.FollowUp), len(c.FollowUp[0]), algo.Blocked), c.FollowUpOut)
				},
			},
			{
				Name: "frame-open",
				Doc:  "surrounding the board with open cells frames the result the same way",
				Transform: func(_ mr.Source, in Board) (Board, bool) {
					return frame(in, algo.Open), true
				},
				Check: func(c mr.Case[Board, Board]) error {
					return mr.Equal(frame(c.SourceOut, algo.Open), c.FollowUpOut)
				},
			},
			{
				Name: "open-border-cell",
				Doc:  "opening a blocked border cell keeps every surviving open cell open",
				Transform: func(src mr.Source, in Board) (Board, bool) {
					var cells [][2]int

					for r, row := range in {
						for c, v := range row {
							border := r == 0 || c == 0 || r == len(in)-1 || c == len(row)-1
							if border && v == algo.Blocked {
								cells = append(cells, [2]int{r, c})
							}
						}
					}

					if len(cells) == 0 {
						return in, false
					}

					cell := mr.Pick(src, cells)
					in[cell[0]][cell[1]] = algo.Open

					return in, true
				},
				Check: func(c mr.Case[Board, Board]) error {
					return openSubset(c.SourceOut, c.FollowUpOut)
				},
			},
		},
	}
}

// geometric builds a relation for a symmetry of the grid: the result of the
// transformed board must be the transformed result.
func geometric(name, doc string, f func(Board) Board) boardRelation {
	return boardRelation{
		Name: name,
		Doc:  doc,
		Transform: func(_ mr.Source, in Board) (Board, bool) {
			return f(in), true
		},
		Check: func(c mr.Case[Board, Board]) error {
			return mr.Equal(f(c.SourceOut), c.FollowUpOut)
		},
	}
}

func generateBoard(src mr.Source) Board {
	rows, cols := mr.IntRange(src, 1, maxBoardSide), mr.IntRange(src, 1, maxBoardSide)
	openPct := mr.IntRange(src, 30, 70)

	b := make(Board, rows)
	for r := range b {
		b[r] = make([]byte, cols)
		for c := range b[r] {
			b[r][c] = algo.Blocked
			if mr.Chance(src, openPct, 100) {
				b[r][c] = algo.Open
			}
		}
	}

	return b
}

func filled(rows, cols int, v byte) Board {
	b := make(Board, rows)
	for r := range b {
		b[r] = make([]byte, cols)
		for c := range b[r] {
			b[r][c] = v
		}
	}

	return b
}

func transpose(b Board) Board {
	if len(b) == 0 {
		return Board{}
	}

	out := make(Board, len(b[0]))
	for c := range out {
		out[c] = make([]byte, len(b))
		for r := range b {
			out[c][r] = b[r][c]
		}
	}

	return out
}

func flipHorizontal(b Board) Board {
	out := make(Board, len(b))
	for r, row := range b {
		out[r] = reversed(row)
	}

	return out
}

func flipVertical(b Board) Board {
	return reversed(algo.CloneBoard(b))
}

// rotate turns the board a quarter turn clockwise.
func rotate(b Board) Board {
	return flipHorizontal(transpose(b))
}

// frame returns b surrounded by a one-cell ring of v.
func frame(b Board, v byte) Board {
	rows, cols := len(b), 0
	if rows > 0 {
		cols = len(b[0])
	}

	out := filled(rows+2, cols+2, v)
	for r, row := range b {
		copy(out[r+1][1:], row)
	}

	return out
}

// openSubset checks that every open cell of sub is open in super.
func openSubset(sub, super Board) error {
	for r, row := range sub {
		for c, v := range row {
			if v == algo.Open && super[r][c] != algo.Open {
				return fmt.Errorf("%w: cell [%d][%d] was open and is now blocked", mr.ErrRelation, r, c)
			}
		}
	}

	return nil
}

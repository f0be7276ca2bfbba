package algo

import "fmt"

// Cell values used by [CaptureSurrounded].
const (
	Open    byte = 'O'
	Blocked byte = 'X'
)

// CaptureSurrounded flips, in place, every [Open] cell that is not
// 4-connected to the border of the board to [Blocked].
//
// The board must be rectangular and contain only [Open] and [Blocked]
// cells; see [ValidateBoard].
func CaptureSurrounded(board [][]byte) {
	rows := len(board)
	if rows == 0 {
		return
	}

	cols := len(board[0])

	// Mark border-connected open cells with a temporary value, then sweep.
	const safe byte = '#'

	var stack [][2]int

	push := func(r, c int) {
		if r < 0 || r >= rows || c < 0 || c >= cols || board[r][c] != Open {
			return
		}

		board[r][c] = safe
		stack = append(stack, [2]int{r, c})
	}

	for r := range rows {
		push(r, 0)
		push(r, cols-1)
	}

	for c := range cols {
		push(0, c)
		push(rows-1, c)
	}

	for len(stack) > 0 {
		cell := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		r, c := cell[0], cell[1]
		push(r-1, c)
		push(r+1, c)
		push(r, c-1)
		push(r, c+1)
	}

	for _, row := range board {
		for c, v := range row {
			switch v {
			case safe:
				row[c] = Open
			case Open:
				row[c] = Blocked
			}
		}
	}
}

// ValidateBoard reports whether board is rectangular and holds only
// [Open] and [Blocked] cells.
func ValidateBoard(board [][]byte) error {
	for r, row := range board {
		if len(row) != len(board[0]) {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidInput, r, len(row), len(board[0]))
		}

		for c, v := range row {
			if v != Open && v != Blocked {
				return fmt.Errorf("%w: cell [%d][%d] is %q", ErrInvalidInput, r, c, v)
			}
		}
	}

	return nil
}

// CloneBoard returns a deep copy of board.
func CloneBoard(board [][]byte) [][]byte {
	if board == nil {
		return nil
	}

	out := make([][]byte, len(board))
	for i, row := range board {
		out[i] = append([]byte(nil), row...)
	}

	return out
}

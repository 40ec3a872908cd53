package oracle

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/IlikeChooros/nttt/pkg/board"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

func state(t *testing.T, p0, p1 []int) board.State {
	t.Helper()
	s, err := board.FromCells(3, p0, p1)
	require.NoError(t, err)
	return s
}

func TestSolveThreeByThree(t *testing.T) {
	o, err := New(3)
	require.NoError(t, err)

	// Number of positions reachable in tic-tac-toe when play stops at a win
	require.Equal(t, 5478, o.Positions())

	score, ok := o.Score(board.State{})
	require.True(t, ok)
	require.Zero(t, score, "tic-tac-toe is a draw with perfect play")

	scores, err := o.MoveScores(board.State{})
	require.NoError(t, err)
	require.Len(t, scores, 9)
	for move, s := range scores {
		require.Zero(t, s, "opening move %d", move)
	}

	move, err := o.NextMove(board.State{})
	require.NoError(t, err)
	require.Equal(t, 0, move, "ties resolve to the lowest cell")
}

func TestNextMove(t *testing.T) {
	o, err := New(3)
	require.NoError(t, err)

	tests := []struct {
		name   string
		p0, p1 []int
		want   int
	}{
		{"win", []int{0, 1}, []int{3, 4}, 2},
		{"block", []int{4, 8}, []int{0, 1}, 2},
		// X X . / X O O / . . O, cell 2 both wins and blocks O's column
		{"win and block", []int{0, 1, 3}, []int{4, 8, 5}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			move, err := o.NextMove(state(t, tt.p0, tt.p1))
			require.NoError(t, err)
			require.Equal(t, tt.want, move)
		})
	}
}

func TestScores(t *testing.T) {
	o, err := New(3)
	require.NoError(t, err)

	// O to move, X threatens two lines at once (2 and 6), O is lost
	lost := state(t, []int{0, 1, 3}, []int{4, 8})
	score, ok := o.Score(lost)
	require.True(t, ok)
	require.Equal(t, -1, score)

	move, err := o.NextMove(lost)
	require.NoError(t, err, "a lost position still has a move")
	require.GreaterOrEqual(t, move, 0)

	// X to move with a winning line available
	won := state(t, []int{0, 1}, []int{3, 4})
	scores, err := o.MoveScores(won)
	require.NoError(t, err)
	require.Equal(t, 1, scores[2])
	require.Equal(t, -1, scores[6], "ignoring the threat on row 1 loses")
}

func TestErrors(t *testing.T) {
	_, err := New(4)
	require.ErrorIs(t, err, ErrTooLarge)

	_, err = New(0)
	require.ErrorIs(t, err, board.ErrBoardSize)

	o, err := New(3)
	require.NoError(t, err)

	_, err = o.NextMove(state(t, []int{0, 1, 2}, []int{3, 4}))
	require.ErrorIs(t, err, ErrGameOver)

	// O has more marks than X
	_, err = o.NextMove(state(t, []int{0}, []int{3, 4}))
	require.ErrorIs(t, err, ErrUnreachable)

	_, err = o.MoveScores(state(t, []int{0}, []int{3, 4}))
	require.ErrorIs(t, err, ErrUnreachable)
}

func TestSmallBoards(t *testing.T) {
	one, err := New(1)
	require.NoError(t, err)
	move, err := one.NextMove(board.State{})
	require.NoError(t, err)
	require.Equal(t, 0, move)
	score, _ := one.Score(board.State{})
	require.Equal(t, 1, score)

	two, err := New(2)
	require.NoError(t, err)
	score, _ = two.Score(board.State{})
	require.Equal(t, 1, score, "first player always wins on 2x2")
}

package board

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustPatterns(t *testing.T, size int) *Patterns {
	t.Helper()
	p, err := NewPatterns(size)
	require.NoError(t, err)
	return p
}

func TestApply(t *testing.T) {
	var s State

	next, err := s.Apply(Player0, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(1<<4), next.Bitboard(Player0))
	require.Zero(t, s.Occupied(), "Apply must not modify the receiver")

	_, err = next.Apply(Player1, 4)
	require.ErrorIs(t, err, ErrIllegalMove)

	_, err = next.Apply(Player0, 4)
	require.ErrorIs(t, err, ErrIllegalMove)

	_, err = next.Apply(Player1, -1)
	require.ErrorIs(t, err, ErrIllegalMove)

	_, err = next.Apply(NoPlayer, 0)
	require.ErrorIs(t, err, ErrIllegalMove)
}

func TestFromCells(t *testing.T) {
	s, err := FromCells(3, []int{0, 1}, []int{3, 4})
	require.NoError(t, err)
	require.Equal(t, Player0, s.At(1))
	require.Equal(t, Player1, s.At(3))
	require.Equal(t, NoPlayer, s.At(8))
	require.Equal(t, 4, s.MoveCount())
	require.Equal(t, Player0, s.ToMove())

	_, err = FromCells(3, []int{0}, []int{0})
	require.ErrorIs(t, err, ErrIllegalMove)

	_, err = FromCells(3, []int{9}, nil)
	require.ErrorIs(t, err, ErrIllegalMove)

	_, err = FromCells(9, nil, nil)
	require.ErrorIs(t, err, ErrBoardSize)
}

func TestWinner(t *testing.T) {
	p := mustPatterns(t, 3)

	tests := []struct {
		name   string
		p0, p1 []int
		want   Player
	}{
		{"empty", nil, nil, NoPlayer},
		{"row", []int{3, 4, 5}, []int{0, 1}, Player0},
		{"column", []int{0, 4}, []int{2, 5, 8}, Player1},
		{"diagonal", []int{0, 4, 8}, []int{1, 2}, Player0},
		{"anti diagonal", []int{0, 1, 3}, []int{2, 4, 6}, Player1},
		{"no line", []int{0, 1, 5}, []int{2, 3, 4}, NoPlayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FromCells(3, tt.p0, tt.p1)
			require.NoError(t, err)
			require.Equal(t, tt.want, s.Winner(p))
		})
	}
}

func TestTerminal(t *testing.T) {
	p := mustPatterns(t, 3)

	// X O X / X O O / O X X, no line
	draw, err := FromCells(3, []int{0, 2, 3, 7, 8}, []int{1, 4, 5, 6})
	require.NoError(t, err)
	require.True(t, draw.IsFull(3))
	terminal, winner := draw.Terminal(p)
	require.True(t, terminal)
	require.Equal(t, NoPlayer, winner)
	require.Empty(t, draw.LegalMoves(3))

	won, err := FromCells(3, []int{0, 1, 2}, []int{3, 4})
	require.NoError(t, err)
	terminal, winner = won.Terminal(p)
	require.True(t, terminal)
	require.Equal(t, Player0, winner)

	terminal, _ = State{}.Terminal(p)
	require.False(t, terminal)
}

func TestLegalMoves(t *testing.T) {
	s, err := FromCells(3, []int{0, 4}, []int{8})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 5, 6, 7}, s.LegalMoves(3))
	require.Len(t, State{}.LegalMoves(8), 64)
}

func TestApplyNeverReturnsPlayedCell(t *testing.T) {
	const size = 4
	r := rand.New(rand.NewSource(7))

	for game := 0; game < 200; game++ {
		var s State
		player := Player0
		for moves := s.LegalMoves(size); len(moves) > 0; moves = s.LegalMoves(size) {
			move := moves[r.Intn(len(moves))]

			next, err := s.Apply(player, move)
			require.NoError(t, err)
			require.NotContains(t, next.LegalMoves(size), move)
			require.Len(t, next.LegalMoves(size), len(moves)-1)

			s = next
			player = player.Other()
		}
	}
}

func TestDisjointBitboards(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for _, size := range []int{3, 4, 5, 8} {
		p := mustPatterns(t, size)
		for game := 0; game < 100; game++ {
			var s State
			player := Player0
			for {
				require.Zero(t, s.Bitboard(Player0)&s.Bitboard(Player1), "bitboards overlap: %v", s)
				if terminal, _ := s.Terminal(p); terminal {
					break
				}
				moves := s.LegalMoves(size)
				next, err := s.Apply(player, moves[r.Intn(len(moves))])
				require.NoError(t, err)
				s = next
				player = player.Other()
			}
		}
	}
}

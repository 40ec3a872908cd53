package board

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatternsThreeByThree(t *testing.T) {
	p := mustPatterns(t, 3)

	// Same patterns as the classic bitboard table, in rows/columns/diagonals order
	want := []uint64{
		0b000000111, 0b000111000, 0b111000000,
		0b001001001, 0b010010010, 0b100100100,
		0b100010001, 0b001010100,
	}
	require.Equal(t, want, p.Masks())
	require.Equal(t, uint64(0b111111111), p.FullMask())
	require.Equal(t, 9, p.Cells())
}

func TestPatternsSizes(t *testing.T) {
	for size := 1; size <= MaxSize; size++ {
		p := mustPatterns(t, size)
		require.Equal(t, 2*size+2, p.Len())
		for _, mask := range p.Masks() {
			require.Equal(t, size, bits.OnesCount64(mask))
			require.Zero(t, mask&^p.FullMask())
		}
	}

	require.Equal(t, ^uint64(0), mustPatterns(t, 8).FullMask())

	for _, size := range []int{-1, 0, 9} {
		_, err := NewPatterns(size)
		require.ErrorIs(t, err, ErrBoardSize)
	}
}

func TestPatternsForIsShared(t *testing.T) {
	a, err := PatternsFor(5)
	require.NoError(t, err)
	b, err := PatternsFor(5)
	require.NoError(t, err)
	require.Same(t, a, b)

	// Masks returns a copy, the shared table can't be modified through it
	masks := a.Masks()
	masks[0] = 0
	require.NotZero(t, b.Masks()[0])
}

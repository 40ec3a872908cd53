package board

import (
	"fmt"
	"sync"
)

// Winning lines of an n x n board as bitmasks, ordered: rows, columns,
// main diagonal, anti diagonal. Read-only after construction.
type Patterns struct {
	size  int
	full  uint64
	masks []uint64
}

var patternCache sync.Map // int -> *Patterns

// Build the 2n+2 winning patterns for a board with given side length
func NewPatterns(size int) (*Patterns, error) {
	if size < 1 || size > MaxSize {
		return nil, fmt.Errorf("%w: %d (allowed 1..%d)", ErrBoardSize, size, MaxSize)
	}

	masks := make([]uint64, 0, 2*size+2)

	for row := 0; row < size; row++ {
		var mask uint64
		for col := 0; col < size; col++ {
			mask |= cellBit(size, row, col)
		}
		masks = append(masks, mask)
	}

	for col := 0; col < size; col++ {
		var mask uint64
		for row := 0; row < size; row++ {
			mask |= cellBit(size, row, col)
		}
		masks = append(masks, mask)
	}

	var diag, anti uint64
	for i := 0; i < size; i++ {
		diag |= cellBit(size, i, i)
		anti |= cellBit(size, i, size-i-1)
	}
	masks = append(masks, diag, anti)

	return &Patterns{
		size:  size,
		full:  fullMask(size),
		masks: masks,
	}, nil
}

// Shared pattern table for given size, built once per process
func PatternsFor(size int) (*Patterns, error) {
	if p, ok := patternCache.Load(size); ok {
		return p.(*Patterns), nil
	}

	p, err := NewPatterns(size)
	if err != nil {
		return nil, err
	}

	actual, _ := patternCache.LoadOrStore(size, p)
	return actual.(*Patterns), nil
}

func cellBit(size, row, col int) uint64 {
	return 1 << uint(row*size+col)
}

func fullMask(size int) uint64 {
	cells := size * size
	if cells == 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(cells)) - 1
}

// Side length of the board
func (p *Patterns) Size() int {
	return p.size
}

// Number of cells, size^2
func (p *Patterns) Cells() int {
	return p.size * p.size
}

// Mask with every cell of the board set
func (p *Patterns) FullMask() uint64 {
	return p.full
}

// Number of winning lines (2n+2)
func (p *Patterns) Len() int {
	return len(p.masks)
}

// Copy of the pattern masks, in iteration order
func (p *Patterns) Masks() []uint64 {
	out := make([]uint64, len(p.masks))
	copy(out, p.masks)
	return out
}

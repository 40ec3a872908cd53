package board

import (
	"fmt"
	"math/bits"
)

// Board occupancy as two disjoint bit-sets, bit i is cell i = row*size + col.
// State is a value type: Apply returns a new state, the receiver is never modified.
type State struct {
	bitboards [2]uint64
}

// Build a state from cell lists, fails if any cell is out of range or taken twice
func FromCells(size int, p0, p1 []int) (State, error) {
	if size < 1 || size > MaxSize {
		return State{}, fmt.Errorf("%w: %d", ErrBoardSize, size)
	}

	var s State
	var err error
	cells := size * size
	for i, list := range [2][]int{p0, p1} {
		for _, c := range list {
			if c >= cells {
				return State{}, fmt.Errorf("%w: cell %d outside %dx%d board", ErrIllegalMove, c, size, size)
			}
			if s, err = s.Apply(Player(i), c); err != nil {
				return State{}, err
			}
		}
	}
	return s, nil
}

// Returns new state with 'move' set for 'player'
func (s State) Apply(player Player, move int) (State, error) {
	if !player.Valid() {
		return s, fmt.Errorf("%w: invalid player %d", ErrIllegalMove, player)
	}
	if move < 0 || move >= MaxSize*MaxSize {
		return s, fmt.Errorf("%w: cell %d out of range", ErrIllegalMove, move)
	}

	bit := uint64(1) << uint(move)
	if s.Occupied()&bit != 0 {
		return s, fmt.Errorf("%w: cell %d is occupied", ErrIllegalMove, move)
	}

	s.bitboards[player] |= bit
	return s, nil
}

// Bit-set of the given player's cells
func (s State) Bitboard(p Player) uint64 {
	if !p.Valid() {
		return 0
	}
	return s.bitboards[p]
}

func (s State) Occupied() uint64 {
	return s.bitboards[0] | s.bitboards[1]
}

// At returns the owner of a cell, or NoPlayer if it's empty
func (s State) At(cell int) Player {
	bit := uint64(1) << uint(cell)
	switch {
	case s.bitboards[0]&bit != 0:
		return Player0
	case s.bitboards[1]&bit != 0:
		return Player1
	}
	return NoPlayer
}

// Number of marks on the board
func (s State) MoveCount() int {
	return bits.OnesCount64(s.Occupied())
}

// Side to move, assuming Player0 always starts
func (s State) ToMove() Player {
	if bits.OnesCount64(s.bitboards[0]) > bits.OnesCount64(s.bitboards[1]) {
		return Player1
	}
	return Player0
}

// First player (rows, then columns, then diagonals) owning a full pattern
func (s State) Winner(p *Patterns) Player {
	for _, mask := range p.masks {
		if s.bitboards[0]&mask == mask {
			return Player0
		}
		if s.bitboards[1]&mask == mask {
			return Player1
		}
	}
	return NoPlayer
}

func (s State) IsFull(size int) bool {
	return s.Occupied() == fullMask(size)
}

// Terminal reports whether the game has ended and who won (NoPlayer on a draw)
func (s State) Terminal(p *Patterns) (bool, Player) {
	if w := s.Winner(p); w != NoPlayer {
		return true, w
	}
	return s.IsFull(p.size), NoPlayer
}

// Empty cells in ascending order
func (s State) LegalMoves(size int) []int {
	free := fullMask(size) &^ s.Occupied()
	moves := make([]int, 0, bits.OnesCount64(free))
	for free != 0 {
		moves = append(moves, bits.TrailingZeros64(free))
		free &= free - 1
	}
	return moves
}

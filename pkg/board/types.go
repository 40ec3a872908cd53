package board

import "errors"

type Player int8

const (
	NoPlayer Player = -1
	Player0  Player = 0
	Player1  Player = 1
)

// Largest supported side length, a board must fit in a single uint64
const MaxSize = 8

var (
	// Move targets an occupied cell or lies outside the board
	ErrIllegalMove = errors.New("illegal move")
	// Board size is outside [1, MaxSize]
	ErrBoardSize = errors.New("unsupported board size")
)

// Other returns the opponent, NoPlayer stays NoPlayer
func (p Player) Other() Player {
	switch p {
	case Player0:
		return Player1
	case Player1:
		return Player0
	}
	return NoPlayer
}

func (p Player) Valid() bool {
	return p == Player0 || p == Player1
}

func (p Player) String() string {
	switch p {
	case Player0:
		return "X"
	case Player1:
		return "O"
	}
	return "-"
}

// Package oracle solves small boards exhaustively. The whole game tree is
// walked once at construction, afterwards every reachable position has its
// best move and game-theoretic value ready in a table.
package oracle

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/IlikeChooros/nttt/pkg/board"
)

// Largest board solved exhaustively, 4x4 already has ~10^7 reachable positions
const MaxSize = 3

var (
	ErrTooLarge = errors.New("board too large for exhaustive search")
	// Position can't be reached from the empty board with Player0 starting
	ErrUnreachable = errors.New("unreachable position")
	// Position is already won or full
	ErrGameOver = errors.New("game is over")
)

type entry struct {
	move  int8 // -1 for terminal positions
	score int8 // -1 loss, 0 draw, +1 win, for the side to move
}

// Perfect player built by memoized backward induction. Read-only after New,
// safe to share between goroutines.
type Oracle struct {
	patterns *board.Patterns
	table    map[board.State]entry
}

func New(size int) (*Oracle, error) {
	if size > MaxSize {
		return nil, fmt.Errorf("%w: %dx%d (max %d)", ErrTooLarge, size, size, MaxSize)
	}

	patterns, err := board.PatternsFor(size)
	if err != nil {
		return nil, err
	}

	o := &Oracle{
		patterns: patterns,
		table:    make(map[board.State]entry),
	}
	o.solve(board.State{}, board.Player0)

	log.Debug().Int("size", size).Int("positions", len(o.table)).Msg("oracle-solved")
	return o, nil
}

// Negamax with memoization, returns the score for 'toMove'
func (o *Oracle) solve(s board.State, toMove board.Player) int8 {
	if e, ok := o.table[s]; ok {
		return e.score
	}

	if terminal, winner := s.Terminal(o.patterns); terminal {
		e := entry{move: -1, score: 0}
		if winner != board.NoPlayer {
			// The previous mover completed a line
			e.score = -1
		}
		o.table[s] = e
		return e.score
	}

	best := entry{move: -1, score: -2}
	for _, m := range s.LegalMoves(o.patterns.Size()) {
		child, err := s.Apply(toMove, m)
		if err != nil {
			panic(fmt.Sprintf("oracle: %v", err))
		}
		if score := -o.solve(child, toMove.Other()); score > best.score {
			best = entry{move: int8(m), score: score}
		}
	}

	o.table[s] = best
	return best.score
}

func (o *Oracle) Name() string {
	return "oracle"
}

func (o *Oracle) Size() int {
	return o.patterns.Size()
}

// Number of solved positions
func (o *Oracle) Positions() int {
	return len(o.table)
}

// Best move for the side to move, lowest cell index among equally good moves
func (o *Oracle) NextMove(s board.State) (int, error) {
	e, ok := o.table[s]
	if !ok {
		return -1, fmt.Errorf("%w: %v", ErrUnreachable, s)
	}
	if e.move < 0 {
		return -1, ErrGameOver
	}
	return int(e.move), nil
}

// Game-theoretic value of the position for the side to move
func (o *Oracle) Score(s board.State) (int, bool) {
	e, ok := o.table[s]
	return int(e.score), ok
}

// Value of every legal move, from the perspective of the side to move
func (o *Oracle) MoveScores(s board.State) (map[int]int, error) {
	if _, ok := o.table[s]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, s)
	}
	if terminal, _ := s.Terminal(o.patterns); terminal {
		return nil, ErrGameOver
	}

	toMove := s.ToMove()
	scores := make(map[int]int)
	for _, m := range s.LegalMoves(o.patterns.Size()) {
		child, _ := s.Apply(toMove, m)
		score, ok := o.Score(child)
		if !ok {
			return nil, fmt.Errorf("%w: child %d of %v", ErrUnreachable, m, s)
		}
		scores[m] = -score
	}
	return scores, nil
}

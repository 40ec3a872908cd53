package bench

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/IlikeChooros/nttt/pkg/board"
)

// A single played game
type GameRecord struct {
	ID     string       `json:"id"`
	Size   int          `json:"size"`
	X      string       `json:"x"`
	O      string       `json:"o"`
	Moves  []int        `json:"moves"`
	Winner board.Player `json:"winner"`
	Final  board.State  `json:"-"`
}

// Play one game from the empty board, 'x' moves first. 'onMove' (may be nil)
// is called after every move with the game so far.
func PlayGame(ctx context.Context, patterns *board.Patterns, x, o Bot, onMove func(GameRecord)) (GameRecord, error) {
	record := GameRecord{
		ID:     uuid.NewString(),
		Size:   patterns.Size(),
		X:      x.Name(),
		O:      o.Name(),
		Moves:  make([]int, 0, patterns.Cells()),
		Winner: board.NoPlayer,
	}
	bots := [2]Bot{x, o}
	state := board.State{}

	for {
		if terminal, winner := state.Terminal(patterns); terminal {
			record.Winner = winner
			return record, nil
		}
		if err := ctx.Err(); err != nil {
			return record, err
		}

		toMove := state.ToMove()
		bot := bots[toMove]
		move, err := bot.NextMove(state)
		if err != nil {
			return record, fmt.Errorf("%s as %v: %w", bot.Name(), toMove, err)
		}

		if move >= patterns.Cells() {
			return record, fmt.Errorf("%s as %v played %d: %w", bot.Name(), toMove, move, board.ErrIllegalMove)
		}
		next, err := state.Apply(toMove, move)
		if err != nil {
			return record, fmt.Errorf("%s as %v played %d: %w", bot.Name(), toMove, move, err)
		}

		state = next
		record.Final = state
		record.Moves = append(record.Moves, move)
		if onMove != nil {
			onMove(record)
		}
	}
}

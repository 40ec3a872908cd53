package bench

import (
	"errors"
	"math/rand"

	"github.com/IlikeChooros/nttt/pkg/board"
	"github.com/IlikeChooros/nttt/pkg/mcts"
	"github.com/IlikeChooros/nttt/pkg/oracle"
)

var ErrNoMoves = errors.New("no legal moves")

// Anything that can pick a cell for the side to move
type Bot interface {
	NextMove(board.State) (int, error)
	Name() string
}

// Builds a fresh bot for a single game, playing as the given player
type BotFactory func(board.Player) (Bot, error)

// Uniformly random legal moves
type RandomBot struct {
	size int
	rand *rand.Rand
}

func NewRandomBot(size int, seed int64) *RandomBot {
	return &RandomBot{size: size, rand: rand.New(rand.NewSource(seed))}
}

func (b *RandomBot) Name() string {
	return "random"
}

func (b *RandomBot) NextMove(s board.State) (int, error) {
	moves := s.LegalMoves(b.size)
	if len(moves) == 0 {
		return -1, ErrNoMoves
	}
	return moves[b.rand.Intn(len(moves))], nil
}

func RandomFactory(size int) BotFactory {
	return func(board.Player) (Bot, error) {
		return NewRandomBot(size, mcts.SeedGeneratorFn()), nil
	}
}

// New engine per game, seeded by mcts.SeedGeneratorFn unless opts say otherwise
func MCTSFactory(patterns *board.Patterns, opts ...mcts.Option) BotFactory {
	return func(player board.Player) (Bot, error) {
		e, err := mcts.New(patterns, player, opts...)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

// The oracle is read-only, every game shares the same instance
func OracleFactory(o *oracle.Oracle) BotFactory {
	return func(board.Player) (Bot, error) {
		return o, nil
	}
}
